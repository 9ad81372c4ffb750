package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_history (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		media_type TEXT NOT NULL,
		recommendation TEXT NOT NULL,
		compatibility_score REAL NOT NULL,
		reviews_extracted INTEGER NOT NULL,
		reviews_filtered INTEGER NOT NULL,
		degraded INTEGER DEFAULT 0,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analysis_title ON analysis_history(title);
	CREATE INDEX IF NOT EXISTS idx_analysis_created ON analysis_history(created_at);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertAnalysisRecord(record *models.AnalysisRecord) error {
	query := `
		INSERT INTO analysis_history (id, title, media_type, recommendation, compatibility_score,
			reviews_extracted, reviews_filtered, degraded, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	degraded := 0
	if record.Degraded {
		degraded = 1
	}

	_, err := c.db.Exec(
		query,
		record.ID,
		record.Title,
		record.MediaType,
		record.Recommendation,
		record.CompatibilityScore,
		record.ReviewsExtracted,
		record.ReviewsFiltered,
		degraded,
		record.LatencyMS,
		record.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert analysis record: %w", err)
	}

	logger.Debug("Analysis recorded",
		zap.String("analysis_id", record.ID),
		zap.String("title", record.Title),
		zap.Float64("score", record.CompatibilityScore),
	)

	return nil
}

func (c *Client) GetRecentAnalyses(limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, title, media_type, recommendation, compatibility_score,
			reviews_extracted, reviews_filtered, degraded, latency_ms, created_at
		FROM analysis_history
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := c.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis history: %w", err)
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var r models.AnalysisRecord
		var degraded int
		var createdAt int64

		err := rows.Scan(&r.ID, &r.Title, &r.MediaType, &r.Recommendation, &r.CompatibilityScore,
			&r.ReviewsExtracted, &r.ReviewsFiltered, &degraded, &r.LatencyMS, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		r.Degraded = degraded == 1
		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}

	return records, nil
}
