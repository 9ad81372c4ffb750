package sqlite

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", "console", "stdout"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	if err := client.InitSchema(); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}
	return client
}

func record(id, title string, createdAt time.Time) *models.AnalysisRecord {
	return &models.AnalysisRecord{
		ID:                 id,
		Title:              title,
		MediaType:          "game",
		Recommendation:     "Worth Trying",
		CompatibilityScore: 0.65,
		ReviewsExtracted:   20,
		ReviewsFiltered:    3,
		Degraded:           true,
		LatencyMS:          120,
		CreatedAt:          createdAt,
	}
}

func TestInsertAndGetRecent(t *testing.T) {
	client := newTestClient(t)

	now := time.Now()
	if err := client.InsertAnalysisRecord(record("analysis_1", "Witcher 3", now.Add(-time.Hour))); err != nil {
		t.Fatalf("InsertAnalysisRecord: %v", err)
	}
	if err := client.InsertAnalysisRecord(record("analysis_2", "Fallout TV", now)); err != nil {
		t.Fatalf("InsertAnalysisRecord: %v", err)
	}

	records, err := client.GetRecentAnalyses(10)
	if err != nil {
		t.Fatalf("GetRecentAnalyses: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "analysis_2" {
		t.Errorf("expected newest record first, got %s", records[0].ID)
	}

	got := records[0]
	if got.Title != "Fallout TV" || got.CompatibilityScore != 0.65 || !got.Degraded {
		t.Errorf("round-tripped record mismatch: %+v", got)
	}
	if got.ReviewsExtracted != 20 || got.ReviewsFiltered != 3 {
		t.Errorf("review counts mismatch: %+v", got)
	}
}

func TestGetRecentAnalysesLimit(t *testing.T) {
	client := newTestClient(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		r := record("analysis_"+string(rune('a'+i)), "Title", base.Add(time.Duration(i)*time.Minute))
		if err := client.InsertAnalysisRecord(r); err != nil {
			t.Fatalf("InsertAnalysisRecord: %v", err)
		}
	}

	records, err := client.GetRecentAnalyses(3)
	if err != nil {
		t.Fatalf("GetRecentAnalyses: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
}

func TestGetRecentAnalysesEmpty(t *testing.T) {
	client := newTestClient(t)

	records, err := client.GetRecentAnalyses(0)
	if err != nil {
		t.Fatalf("GetRecentAnalyses: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
