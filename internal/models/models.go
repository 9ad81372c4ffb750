package models

import "time"

type MediaType string

const (
	MediaTypeTV    MediaType = "tv"
	MediaTypeMovie MediaType = "movie"
	MediaTypeGame  MediaType = "game"
)

func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(s) {
	case MediaTypeTV, MediaTypeMovie, MediaTypeGame:
		return MediaType(s), true
	}
	return "", false
}

type TitleInfo struct {
	Name           string    `json:"name"`
	MediaType      MediaType `json:"media_type"`
	IMDbURL        string    `json:"imdb_url,omitempty"`
	SteamURL       string    `json:"steam_url,omitempty"`
	MetacriticURL  string    `json:"metacritic_url,omitempty"`
}

// Review is a single user review pulled from one platform. Rating is on the
// source platform's native scale (IMDb 1-10, Steam 0/1, Metacritic 0-10) and
// must only be interpreted together with Source.
type Review struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Rating *int   `json:"rating"`
	Source string `json:"source"`
}

type ThemeScore struct {
	Theme string  `json:"theme"`
	Score float64 `json:"score"`
}

// SentimentRecord is the per-review output of a sentiment analyzer.
// PredictedScore is an integer in [1,5]; Confidence is in [0,1].
type SentimentRecord struct {
	ReviewID       string  `json:"review_id"`
	PredictedScore int     `json:"predicted_score"`
	Confidence     float64 `json:"confidence"`
	OriginalScore  *int    `json:"original_score"`
}

type SentimentSummary struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

type MatchingTitle struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

type AnalysisResult struct {
	Title              string           `json:"title"`
	Recommendation     string           `json:"recommendation"`
	Reasoning          string           `json:"reasoning"`
	CompatibilityScore float64          `json:"compatibility_score"`
	ThemeAlignment     []ThemeScore     `json:"theme_alignment"`
	SentimentSummary   SentimentSummary `json:"sentiment_summary"`
	Summary            string           `json:"summary"`
	MatchingTitles     []MatchingTitle  `json:"matching_titles"`
	DegradedSources    []string         `json:"degraded_sources"`
	ReviewsExtracted   int              `json:"reviews_extracted"`
	ReviewsAnalyzed    int              `json:"reviews_analyzed"`
	Confidence         float64          `json:"confidence"`
	AnalysisID         string           `json:"analysis_id"`
	Timestamp          time.Time        `json:"timestamp"`
}

type Preference struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	UserRating int       `json:"user_rating"`
	MediaType  string    `json:"media_type"`
	Themes     []string  `json:"themes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at,omitempty"`
}

// AnalysisRecord is the persisted trace of one completed analysis.
type AnalysisRecord struct {
	ID                 string
	Title              string
	MediaType          string
	Recommendation     string
	CompatibilityScore float64
	ReviewsExtracted   int
	ReviewsFiltered    int
	Degraded           bool
	LatencyMS          int
	CreatedAt          time.Time
}
