package match

import (
	"math"
	"math/rand"
	"testing"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error", "console", "stdout")
	m.Run()
}

func prefs() []models.Preference {
	return []models.Preference{
		{ID: 1, Title: "Star Trek TNG", UserRating: 9, MediaType: "TV", Themes: []string{"philosophy", "character_development"}},
		{ID: 2, Title: "Fallout TV", UserRating: 9, MediaType: "TV", Themes: []string{"world_building", "humor"}},
		{ID: 3, Title: "Witcher 3", UserRating: 9, MediaType: "Game", Themes: []string{"world_building", "storytelling"}},
		{ID: 4, Title: "Some Flop", UserRating: 4, MediaType: "Movie", Themes: []string{"romance"}},
	}
}

func TestPreferredThemesFrequencyOrdered(t *testing.T) {
	got := NewScorer(prefs()).PreferredThemes()
	if len(got) != 5 {
		t.Fatalf("expected 5 themes, got %v", got)
	}
	if got[0] != "world_building" {
		t.Fatalf("expected world_building first (2 occurrences), got %v", got)
	}
	for _, theme := range got {
		if theme == "romance" {
			t.Fatal("low-rated preference themes must be excluded")
		}
	}
}

func TestThemeSimilarityNeutralWhenEitherSideEmpty(t *testing.T) {
	if got := ThemeSimilarity(nil, []string{"humor"}); got != 0.5 {
		t.Fatalf("empty title themes: expected 0.5, got %f", got)
	}
	if got := ThemeSimilarity([]models.ThemeScore{{Theme: "humor", Score: 0.4}}, nil); got != 0.5 {
		t.Fatalf("empty user themes: expected 0.5, got %f", got)
	}
}

func TestThemeSimilarityZeroWeight(t *testing.T) {
	titleThemes := []models.ThemeScore{
		{Theme: "humor", Score: 0},
		{Theme: "drama", Score: 0},
	}
	if got := ThemeSimilarity(titleThemes, []string{"humor"}); got != 0.3 {
		t.Fatalf("zero total weight: expected 0.3, got %f", got)
	}
}

func TestThemeSimilarityMatchBonus(t *testing.T) {
	titleThemes := []models.ThemeScore{
		{Theme: "humor", Score: 0.6},
		{Theme: "drama", Score: 0.4},
	}
	// base 0.6/1.0 plus one-match bonus 0.05
	got := ThemeSimilarity(titleThemes, []string{"humor"})
	if math.Abs(got-0.65) > 1e-9 {
		t.Fatalf("expected 0.65, got %f", got)
	}
}

func TestThemeSimilarityCappedAtOne(t *testing.T) {
	titleThemes := []models.ThemeScore{
		{Theme: "humor", Score: 0.5},
		{Theme: "drama", Score: 0.5},
	}
	got := ThemeSimilarity(titleThemes, []string{"humor", "drama"})
	if got != 1.0 {
		t.Fatalf("expected cap at 1.0, got %f", got)
	}
}

func TestSentimentAlignment(t *testing.T) {
	if got := SentimentAlignment(nil); got != 0.5 {
		t.Fatalf("empty sentiment: expected 0.5, got %f", got)
	}

	allThrees := []models.SentimentRecord{
		{PredictedScore: 3}, {PredictedScore: 3}, {PredictedScore: 3},
	}
	if got := SentimentAlignment(allThrees); got != 0.5 {
		t.Fatalf("all 3s: expected 0.5, got %f", got)
	}

	if got := SentimentAlignment([]models.SentimentRecord{{PredictedScore: 5}}); got != 1.0 {
		t.Fatalf("all 5s: expected 1.0, got %f", got)
	}
	if got := SentimentAlignment([]models.SentimentRecord{{PredictedScore: 1}}); got != 0.0 {
		t.Fatalf("all 1s: expected 0.0, got %f", got)
	}
}

func TestCompatibilityBoundsProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	vocab := []string{"humor", "drama", "mystery", "world_building", "philosophy", "action", "romance"}
	mediaTypes := []models.MediaType{models.MediaTypeTV, models.MediaTypeMovie, models.MediaTypeGame, models.MediaType("podcast")}

	for i := 0; i < 1000; i++ {
		var themes []models.ThemeScore
		for _, theme := range vocab {
			if rng.Intn(2) == 0 {
				themes = append(themes, models.ThemeScore{Theme: theme, Score: rng.Float64()})
			}
		}

		var sentiment []models.SentimentRecord
		for j := 0; j < rng.Intn(8); j++ {
			sentiment = append(sentiment, models.SentimentRecord{PredictedScore: 1 + rng.Intn(5)})
		}

		var preferences []models.Preference
		for j := 0; j < rng.Intn(5); j++ {
			preferences = append(preferences, models.Preference{
				UserRating: 1 + rng.Intn(10),
				Themes:     vocab[:rng.Intn(len(vocab))],
			})
		}

		score := NewScorer(preferences).Compatibility(themes, sentiment, mediaTypes[rng.Intn(len(mediaTypes))])
		if score < 0 || score > 1 {
			t.Fatalf("iteration %d: score %f out of [0,1]", i, score)
		}
	}
}

func TestUnknownMediaTypeUsesDefaultWeights(t *testing.T) {
	themes := []models.ThemeScore{{Theme: "philosophy", Score: 0.5}}
	sentiment := []models.SentimentRecord{{PredictedScore: 3}}

	s := NewScorer(prefs())
	// theme_similarity = 1/1 + 0.05 = 1.0 capped; narrative weight 0.8
	got := s.Compatibility(themes, sentiment, models.MediaType("book"))
	want := 1.0*0.8*0.7 + 0.5*0.3
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %f, got %f", want, got)
	}
}

func TestMatchingTitlesOrderedByOverlap(t *testing.T) {
	themes := []models.ThemeScore{
		{Theme: "world_building", Score: 0.5},
		{Theme: "storytelling", Score: 0.4},
	}

	got := NewScorer(prefs()).MatchingTitles(themes)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %v", got)
	}
	if got[0].Title != "Witcher 3" {
		t.Fatalf("expected full-overlap Witcher 3 first, got %s", got[0].Title)
	}
	if got[1].Title != "Fallout TV" {
		t.Fatalf("expected Fallout TV second, got %s", got[1].Title)
	}
}
