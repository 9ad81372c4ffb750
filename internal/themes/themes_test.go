package themes

import (
	"math"
	"strings"
	"testing"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error", "console", "stdout")
	m.Run()
}

func TestEmptyInputYieldsEmptyResult(t *testing.T) {
	if got := Extract(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d themes", len(got))
	}
}

func TestSingleKeywordScore(t *testing.T) {
	reviews := []models.Review{
		{ID: "r1", Text: "The main character was compelling to watch.", Source: "imdb"},
	}

	scores := Extract(reviews)

	var got float64
	found := false
	for _, ts := range scores {
		if ts.Theme == "character_development" {
			got = ts.Score
			found = true
		}
	}
	if !found {
		t.Fatal("character_development not in extracted themes")
	}
	// one occurrence over six keywords and one review
	want := 1.0 / 6.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected score %.4f, got %.4f", want, got)
	}
}

func TestScoresSortedDescendingAndCapped(t *testing.T) {
	text := "story story story narrative plot character world setting mood tone " +
		"funny comedy twist surprise visual graphics pace slow dialogue script " +
		"action fight romance love horror scary drama tension moral choice"
	reviews := []models.Review{{ID: "r1", Text: text, Source: "imdb"}}

	scores := Extract(reviews)
	if len(scores) > 10 {
		t.Fatalf("expected at most 10 themes, got %d", len(scores))
	}
	for i := 1; i < len(scores); i++ {
		if scores[i].Score > scores[i-1].Score {
			t.Fatalf("scores not descending at %d: %v", i, scores)
		}
	}
	if scores[0].Theme != "storytelling" {
		t.Fatalf("expected storytelling on top, got %s", scores[0].Theme)
	}
}

func TestDistinctThemeNames(t *testing.T) {
	reviews := []models.Review{
		{ID: "r1", Text: strings.Repeat("story character world mood funny ", 5), Source: "imdb"},
	}
	scores := Extract(reviews)
	seen := map[string]bool{}
	for _, ts := range scores {
		if seen[ts.Theme] {
			t.Fatalf("duplicate theme %s", ts.Theme)
		}
		seen[ts.Theme] = true
	}
}

func TestBelowThresholdFallsBackToTopFive(t *testing.T) {
	// 100 reviews with a single keyword occurrence pushes every score under
	// the 0.01 threshold, triggering the top-5 fallback.
	reviews := make([]models.Review, 100)
	for i := range reviews {
		reviews[i] = models.Review{ID: "r", Text: "nothing relevant here at all", Source: "imdb"}
	}
	reviews[0].Text = "character"

	scores := Extract(reviews)
	if len(scores) != 5 {
		t.Fatalf("expected top-5 fallback, got %d themes", len(scores))
	}
}

func TestVocabularySize(t *testing.T) {
	if got := len(Vocabulary()); got != 20 {
		t.Fatalf("expected 20 themes in vocabulary, got %d", got)
	}
}
