package sentiment

import (
	"context"
	"testing"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error", "console", "stdout")
	m.Run()
}

func TestStubHonorsOutputContract(t *testing.T) {
	rating := 8
	reviews := []models.Review{
		{ID: "r1", Text: "great", Rating: &rating, Source: "imdb"},
		{ID: "r2", Text: "awful", Source: "imdb"},
	}

	a := NewStubAnalyzer()
	for i := 0; i < 50; i++ {
		records, err := a.AnalyzeBatch(context.Background(), reviews)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != len(reviews) {
			t.Fatalf("expected %d records, got %d", len(reviews), len(records))
		}
		for _, rec := range records {
			if rec.PredictedScore < 1 || rec.PredictedScore > 5 {
				t.Fatalf("predicted score %d out of [1,5]", rec.PredictedScore)
			}
			if rec.Confidence < 0 || rec.Confidence > 1 {
				t.Fatalf("confidence %f out of [0,1]", rec.Confidence)
			}
		}
		if records[0].OriginalScore == nil || *records[0].OriginalScore != 8 {
			t.Fatal("original source-native score not carried through")
		}
		if records[1].OriginalScore != nil {
			t.Fatal("expected nil original score for unrated review")
		}
	}
}

func TestParseScoreLines(t *testing.T) {
	scores := parseScoreLines("1: 5\n2: 0\n3: 9\nnot a line\n", 4)
	want := []int{5, 1, 5, 3}
	for i, w := range want {
		if scores[i] != w {
			t.Fatalf("score %d: expected %d, got %d (all %v)", i, w, scores[i], scores)
		}
	}
}
