package filter

import (
	"strings"
	"testing"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error", "console", "stdout")
	m.Run()
}

func review(id, text string) models.Review {
	return models.Review{ID: id, Text: text, Source: "imdb"}
}

func TestShortReviewDropped(t *testing.T) {
	out := Apply([]models.Review{review("r1", "ten chars.")})
	if len(out) != 0 {
		t.Fatalf("expected short review dropped, kept %d", len(out))
	}
}

func TestOversizedReviewDropped(t *testing.T) {
	out := Apply([]models.Review{review("r1", strings.Repeat("long words here ", 400))})
	if len(out) != 0 {
		t.Fatalf("expected oversized review dropped, kept %d", len(out))
	}
}

func TestSpamDroppedRegardlessOfLength(t *testing.T) {
	reviews := []models.Review{
		review("r1", "This is a genuinely well written review, click here for my full thoughts."),
		review("r2", "Amazing show, buy now while the box set is discounted for everyone."),
		review("r3", "Check the trailer at https://example.com/trailer before watching this."),
	}
	out := Apply(reviews)
	if len(out) != 0 {
		t.Fatalf("expected all spam dropped, kept %d", len(out))
	}
}

func TestCaseInsensitiveDedupKeepsFirstSeen(t *testing.T) {
	reviews := []models.Review{
		review("first", "A wonderful story with characters that stay with you."),
		review("second", "A WONDERFUL STORY WITH CHARACTERS THAT STAY WITH YOU."),
		review("third", "A completely different take on the whole final season."),
	}
	out := Apply(reviews)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(out))
	}
	if out[0].ID != "first" || out[1].ID != "third" {
		t.Fatalf("expected first-seen order preserved, got %s, %s", out[0].ID, out[1].ID)
	}
}

func TestDedupStatePersistsPastLaterRejection(t *testing.T) {
	// The spam copy claims the text before being rejected, so the identical
	// clean copy after it must drop as a duplicate.
	spam := "An excellent series overall, buy now and thank me later my friends."
	reviews := []models.Review{
		review("spam", spam),
		review("dup", spam),
	}

	var reasons []Reason
	out := ApplyWithStats(reviews, func(r Reason) { reasons = append(reasons, r) })
	if len(out) != 0 {
		t.Fatalf("expected no survivors, got %d", len(out))
	}
	if len(reasons) != 2 || reasons[0] != ReasonSpam || reasons[1] != ReasonDuplicate {
		t.Fatalf("expected [spam duplicate], got %v", reasons)
	}
}

func TestRepetitiveReviewDropped(t *testing.T) {
	out := Apply([]models.Review{review("r1", strings.Repeat("amazing ", 40))})
	if len(out) != 0 {
		t.Fatalf("expected repetitive review dropped, kept %d", len(out))
	}
}

func TestNormalReviewSurvives(t *testing.T) {
	text := "The character development across both seasons is the best I have seen in years."
	out := Apply([]models.Review{review("r1", text)})
	if len(out) != 1 {
		t.Fatalf("expected review kept, got %d", len(out))
	}
}
