package filter

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

const (
	minLength = 20
	maxLength = 5000
)

var spamPattern = regexp.MustCompile(
	`(?i)(https?://|click here|buy now|visit (my|our) (site|website)|\b(cheap|free) (download|shipping)\b)`,
)

// Reason classifies why a review was rejected; exported for metrics labels.
type Reason string

const (
	ReasonTooShort   Reason = "too_short"
	ReasonTooLong    Reason = "too_long"
	ReasonDuplicate  Reason = "duplicate"
	ReasonSpam       Reason = "spam"
	ReasonRepetitive Reason = "repetitive"
)

// Apply removes spam, duplicates, out-of-range, and repetitive reviews while
// preserving the relative order of survivors. The dedup set persists for the
// whole pass: a review rejected later for spam still claims its text, so an
// identical copy seen afterwards is dropped as a duplicate.
func Apply(reviews []models.Review) []models.Review {
	return ApplyWithStats(reviews, nil)
}

// ApplyWithStats is Apply with an optional per-reason rejection callback.
func ApplyWithStats(reviews []models.Review, rejected func(Reason)) []models.Review {
	if len(reviews) == 0 {
		return nil
	}

	filtered := make([]models.Review, 0, len(reviews))
	seen := make(map[string]struct{}, len(reviews))

	for _, review := range reviews {
		text := strings.TrimSpace(review.Text)

		if reason, ok := rejectReason(text, seen); !ok {
			logger.Debug("Filtered review",
				zap.String("review_id", review.ID),
				zap.String("reason", string(reason)),
			)
			if rejected != nil {
				rejected(reason)
			}
			continue
		}

		filtered = append(filtered, review)
	}

	logger.Info("Review filtering complete",
		zap.Int("input", len(reviews)),
		zap.Int("kept", len(filtered)),
	)
	return filtered
}

// rejectReason applies the checks in their contract order. Dedup state is
// recorded before the spam and repetition checks run, on purpose.
func rejectReason(text string, seen map[string]struct{}) (Reason, bool) {
	if len(text) < minLength {
		return ReasonTooShort, false
	}
	if len(text) > maxLength {
		return ReasonTooLong, false
	}

	lower := strings.ToLower(text)
	if _, dup := seen[lower]; dup {
		return ReasonDuplicate, false
	}
	seen[lower] = struct{}{}

	if spamPattern.MatchString(text) {
		return ReasonSpam, false
	}

	if isRepetitive(lower) {
		return ReasonRepetitive, false
	}

	return "", true
}

// isRepetitive rejects text where any word longer than three characters
// appears more than max(10, wordCount/3) times.
func isRepetitive(lower string) bool {
	words := strings.Fields(lower)
	if len(words) == 0 {
		return false
	}

	counts := make(map[string]int)
	maxCount := 0
	for _, w := range words {
		if len(w) > 3 {
			counts[w]++
			if counts[w] > maxCount {
				maxCount = counts[w]
			}
		}
	}

	limit := len(words) / 3
	if limit < 10 {
		limit = 10
	}
	return maxCount > limit
}
