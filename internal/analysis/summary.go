package analysis

import (
	"fmt"
	"sort"
	"strings"

	prose "github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

const (
	summaryReviewLimit   = 30
	summarySentenceLimit = 3
	minSentenceLength    = 15
)

var (
	positiveWords = []string{"great", "excellent", "amazing", "love", "best", "perfect"}
	negativeWords = []string{"bad", "worst", "terrible", "awful", "hate", "disappointing"}
)

type scoredSentence struct {
	text  string
	score float64
}

// Summarize produces an extractive summary: sentences from the corpus ranked
// by theme-keyword and sentiment-word density, prefixed with the leading
// themes.
func Summarize(reviews []models.Review, themes []models.ThemeScore) string {
	if len(reviews) == 0 {
		return "No reviews available for analysis"
	}

	themeWords := make(map[string]struct{})
	for i, ts := range themes {
		if i >= 5 {
			break
		}
		for _, w := range strings.Split(ts.Theme, "_") {
			themeWords[w] = struct{}{}
		}
	}

	var scored []scoredSentence
	limit := len(reviews)
	if limit > summaryReviewLimit {
		limit = summaryReviewLimit
	}

	for _, review := range reviews[:limit] {
		for _, sent := range splitSentences(review.Text) {
			sent = strings.TrimSpace(sent)
			if len(sent) < minSentenceLength {
				continue
			}

			lower := strings.ToLower(sent)
			score := 0.0
			for w := range themeWords {
				if strings.Contains(lower, w) {
					score++
				}
			}
			for _, w := range positiveWords {
				if strings.Contains(lower, w) {
					score += 0.5
				}
			}
			for _, w := range negativeWords {
				if strings.Contains(lower, w) {
					score += 0.5
				}
			}

			if score > 0 {
				scored = append(scored, scoredSentence{text: sent, score: score})
			}
		}
	}

	topThemes := make([]string, 0, 3)
	for i, ts := range themes {
		if i >= 3 {
			break
		}
		topThemes = append(topThemes, strings.ReplaceAll(ts.Theme, "_", " "))
	}

	if len(scored) == 0 {
		return fmt.Sprintf("Analysis based on %d reviews emphasizing %s.",
			len(reviews), strings.Join(topThemes, ", "))
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > summarySentenceLimit {
		scored = scored[:summarySentenceLimit]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analysis of %d reviews highlighting %s. ",
		len(reviews), strings.Join(topThemes, ", "))
	for i, s := range scored {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s.text)
	}
	return sb.String()
}

// splitSentences segments text with prose; a segmentation failure falls back
// to treating the whole text as one sentence.
func splitSentences(text string) []string {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		logger.Debug("Sentence segmentation failed", zap.Error(err))
		return []string{text}
	}

	sentences := doc.Sentences()
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		out = append(out, s.Text)
	}
	return out
}
