package match

import (
	"sort"

	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

const (
	neutralScore      = 0.5
	zeroWeightScore   = 0.3
	matchBonusPerHit  = 0.05
	matchBonusCeiling = 0.2
	highRatingFloor   = 8
	topThemeWindow    = 10
)

// Weights controls how much thematic vs. interactive signal a media type
// contributes to compatibility.
type Weights struct {
	Narrative   float64
	Interactive float64
}

var mediaWeights = map[models.MediaType]Weights{
	models.MediaTypeTV:    {Narrative: 1.0, Interactive: 0.0},
	models.MediaTypeMovie: {Narrative: 1.0, Interactive: 0.0},
	models.MediaTypeGame:  {Narrative: 0.7, Interactive: 1.0},
}

var defaultWeights = Weights{Narrative: 0.8, Interactive: 0.2}

// Scorer combines a title's theme and sentiment signals with one user's
// preference history. Construct one per analysis with a fresh preference
// snapshot; it holds no shared state.
type Scorer struct {
	preferences []models.Preference
}

func NewScorer(preferences []models.Preference) *Scorer {
	return &Scorer{preferences: preferences}
}

// PreferredThemes flattens the themes of preferences rated >= 8, ordered by
// descending occurrence frequency. Ties keep first-seen order.
func (s *Scorer) PreferredThemes() []string {
	counts := make(map[string]int)
	var order []string

	for _, p := range s.preferences {
		if p.UserRating < highRatingFloor {
			continue
		}
		for _, theme := range p.Themes {
			if counts[theme] == 0 {
				order = append(order, theme)
			}
			counts[theme]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

// ThemeSimilarity weights title-theme strengths by membership in the user's
// preferred set, with a bonus for multiple matches. Either side empty gives a
// neutral 0.5; zero total weight gives 0.3.
func ThemeSimilarity(titleThemes []models.ThemeScore, userThemes []string) float64 {
	if len(titleThemes) == 0 || len(userThemes) == 0 {
		return neutralScore
	}

	preferred := make(map[string]struct{}, len(userThemes))
	for _, t := range userThemes {
		preferred[t] = struct{}{}
	}

	top := titleThemes
	if len(top) > topThemeWindow {
		top = top[:topThemeWindow]
	}

	weightedScore := 0.0
	totalWeight := 0.0
	matchCount := 0
	for _, ts := range top {
		if _, ok := preferred[ts.Theme]; ok {
			weightedScore += ts.Score
			matchCount++
		}
		totalWeight += ts.Score
	}

	if totalWeight == 0 {
		return zeroWeightScore
	}

	bonus := float64(matchCount) * matchBonusPerHit
	if bonus > matchBonusCeiling {
		bonus = matchBonusCeiling
	}

	score := weightedScore/totalWeight + bonus
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// SentimentAlignment maps the mean predicted score from [1,5] onto [0,1].
// Empty input is neutral.
func SentimentAlignment(records []models.SentimentRecord) float64 {
	if len(records) == 0 {
		return neutralScore
	}

	sum := 0.0
	for _, r := range records {
		sum += float64(r.PredictedScore)
	}
	mean := sum / float64(len(records))
	return (mean - 1) / 4
}

// Compatibility is the final cross-media score:
// clamp01(themeSimilarity*narrativeWeight*0.7 + sentimentAlignment*0.3).
func (s *Scorer) Compatibility(themes []models.ThemeScore, sentiment []models.SentimentRecord, mediaType models.MediaType) float64 {
	userThemes := s.PreferredThemes()
	themeSimilarity := ThemeSimilarity(themes, userThemes)
	sentimentAlignment := SentimentAlignment(sentiment)

	weights, ok := mediaWeights[mediaType]
	if !ok {
		weights = defaultWeights
	}

	score := themeSimilarity*weights.Narrative*0.7 + sentimentAlignment*0.3

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	logger.Debug("Compatibility computed",
		zap.Float64("theme_similarity", themeSimilarity),
		zap.Float64("sentiment_alignment", sentimentAlignment),
		zap.Float64("score", score),
		zap.String("media_type", string(mediaType)),
	)
	return score
}

// MatchingTitles lists high-rated preference titles whose themes overlap the
// title's top themes, strongest overlap first.
func (s *Scorer) MatchingTitles(themes []models.ThemeScore) []models.MatchingTitle {
	titleThemes := make(map[string]struct{}, len(themes))
	for _, ts := range themes {
		titleThemes[ts.Theme] = struct{}{}
	}

	var matches []models.MatchingTitle
	for _, p := range s.preferences {
		if p.UserRating < highRatingFloor || len(p.Themes) == 0 {
			continue
		}
		overlap := 0
		for _, theme := range p.Themes {
			if _, ok := titleThemes[theme]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}
		matches = append(matches, models.MatchingTitle{
			Title: p.Title,
			Score: float64(overlap) / float64(len(p.Themes)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
