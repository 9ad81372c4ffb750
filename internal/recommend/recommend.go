package recommend

import "fmt"

const (
	LabelHighlyLikely   = "Highly Likely"
	LabelWorthTrying    = "Worth Trying"
	LabelProceedCaution = "Proceed with Caution"
	LabelDisappoint     = "Likely to Disappoint"
)

type Thresholds struct {
	HighlyLikely   float64
	WorthTrying    float64
	ProceedCaution float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{HighlyLikely: 0.8, WorthTrying: 0.6, ProceedCaution: 0.4}
}

// Recommendation is the tier a compatibility score falls into. Confidence is
// the score itself restated as a percentage, not an independent calibration.
type Recommendation struct {
	Likelihood string
	Confidence string
	Reasoning  string
}

type Engine struct {
	thresholds Thresholds
}

func NewEngine(thresholds Thresholds) *Engine {
	return &Engine{thresholds: thresholds}
}

func (e *Engine) Classify(score float64) Recommendation {
	confidence := fmt.Sprintf("%.1f%%", score*100)

	switch {
	case score >= e.thresholds.HighlyLikely:
		return Recommendation{
			Likelihood: LabelHighlyLikely,
			Confidence: confidence,
			Reasoning:  "Strong thematic alignment with your highest-rated titles",
		}
	case score >= e.thresholds.WorthTrying:
		return Recommendation{
			Likelihood: LabelWorthTrying,
			Confidence: confidence,
			Reasoning:  "Good alignment with some of your preferences",
		}
	case score >= e.thresholds.ProceedCaution:
		return Recommendation{
			Likelihood: LabelProceedCaution,
			Confidence: confidence,
			Reasoning:  "Mixed alignment with your typical preferences",
		}
	default:
		return Recommendation{
			Likelihood: LabelDisappoint,
			Confidence: confidence,
			Reasoning:  "Low alignment with your established preferences",
		}
	}
}
