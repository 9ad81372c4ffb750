package recommend

import "testing"

func TestDefaultTiers(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	cases := []struct {
		score float64
		want  string
	}{
		{0.85, LabelHighlyLikely},
		{0.80, LabelHighlyLikely},
		{0.65, LabelWorthTrying},
		{0.60, LabelWorthTrying},
		{0.45, LabelProceedCaution},
		{0.40, LabelProceedCaution},
		{0.10, LabelDisappoint},
		{0.0, LabelDisappoint},
	}

	for _, tc := range cases {
		if got := e.Classify(tc.score).Likelihood; got != tc.want {
			t.Errorf("score %.2f: expected %q, got %q", tc.score, tc.want, got)
		}
	}
}

func TestConfidenceRestatesScore(t *testing.T) {
	rec := NewEngine(DefaultThresholds()).Classify(0.731)
	if rec.Confidence != "73.1%" {
		t.Fatalf("expected 73.1%%, got %s", rec.Confidence)
	}
}

func TestCustomThresholds(t *testing.T) {
	e := NewEngine(Thresholds{HighlyLikely: 0.9, WorthTrying: 0.7, ProceedCaution: 0.5})
	if got := e.Classify(0.85).Likelihood; got != LabelWorthTrying {
		t.Fatalf("expected %q with raised thresholds, got %q", LabelWorthTrying, got)
	}
}
