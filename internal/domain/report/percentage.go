package report

import (
	"github.com/shopspring/decimal"
)

// Satisfaction labels, keyed by score
const (
	LabelVeryDissatisfied = "very_dissatisfied"
	LabelDissatisfied     = "dissatisfied"
	LabelNeutral          = "neutral"
	LabelSatisfied        = "satisfied"
	LabelVerySatisfied    = "very_satisfied"
)

// ScoreLabels maps histogram index (score-1) to its label
var ScoreLabels = [5]string{
	LabelVeryDissatisfied,
	LabelDissatisfied,
	LabelNeutral,
	LabelSatisfied,
	LabelVerySatisfied,
}

var hundred = decimal.NewFromInt(100)

// Percent returns count*100/total rounded half-up to places decimals.
// A zero total yields zero.
func Percent(count, total int64, places int32) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	// Round is half away from zero, which is half-up for non-negative counts
	return decimal.NewFromInt(count).Mul(hundred).Div(decimal.NewFromInt(total)).Round(places)
}

// LabelledPercentages converts a histogram to percentages with two decimals,
// keyed by satisfaction label. All five labels are always present.
func LabelledPercentages(h Histogram) map[string]decimal.Decimal {
	total := h.Total()
	out := make(map[string]decimal.Decimal, len(ScoreLabels))
	for i, label := range ScoreLabels {
		out[label] = Percent(h[i], total, 2)
	}
	return out
}

// WholePercentages converts a histogram to integer percentages; index 0 is score 1
func WholePercentages(h Histogram) [5]int {
	total := h.Total()
	var out [5]int
	for i := range h {
		out[i] = int(Percent(h[i], total, 0).IntPart())
	}
	return out
}
