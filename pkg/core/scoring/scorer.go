// Package scoring rates individual snippets. Two modes coexist and are
// deliberately not interchangeable: the legacy mode produces a 0-100
// composite from three dimension scores, while the evidence mode buckets
// snippets categorically and leaves ranking to evidence depth. Aggregation
// picks one mode per run; their outputs are distinct types so they cannot
// be mixed in a single ranking by accident.
package scoring

import (
	"disclosure_audit/pkg/models"
)

// DimensionScores is the legacy per-snippet rating.
//
// Financial floors at 1: a snippet with no financial detail still carries
// narrative value, so absence is the minimum, not zero. Temporal is the
// only dimension that can hit 0, since ambiguity about timing is penalized
// hardest. Narrative rewards showing both sides.
type DimensionScores struct {
	Financial int     `json:"financial"` // 0-3 (effective range 1-3)
	Temporal  int     `json:"temporal"`  // 0-3
	Narrative int     `json:"narrative"` // 1-3
	Composite float64 `json:"composite"` // (f+t+n)/9*100, range [22.22, 100]
}

// Score computes the legacy dimension scores for one snippet.
func Score(s models.Snippet) DimensionScores {
	d := DimensionScores{
		Financial: financialScore(s.Categorization.FinancialType),
		Temporal:  temporalScore(s.Categorization.Timeframe),
		Narrative: narrativeScore(s.Categorization.Framing),
	}
	d.Composite = float64(d.Financial+d.Temporal+d.Narrative) / 9.0 * 100.0
	return d
}

func financialScore(t models.FinancialType) int {
	switch t {
	case models.FinancialFull:
		return 3
	case models.FinancialPartial:
		return 2
	default:
		return 1
	}
}

func temporalScore(t models.Timeframe) int {
	switch t {
	case models.TimeframeCurrent:
		return 3
	case models.TimeframeFuture:
		return 2
	case models.TimeframeHistorical:
		return 1
	default:
		return 0
	}
}

func narrativeScore(f models.Framing) int {
	switch f {
	case models.FramingBoth:
		return 3
	case models.FramingRisk, models.FramingOpportunity:
		return 2
	default:
		return 1
	}
}

// Grade maps a 0-100 score onto a letter grade. Applied identically at
// every roll-up level.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
