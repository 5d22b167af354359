// Package metrics is the aggregation engine: pure roll-ups of snippet data
// into question, category, company, and cross-company views. Nothing here
// mutates a snippet or touches disk; every metric is recomputed from the
// reconciled in-memory data on each call.
package metrics

import (
	"disclosure_audit/pkg/models"
)

// Mode selects which scoring semantic drives roll-ups and ranking. The two
// modes measure different things (a quality composite vs. evidence volume)
// and their outputs must never be mixed in one ranking.
type Mode string

const (
	// ModeLegacy ranks by the 0-100 composite score.
	ModeLegacy Mode = "legacy"
	// ModeEvidence ranks by evidence depth and classification distribution.
	ModeEvidence Mode = "evidence"
)

// Distribution counts snippets per classification bucket. For a question
// with zero evidence it holds a single NO_DISCLOSURE unit, so it always
// sums to max(1, snippet_count) and coverage denominators stay meaningful.
type Distribution map[models.Classification]int

// Total sums all buckets.
func (d Distribution) Total() int {
	n := 0
	for _, c := range d {
		n += c
	}
	return n
}

func (d Distribution) add(other Distribution) {
	for k, v := range other {
		d[k] += v
	}
}

// CategoryDisplayNames maps raw category labels to their display names.
var CategoryDisplayNames = map[string]string{
	"Human Health Risk":         "Human Health",
	"Environmental Risk":        "Environmental",
	"Regulatory/Financial Risk": "Regulatory/Financial",
	"Market/Business Risk":      "Market/Business",
}

// ClassificationPriority orders classifications for display, strongest
// disclosure first.
var ClassificationPriority = map[models.Classification]int{
	models.FullDisclosure: 1,
	models.Partial:        2,
	models.Unclear:        3,
	models.NoDisclosure:   4,
}

// QuestionMetrics is the roll-up for one question.
type QuestionMetrics struct {
	QuestionID  string       `json:"question_id"`
	Category    string       `json:"category"`
	SubCategory string       `json:"sub_category,omitempty"`

	SnippetCount int          `json:"snippet_count"`
	Distribution Distribution `json:"distribution"`

	// Legacy mode only.
	AvgComposite float64 `json:"avg_composite"`
	Grade        string  `json:"grade"`

	// Rate metrics, percent of snippets matching each predicate,
	// guarded to 0 when SnippetCount is 0.
	QuantificationRate   float64 `json:"financial_quantification_rate"`
	ForwardLookingRate   float64 `json:"forward_looking_rate"`
	NarrativeBalanceRate float64 `json:"narrative_balance_rate"`
}

// CategoryMetrics aggregates the questions sharing one category.
type CategoryMetrics struct {
	Category    string `json:"category"`
	DisplayName string `json:"display_name"`

	QuestionCount int          `json:"question_count"`
	SnippetCount  int          `json:"snippet_count"`
	Distribution  Distribution `json:"distribution"`

	AvgComposite float64 `json:"avg_composite"`
	Grade        string  `json:"grade"`

	// EvidenceDepth is average snippets per question.
	EvidenceDepth float64 `json:"evidence_depth"`

	QuantificationRate   float64 `json:"financial_quantification_rate"`
	ForwardLookingRate   float64 `json:"forward_looking_rate"`
	NarrativeBalanceRate float64 `json:"narrative_balance_rate"`
}

// RadarDimensions normalizes heterogeneous signals onto 0-100 so they can
// be compared on one chart axis set.
type RadarDimensions struct {
	EvidenceDepth      float64 `json:"evidence_depth"`      // min(avg snippets/question, 10) * 10
	DisclosureBreadth  float64 `json:"disclosure_breadth"`  // % questions with evidence
	Quantification     float64 `json:"quantification"`      // quantification rate
	ForwardOrientation float64 `json:"forward_orientation"` // forward-looking rate
	NarrativeBalance   float64 `json:"narrative_balance"`   // balance rate
}

// CompanyMetrics is the roll-up for one reconciled company/year unit.
type CompanyMetrics struct {
	Company string `json:"company"`
	Year    int    `json:"year"`
	Sector  string `json:"sector"`

	QuestionCount int          `json:"question_count"`
	SnippetCount  int          `json:"snippet_count"`
	Distribution  Distribution `json:"distribution"`

	AvgComposite float64 `json:"avg_composite"`
	Grade        string  `json:"grade"`

	EvidenceDepth float64 `json:"evidence_depth"`

	QuantificationRate   float64 `json:"financial_quantification_rate"`
	ForwardLookingRate   float64 `json:"forward_looking_rate"`
	NarrativeBalanceRate float64 `json:"narrative_balance_rate"`

	Questions  []QuestionMetrics `json:"questions"`
	Categories []CategoryMetrics `json:"categories"`
	Radar      RadarDimensions   `json:"radar"`
}

// CompanyRank is one row of a cross-company ranking.
type CompanyRank struct {
	Rank    int     `json:"rank"` // 1-based position
	Company string  `json:"company"`
	Year    int     `json:"year"`
	Primary float64 `json:"primary"` // composite (legacy) or evidence depth
	Grade   string  `json:"grade,omitempty"`
}

// CrossCompanyMetrics compares every reconciled unit under one mode.
type CrossCompanyMetrics struct {
	Mode      Mode          `json:"mode"`
	Companies []CompanyRank `json:"companies"`

	TotalSnippets int          `json:"total_snippets"`
	Distribution  Distribution `json:"distribution"`
	AvgPrimary    float64      `json:"avg_primary"`
}
