package models

// =============================================================================
// VERIFICATION REPORT
// =============================================================================
// Shared between the differ (which produces these) and the reconciler
// (which loads reports a previous pipeline run wrote next to its results).

// SnippetChange records one corrected or removed snippet with its before and
// after state, for the audit trail.
type SnippetChange struct {
	SnippetID             string           `json:"snippet_id"`
	QuestionID            string           `json:"question_id"`
	Status                ComparisonStatus `json:"status"`
	BeforeClassification  Classification   `json:"before_classification"`
	AfterClassification   Classification   `json:"after_classification,omitempty"`
	BeforeScore           float64          `json:"before_score"`
	AfterScore            float64          `json:"after_score,omitempty"`
	ClassificationChanged bool             `json:"classification_changed"`
	CategorizationChanged bool             `json:"categorization_changed"`
}

// VerificationMetrics summarizes a one-way diff of an original analysis
// against its reviewed counterpart.
type VerificationMetrics struct {
	ReportID    string `json:"report_id"`
	GeneratedAt string `json:"generated_at"`
	Company     string `json:"company"`
	Year        int    `json:"year"`

	TotalOriginal     int `json:"total_original"`
	SnippetsUnchanged int `json:"snippets_unchanged"`
	SnippetsCorrected int `json:"snippets_corrected"`
	SnippetsRemoved   int `json:"snippets_removed"`

	// Sub-counters for the corrected bucket. A snippet can trip both, so
	// these need not sum to SnippetsCorrected.
	ClassificationChanges int `json:"classification_changes"`
	CategorizationChanges int `json:"categorization_changes"`

	// PassRate is unchanged/total*100, 100 when the original was empty.
	PassRate float64 `json:"pass_rate"`

	// Transitions is the classification-transition multiset, keyed
	// "FULL_DISCLOSURE->PARTIAL" style.
	Transitions map[string]int `json:"transitions"`

	Changes []SnippetChange `json:"changes"`
}
