// Package models defines the canonical data model for corporate disclosure
// analysis: snippets of quoted evidence, the questions they answer, and the
// per-company/per-year analysis results the rest of the core operates on.
// All producer-specific source shapes are converted into these types at the
// ingestion edge; nothing downstream ever sees a raw record.
package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CLASSIFICATION ENUMS
// =============================================================================

// Classification grades how completely a snippet discloses the asked-for
// information.
type Classification string

const (
	FullDisclosure Classification = "FULL_DISCLOSURE"
	Partial        Classification = "PARTIAL"
	Unclear        Classification = "UNCLEAR"
	NoDisclosure   Classification = "NO_DISCLOSURE"
)

// AllClassifications lists every classification bucket in display priority
// order (strongest disclosure first).
var AllClassifications = []Classification{FullDisclosure, Partial, Unclear, NoDisclosure}

// FinancialType describes how much monetary quantification a snippet carries.
type FinancialType string

const (
	FinancialFull    FinancialType = "Full"
	FinancialPartial FinancialType = "Partial"
	NonFinancial     FinancialType = "Non-Financial"
)

// Timeframe places a snippet's subject matter in time.
type Timeframe string

const (
	TimeframeCurrent    Timeframe = "Current"
	TimeframeFuture     Timeframe = "Future"
	TimeframeHistorical Timeframe = "Historical"
	TimeframeUnclear    Timeframe = "Unclear"
)

// Framing captures whether a snippet presents its subject as a risk, an
// opportunity, both sides, or neither.
type Framing string

const (
	FramingRisk        Framing = "Risk"
	FramingOpportunity Framing = "Opportunity"
	FramingNeutral     Framing = "Neutral"
	FramingBoth        Framing = "Both"
)

// ComparisonStatus is stamped on a snippet by the verification differ.
// It is never set during normalization.
type ComparisonStatus string

const (
	StatusUnchanged ComparisonStatus = "unchanged"
	StatusCorrected ComparisonStatus = "corrected"
	StatusRemoved   ComparisonStatus = "removed"
)

// =============================================================================
// CORE ENTITIES
// =============================================================================

// FinancialAmount is one monetary figure extracted from a snippet.
// Amount is always in base currency units (magnitude words like "million"
// are resolved during parsing).
type FinancialAmount struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Context  string          `json:"context"`
}

// Categorization holds the three independent dimensions every snippet is
// rated on, each with the producer's justification text.
type Categorization struct {
	FinancialType          FinancialType `json:"financial_type"`
	FinancialJustification string        `json:"financial_justification,omitempty"`
	Timeframe              Timeframe     `json:"timeframe"`
	TimeframeJustification string        `json:"timeframe_justification,omitempty"`
	Framing                Framing       `json:"framing"`
	FramingJustification   string        `json:"framing_justification,omitempty"`
}

// DefaultCategorization is applied when a producer omits the categorization
// block entirely. Missing financial detail floors at Non-Financial, unknown
// timing is Unclear, and framing defaults to Neutral.
func DefaultCategorization() Categorization {
	return Categorization{
		FinancialType: NonFinancial,
		Timeframe:     TimeframeUnclear,
		Framing:       FramingNeutral,
	}
}

// Snippet is a single quoted disclosure excerpt. Identity is ID, unique
// within its question. Snippets are created by normalization and are never
// mutated by aggregation; only the differ annotates ComparisonStatus.
type Snippet struct {
	ID               string            `json:"snippet_id"`
	Quote            string            `json:"quote"`
	SourceCitation   string            `json:"source_citation,omitempty"`
	Classification   Classification    `json:"classification"`
	Justification    string            `json:"justification,omitempty"`
	Categorization   Categorization    `json:"categorization"`
	FinancialAmounts []FinancialAmount `json:"financial_amounts"`
	ComparisonStatus ComparisonStatus  `json:"comparison_status,omitempty"`
}

// IsPlaceholder reports whether the snippet is a "no disclosure found"
// placeholder the merger emits to keep question slots visible. Placeholders
// are kept in the data but excluded from evidence counting.
func (s Snippet) IsPlaceholder() bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(s.Quote)), "no disclosure found")
}

// HasQuantifiedAmount reports whether at least one parsed monetary figure
// survived amount parsing.
func (s Snippet) HasQuantifiedAmount() bool {
	return len(s.FinancialAmounts) > 0
}

// ReviewDecision is one cross-question review verdict for a snippet,
// either embedded in a reviewed file or side-loaded from the decision log.
type ReviewDecision struct {
	SnippetID  string   `json:"snippet_id"`
	QuestionID string   `json:"question_id,omitempty"`
	Belongs    bool     `json:"belongs"`
	Confidence *float64 `json:"confidence"`
	Rationale  string   `json:"rationale,omitempty"`
	SourceFile string   `json:"source_file,omitempty"`
}

// CrossQuestionReview summarizes the review decisions applied to one
// question during cross-question deduplication.
type CrossQuestionReview struct {
	Status    string           `json:"status"` // "clean" or "needs_attention"
	Summary   string           `json:"summary"`
	Decisions []ReviewDecision `json:"decisions"`
}

// Question groups the evidence snippets answering one disclosure question.
// Disclosures preserves producer order, which doubles as evidence rank.
// An empty Disclosures slice means the question had no disclosure at all.
type Question struct {
	ID          string               `json:"question_id"`
	Text        string               `json:"question_text"`
	Category    string               `json:"category"`
	SubCategory string               `json:"sub_category,omitempty"`
	Disclosures []Snippet            `json:"disclosures"`
	Summary     string               `json:"summary,omitempty"`
	Review      *CrossQuestionReview `json:"cross_question_review,omitempty"`
}

// EvidenceCount returns the number of real (non-placeholder) snippets.
func (q Question) EvidenceCount() int {
	n := 0
	for _, s := range q.Disclosures {
		if !s.IsPlaceholder() {
			n++
		}
	}
	return n
}

// BaseQuestionID strips a trailing single-letter variant suffix from a
// question id, mapping company-specific variants back onto their canonical
// question: "ENV-001-A" -> "ENV-001". Only a single trailing letter is
// treated as a variant marker; "ENV-RISK-001" is already canonical.
func BaseQuestionID(id string) string {
	idx := strings.LastIndex(id, "-")
	if idx <= 0 || idx != len(id)-2 {
		return id
	}
	c := id[len(id)-1]
	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		return id[:idx]
	}
	return id
}

// SummaryStats are the producer-declared totals on a result file. They are
// carried through for integrity checking, not trusted for aggregation.
type SummaryStats struct {
	TotalQuestions int                    `json:"total_questions"`
	TotalSnippets  int                    `json:"total_snippets"`
	Counts         map[Classification]int `json:"classification_counts,omitempty"`
}

// MergeProvenance records how a merged result was produced from per-version
// source files.
type MergeProvenance struct {
	MergerModel   string   `json:"merger_model,omitempty"`
	SchemaVersion string   `json:"schema_version,omitempty"`
	SourceFiles   []string `json:"source_files,omitempty"`
}

// AnalysisResult is one complete analysis of one company for one fiscal
// year, from one source variant.
type AnalysisResult struct {
	Company      string           `json:"company_name"`
	FiscalYear   int              `json:"fiscal_year"`
	Version      string           `json:"version,omitempty"`
	Model        string           `json:"model_used"`
	AnalysisDate string           `json:"analysis_date,omitempty"`
	Questions    []Question       `json:"analysis_results"`
	Stats        SummaryStats     `json:"summary_stats"`
	Provenance   *MergeProvenance `json:"merge_provenance,omitempty"`
}

// TotalSnippets counts real evidence snippets across all questions.
func (a *AnalysisResult) TotalSnippets() int {
	n := 0
	for _, q := range a.Questions {
		n += q.EvidenceCount()
	}
	return n
}

// FindQuestion returns the question with the given id, or nil.
func (a *AnalysisResult) FindQuestion(id string) *Question {
	for i := range a.Questions {
		if a.Questions[i].ID == id {
			return &a.Questions[i]
		}
	}
	return nil
}
