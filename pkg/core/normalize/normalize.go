// Package normalize converts raw producer records into the canonical
// analysis model. There is one total adapter per source shape: Normalize
// for the standard per-file result schema and NormalizeMerged for the
// merger pipeline's schema. Both share the same defaulting policy and
// never fail on missing fields; shape branching happens here, at the
// ingestion edge, and nowhere downstream.
package normalize

import (
	"strings"

	"disclosure_audit/pkg/models"
)

// classificationSynonyms canonicalizes the standard producer's disclosure
// labels. Keys are upper-cased with separators collapsed to underscores.
var classificationSynonyms = map[string]models.Classification{
	"FULL_DISCLOSURE":    models.FullDisclosure,
	"FULL":               models.FullDisclosure,
	"COMPLETE":           models.FullDisclosure,
	"PARTIAL":            models.Partial,
	"PARTIAL_DISCLOSURE": models.Partial,
	"UNCLEAR":            models.Unclear,
	"AMBIGUOUS":          models.Unclear,
	"NO_DISCLOSURE":      models.NoDisclosure,
	"NONE":               models.NoDisclosure,
	"NOT_FOUND":          models.NoDisclosure,
}

var financialTypeSynonyms = map[string]models.FinancialType{
	"FULL":           models.FinancialFull,
	"FULL_FINANCIAL": models.FinancialFull,
	"QUANTIFIED":     models.FinancialFull,
	"PARTIAL":        models.FinancialPartial,
	"PARTIALLY":      models.FinancialPartial,
	"NON_FINANCIAL":  models.NonFinancial,
	"NONFINANCIAL":   models.NonFinancial,
	"QUALITATIVE":    models.NonFinancial,
	"NONE":           models.NonFinancial,
}

var timeframeSynonyms = map[string]models.Timeframe{
	"CURRENT":         models.TimeframeCurrent,
	"PRESENT":         models.TimeframeCurrent,
	"ONGOING":         models.TimeframeCurrent,
	"FUTURE":          models.TimeframeFuture,
	"FORWARD":         models.TimeframeFuture,
	"FORWARD_LOOKING": models.TimeframeFuture,
	"PROSPECTIVE":     models.TimeframeFuture,
	"HISTORICAL":      models.TimeframeHistorical,
	"BACKWARD":        models.TimeframeHistorical,
	"PAST":            models.TimeframeHistorical,
	"PRIOR":           models.TimeframeHistorical,
	"UNCLEAR":         models.TimeframeUnclear,
	"UNKNOWN":         models.TimeframeUnclear,
}

var framingSynonyms = map[string]models.Framing{
	"RISK":        models.FramingRisk,
	"NEGATIVE":    models.FramingRisk,
	"OPPORTUNITY": models.FramingOpportunity,
	"POSITIVE":    models.FramingOpportunity,
	"BOTH":        models.FramingBoth,
	"MIXED":       models.FramingBoth,
	"NEUTRAL":     models.FramingNeutral,
	"BALANCED":    models.FramingNeutral,
}

// synonymKey collapses a producer label for table lookup.
func synonymKey(s string) string {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

// CanonicalClassification maps a producer label through the given synonym
// table. Unrecognized or empty values become UNCLEAR rather than failing:
// an unknown label is evidence of ambiguity, not of absence.
func CanonicalClassification(raw string, synonyms map[string]models.Classification) models.Classification {
	if c, ok := synonyms[synonymKey(raw)]; ok {
		return c
	}
	return models.Unclear
}

func canonicalFinancialType(raw string) models.FinancialType {
	if t, ok := financialTypeSynonyms[synonymKey(raw)]; ok {
		return t
	}
	return models.NonFinancial
}

func canonicalTimeframe(raw string) models.Timeframe {
	if t, ok := timeframeSynonyms[synonymKey(raw)]; ok {
		return t
	}
	return models.TimeframeUnclear
}

func canonicalFraming(raw string) models.Framing {
	if f, ok := framingSynonyms[synonymKey(raw)]; ok {
		return f
	}
	return models.FramingNeutral
}

// normalizeCategorization applies the shared defaulting policy: a missing
// block yields {Non-Financial, Unclear, Neutral}; a present block has each
// dimension canonicalized independently.
func normalizeCategorization(raw rawRecord) models.Categorization {
	if raw == nil {
		return models.DefaultCategorization()
	}
	return models.Categorization{
		FinancialType:          canonicalFinancialType(getString(raw, "financial_type")),
		FinancialJustification: getString(raw, "financial_justification", "financial_type_justification"),
		Timeframe:              canonicalTimeframe(getString(raw, "timeframe", "time_frame")),
		TimeframeJustification: getString(raw, "timeframe_justification"),
		Framing:                canonicalFraming(getString(raw, "framing")),
		FramingJustification:   getString(raw, "framing_justification"),
	}
}

// normalizeSnippet builds one canonical snippet from a raw disclosure
// record using the given classification synonym table.
func normalizeSnippet(raw rawRecord, synonyms map[string]models.Classification) models.Snippet {
	return models.Snippet{
		ID:               getString(raw, "snippet_id", "id"),
		Quote:            getString(raw, "quote", "text"),
		SourceCitation:   getString(raw, "source_citation", "source", "citation"),
		Classification:   CanonicalClassification(getString(raw, "classification"), synonyms),
		Justification:    getString(raw, "justification"),
		Categorization:   normalizeCategorization(getMap(raw, "categorization")),
		FinancialAmounts: normalizeAmounts(getList(raw, "financial_amounts")),
		ComparisonStatus: models.ComparisonStatus(getString(raw, "comparison_status")),
	}
}

// normalizeQuestion builds one canonical question. A missing disclosures
// list becomes an empty slice, which downstream treats as NO_DISCLOSURE.
func normalizeQuestion(raw rawRecord, synonyms map[string]models.Classification) models.Question {
	disclosures := []models.Snippet{}
	for _, v := range getList(raw, "disclosures") {
		if rec := asRecord(v); rec != nil {
			disclosures = append(disclosures, normalizeSnippet(rec, synonyms))
		}
	}
	return models.Question{
		ID:          getString(raw, "question_id", "question_number", "id"),
		Text:        getString(raw, "question_text", "text"),
		Category:    getString(raw, "category"),
		SubCategory: getString(raw, "sub_category", "subcategory"),
		Disclosures: disclosures,
		Summary:     getString(raw, "summary"),
		Review:      normalizeReview(getMap(raw, "cross_question_review")),
	}
}

// normalizeReview converts an embedded cross-question review block, when
// the file carries one. Returns nil when absent.
func normalizeReview(raw rawRecord) *models.CrossQuestionReview {
	if raw == nil {
		return nil
	}
	review := &models.CrossQuestionReview{
		Status:    getString(raw, "status"),
		Summary:   getString(raw, "summary"),
		Decisions: []models.ReviewDecision{},
	}
	for _, v := range getList(raw, "decisions") {
		rec := asRecord(v)
		if rec == nil {
			continue
		}
		decision := models.ReviewDecision{
			SnippetID:  getString(rec, "snippet_id"),
			QuestionID: getString(rec, "question_id"),
			Rationale:  getString(rec, "rationale"),
			SourceFile: getString(rec, "source_file"),
		}
		if belongs, ok := rec["belongs"].(bool); ok {
			decision.Belongs = belongs
		} else {
			// A decision with no verdict defaults to keeping the snippet.
			decision.Belongs = true
		}
		if confidence, ok := getFloat(rec, "confidence"); ok {
			decision.Confidence = &confidence
		}
		review.Decisions = append(review.Decisions, decision)
	}
	return review
}

func normalizeStats(raw rawRecord, questions []models.Question) models.SummaryStats {
	stats := models.SummaryStats{
		TotalQuestions: len(questions),
	}
	for _, q := range questions {
		stats.TotalSnippets += q.EvidenceCount()
	}
	if raw != nil {
		if n := getInt(raw, "total_questions"); n > 0 {
			stats.TotalQuestions = n
		}
	}
	return stats
}

// Normalize converts a raw record in the standard per-file result schema
// into a canonical AnalysisResult. It is total: any missing field is
// defaulted, never an error, and it is idempotent over its own output.
func Normalize(raw rawRecord) *models.AnalysisResult {
	questions := []models.Question{}
	for _, v := range getList(raw, "analysis_results", "questions") {
		if rec := asRecord(v); rec != nil {
			questions = append(questions, normalizeQuestion(rec, classificationSynonyms))
		}
	}
	return &models.AnalysisResult{
		Company:      getString(raw, "company_name", "company"),
		FiscalYear:   getInt(raw, "fiscal_year", "year"),
		Version:      getString(raw, "version"),
		Model:        getString(raw, "model_used", "model"),
		AnalysisDate: getString(raw, "analysis_date"),
		Questions:    questions,
		Stats:        normalizeStats(getMap(raw, "summary_stats"), questions),
	}
}
