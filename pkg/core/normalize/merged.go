package normalize

import (
	"disclosure_audit/pkg/models"
)

// The merger pipeline writes a different shape: company/year/sector live in
// a metadata block, snippets carry merger_metadata and source_versions, and
// questions may embed a cross_question_review block. Its producers also use
// a slightly different disclosure vocabulary and frequently emit monetary
// figures as free text rather than structured objects.

// mergedClassificationSynonyms is the merger producer's vocabulary.
var mergedClassificationSynonyms = map[string]models.Classification{
	"FULL_DISCLOSURE":     models.FullDisclosure,
	"FULLY_DISCLOSED":     models.FullDisclosure,
	"FULL":                models.FullDisclosure,
	"PARTIAL":             models.Partial,
	"PARTIALLY_DISCLOSED": models.Partial,
	"PARTIAL_DISCLOSURE":  models.Partial,
	"UNCLEAR":             models.Unclear,
	"INCONCLUSIVE":        models.Unclear,
	"NO_DISCLOSURE":       models.NoDisclosure,
	"NOT_DISCLOSED":       models.NoDisclosure,
	"NONE":                models.NoDisclosure,
	"PLACEHOLDER":         models.NoDisclosure,
}

// NormalizeMerged converts a raw record in the merged schema into the same
// canonical AnalysisResult the standard adapter produces, plus the
// metadata-declared sector (empty when undeclared). It shares Normalize's
// defaulting policy and totality.
func NormalizeMerged(raw rawRecord) (*models.AnalysisResult, string) {
	meta := getMap(raw, "metadata")

	questions := []models.Question{}
	for _, v := range getList(raw, "analysis_results") {
		rec := asRecord(v)
		if rec == nil {
			continue
		}
		q := normalizeQuestion(rec, mergedClassificationSynonyms)
		// Merged snippets without structured amounts often carry the
		// figure inside the quote itself.
		for i := range q.Disclosures {
			s := &q.Disclosures[i]
			if len(s.FinancialAmounts) == 0 && s.Categorization.FinancialType != models.NonFinancial {
				s.FinancialAmounts = ParseAmountText(s.Quote)
			}
		}
		questions = append(questions, q)
	}

	result := &models.AnalysisResult{
		Company:      getString(meta, "company", "company_name"),
		FiscalYear:   getInt(meta, "year", "fiscal_year"),
		Version:      getString(meta, "version"),
		Model:        getString(meta, "merger_model", "model_used"),
		AnalysisDate: getString(meta, "merged_at", "analysis_date"),
		Questions:    questions,
		Stats:        normalizeStats(getMap(raw, "completeness_summary"), questions),
	}
	if meta != nil {
		result.Provenance = &models.MergeProvenance{
			MergerModel:   getString(meta, "merger_model"),
			SchemaVersion: getString(meta, "schema_version"),
			SourceFiles:   stringList(getList(meta, "source_files")),
		}
	}
	return result, getString(meta, "sector")
}

// LooksMerged reports whether a raw record is in the merged schema, so the
// reconciler can branch on shape exactly once.
func LooksMerged(raw rawRecord) bool {
	meta := getMap(raw, "metadata")
	return meta != nil && (getString(meta, "company") != "" || getString(meta, "merger_model") != "")
}

func stringList(list []interface{}) []string {
	var out []string
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
