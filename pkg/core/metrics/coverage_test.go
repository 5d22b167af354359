package metrics

import (
	"testing"

	"disclosure_audit/pkg/core/config"
	"disclosure_audit/pkg/models"
)

func coverageUnit(sector string, questions ...models.Question) models.CompanyYearData {
	return models.CompanyYearData{
		Company: "Bayer", Year: 2022, Sector: sector,
		Primary: &models.AnalysisResult{Company: "Bayer", FiscalYear: 2022, Questions: questions},
	}
}

func TestCoverageStatuses(t *testing.T) {
	canonical := []config.CanonicalQuestion{
		{ID: "ENV-001", Category: "Environmental Risk", Sectors: []string{"Agrochemical"}},
		{ID: "ENV-002", Category: "Environmental Risk", Sectors: []string{"Agrochemical"}},
		{ID: "FIN-001", Category: "Regulatory/Financial Risk", Sectors: []string{"Banking"}},
	}
	unit := coverageUnit("Agrochemical",
		models.Question{ID: "ENV-001", Disclosures: []models.Snippet{{ID: "s1", Quote: "evidence"}}},
		models.Question{ID: "ENV-002"},
	)

	e := NewEngine(ModeEvidence)
	cov := e.Coverage(unit, canonical)

	if cov.Disclosed != 1 || cov.NoDisclosure != 1 || cov.NotApplicable != 1 {
		t.Fatalf("counts = disclosed %d / gaps %d / n/a %d, want 1/1/1",
			cov.Disclosed, cov.NoDisclosure, cov.NotApplicable)
	}

	byID := map[string]CoverageStatus{}
	for _, qc := range cov.Questions {
		byID[qc.QuestionID] = qc.Status
	}
	if byID["ENV-001"] != CoverageDisclosed {
		t.Errorf("ENV-001 = %s, want DISCLOSED", byID["ENV-001"])
	}
	if byID["ENV-002"] != CoverageNoDisclosure {
		t.Errorf("ENV-002 = %s, want NO_DISCLOSURE", byID["ENV-002"])
	}
	// Sector mismatch is checked first: FIN-001 must never count as a
	// disclosure gap for a non-bank.
	if byID["FIN-001"] != CoverageNotApplicable {
		t.Errorf("FIN-001 = %s, want NOT_APPLICABLE", byID["FIN-001"])
	}
}

// Applicability gates gap counting even when the company has zero evidence
// overall.
func TestInapplicableNeverCountsAsGap(t *testing.T) {
	canonical := []config.CanonicalQuestion{
		{ID: "FIN-001", Sectors: []string{"Banking"}},
	}
	unit := coverageUnit("Agrochemical")

	cov := NewEngine(ModeEvidence).Coverage(unit, canonical)
	if cov.NoDisclosure != 0 {
		t.Errorf("inapplicable question counted as gap: %d", cov.NoDisclosure)
	}
	if cov.NotApplicable != 1 {
		t.Errorf("NotApplicable = %d, want 1", cov.NotApplicable)
	}
}

// Variant questions fold onto their canonical id before matching.
func TestCoverageMatchesVariants(t *testing.T) {
	canonical := []config.CanonicalQuestion{{ID: "ENV-001"}}
	unit := coverageUnit("ALL",
		models.Question{ID: "ENV-001-A", Disclosures: []models.Snippet{{ID: "s1", Quote: "evidence"}}},
	)

	cov := NewEngine(ModeEvidence).Coverage(unit, canonical)
	if cov.Disclosed != 1 {
		t.Errorf("variant evidence should disclose the canonical question: %+v", cov)
	}
}

func TestCoverageRateGuard(t *testing.T) {
	cov := CompanyCoverage{NotApplicable: 3}
	if cov.CoverageRate() != 0 {
		t.Errorf("coverage rate with zero applicable questions = %f, want 0", cov.CoverageRate())
	}
}

func TestCanonicalQuestionAppliesTo(t *testing.T) {
	q := config.CanonicalQuestion{Sectors: []string{"Agrochemical"}}
	if q.AppliesTo("Banking") {
		t.Error("sector mismatch should not apply")
	}
	if !q.AppliesTo("Agrochemical") {
		t.Error("matching sector should apply")
	}
	// Unknown company sector is treated as applicable everywhere.
	if !q.AppliesTo("ALL") {
		t.Error("unknown sector should apply")
	}
	all := config.CanonicalQuestion{}
	if !all.AppliesTo("Banking") {
		t.Error("question with no sector list applies everywhere")
	}
}
