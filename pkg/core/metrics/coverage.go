package metrics

import (
	"disclosure_audit/pkg/core/config"
	"disclosure_audit/pkg/models"
)

// CoverageStatus is a company's standing against one canonical question.
type CoverageStatus string

const (
	// CoverageNotApplicable: the question does not apply to the
	// company's sector. Checked before anything else so inapplicable
	// questions never count as disclosure gaps.
	CoverageNotApplicable CoverageStatus = "NOT_APPLICABLE"
	// CoverageNoDisclosure: applicable, but no evidence was found.
	CoverageNoDisclosure CoverageStatus = "NO_DISCLOSURE"
	// CoverageDisclosed: applicable, with at least one evidence snippet.
	CoverageDisclosed CoverageStatus = "DISCLOSED"
)

// QuestionCoverage is one canonical question's status for one company.
type QuestionCoverage struct {
	QuestionID string         `json:"question_id"`
	Category   string         `json:"category"`
	Status     CoverageStatus `json:"status"`
}

// CompanyCoverage measures a company against the canonical question list,
// independent of company-specific question variants.
type CompanyCoverage struct {
	Company string `json:"company"`
	Year    int    `json:"year"`
	Sector  string `json:"sector"`

	Questions []QuestionCoverage `json:"questions"`

	Disclosed     int `json:"disclosed"`
	NoDisclosure  int `json:"no_disclosure"`
	NotApplicable int `json:"not_applicable"`
}

// CoverageRate is disclosed / applicable * 100, guarded to 0 when nothing
// was applicable.
func (c CompanyCoverage) CoverageRate() float64 {
	return rate(c.Disclosed, c.Disclosed+c.NoDisclosure)
}

// Coverage evaluates one reconciled unit against the canonical question
// list. Variant questions (id suffixed -A, -B, ...) are folded onto their
// canonical id before matching, so a company answering any variant counts
// as disclosing the canonical question.
func (e *Engine) Coverage(unit models.CompanyYearData, canonical []config.CanonicalQuestion) CompanyCoverage {
	coverage := CompanyCoverage{
		Company: unit.Company,
		Year:    unit.Year,
		Sector:  unit.Sector,
	}

	// Evidence count per canonical id across all variants.
	evidenceByBase := map[string]int{}
	if unit.Primary != nil {
		for _, q := range unit.Primary.Questions {
			evidenceByBase[models.BaseQuestionID(q.ID)] += q.EvidenceCount()
		}
	}

	for _, cq := range canonical {
		qc := QuestionCoverage{QuestionID: cq.ID, Category: cq.Category}
		switch {
		case !cq.AppliesTo(unit.Sector):
			qc.Status = CoverageNotApplicable
			coverage.NotApplicable++
		case evidenceByBase[cq.ID] > 0:
			qc.Status = CoverageDisclosed
			coverage.Disclosed++
		default:
			qc.Status = CoverageNoDisclosure
			coverage.NoDisclosure++
		}
		coverage.Questions = append(coverage.Questions, qc)
	}
	return coverage
}
