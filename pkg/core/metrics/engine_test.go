package metrics

import (
	"math"
	"testing"

	"disclosure_audit/pkg/models"
)

func evidenceSnippet(id string, class models.Classification) models.Snippet {
	return models.Snippet{ID: id, Quote: "evidence " + id, Classification: class,
		Categorization: models.DefaultCategorization()}
}

// A question with zero snippets contributes one NO_DISCLOSURE unit, not an
// empty distribution, so coverage denominators stay meaningful.
func TestQuestionMetricsEmptyDisclosures(t *testing.T) {
	e := NewEngine(ModeEvidence)
	m := e.QuestionMetrics(models.Question{ID: "ENV-001"})

	if m.Distribution[models.NoDisclosure] != 1 {
		t.Errorf("NO_DISCLOSURE = %d, want 1", m.Distribution[models.NoDisclosure])
	}
	if m.Distribution.Total() != 1 {
		t.Errorf("distribution total = %d, want 1", m.Distribution.Total())
	}
	for _, c := range []models.Classification{models.FullDisclosure, models.Partial, models.Unclear} {
		if m.Distribution[c] != 0 {
			t.Errorf("bucket %s = %d, want 0", c, m.Distribution[c])
		}
	}
	// Rate metrics guard to 0 on an empty denominator.
	if m.QuantificationRate != 0 || m.ForwardLookingRate != 0 || m.NarrativeBalanceRate != 0 {
		t.Errorf("rates should be 0 with no snippets: %+v", m)
	}
}

// Distribution always sums to max(1, snippet_count).
func TestDistributionInvariant(t *testing.T) {
	e := NewEngine(ModeEvidence)
	for n := 0; n <= 4; n++ {
		q := models.Question{ID: "Q"}
		for i := 0; i < n; i++ {
			q.Disclosures = append(q.Disclosures, evidenceSnippet(string(rune('a'+i)), models.Partial))
		}
		m := e.QuestionMetrics(q)
		want := n
		if want == 0 {
			want = 1
		}
		if m.Distribution.Total() != want {
			t.Errorf("n=%d: distribution total = %d, want %d", n, m.Distribution.Total(), want)
		}
	}
}

// Placeholder snippets are carried in the data but never counted as
// evidence.
func TestPlaceholderExcluded(t *testing.T) {
	e := NewEngine(ModeEvidence)
	q := models.Question{ID: "Q", Disclosures: []models.Snippet{
		{ID: "p", Quote: "No disclosure found for this question", Classification: models.NoDisclosure},
	}}
	m := e.QuestionMetrics(q)
	if m.SnippetCount != 0 {
		t.Errorf("placeholder counted as evidence: %d", m.SnippetCount)
	}
	if m.Distribution[models.NoDisclosure] != 1 {
		t.Errorf("placeholder-only question should read as NO_DISCLOSURE unit")
	}
}

func futureQuantified(id string) models.Snippet {
	s := evidenceSnippet(id, models.FullDisclosure)
	s.Categorization.Timeframe = models.TimeframeFuture
	s.FinancialAmounts = []models.FinancialAmount{{Currency: "EUR"}}
	return s
}

func TestQuestionRates(t *testing.T) {
	e := NewEngine(ModeEvidence)
	q := models.Question{ID: "Q", Disclosures: []models.Snippet{
		futureQuantified("a"),
		evidenceSnippet("b", models.Partial),
		evidenceSnippet("c", models.Partial),
		evidenceSnippet("d", models.Unclear),
	}}
	m := e.QuestionMetrics(q)
	// 1 of 4 quantified, 1 of 4 forward-looking => 25% each.
	if math.Abs(m.QuantificationRate-25) > 0.001 {
		t.Errorf("quantification rate = %f, want 25", m.QuantificationRate)
	}
	if math.Abs(m.ForwardLookingRate-25) > 0.001 {
		t.Errorf("forward-looking rate = %f, want 25", m.ForwardLookingRate)
	}
	if m.NarrativeBalanceRate != 0 {
		t.Errorf("balance rate = %f, want 0", m.NarrativeBalanceRate)
	}
}

func unitWithSnippets(company string, counts ...int) models.CompanyYearData {
	result := &models.AnalysisResult{Company: company, FiscalYear: 2022, Model: "m"}
	for qi, n := range counts {
		q := models.Question{ID: "Q" + string(rune('1'+qi)), Category: "Environmental Risk"}
		for i := 0; i < n; i++ {
			q.Disclosures = append(q.Disclosures, evidenceSnippet(string(rune('a'+i)), models.FullDisclosure))
		}
		result.Questions = append(result.Questions, q)
	}
	return models.CompanyYearData{Company: company, Year: 2022, Sector: "ALL", Primary: result}
}

func TestCompanyMetricsRadar(t *testing.T) {
	e := NewEngine(ModeEvidence)
	// 2 questions, 3 snippets and 0 snippets: depth 1.5 -> radar 15,
	// breadth 50%.
	m := e.CompanyMetrics(unitWithSnippets("Bayer", 3, 0))
	if math.Abs(m.Radar.EvidenceDepth-15) > 0.001 {
		t.Errorf("radar depth = %f, want 15", m.Radar.EvidenceDepth)
	}
	if math.Abs(m.Radar.DisclosureBreadth-50) > 0.001 {
		t.Errorf("radar breadth = %f, want 50", m.Radar.DisclosureBreadth)
	}

	// Saturation: 12 snippets on one question clamps at 100.
	m = e.CompanyMetrics(unitWithSnippets("Dense", 12))
	if m.Radar.EvidenceDepth != 100 {
		t.Errorf("radar depth should saturate at 100, got %f", m.Radar.EvidenceDepth)
	}
}

// Ranking is a stable total order: strictly higher primary metric ranks
// strictly higher, equal primaries preserve encounter order.
func TestCrossCompanyRankingStable(t *testing.T) {
	e := NewEngine(ModeEvidence)
	units := []models.CompanyYearData{
		unitWithSnippets("Alpha", 2), // depth 2
		unitWithSnippets("Beta", 5),  // depth 5
		unitWithSnippets("Gamma", 2), // depth 2, ties Alpha, encountered later
		unitWithSnippets("Delta", 0), // depth 0
	}
	cross := e.CrossCompanyMetrics(units)

	wantOrder := []string{"Beta", "Alpha", "Gamma", "Delta"}
	for i, want := range wantOrder {
		if cross.Companies[i].Company != want {
			t.Fatalf("rank %d = %s, want %s (%+v)", i+1, cross.Companies[i].Company, want, cross.Companies)
		}
		if cross.Companies[i].Rank != i+1 {
			t.Errorf("rank field = %d, want %d", cross.Companies[i].Rank, i+1)
		}
	}
}

func TestModeSeparation(t *testing.T) {
	// Evidence mode must not leak composite scores into the ranking.
	e := NewEngine(ModeEvidence)
	cross := e.CrossCompanyMetrics([]models.CompanyYearData{unitWithSnippets("Bayer", 2)})
	if cross.Companies[0].Grade != "" {
		t.Errorf("evidence mode should not grade, got %q", cross.Companies[0].Grade)
	}

	legacy := NewEngine(ModeLegacy)
	cross = legacy.CrossCompanyMetrics([]models.CompanyYearData{unitWithSnippets("Bayer", 2)})
	if cross.Companies[0].Grade == "" {
		t.Error("legacy mode should grade the ranking rows")
	}
}

// A zero-snippet question carries a grade only in legacy mode; evidence
// mode leaves Grade empty whether or not evidence exists.
func TestEmptyQuestionGradeByMode(t *testing.T) {
	empty := models.Question{ID: "ENV-001"}

	m := NewEngine(ModeEvidence).QuestionMetrics(empty)
	if m.Grade != "" {
		t.Errorf("evidence mode graded an empty question: %q", m.Grade)
	}

	m = NewEngine(ModeLegacy).QuestionMetrics(empty)
	if m.Grade != "F" {
		t.Errorf("legacy mode grade = %q, want F", m.Grade)
	}
}

func TestCategoryMetrics(t *testing.T) {
	e := NewEngine(ModeLegacy)
	unit := unitWithSnippets("Bayer", 2, 4)
	m := e.CategoryMetrics("Environmental Risk", unit.Primary.Questions)
	if m.QuestionCount != 2 || m.SnippetCount != 6 {
		t.Errorf("category counts = %d questions / %d snippets", m.QuestionCount, m.SnippetCount)
	}
	if m.DisplayName != "Environmental" {
		t.Errorf("display name = %q, want Environmental", m.DisplayName)
	}
	if m.EvidenceDepth != 3 {
		t.Errorf("evidence depth = %f, want 3", m.EvidenceDepth)
	}
	if m.Grade == "" {
		t.Error("legacy mode should grade categories")
	}
}
