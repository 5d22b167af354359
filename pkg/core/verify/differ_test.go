package verify

import (
	"math"
	"testing"

	"disclosure_audit/pkg/models"
)

func snapshot(snippets ...models.Snippet) *models.AnalysisResult {
	return &models.AnalysisResult{
		Company:    "Bayer",
		FiscalYear: 2022,
		Questions:  []models.Question{{ID: "ENV-001", Disclosures: snippets}},
	}
}

func full(id string) models.Snippet {
	return models.Snippet{ID: id, Quote: "evidence " + id,
		Classification: models.FullDisclosure,
		Categorization: models.DefaultCategorization()}
}

// Removing one snippet from a snapshot of N yields removed=1,
// unchanged=N-1 and pass_rate=(N-1)/N*100.
func TestDiffRemovedOne(t *testing.T) {
	original := snapshot(full("s1"), full("s2"), full("s3"), full("s4"))
	verified := snapshot(full("s1"), full("s2"), full("s3"))

	m := Diff(original, verified)
	if m.TotalOriginal != 4 {
		t.Errorf("total = %d, want 4", m.TotalOriginal)
	}
	if m.SnippetsRemoved != 1 {
		t.Errorf("removed = %d, want 1", m.SnippetsRemoved)
	}
	if m.SnippetsUnchanged != 3 {
		t.Errorf("unchanged = %d, want 3", m.SnippetsUnchanged)
	}
	if math.Abs(m.PassRate-75) > 0.001 {
		t.Errorf("pass rate = %f, want 75", m.PassRate)
	}
	if len(m.Changes) != 1 || m.Changes[0].Status != models.StatusRemoved {
		t.Errorf("changes = %+v", m.Changes)
	}
}

func TestDiffClassificationChange(t *testing.T) {
	original := snapshot(full("s1"))
	changed := full("s1")
	changed.Classification = models.Partial
	verified := snapshot(changed)

	m := Diff(original, verified)
	if m.SnippetsCorrected != 1 {
		t.Errorf("corrected = %d, want 1", m.SnippetsCorrected)
	}
	if m.ClassificationChanges != 1 || m.CategorizationChanges != 0 {
		t.Errorf("sub-counters = class %d / cat %d, want 1/0",
			m.ClassificationChanges, m.CategorizationChanges)
	}
	if m.Transitions["FULL_DISCLOSURE->PARTIAL"] != 1 {
		t.Errorf("transitions = %v", m.Transitions)
	}
	if len(m.Changes) != 1 {
		t.Fatalf("changes = %+v", m.Changes)
	}
	c := m.Changes[0]
	if c.BeforeClassification != models.FullDisclosure || c.AfterClassification != models.Partial {
		t.Errorf("before/after = %s/%s", c.BeforeClassification, c.AfterClassification)
	}
	if !c.ClassificationChanged || c.CategorizationChanged {
		t.Errorf("change flags = %+v", c)
	}
}

// A categorization-only change is corrected too, but tracked under the
// other sub-counter. Justification rewording alone is not a correction.
func TestDiffCategorizationChange(t *testing.T) {
	original := snapshot(full("s1"))
	changed := full("s1")
	changed.Categorization.Timeframe = models.TimeframeFuture
	verified := snapshot(changed)

	m := Diff(original, verified)
	if m.SnippetsCorrected != 1 {
		t.Errorf("corrected = %d, want 1", m.SnippetsCorrected)
	}
	if m.ClassificationChanges != 0 || m.CategorizationChanges != 1 {
		t.Errorf("sub-counters = class %d / cat %d, want 0/1",
			m.ClassificationChanges, m.CategorizationChanges)
	}
	if len(m.Transitions) != 0 {
		t.Errorf("no classification transition expected: %v", m.Transitions)
	}

	// Only the three dimensions count, not the justification text.
	reworded := full("s1")
	reworded.Categorization.FinancialJustification = "reworded by reviewer"
	m = Diff(snapshot(full("s1")), snapshot(reworded))
	if m.SnippetsUnchanged != 1 || m.SnippetsCorrected != 0 {
		t.Errorf("justification rewording treated as correction: %+v", m)
	}
}

func TestDiffEmptyOriginal(t *testing.T) {
	m := Diff(snapshot(), snapshot())
	if m.PassRate != 100 {
		t.Errorf("pass rate on empty original = %f, want 100", m.PassRate)
	}
	if m.TotalOriginal != 0 {
		t.Errorf("total = %d, want 0", m.TotalOriginal)
	}
}

// The diff is one-way and must not touch either input.
func TestDiffDoesNotMutate(t *testing.T) {
	original := snapshot(full("s1"), full("s2"))
	verified := snapshot(full("s1"))

	Diff(original, verified)

	for _, s := range original.Questions[0].Disclosures {
		if s.ComparisonStatus != "" {
			t.Errorf("original snippet %s was mutated: %q", s.ID, s.ComparisonStatus)
		}
	}
	if len(original.Questions[0].Disclosures) != 2 || len(verified.Questions[0].Disclosures) != 1 {
		t.Error("inputs were structurally modified")
	}
}

func TestDiffReportIdentity(t *testing.T) {
	m := Diff(snapshot(full("s1")), snapshot(full("s1")))
	if m.ReportID == "" || m.GeneratedAt == "" {
		t.Errorf("report identity missing: %+v", m)
	}
	if m.Company != "Bayer" || m.Year != 2022 {
		t.Errorf("report scope = %s/%d", m.Company, m.Year)
	}
}
