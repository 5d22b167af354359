package ledger

import (
	"strings"
	"testing"

	"disclosure_audit/pkg/models"
)

func analysis(company string, questions ...models.Question) *models.AnalysisResult {
	return &models.AnalysisResult{
		Company: company, FiscalYear: 2022, Model: "gemini",
		Questions: questions,
	}
}

func question(id string, review *models.CrossQuestionReview, snippetIDs ...string) models.Question {
	q := models.Question{ID: id, Category: "Human Health Risk", Review: review}
	for _, sid := range snippetIDs {
		q.Disclosures = append(q.Disclosures, models.Snippet{ID: sid, Quote: "evidence " + sid})
	}
	return q
}

func emptyLog() *DecisionLog {
	return &DecisionLog{byKey: map[decisionKey]models.ReviewDecision{}}
}

func TestBuildComparisonFindsRemovals(t *testing.T) {
	merged := []*models.AnalysisResult{analysis("Bayer", question("HH-001", nil, "s1", "s2", "s3"))}
	reviewed := []*models.AnalysisResult{analysis("Bayer", question("HH-001", nil, "s1", "s3"))}

	c := BuildComparison(merged, reviewed, emptyLog())
	if len(c.RemovedSnippets) != 1 || c.RemovedSnippets[0].SnippetID != "s2" {
		t.Fatalf("removed = %+v", c.RemovedSnippets)
	}
	if len(c.Summaries) != 1 {
		t.Fatalf("summaries = %+v", c.Summaries)
	}
	s := c.Summaries[0]
	if s.MergedSnippets != 3 || s.ReviewedSnippets != 2 || s.Removed != 1 {
		t.Errorf("summary counts = %+v", s)
	}
	if s.Status != "needs_attention" {
		t.Errorf("status = %q, want needs_attention", s.Status)
	}
}

func TestBuildComparisonCleanQuestion(t *testing.T) {
	merged := []*models.AnalysisResult{analysis("Bayer", question("HH-001", nil, "s1"))}
	reviewed := []*models.AnalysisResult{analysis("Bayer", question("HH-001", nil, "s1"))}

	c := BuildComparison(merged, reviewed, emptyLog())
	if len(c.RemovedSnippets) != 0 {
		t.Errorf("removed = %+v", c.RemovedSnippets)
	}
	if c.Summaries[0].Status != "clean" {
		t.Errorf("status = %q, want clean", c.Summaries[0].Status)
	}
}

// The embedded decision wins over the side-loaded log: it reflects the
// outcome that was actually applied.
func TestDecisionPrecedenceEmbeddedOverLog(t *testing.T) {
	confidence := 0.95
	review := &models.CrossQuestionReview{
		Status: "needs_attention",
		Decisions: []models.ReviewDecision{
			{SnippetID: "s2", Belongs: false, Confidence: &confidence, Rationale: "embedded rationale"},
		},
	}
	merged := []*models.AnalysisResult{analysis("Bayer", question("HH-001", nil, "s1", "s2"))}
	reviewed := []*models.AnalysisResult{analysis("Bayer", question("HH-001", review, "s1"))}

	log := emptyLog()
	log.add(LogEntry{
		Snippet:    "evidence s2",
		SourceFile: "Bayer_2022_merged.json",
		Questions:  []LogQuestionRef{{QuestionID: "HH-001", SnippetID: "s2"}},
		LLMOutput: LogOutput{
			Decisions: []LogDecision{{QuestionID: "HH-001", Belongs: false, Rationale: "log rationale"}},
		},
	})

	c := BuildComparison(merged, reviewed, log)
	if len(c.RemovedSnippets) != 1 {
		t.Fatalf("removed = %+v", c.RemovedSnippets)
	}
	row := c.RemovedSnippets[0]
	if row.DecisionSource != "embedded" {
		t.Errorf("source = %q, want embedded", row.DecisionSource)
	}
	if row.Rationale != "embedded rationale" {
		t.Errorf("rationale = %q, want the embedded one", row.Rationale)
	}
}

func TestDecisionFallsBackToLog(t *testing.T) {
	merged := []*models.AnalysisResult{analysis("Bayer", question("HH-001", nil, "s1", "s2"))}
	reviewed := []*models.AnalysisResult{analysis("Bayer", question("HH-001", nil, "s1"))}

	log := emptyLog()
	log.add(LogEntry{
		SourceFile: "Bayer_2022_merged.json",
		Questions:  []LogQuestionRef{{QuestionID: "HH-001", SnippetID: "s2"}},
		LLMOutput: LogOutput{
			Decisions: []LogDecision{{QuestionID: "HH-001", Belongs: false, Rationale: "log rationale"}},
		},
	})

	c := BuildComparison(merged, reviewed, log)
	row := c.RemovedSnippets[0]
	if row.DecisionSource != "log" || row.Rationale != "log rationale" {
		t.Errorf("row = %+v, want log fallback", row)
	}

	// No decision anywhere: still reported, marked unexplained.
	c = BuildComparison(merged, reviewed, emptyLog())
	if c.RemovedSnippets[0].DecisionSource != "unexplained" {
		t.Errorf("source = %q, want unexplained", c.RemovedSnippets[0].DecisionSource)
	}
}

// Companies are matched by (company, year, model); a merged dataset with
// no reviewed counterpart is skipped, not reported as fully removed.
func TestBuildComparisonUnmatchedSkipped(t *testing.T) {
	merged := []*models.AnalysisResult{analysis("Bayer", question("HH-001", nil, "s1"))}
	c := BuildComparison(merged, nil, emptyLog())
	if len(c.Summaries) != 0 || len(c.RemovedSnippets) != 0 {
		t.Errorf("unmatched dataset should be skipped: %+v", c)
	}
}

func TestExcerptTruncation(t *testing.T) {
	long := strings.Repeat("x", 300)
	merged := []*models.AnalysisResult{analysis("Bayer", models.Question{
		ID: "HH-001", Disclosures: []models.Snippet{{ID: "s1", Quote: long}},
	})}
	reviewed := []*models.AnalysisResult{analysis("Bayer", question("HH-001", nil))}

	c := BuildComparison(merged, reviewed, emptyLog())
	excerpt := c.RemovedSnippets[0].Excerpt
	if len([]rune(excerpt)) != excerptLimit+3 {
		t.Errorf("excerpt length = %d runes, want %d plus ellipsis", len([]rune(excerpt)), excerptLimit)
	}
	if !strings.HasSuffix(excerpt, "...") {
		t.Errorf("excerpt should end with ellipsis: %q", excerpt)
	}
}
