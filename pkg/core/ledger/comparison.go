package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"disclosure_audit/pkg/models"
)

// RemovedSnippet is one audit row for a snippet dropped during
// cross-question review, with the decision that explains the removal.
type RemovedSnippet struct {
	ID           string   `json:"id"`
	Company      string   `json:"company"`
	Year         int      `json:"year"`
	QuestionID   string   `json:"question_id"`
	QuestionText string   `json:"question_text"`
	Category     string   `json:"category"`
	SnippetID    string   `json:"snippet_id"`
	Excerpt      string   `json:"excerpt"` // truncated for report rows
	Rationale    string   `json:"rationale"`
	Confidence   *float64 `json:"confidence"`

	// DecisionSource is "embedded" when the reviewed file carried the
	// decision, "log" when it came from the side-loaded review log, and
	// "unexplained" when neither had a record.
	DecisionSource string `json:"decision_source"`
}

// QuestionSummary aggregates review outcomes for one question of one
// company/year.
type QuestionSummary struct {
	Company    string `json:"company"`
	Year       int    `json:"year"`
	QuestionID string `json:"question_id"`
	Category   string `json:"category"`

	MergedSnippets   int    `json:"merged_snippets"`
	ReviewedSnippets int    `json:"reviewed_snippets"`
	Removed          int    `json:"removed"`
	Status           string `json:"status"` // "clean" or "needs_attention"
}

// Comparison is the full cross-question review explanation for a dataset
// pair plus its decision log.
type Comparison struct {
	Summaries       []QuestionSummary `json:"summaries"`
	RemovedSnippets []RemovedSnippet  `json:"removed_snippets"`
	DecisionLog     *DecisionLog      `json:"-"`
}

const excerptLimit = 200

// BuildComparison joins merged (pre-review) and reviewed (post-review)
// datasets by (company, year, model) and classifies every merged snippet
// missing from its reviewed question as removed during cross-question
// review, attaching the matching decision. Pairs with no reviewed
// counterpart are skipped: absence of a reviewed file means the review
// stage has not run, not that everything was removed.
func BuildComparison(merged, reviewed []*models.AnalysisResult, log *DecisionLog) *Comparison {
	if log == nil {
		log = &DecisionLog{byKey: map[decisionKey]models.ReviewDecision{}}
	}
	comparison := &Comparison{DecisionLog: log}

	reviewedByKey := map[models.ReconKey]*models.AnalysisResult{}
	for _, r := range reviewed {
		reviewedByKey[resultKey(r)] = r
	}

	for _, m := range merged {
		r, ok := reviewedByKey[resultKey(m)]
		if !ok {
			continue
		}
		comparison.compareResult(m, r, log)
	}
	return comparison
}

func resultKey(r *models.AnalysisResult) models.ReconKey {
	return models.ReconKey{Company: r.Company, Year: r.FiscalYear, Model: r.Model}
}

func (c *Comparison) compareResult(merged, reviewed *models.AnalysisResult, log *DecisionLog) {
	for _, mq := range merged.Questions {
		rq := reviewed.FindQuestion(mq.ID)

		kept := map[string]bool{}
		reviewedCount := 0
		if rq != nil {
			for _, s := range rq.Disclosures {
				kept[s.ID] = true
			}
			reviewedCount = len(rq.Disclosures)
		}

		removed := 0
		for _, s := range mq.Disclosures {
			if kept[s.ID] {
				continue
			}
			removed++
			c.RemovedSnippets = append(c.RemovedSnippets,
				removedRow(merged, mq, s, rq, log))
		}

		status := "clean"
		if removed > 0 {
			status = "needs_attention"
		}
		c.Summaries = append(c.Summaries, QuestionSummary{
			Company:          merged.Company,
			Year:             merged.FiscalYear,
			QuestionID:       mq.ID,
			Category:         mq.Category,
			MergedSnippets:   len(mq.Disclosures),
			ReviewedSnippets: reviewedCount,
			Removed:          removed,
			Status:           status,
		})
	}
}

// removedRow builds the audit row for one removed snippet, resolving its
// decision with embedded-over-log precedence.
func removedRow(result *models.AnalysisResult, q models.Question, s models.Snippet, reviewedQ *models.Question, log *DecisionLog) RemovedSnippet {
	row := RemovedSnippet{
		ID:           uuid.NewString(),
		Company:      result.Company,
		Year:         result.FiscalYear,
		QuestionID:   q.ID,
		QuestionText: q.Text,
		Category:     q.Category,
		SnippetID:    s.ID,
		Excerpt:      truncate(s.Quote, excerptLimit),
	}

	if decision, ok := embeddedDecision(reviewedQ, s.ID); ok {
		row.Rationale = decision.Rationale
		row.Confidence = decision.Confidence
		row.DecisionSource = "embedded"
		return row
	}
	if decision, ok := log.Find(result.Company, q.ID, s.ID); ok {
		row.Rationale = decision.Rationale
		row.Confidence = decision.Confidence
		row.DecisionSource = "log"
		return row
	}
	row.DecisionSource = "unexplained"
	row.Rationale = fmt.Sprintf("no review decision recorded for snippet %s", s.ID)
	return row
}

// embeddedDecision looks for the snippet's decision inside the reviewed
// question's own review block.
func embeddedDecision(q *models.Question, snippetID string) (models.ReviewDecision, bool) {
	if q == nil || q.Review == nil {
		return models.ReviewDecision{}, false
	}
	for _, d := range q.Review.Decisions {
		if d.SnippetID == snippetID {
			return d, true
		}
	}
	return models.ReviewDecision{}, false
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
