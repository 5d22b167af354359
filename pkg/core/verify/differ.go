// Package verify structurally diffs two snapshots of the same analysis:
// the original model output against its reviewed counterpart. The diff is
// one-way and non-mutating; neither input is merged or modified. Every
// original snippet ends up in exactly one of three buckets (unchanged,
// corrected, removed) and every classification change is recorded as a
// transition for the audit trail.
package verify

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"disclosure_audit/pkg/core/scoring"
	"disclosure_audit/pkg/models"
)

// snippetRef locates one snippet within a snapshot by identity.
type snippetRef struct {
	questionID string
	snippet    models.Snippet
}

// index builds the identity-keyed snippet map for one snapshot. Snippet
// ids are unique within a question, so the key is (question, snippet).
func index(result *models.AnalysisResult) map[[2]string]snippetRef {
	refs := map[[2]string]snippetRef{}
	if result == nil {
		return refs
	}
	for _, q := range result.Questions {
		for _, s := range q.Disclosures {
			refs[[2]string{q.ID, s.ID}] = snippetRef{questionID: q.ID, snippet: s}
		}
	}
	return refs
}

// categorizationDiffers compares the three categorization dimensions,
// ignoring justification text: reviewers rewording a justification is not
// a correction.
func categorizationDiffers(a, b models.Categorization) bool {
	return a.FinancialType != b.FinancialType ||
		a.Timeframe != b.Timeframe ||
		a.Framing != b.Framing
}

// Diff classifies every snippet of the original snapshot against the
// verified one. Per original snippet: absent in verified means removed;
// present with a different classification or any differing categorization
// dimension means corrected; otherwise unchanged.
func Diff(original, verified *models.AnalysisResult) *models.VerificationMetrics {
	m := &models.VerificationMetrics{
		ReportID:    uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Transitions: map[string]int{},
	}
	if original != nil {
		m.Company = original.Company
		m.Year = original.FiscalYear
	}

	after := index(verified)
	if original == nil {
		m.PassRate = 100
		return m
	}

	for _, q := range original.Questions {
		for _, s := range q.Disclosures {
			m.TotalOriginal++
			ref, present := after[[2]string{q.ID, s.ID}]
			if !present {
				m.SnippetsRemoved++
				m.Changes = append(m.Changes, models.SnippetChange{
					SnippetID:            s.ID,
					QuestionID:           q.ID,
					Status:               models.StatusRemoved,
					BeforeClassification: s.Classification,
					BeforeScore:          scoring.Score(s).Composite,
				})
				continue
			}

			classChanged := ref.snippet.Classification != s.Classification
			catChanged := categorizationDiffers(s.Categorization, ref.snippet.Categorization)
			if !classChanged && !catChanged {
				m.SnippetsUnchanged++
				continue
			}

			m.SnippetsCorrected++
			if classChanged {
				m.ClassificationChanges++
				m.Transitions[transitionKey(s.Classification, ref.snippet.Classification)]++
			}
			if catChanged {
				m.CategorizationChanges++
			}
			m.Changes = append(m.Changes, models.SnippetChange{
				SnippetID:             s.ID,
				QuestionID:            q.ID,
				Status:                models.StatusCorrected,
				BeforeClassification:  s.Classification,
				AfterClassification:   ref.snippet.Classification,
				BeforeScore:           scoring.Score(s).Composite,
				AfterScore:            scoring.Score(ref.snippet).Composite,
				ClassificationChanged: classChanged,
				CategorizationChanged: catChanged,
			})
		}
	}

	if m.TotalOriginal == 0 {
		m.PassRate = 100
	} else {
		m.PassRate = float64(m.SnippetsUnchanged) / float64(m.TotalOriginal) * 100.0
	}
	return m
}

func transitionKey(before, after models.Classification) string {
	return fmt.Sprintf("%s->%s", before, after)
}
