// Package ledger explains cross-question review outcomes. It joins the
// merged (pre-review) and reviewed (post-review) datasets to find snippets
// that were dropped, then attaches the review decision that justifies each
// removal, taken from the reviewed file's own embedded review block when
// present and from the side-loaded decision log otherwise. The embedded
// decision wins because it reflects the outcome that was actually applied;
// the log is the broader, possibly superseded audit trail.
package ledger

import (
	"bufio"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"disclosure_audit/pkg/core/utils"
	"disclosure_audit/pkg/models"
)

// =============================================================================
// DECISION LOG (line-delimited JSON)
// =============================================================================

// LogQuestionRef is a question a logged snippet was attached to.
type LogQuestionRef struct {
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	Category     string `json:"category"`
	SnippetID    string `json:"snippet_id"`
}

// LogDecision is one per-question verdict inside a log line.
type LogDecision struct {
	QuestionID string   `json:"question_id"`
	Belongs    bool     `json:"belongs"`
	Confidence *float64 `json:"confidence"`
	Rationale  string   `json:"rationale"`
}

// LogOutput is the reviewer model's verdict block inside a log line.
type LogOutput struct {
	Decisions []LogDecision `json:"decisions"`
	Notes     string        `json:"notes"`
}

// LogEntry is one line of the review log: a snippet excerpt, the questions
// it appeared under, and the reviewer's per-question decisions.
type LogEntry struct {
	Snippet    string           `json:"snippet"`
	SourceFile string           `json:"source_file"`
	Questions  []LogQuestionRef `json:"questions"`
	LLMOutput  LogOutput        `json:"llm_output"`
}

// DecisionLog indexes log entries by (company, question id, snippet id).
type DecisionLog struct {
	Entries []LogEntry

	byKey map[decisionKey]models.ReviewDecision
}

type decisionKey struct {
	company    string
	questionID string
	snippetID  string
}

// LoadDecisionLog reads a newline-delimited JSON review log. Malformed
// lines are logged and skipped, never fatal. A missing file yields an
// empty log, since not every dataset has been cross-question reviewed.
func LoadDecisionLog(path string) (*DecisionLog, error) {
	log := &DecisionLog{byKey: map[decisionKey]models.ReviewDecision{}}
	if path == "" {
		return log, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return log, nil
		}
		return nil, eris.Wrapf(err, "open decision log %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := utils.DecodeTolerant([]byte(line), &entry); err != nil {
			zap.L().Warn("decision log: skipping malformed line",
				zap.String("path", path),
				zap.Int("line", lineNo),
				zap.Error(err))
			continue
		}
		log.add(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "scan decision log %s", path)
	}
	return log, nil
}

func (l *DecisionLog) add(entry LogEntry) {
	l.Entries = append(l.Entries, entry)
	company := companyFromSourceFile(entry.SourceFile)
	for _, d := range entry.LLMOutput.Decisions {
		snippetID := ""
		for _, q := range entry.Questions {
			if q.QuestionID == d.QuestionID {
				snippetID = q.SnippetID
				break
			}
		}
		key := decisionKey{company: company, questionID: d.QuestionID, snippetID: snippetID}
		if _, exists := l.byKey[key]; exists {
			continue // first decision per key wins, matching the applier
		}
		l.byKey[key] = models.ReviewDecision{
			SnippetID:  snippetID,
			QuestionID: d.QuestionID,
			Belongs:    d.Belongs,
			Confidence: d.Confidence,
			Rationale:  d.Rationale,
			SourceFile: entry.SourceFile,
		}
	}
}

// Find returns the logged decision for (company, question, snippet).
func (l *DecisionLog) Find(company, questionID, snippetID string) (models.ReviewDecision, bool) {
	d, ok := l.byKey[decisionKey{company: normalizeCompany(company), questionID: questionID, snippetID: snippetID}]
	return d, ok
}

// companyFromSourceFile recovers the company name from a result file path.
// Filenames start with the company segments followed by the fiscal year,
// so everything before the first four-digit segment is company name.
func companyFromSourceFile(path string) string {
	name := path
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.TrimSuffix(name, ".json")
	parts := strings.Split(name, "_")
	var companyParts []string
	for _, part := range parts {
		if len(part) == 4 && isDigits(part) {
			break
		}
		companyParts = append(companyParts, part)
	}
	return normalizeCompany(strings.Join(companyParts, "_"))
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func normalizeCompany(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
