// Package validate surfaces dataset-integrity violations: problems a human
// must fix in the source data, as opposed to shape anomalies the
// normalizer silently defaults. These are the only errors in the core that
// are raised deliberately rather than logged and skipped.
package validate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"disclosure_audit/pkg/models"
)

// IntegrityError describes one violated integrity rule.
type IntegrityError struct {
	Company string
	Year    int
	Field   string
	Rule    string
	Message string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity violation in %s/%d: %s (%s): %s",
		e.Company, e.Year, e.Field, e.Rule, e.Message)
}

// AsIntegrityError unwraps err into an *IntegrityError if it is one.
func AsIntegrityError(err error) (*IntegrityError, bool) {
	var ie *IntegrityError
	ok := errors.As(err, &ie)
	return ie, ok
}

// resultRules mirrors the integrity constraints as struct tags so the rule
// set is declared in one place.
type resultRules struct {
	Company    string `validate:"required"`
	Model      string `validate:"required"`
	FiscalYear int    `validate:"gte=2000,lte=2100"`
}

var ruleValidator = validator.New()

// Result checks one canonical analysis result. The first violated rule is
// returned as a typed *IntegrityError; nil means the dataset is usable.
func Result(r *models.AnalysisResult) error {
	if r == nil {
		return &IntegrityError{Field: "result", Rule: "required", Message: "nil analysis result"}
	}

	rules := resultRules{Company: r.Company, Model: r.Model, FiscalYear: r.FiscalYear}
	if err := ruleValidator.Struct(rules); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			v := verrs[0]
			return &IntegrityError{
				Company: r.Company,
				Year:    r.FiscalYear,
				Field:   v.Field(),
				Rule:    v.Tag(),
				Message: fmt.Sprintf("value %q fails rule %s", fmt.Sprint(v.Value()), v.Tag()),
			}
		}
		return err
	}

	// Cross-field check: declared totals must match the actual array.
	if r.Stats.TotalQuestions != 0 && r.Stats.TotalQuestions != len(r.Questions) {
		return &IntegrityError{
			Company: r.Company,
			Year:    r.FiscalYear,
			Field:   "total_questions",
			Rule:    "matches_array_length",
			Message: fmt.Sprintf("declared %d questions but file contains %d",
				r.Stats.TotalQuestions, len(r.Questions)),
		}
	}

	for _, q := range r.Questions {
		if q.ID == "" {
			return &IntegrityError{
				Company: r.Company,
				Year:    r.FiscalYear,
				Field:   "question_id",
				Rule:    "required",
				Message: "question with empty id",
			}
		}
	}
	return nil
}
