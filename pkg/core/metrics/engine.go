package metrics

import (
	"sort"

	"disclosure_audit/pkg/core/scoring"
	"disclosure_audit/pkg/models"
)

// Engine computes all roll-ups under one fixed mode. Engines are stateless
// and cheap; construct one per view.
type Engine struct {
	mode Mode
}

// NewEngine creates an aggregation engine. An unknown mode falls back to
// ModeEvidence, the current default semantic.
func NewEngine(mode Mode) *Engine {
	if mode != ModeLegacy && mode != ModeEvidence {
		mode = ModeEvidence
	}
	return &Engine{mode: mode}
}

// Mode returns the engine's fixed mode.
func (e *Engine) Mode() Mode { return e.mode }

// rate guards the percent computation against an empty denominator.
func rate(matching, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matching) / float64(total) * 100.0
}

// evidence returns the non-placeholder snippets of a question.
func evidence(q models.Question) []models.Snippet {
	real := make([]models.Snippet, 0, len(q.Disclosures))
	for _, s := range q.Disclosures {
		if !s.IsPlaceholder() {
			real = append(real, s)
		}
	}
	return real
}

// QuestionMetrics rolls one question up. A question with zero evidence
// contributes one NO_DISCLOSURE unit to its distribution rather than an
// empty map, keeping downstream denominators meaningful.
func (e *Engine) QuestionMetrics(q models.Question) QuestionMetrics {
	snippets := evidence(q)

	m := QuestionMetrics{
		QuestionID:   q.ID,
		Category:     q.Category,
		SubCategory:  q.SubCategory,
		SnippetCount: len(snippets),
		Distribution: Distribution{},
	}

	if len(snippets) == 0 {
		m.Distribution[models.NoDisclosure] = 1
		if e.mode == ModeLegacy {
			m.Grade = scoring.Grade(0)
		}
		return m
	}

	quantified, forward, balanced := 0, 0, 0
	compositeSum := 0.0
	for _, s := range snippets {
		m.Distribution[s.Classification]++
		p := scoring.Profile(s)
		if p.Quantified {
			quantified++
		}
		if p.ForwardLooking {
			forward++
		}
		if p.Balanced {
			balanced++
		}
		compositeSum += scoring.Score(s).Composite
	}

	m.QuantificationRate = rate(quantified, len(snippets))
	m.ForwardLookingRate = rate(forward, len(snippets))
	m.NarrativeBalanceRate = rate(balanced, len(snippets))

	if e.mode == ModeLegacy {
		m.AvgComposite = compositeSum / float64(len(snippets))
		m.Grade = scoring.Grade(m.AvgComposite)
	}
	return m
}

// CategoryMetrics rolls up the questions of one category, preserving the
// question roll-up semantics.
func (e *Engine) CategoryMetrics(category string, questions []models.Question) CategoryMetrics {
	m := CategoryMetrics{
		Category:     category,
		DisplayName:  displayName(category),
		Distribution: Distribution{},
	}

	compositeSum := 0.0
	quantified, forward, balanced := 0, 0, 0
	for _, q := range questions {
		if q.Category != category {
			continue
		}
		qm := e.QuestionMetrics(q)
		m.QuestionCount++
		m.SnippetCount += qm.SnippetCount
		m.Distribution.add(qm.Distribution)

		for _, s := range evidence(q) {
			p := scoring.Profile(s)
			if p.Quantified {
				quantified++
			}
			if p.ForwardLooking {
				forward++
			}
			if p.Balanced {
				balanced++
			}
			compositeSum += scoring.Score(s).Composite
		}
	}

	if m.QuestionCount > 0 {
		m.EvidenceDepth = float64(m.SnippetCount) / float64(m.QuestionCount)
	}
	m.QuantificationRate = rate(quantified, m.SnippetCount)
	m.ForwardLookingRate = rate(forward, m.SnippetCount)
	m.NarrativeBalanceRate = rate(balanced, m.SnippetCount)

	if e.mode == ModeLegacy && m.SnippetCount > 0 {
		m.AvgComposite = compositeSum / float64(m.SnippetCount)
		m.Grade = scoring.Grade(m.AvgComposite)
	}
	return m
}

// CompanyMetrics rolls one reconciled unit up across all its questions and
// categories.
func (e *Engine) CompanyMetrics(unit models.CompanyYearData) CompanyMetrics {
	m := CompanyMetrics{
		Company:      unit.Company,
		Year:         unit.Year,
		Sector:       unit.Sector,
		Distribution: Distribution{},
	}
	if unit.Primary == nil {
		return m
	}

	compositeSum := 0.0
	quantified, forward, balanced := 0, 0, 0
	answered := 0
	seenCategories := []string{}
	seen := map[string]bool{}

	for _, q := range unit.Primary.Questions {
		qm := e.QuestionMetrics(q)
		m.Questions = append(m.Questions, qm)
		m.QuestionCount++
		m.SnippetCount += qm.SnippetCount
		m.Distribution.add(qm.Distribution)
		if qm.SnippetCount > 0 {
			answered++
		}
		if q.Category != "" && !seen[q.Category] {
			seen[q.Category] = true
			seenCategories = append(seenCategories, q.Category)
		}
		for _, s := range evidence(q) {
			p := scoring.Profile(s)
			if p.Quantified {
				quantified++
			}
			if p.ForwardLooking {
				forward++
			}
			if p.Balanced {
				balanced++
			}
			compositeSum += scoring.Score(s).Composite
		}
	}

	for _, category := range seenCategories {
		m.Categories = append(m.Categories, e.CategoryMetrics(category, unit.Primary.Questions))
	}

	if m.QuestionCount > 0 {
		m.EvidenceDepth = float64(m.SnippetCount) / float64(m.QuestionCount)
	}
	m.QuantificationRate = rate(quantified, m.SnippetCount)
	m.ForwardLookingRate = rate(forward, m.SnippetCount)
	m.NarrativeBalanceRate = rate(balanced, m.SnippetCount)

	if e.mode == ModeLegacy && m.SnippetCount > 0 {
		m.AvgComposite = compositeSum / float64(m.SnippetCount)
		m.Grade = scoring.Grade(m.AvgComposite)
	}

	m.Radar = RadarDimensions{
		EvidenceDepth:      clampedDepth(m.EvidenceDepth),
		DisclosureBreadth:  rate(answered, m.QuestionCount),
		Quantification:     m.QuantificationRate,
		ForwardOrientation: m.ForwardLookingRate,
		NarrativeBalance:   m.NarrativeBalanceRate,
	}
	return m
}

// clampedDepth maps average snippets per question onto 0-100, saturating
// at 10 snippets per question.
func clampedDepth(avgPerQuestion float64) float64 {
	if avgPerQuestion > 10 {
		avgPerQuestion = 10
	}
	return avgPerQuestion * 10
}

// CrossCompanyMetrics ranks every unit by the mode's primary metric.
// The sort is stable and descending: strictly higher primary ranks
// strictly higher, equal primaries keep their encounter order, and rank
// is the 1-based position.
func (e *Engine) CrossCompanyMetrics(units []models.CompanyYearData) CrossCompanyMetrics {
	cross := CrossCompanyMetrics{
		Mode:         e.mode,
		Distribution: Distribution{},
	}

	primarySum := 0.0
	for _, unit := range units {
		cm := e.CompanyMetrics(unit)
		primary := cm.EvidenceDepth
		grade := ""
		if e.mode == ModeLegacy {
			primary = cm.AvgComposite
			grade = cm.Grade
		}
		cross.Companies = append(cross.Companies, CompanyRank{
			Company: cm.Company,
			Year:    cm.Year,
			Primary: primary,
			Grade:   grade,
		})
		cross.TotalSnippets += cm.SnippetCount
		cross.Distribution.add(cm.Distribution)
		primarySum += primary
	}

	sort.SliceStable(cross.Companies, func(i, j int) bool {
		return cross.Companies[i].Primary > cross.Companies[j].Primary
	})
	for i := range cross.Companies {
		cross.Companies[i].Rank = i + 1
	}
	if len(cross.Companies) > 0 {
		cross.AvgPrimary = primarySum / float64(len(cross.Companies))
	}
	return cross
}

func displayName(category string) string {
	if name, ok := CategoryDisplayNames[category]; ok {
		return name
	}
	return category
}
