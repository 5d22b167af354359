package reconcile

import (
	"disclosure_audit/pkg/models"
)

// Variant precedence is one explicit ordered table, not scattered
// conditionals, so the selection rule stays auditable and testable on its
// own. When several source files share a reconciliation key the highest
// weight wins; among raw files of equal weight the higher version number
// wins, then the later timestamp.
var variantWeights = map[models.SourceVariant]int{
	models.VariantCombined:       500,
	models.VariantMergedReviewed: 400,
	models.VariantMerged:         300,
	models.VariantTeamReviewed:   200,
	models.VariantVerified:       100,
	models.VariantRaw:            100,
}

// VariantWeight returns the precedence weight of a source variant.
// Unknown variants rank below everything.
func VariantWeight(v models.SourceVariant) int {
	return variantWeights[v]
}

// candidate is one loaded file competing for a reconciliation key.
type candidate struct {
	unit   models.CompanyYearData
	parsed *ParsedFilename // nil for stage files without the raw naming
}

// better reports whether a should replace b as the representative for
// their shared key.
func better(a, b candidate) bool {
	wa, wb := VariantWeight(a.unit.Variant), VariantWeight(b.unit.Variant)
	if wa != wb {
		return wa > wb
	}
	va, vb := VersionNumber(a.unit.Version), VersionNumber(b.unit.Version)
	if va != vb {
		return va > vb
	}
	if a.parsed != nil && b.parsed != nil && !a.parsed.Timestamp.Equal(b.parsed.Timestamp) {
		return a.parsed.Timestamp.After(b.parsed.Timestamp)
	}
	return false
}
