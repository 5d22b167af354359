package models

// ReconKey is the tuple that deduplicates competing source files for the
// same analysis. Two files with equal keys describe the same unit of work
// at different pipeline stages.
type ReconKey struct {
	Company string
	Year    int
	Version string
	Model   string
}

// SourceVariant names the pipeline stage a result file came from. Variants
// are ordered: when several files share a ReconKey the reconciler keeps the
// one from the latest stage.
type SourceVariant string

const (
	VariantRaw            SourceVariant = "raw"
	VariantVerified       SourceVariant = "verified"
	VariantMerged         SourceVariant = "merged"
	VariantTeamReviewed   SourceVariant = "team_reviewed"
	VariantMergedReviewed SourceVariant = "merged_reviewed"
	VariantCombined       SourceVariant = "combined"
)

// CompanyYearData is the reconciled unit: exactly one canonical analysis per
// (company, year, version, model), together with the original pre-review
// snapshot and verification report when a comparison is possible.
type CompanyYearData struct {
	Company string `json:"company"`
	Year    int    `json:"year"`
	Version string `json:"version"`
	Model   string `json:"model"`
	Sector  string `json:"sector"`

	Variant SourceVariant `json:"variant"`

	// Primary is the representative analysis selected by variant precedence.
	Primary *AnalysisResult `json:"primary"`

	// Original is the pre-verification snapshot, present only when a
	// _verified sibling existed for the same filename stem.
	Original *AnalysisResult `json:"original,omitempty"`

	// Verification is a stored verification report loaded from disk,
	// when the producing pipeline wrote one.
	Verification *VerificationMetrics `json:"verification,omitempty"`

	// ComparisonAvailable reports whether Original (or Verification) is
	// populated, i.e. whether audit views can be built for this unit.
	ComparisonAvailable bool `json:"comparison_available"`
}

// Key returns the reconciliation key for this unit.
func (c *CompanyYearData) Key() ReconKey {
	return ReconKey{Company: c.Company, Year: c.Year, Version: c.Version, Model: c.Model}
}
