package scoring

import (
	"disclosure_audit/pkg/models"
)

// EvidenceProfile is the evidence-based per-snippet rating: categorical
// flags instead of a composite number. Rates are derived downstream by
// counting matching profiles over totals.
type EvidenceProfile struct {
	Classification models.Classification `json:"classification"`
	Quantified     bool                  `json:"quantified"`      // carries >=1 parsed amount
	ForwardLooking bool                  `json:"forward_looking"` // Future timeframe
	Balanced       bool                  `json:"balanced"`        // Both-sided framing
	Placeholder    bool                  `json:"placeholder"`
}

// Profile classifies a snippet into its evidence buckets.
func Profile(s models.Snippet) EvidenceProfile {
	return EvidenceProfile{
		Classification: s.Classification,
		Quantified:     s.HasQuantifiedAmount(),
		ForwardLooking: s.Categorization.Timeframe == models.TimeframeFuture,
		Balanced:       s.Categorization.Framing == models.FramingBoth,
		Placeholder:    s.IsPlaceholder(),
	}
}
