package reconcile

import (
	"strings"

	"disclosure_audit/pkg/core/config"
)

// SectorUnknown is the sector assigned when neither the override table nor
// file metadata declares one. Coverage treats it as matching every
// canonical question's sector list.
const SectorUnknown = "ALL"

// ResolveSector resolves a company's sector: explicit per-company override
// first, then the metadata-declared sector, then SectorUnknown. Override
// lookup is case-insensitive on the company name since filenames and
// metadata disagree on casing.
func ResolveSector(company, metadataSector string, overrides config.SectorOverrides) string {
	for name, sector := range overrides {
		if strings.EqualFold(name, company) {
			return sector
		}
	}
	if metadataSector != "" {
		return metadataSector
	}
	return SectorUnknown
}
