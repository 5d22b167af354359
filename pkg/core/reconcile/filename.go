// Package reconcile discovers result files across pipeline stage
// directories, deduplicates competing variants of the same analysis, and
// produces exactly one CompanyYearData per reconciliation key. It is
// strictly read-only: a bad file is logged and skipped, never fatal to the
// whole load.
package reconcile

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// timestampLayout parses the combined date-time token of a result
// filename: DD-MM-YYYY_HH-MM-SS.
const timestampLayout = "02-01-2006_15-04-05"

// ParsedFilename is the metadata encoded in a raw result filename:
// Company_Year_Version_Model_DD-MM-YYYY_HH-MM-SS[_verified|_verification_report].json
type ParsedFilename struct {
	Company   string
	Year      int
	Version   string
	Model     string
	Timestamp time.Time

	IsVerified bool
	IsReport   bool
}

// ParseFilename extracts the filename metadata. It returns nil when the
// name has fewer than five underscore segments after the company or a
// non-numeric year; callers skip such entries. Company names may themselves
// contain underscores, so segments are consumed from the right.
func ParseFilename(name string) *ParsedFilename {
	base := strings.TrimSuffix(filepath.Base(name), ".json")

	p := &ParsedFilename{}
	switch {
	case strings.HasSuffix(base, "_verification_report"):
		p.IsReport = true
		base = strings.TrimSuffix(base, "_verification_report")
	case strings.HasSuffix(base, "_verified"):
		p.IsVerified = true
		base = strings.TrimSuffix(base, "_verified")
	}

	parts := strings.Split(base, "_")
	if len(parts) < 6 {
		return nil
	}

	n := len(parts)
	year, err := strconv.Atoi(parts[n-5])
	if err != nil {
		return nil
	}

	p.Company = strings.Join(parts[:n-5], "_")
	p.Year = year
	p.Version = parts[n-4]
	p.Model = parts[n-3]
	if ts, err := time.Parse(timestampLayout, parts[n-2]+"_"+parts[n-1]); err == nil {
		p.Timestamp = ts
	}
	return p
}

// Stem returns the shared filename stem of a raw file and its _verified /
// _verification_report siblings, used to pair them up.
func (p *ParsedFilename) Stem() string {
	return strings.Join([]string{
		p.Company,
		strconv.Itoa(p.Year),
		p.Version,
		p.Model,
		p.Timestamp.Format(timestampLayout),
	}, "_")
}

// VersionNumber extracts the numeric part of a version tag ("v3" -> 3).
// Unparseable tags rank lowest.
func VersionNumber(version string) int {
	v := strings.TrimPrefix(strings.ToLower(version), "v")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
