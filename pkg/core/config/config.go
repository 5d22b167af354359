// Package config loads the loader configuration and the hand-maintained
// reference tables: which result directories to scan, the per-company
// sector overrides, and the canonical question list used for coverage.
package config

import (
	"os"

	"github.com/rotisserie/eris"
	yaml "gopkg.in/yaml.v2"

	"disclosure_audit/pkg/core/utils"
)

// LoaderConfig names the on-disk layout of pipeline outputs. Each directory
// corresponds to one pipeline stage; any of them may be absent.
type LoaderConfig struct {
	// CombinedFile is a single pre-aggregated JSON covering every company.
	// When present it wins over all per-file loading.
	CombinedFile string `yaml:"combined_file"`

	RawDir            string `yaml:"raw_dir"`             // raw/verified file pairs
	MergedDir         string `yaml:"merged_dir"`          // results/merged
	MergedReviewedDir string `yaml:"merged_reviewed_dir"` // results/deduped_and_reviewed
	TeamReviewedDir   string `yaml:"team_reviewed_dir"`   // per-file team-reviewed entries

	SectorOverridesFile    string `yaml:"sector_overrides_file"`
	CanonicalQuestionsFile string `yaml:"canonical_questions_file"`

	// MaxConcurrentReads bounds parallel file reads during LoadAll.
	MaxConcurrentReads int `yaml:"max_concurrent_reads"`
}

// DefaultLoaderConfig mirrors the directory names the producing pipeline
// writes to.
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		RawDir:             "results",
		MergedDir:          "results/merged",
		MergedReviewedDir:  "results/deduped_and_reviewed",
		TeamReviewedDir:    "results/team_reviewed",
		MaxConcurrentReads: 8,
	}
}

// LoadLoaderConfig reads a YAML loader config, filling unset fields from
// the defaults.
func LoadLoaderConfig(path string) (LoaderConfig, error) {
	cfg := DefaultLoaderConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, eris.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, eris.Wrapf(err, "parse config %s", path)
	}
	if cfg.MaxConcurrentReads <= 0 {
		cfg.MaxConcurrentReads = DefaultLoaderConfig().MaxConcurrentReads
	}
	return cfg, nil
}

// SectorOverrides maps company name (case-sensitive, as it appears in
// filenames) to sector. Consulted before any metadata-declared sector.
type SectorOverrides map[string]string

// LoadSectorOverrides reads the Hjson override table. A missing path is not
// an error: it yields an empty table.
func LoadSectorOverrides(path string) (SectorOverrides, error) {
	if path == "" {
		return SectorOverrides{}, nil
	}
	overrides := SectorOverrides{}
	if err := utils.ReadHJSONFile(path, &overrides); err != nil {
		if os.IsNotExist(eris.Cause(err)) {
			return SectorOverrides{}, nil
		}
		return nil, err
	}
	return overrides, nil
}

// CanonicalQuestion is one entry of the fixed reference question list, with
// the sectors it applies to. An empty Sectors list or the literal "ALL"
// means the question applies to every company.
type CanonicalQuestion struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Sectors  []string `json:"sectors"`
}

// AppliesTo reports whether the question is applicable to a company in the
// given sector. Sector "ALL" on the company side means unknown sector, which
// is treated as applicable everywhere.
func (c CanonicalQuestion) AppliesTo(sector string) bool {
	if len(c.Sectors) == 0 || sector == "ALL" {
		return true
	}
	for _, s := range c.Sectors {
		if s == "ALL" || s == sector {
			return true
		}
	}
	return false
}

// LoadCanonicalQuestions reads the Hjson reference list.
func LoadCanonicalQuestions(path string) ([]CanonicalQuestion, error) {
	if path == "" {
		return nil, nil
	}
	var questions []CanonicalQuestion
	if err := utils.ReadHJSONFile(path, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}
