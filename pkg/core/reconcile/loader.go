package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"disclosure_audit/pkg/core/config"
	"disclosure_audit/pkg/core/normalize"
	"disclosure_audit/pkg/core/utils"
	"disclosure_audit/pkg/core/validate"
	"disclosure_audit/pkg/models"
)

// Loader scans the pipeline stage directories and reconciles everything it
// finds into one CompanyYearData per key. Loads are read-only and
// recompute from source every time; nothing is cached or written back.
type Loader struct {
	cfg       config.LoaderConfig
	overrides config.SectorOverrides
}

// NewLoader builds a loader, reading the sector override table once. A
// non-positive MaxConcurrentReads falls back to the default bound so a
// zero-value config cannot stall LoadAll.
func NewLoader(cfg config.LoaderConfig) (*Loader, error) {
	overrides, err := config.LoadSectorOverrides(cfg.SectorOverridesFile)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConcurrentReads <= 0 {
		cfg.MaxConcurrentReads = config.DefaultLoaderConfig().MaxConcurrentReads
	}
	return &Loader{cfg: cfg, overrides: overrides}, nil
}

// LoadAll loads and reconciles every company/year unit. Resolution order:
// a combined pre-aggregated file wins outright when present; otherwise the
// per-file stages are scanned and variant precedence selects one
// representative per key. Per-file failures are logged and skipped; zero
// readable files yields an empty result set, not an error.
func (l *Loader) LoadAll(ctx context.Context) ([]models.CompanyYearData, error) {
	if units, ok := l.loadCombined(); ok {
		return reduce(units), nil
	}
	candidates, err := l.runTasks(ctx, l.fileTasks())
	if err != nil {
		return nil, err
	}
	return reduce(candidates), nil
}

// LoadVariant loads the units of one pipeline stage only, bypassing
// cross-stage precedence. Review auditing needs both sides of a stage
// transition (merged vs merged-reviewed), which LoadAll's reduction
// hides. Asking for VariantRaw returns only units with no verified
// sibling; a verified sibling makes the unit VariantVerified, the raw
// snapshot staying available as its Original.
func (l *Loader) LoadVariant(ctx context.Context, variant models.SourceVariant) ([]models.CompanyYearData, error) {
	if variant == models.VariantCombined {
		candidates, ok := l.loadCombined()
		if !ok {
			return nil, nil
		}
		return reduce(candidates), nil
	}

	var tasks []fileTask
	if dir := l.stageDir(variant); dir != "" {
		for _, path := range listJSON(dir) {
			path := path
			tasks = append(tasks, func() []candidate {
				return l.loadStageFile(path, variant)
			})
		}
	} else {
		for _, group := range l.rawGroups() {
			group := group
			tasks = append(tasks, func() []candidate {
				return l.loadRawGroup(group)
			})
		}
	}

	candidates, err := l.runTasks(ctx, tasks)
	if err != nil {
		return nil, err
	}

	var units []models.CompanyYearData
	for _, u := range reduce(candidates) {
		if u.Variant == variant {
			units = append(units, u)
		}
	}
	return units, nil
}

// runTasks executes file tasks under the configured concurrency bound
// and collects their candidates.
func (l *Loader) runTasks(ctx context.Context, tasks []fileTask) ([]candidate, error) {
	var (
		mu         sync.Mutex
		candidates []candidate
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.MaxConcurrentReads)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cs := task()
			mu.Lock()
			candidates = append(candidates, cs...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return candidates, nil
}

// stageDir maps per-directory variants to their configured directory;
// raw and verified share the raw directory and return "".
func (l *Loader) stageDir(variant models.SourceVariant) string {
	switch variant {
	case models.VariantMerged:
		return l.cfg.MergedDir
	case models.VariantMergedReviewed:
		return l.cfg.MergedReviewedDir
	case models.VariantTeamReviewed:
		return l.cfg.TeamReviewedDir
	}
	return ""
}

// LoadOne returns the reconciled unit for one company and year, or nil.
func (l *Loader) LoadOne(ctx context.Context, company string, year int) (*models.CompanyYearData, error) {
	units, err := l.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range units {
		if strings.EqualFold(units[i].Company, company) && units[i].Year == year {
			return &units[i], nil
		}
	}
	return nil, nil
}

// ListCompanies returns the distinct companies present, sorted.
func (l *Loader) ListCompanies(ctx context.Context) ([]string, error) {
	units, err := l.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var companies []string
	for _, u := range units {
		if !seen[u.Company] {
			seen[u.Company] = true
			companies = append(companies, u.Company)
		}
	}
	sort.Strings(companies)
	return companies, nil
}

// ListYears returns the distinct fiscal years present, ascending.
func (l *Loader) ListYears(ctx context.Context) ([]int, error) {
	units, err := l.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[int]bool{}
	var years []int
	for _, u := range units {
		if !seen[u.Year] {
			seen[u.Year] = true
			years = append(years, u.Year)
		}
	}
	sort.Ints(years)
	return years, nil
}

// =============================================================================
// STAGE SCANNING
// =============================================================================

// fileTask loads zero or more candidates from one independent file (or
// raw file group). Tasks never fail: problems are logged and yield no
// candidates.
type fileTask func() []candidate

func (l *Loader) fileTasks() []fileTask {
	var tasks []fileTask

	for _, stage := range []struct {
		dir     string
		variant models.SourceVariant
	}{
		{l.cfg.TeamReviewedDir, models.VariantTeamReviewed},
		{l.cfg.MergedReviewedDir, models.VariantMergedReviewed},
		{l.cfg.MergedDir, models.VariantMerged},
	} {
		stage := stage
		for _, path := range listJSON(stage.dir) {
			path := path
			tasks = append(tasks, func() []candidate {
				return l.loadStageFile(path, stage.variant)
			})
		}
	}

	for _, group := range l.rawGroups() {
		group := group
		tasks = append(tasks, func() []candidate {
			return l.loadRawGroup(group)
		})
	}
	return tasks
}

// listJSON lists the JSON files of a stage directory. A missing or
// unreadable directory is an expected state for stages that never ran.
func listJSON(dir string) []string {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			zap.L().Warn("reconcile: cannot read stage directory",
				zap.String("dir", dir), zap.Error(err))
		}
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths
}

// loadStageFile reads one merged/team-reviewed file. Both schemas can show
// up in either directory, so the shape branch happens here, once.
func (l *Loader) loadStageFile(path string, variant models.SourceVariant) []candidate {
	var raw map[string]interface{}
	if err := utils.ReadJSONFile(path, &raw); err != nil {
		zap.L().Warn("reconcile: skipping unreadable file",
			zap.String("path", path), zap.Error(err))
		return nil
	}

	var (
		result *models.AnalysisResult
		sector string
	)
	if normalize.LooksMerged(raw) {
		result, sector = normalize.NormalizeMerged(raw)
	} else {
		result = normalize.Normalize(raw)
	}
	if err := validate.Result(result); err != nil {
		zap.L().Warn("reconcile: skipping file with integrity violation",
			zap.String("path", path), zap.Error(err))
		return nil
	}

	return []candidate{{unit: l.newUnit(result, sector, variant)}}
}

// rawGroup pairs a raw result file with its optional _verified and
// _verification_report siblings sharing the filename stem.
type rawGroup struct {
	parsed   *ParsedFilename
	raw      string
	verified string
	report   string
}

func (l *Loader) rawGroups() []rawGroup {
	groups := map[string]*rawGroup{}
	var order []string

	for _, path := range listJSON(l.cfg.RawDir) {
		parsed := ParseFilename(path)
		if parsed == nil {
			zap.L().Warn("reconcile: skipping unparseable filename",
				zap.String("path", path))
			continue
		}
		stem := parsed.Stem()
		group, ok := groups[stem]
		if !ok {
			group = &rawGroup{}
			groups[stem] = group
			order = append(order, stem)
		}
		switch {
		case parsed.IsReport:
			group.report = path
		case parsed.IsVerified:
			group.verified = path
		default:
			group.raw = path
			group.parsed = parsed
		}
		if group.parsed == nil {
			group.parsed = parsed
		}
	}

	var out []rawGroup
	for _, stem := range order {
		out = append(out, *groups[stem])
	}
	return out
}

// loadRawGroup builds one candidate from a raw/verified/report file trio.
// The verified snapshot becomes primary when present, with the raw file
// kept as the original for audit diffing.
func (l *Loader) loadRawGroup(group rawGroup) []candidate {
	readResult := func(path string) *models.AnalysisResult {
		if path == "" {
			return nil
		}
		var raw map[string]interface{}
		if err := utils.ReadJSONFile(path, &raw); err != nil {
			zap.L().Warn("reconcile: skipping unreadable file",
				zap.String("path", path), zap.Error(err))
			return nil
		}
		result := normalize.Normalize(raw)
		fillFromFilename(result, group.parsed)
		if err := validate.Result(result); err != nil {
			zap.L().Warn("reconcile: skipping file with integrity violation",
				zap.String("path", path), zap.Error(err))
			return nil
		}
		return result
	}

	rawResult := readResult(group.raw)
	verifiedResult := readResult(group.verified)
	if rawResult == nil && verifiedResult == nil {
		return nil
	}

	variant := models.VariantRaw
	primary := rawResult
	var original *models.AnalysisResult
	if verifiedResult != nil {
		variant = models.VariantVerified
		primary = verifiedResult
		original = rawResult
	}

	unit := l.newUnit(primary, "", variant)
	unit.Original = original
	unit.ComparisonAvailable = original != nil

	if group.report != "" {
		var report models.VerificationMetrics
		if err := utils.ReadJSONFile(group.report, &report); err != nil {
			zap.L().Warn("reconcile: skipping unreadable verification report",
				zap.String("path", group.report), zap.Error(err))
		} else {
			unit.Verification = &report
			unit.ComparisonAvailable = true
		}
	}
	return []candidate{{unit: unit, parsed: group.parsed}}
}

// fillFromFilename backfills identity fields raw files do not carry in
// their body.
func fillFromFilename(result *models.AnalysisResult, parsed *ParsedFilename) {
	if parsed == nil {
		return
	}
	if result.Company == "" {
		result.Company = parsed.Company
	}
	if result.FiscalYear == 0 {
		result.FiscalYear = parsed.Year
	}
	if result.Version == "" {
		result.Version = parsed.Version
	}
	if result.Model == "" {
		result.Model = parsed.Model
	}
}

// loadCombined reads the single pre-aggregated file covering every
// company. Its absence is the expected signal to fall back to per-file
// loading; a present but unreadable file also falls back, with a warning.
func (l *Loader) loadCombined() ([]candidate, bool) {
	if l.cfg.CombinedFile == "" {
		return nil, false
	}
	if _, err := os.Stat(l.cfg.CombinedFile); err != nil {
		zap.L().Debug("reconcile: no combined file, using per-file loading",
			zap.String("path", l.cfg.CombinedFile))
		return nil, false
	}

	var records []map[string]interface{}
	if err := utils.ReadJSONFile(l.cfg.CombinedFile, &records); err != nil {
		zap.L().Warn("reconcile: combined file unreadable, using per-file loading",
			zap.String("path", l.cfg.CombinedFile), zap.Error(err))
		return nil, false
	}

	var candidates []candidate
	for _, raw := range records {
		var (
			result *models.AnalysisResult
			sector string
		)
		if normalize.LooksMerged(raw) {
			result, sector = normalize.NormalizeMerged(raw)
		} else {
			result = normalize.Normalize(raw)
		}
		if err := validate.Result(result); err != nil {
			zap.L().Warn("reconcile: skipping combined entry with integrity violation",
				zap.String("company", result.Company), zap.Error(err))
			continue
		}
		candidates = append(candidates, candidate{unit: l.newUnit(result, sector, models.VariantCombined)})
	}
	return candidates, true
}

func (l *Loader) newUnit(result *models.AnalysisResult, metadataSector string, variant models.SourceVariant) models.CompanyYearData {
	return models.CompanyYearData{
		Company: result.Company,
		Year:    result.FiscalYear,
		Version: result.Version,
		Model:   result.Model,
		Sector:  ResolveSector(result.Company, metadataSector, l.overrides),
		Variant: variant,
		Primary: result,
	}
}

// reduce selects one representative per reconciliation key using the
// precedence table, then orders the result deterministically.
func reduce(candidates []candidate) []models.CompanyYearData {
	best := map[models.ReconKey]candidate{}
	var order []models.ReconKey

	for _, c := range candidates {
		key := c.unit.Key()
		current, ok := best[key]
		if !ok {
			best[key] = c
			order = append(order, key)
			continue
		}
		if better(c, current) {
			// Carry audit material forward: a winning merged variant
			// has no original snapshot of its own.
			if c.unit.Original == nil {
				c.unit.Original = current.unit.Original
			}
			if c.unit.Verification == nil {
				c.unit.Verification = current.unit.Verification
			}
			c.unit.ComparisonAvailable = c.unit.Original != nil || c.unit.Verification != nil
			best[key] = c
		}
	}

	units := make([]models.CompanyYearData, 0, len(order))
	for _, key := range order {
		units = append(units, best[key].unit)
	}
	sort.Slice(units, func(i, j int) bool {
		a, b := units[i], units[j]
		if a.Company != b.Company {
			return a.Company < b.Company
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		return a.Model < b.Model
	})
	return units
}
