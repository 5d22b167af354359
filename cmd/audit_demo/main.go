package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"disclosure_audit/pkg/core/config"
	"disclosure_audit/pkg/core/ledger"
	"disclosure_audit/pkg/core/metrics"
	"disclosure_audit/pkg/core/reconcile"
	"disclosure_audit/pkg/core/verify"
	"disclosure_audit/pkg/models"
)

// Logger helper
func logStep(step string, details string) {
	fmt.Printf("\n[STEP] %s\n", step)
	fmt.Println("---------------------------------------------------------")
	fmt.Println(details)
	fmt.Println("---------------------------------------------------------")
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Printf("Error building logger: %v\n", err)
		os.Exit(1)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		zap.L().Debug("no .env file, using process environment")
	}

	logStep("0. Initialization", "Starting Disclosure Audit Demo...")

	cfg := config.DefaultLoaderConfig()
	if path := os.Getenv("AUDIT_CONFIG"); path != "" {
		cfg, err = config.LoadLoaderConfig(path)
		if err != nil {
			fmt.Printf("Error loading config %s: %v\n", path, err)
			return
		}
	}

	loader, err := reconcile.NewLoader(cfg)
	if err != nil {
		fmt.Printf("Error building loader: %v\n", err)
		return
	}

	ctx := context.Background()
	units, err := loader.LoadAll(ctx)
	if err != nil {
		fmt.Printf("Error loading results: %v\n", err)
		return
	}
	logStep("1. Reconciliation", fmt.Sprintf("Loaded %d company/year units", len(units)))
	for _, u := range units {
		fmt.Printf("  %s %d [%s] variant=%s comparison=%v\n",
			u.Company, u.Year, u.Sector, u.Variant, u.ComparisonAvailable)
	}
	if len(units) == 0 {
		fmt.Println("No data found; nothing to aggregate.")
		return
	}

	// Cross-company ranking under both engine modes.
	for _, mode := range []metrics.Mode{metrics.ModeLegacy, metrics.ModeEvidence} {
		engine := metrics.NewEngine(mode)
		cross := engine.CrossCompanyMetrics(units)
		logStep(fmt.Sprintf("2. Ranking (%s mode)", mode),
			fmt.Sprintf("Total snippets: %d", cross.TotalSnippets))
		for _, row := range cross.Companies {
			fmt.Printf("  #%d %s %d: %.2f %s\n", row.Rank, row.Company, row.Year, row.Primary, row.Grade)
		}
	}

	// Canonical-question coverage, when a reference list is configured.
	if canonical, err := config.LoadCanonicalQuestions(cfg.CanonicalQuestionsFile); err == nil && len(canonical) > 0 {
		engine := metrics.NewEngine(metrics.ModeEvidence)
		logStep("3. Coverage", fmt.Sprintf("%d canonical questions", len(canonical)))
		for _, u := range units {
			cov := engine.Coverage(u, canonical)
			fmt.Printf("  %s %d: disclosed=%d gaps=%d n/a=%d (%.1f%%)\n",
				u.Company, u.Year, cov.Disclosed, cov.NoDisclosure, cov.NotApplicable, cov.CoverageRate())
		}
	}

	// Verification diffs for units with an original snapshot.
	logStep("4. Verification", "Diffing original vs reviewed snapshots")
	for _, u := range units {
		if u.Original == nil {
			continue
		}
		report := verify.Diff(u.Original, u.Primary)
		fmt.Printf("  %s %d: pass=%.1f%% unchanged=%d corrected=%d removed=%d\n",
			u.Company, u.Year, report.PassRate,
			report.SnippetsUnchanged, report.SnippetsCorrected, report.SnippetsRemoved)
		for transition, count := range report.Transitions {
			fmt.Printf("    %s x%d\n", transition, count)
		}
	}

	// Cross-question review ledger: join the merged (pre-review) and
	// reviewed (post-review) stages, explaining every removal.
	var decisionLog *ledger.DecisionLog
	if logPath := os.Getenv("AUDIT_DECISION_LOG"); logPath != "" {
		decisionLog, err = ledger.LoadDecisionLog(logPath)
		if err != nil {
			fmt.Printf("Error loading decision log: %v\n", err)
			return
		}
	}

	merged, err := loader.LoadVariant(ctx, models.VariantMerged)
	if err != nil {
		fmt.Printf("Error loading merged stage: %v\n", err)
		return
	}
	reviewed, err := loader.LoadVariant(ctx, models.VariantMergedReviewed)
	if err != nil {
		fmt.Printf("Error loading reviewed stage: %v\n", err)
		return
	}

	comparison := ledger.BuildComparison(primaries(merged), primaries(reviewed), decisionLog)
	logStep("5. Decision Ledger", fmt.Sprintf("%d merged units vs %d reviewed units",
		len(merged), len(reviewed)))
	for _, s := range comparison.Summaries {
		fmt.Printf("  %s %d %s: merged=%d reviewed=%d removed=%d [%s]\n",
			s.Company, s.Year, s.QuestionID, s.MergedSnippets, s.ReviewedSnippets, s.Removed, s.Status)
	}
	for _, r := range comparison.RemovedSnippets {
		fmt.Printf("    removed %s/%s (%s): %s\n", r.QuestionID, r.SnippetID, r.DecisionSource, r.Rationale)
	}
}

func primaries(units []models.CompanyYearData) []*models.AnalysisResult {
	results := make([]*models.AnalysisResult, 0, len(units))
	for _, u := range units {
		results = append(results, u.Primary)
	}
	return results
}
