package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aozora-retail/sales-cli/internal/cleaner"
	"github.com/aozora-retail/sales-cli/internal/export"
	"github.com/aozora-retail/sales-cli/internal/loader"
	"github.com/aozora-retail/sales-cli/internal/model"
	"github.com/aozora-retail/sales-cli/internal/validator"
)

var (
	runInputDir  string
	runOutputDir string
	runSQLite    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: load, clean, validate, persist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := zap.L()

		inputDir := cfg.Input.Dir
		if runInputDir != "" {
			inputDir = runInputDir
		}
		outputDir := cfg.Output.Dir
		if runOutputDir != "" {
			outputDir = runOutputDir
		}
		mirrorSQLite := cfg.Output.SQLite || runSQLite

		period := cfg.ReportingPeriod()
		log.Info("pipeline: starting",
			zap.String("input", inputDir),
			zap.String("output", outputDir),
			zap.String("period", period.String()),
		)

		// Step 1: load raw files.
		files, err := loader.LoadAll(inputDir)
		if err != nil {
			return eris.Wrap(err, "load raw files")
		}
		if len(files) == 0 {
			return eris.Errorf("no store files loaded from %s", inputDir)
		}
		combined := loader.Combine(files)

		// Step 2: clean.
		cleanCfg := cleaner.DefaultConfig()
		cleanCfg.Period = period
		cleanCfg.StrictCategories = cfg.Cleaner.StrictCategories

		txns, stats := cleaner.Clean(combined, cleanCfg)
		if len(txns) == 0 {
			return eris.New("zero rows survived cleaning")
		}
		if !stats.Accounted() {
			// Every input row must be either dropped or emitted.
			return eris.Errorf("row accounting mismatch: input %d, output %d, dropped %d",
				stats.InputRows, stats.OutputRows, stats.Dropped())
		}

		// Step 3: reference metadata.
		stores := model.StoreDirectory()
		observed := make([]string, 0, len(txns))
		for _, t := range txns {
			observed = append(observed, t.ProductCategory)
		}
		categories := model.BuildCategoryMetadata(observed)

		// Step 4: validate. Any failing invariant aborts the run; nothing
		// is persisted.
		result := validator.ValidateAll(txns, period, stores)
		if cfg.Cleaner.StrictCategories {
			check := validator.CheckCategories(txns, model.CanonicalCategories())
			result.Checks = append(result.Checks, check)
			if !check.Passed {
				result.Passed = false
			}
		}
		if !result.Passed {
			return eris.Errorf("validation failed: %s", strings.Join(result.FailureMessages(), "; "))
		}

		// Step 5: quality report.
		report := validator.BuildQualityReport(txns)
		report.Cleaning = &validator.CleaningSummary{
			InputRows:          stats.InputRows,
			DroppedBadDate:     stats.DroppedBadDate,
			DroppedOutOfPeriod: stats.DroppedOutOfPeriod,
			DroppedBadAmount:   stats.DroppedBadAmount,
			DroppedBadCategory: stats.DroppedBadCategory,
			DroppedDuplicateID: stats.DroppedDuplicateID,
			RetentionPct:       stats.Retention(),
		}

		// Step 6: persist.
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return eris.Wrapf(err, "create output dir %s", outputDir)
		}
		if err := export.WriteTransactionsCSV(outputDir, txns); err != nil {
			return err
		}
		if err := export.WriteStoresCSV(outputDir, stores); err != nil {
			return err
		}
		if err := export.WriteCategoriesCSV(outputDir, categories); err != nil {
			return err
		}
		if err := export.WriteQualityReport(outputDir, report); err != nil {
			return err
		}
		if mirrorSQLite {
			if err := export.MirrorSQLite(ctx, outputDir, txns, stores, categories); err != nil {
				return err
			}
		}

		log.Info("pipeline: complete",
			zap.String("run_id", report.RunID),
			zap.Int("transactions", len(txns)),
			zap.Int("stores", len(stores)),
			zap.Int("categories", len(categories)),
			zap.Float64("retention_pct", stats.Retention()),
		)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runInputDir, "input", "", "raw data directory (overrides config)")
	runCmd.Flags().StringVar(&runOutputDir, "output", "", "processed data directory (overrides config)")
	runCmd.Flags().BoolVar(&runSQLite, "sqlite", false, "also mirror output tables into a SQLite database")
	rootCmd.AddCommand(runCmd)
}
