package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aozora-retail/sales-cli/internal/export"
	"github.com/aozora-retail/sales-cli/internal/model"
	"github.com/aozora-retail/sales-cli/internal/validator"
)

var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a previously persisted canonical dataset",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := validateFile
		if path == "" {
			path = filepath.Join(cfg.Output.Dir, export.TransactionsFile)
		}

		txns, err := export.ReadTransactionsCSV(path)
		if err != nil {
			return err
		}
		if len(txns) == 0 {
			return eris.Errorf("dataset %s is empty", path)
		}

		result := validator.ValidateAll(txns, cfg.ReportingPeriod(), model.StoreDirectory())
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

		report := validator.BuildQualityReport(txns)
		zap.L().Info("validate: dataset passed all checks",
			zap.String("path", path),
			zap.Int("rows", len(txns)),
			zap.Int("checks", len(result.Checks)),
			zap.String("date_min", report.DateRange.Min),
			zap.String("date_max", report.DateRange.Max),
			zap.Float64("sales_total", report.Sales.Total),
		)
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateFile, "file", "", "canonical CSV to validate (defaults to <output.dir>/sales_clean.csv)")
	rootCmd.AddCommand(validateCmd)
}
