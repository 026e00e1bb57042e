package export

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/aozora-retail/sales-cli/internal/validator"
)

// WriteQualityReport writes the data-quality report as YAML for human
// review.
func WriteQualityReport(dir string, report *validator.QualityReport) error {
	path := filepath.Join(dir, ReportFile)
	data, err := yaml.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "export: marshal quality report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "export: write %s", path)
	}
	zap.L().Info("export: wrote quality report", zap.String("path", path))
	return nil
}
