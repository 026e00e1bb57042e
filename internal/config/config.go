// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/aozora-retail/sales-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Input   InputConfig   `yaml:"input" mapstructure:"input"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Period  PeriodConfig  `yaml:"period" mapstructure:"period"`
	Cleaner CleanerConfig `yaml:"cleaner" mapstructure:"cleaner"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the raw per-store extracts.
type InputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// OutputConfig configures where and how processed datasets are written.
type OutputConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	SQLite bool   `yaml:"sqlite" mapstructure:"sqlite"`
}

// PeriodConfig selects the reporting month.
type PeriodConfig struct {
	Year  int `yaml:"year" mapstructure:"year"`
	Month int `yaml:"month" mapstructure:"month"`
}

// CleanerConfig configures cleaning policy.
type CleanerConfig struct {
	// StrictCategories drops rows whose category token is not in the
	// canonical mapping instead of passing it through unchanged.
	StrictCategories bool `yaml:"strict_categories" mapstructure:"strict_categories"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ReportingPeriod converts the period configuration into the model type.
func (c *Config) ReportingPeriod() model.Period {
	return model.Period{Year: c.Period.Year, Month: time.Month(c.Period.Month)}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SALES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.dir", "data/raw")
	v.SetDefault("output.dir", "data/processed")
	v.SetDefault("output.sqlite", false)
	v.SetDefault("period.year", 2024)
	v.SetDefault("period.month", 1)
	v.SetDefault("cleaner.strict_categories", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.Period.Month < 1 || cfg.Period.Month > 12 {
		return nil, eris.Errorf("config: invalid period month %d", cfg.Period.Month)
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
