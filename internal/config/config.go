// Package config resolves run settings from defaults, a YAML config file,
// RARITY_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/peekknuf/rarity/internal/output"
	"github.com/peekknuf/rarity/internal/parser"
	"github.com/peekknuf/rarity/internal/rarity"
	"github.com/peekknuf/rarity/internal/report"
)

// EnvPrefix is prepended to every environment variable name, so the key
// "rank-method" is read from RARITY_RANK_METHOD.
const EnvPrefix = "RARITY"

// Viper keys. Flags are bound to the same names.
const (
	KeyDelimiter      = "delimiter"
	KeyNoneValue      = "none-value"
	KeyRankMethod     = "rank-method"
	KeyNaming         = "naming"
	KeyCountTraitless = "count-traitless"
	KeyFormat         = "format"
	KeyWorkers        = "workers"
	KeyRecursive      = "recursive"
	KeyInclude        = "include"
	KeyExclude        = "exclude"
	KeyTop            = "top"
	KeySummary        = "summary"
	KeyLogLevel       = "log-level"
	KeyQuiet          = "quiet"
)

// Config holds every setting a rank or inspect run needs.
type Config struct {
	Delimiter      string   `mapstructure:"delimiter"`
	NoneValue      string   `mapstructure:"none-value"`
	RankMethod     string   `mapstructure:"rank-method"`
	Naming         string   `mapstructure:"naming"`
	CountTraitless bool     `mapstructure:"count-traitless"`
	Format         string   `mapstructure:"format"`
	Workers        int      `mapstructure:"workers"`
	Recursive      bool     `mapstructure:"recursive"`
	Include        []string `mapstructure:"include"`
	Exclude        []string `mapstructure:"exclude"`
	Top            int      `mapstructure:"top"`
	Summary        string   `mapstructure:"summary"`
	LogLevel       string   `mapstructure:"log-level"`
	Quiet          bool     `mapstructure:"quiet"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Delimiter:  "auto",
		NoneValue:  rarity.DefaultNoneValue,
		RankMethod: string(rarity.RankAverage),
		Naming:     string(rarity.NamingLegacy),
		Format:     string(output.FormatCSV),
		Workers:    runtime.NumCPU(),
		Top:        10,
		Summary:    string(report.FormatText),
		LogLevel:   "warn",
	}
}

// SetDefaults registers the defaults on v. Registering every key also lets
// AutomaticEnv pick the key up during Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyDelimiter, d.Delimiter)
	v.SetDefault(KeyNoneValue, d.NoneValue)
	v.SetDefault(KeyRankMethod, d.RankMethod)
	v.SetDefault(KeyNaming, d.Naming)
	v.SetDefault(KeyCountTraitless, d.CountTraitless)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyRecursive, d.Recursive)
	v.SetDefault(KeyInclude, d.Include)
	v.SetDefault(KeyExclude, d.Exclude)
	v.SetDefault(KeyTop, d.Top)
	v.SetDefault(KeySummary, d.Summary)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyQuiet, d.Quiet)
}

// BindEnv makes v read RARITY_* variables, mapping dashes in keys to
// underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// New returns a viper instance with defaults and environment binding in
// place.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(cfg.Include) == 0 {
		cfg.Include = nil
	}
	if len(cfg.Exclude) == 0 {
		cfg.Exclude = nil
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every enumerated setting.
func (c Config) Validate() error {
	if _, err := c.RarityOptions(); err != nil {
		return err
	}
	if _, err := c.OutputFormat(); err != nil {
		return err
	}
	if _, err := c.SummaryFormat(); err != nil {
		return err
	}
	if _, err := c.DelimiterRune(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Top < 0 {
		return fmt.Errorf("top must not be negative, got %d", c.Top)
	}
	if c.NoneValue == "" {
		return fmt.Errorf("none-value must not be empty")
	}
	return nil
}

// RarityOptions converts the ranking settings.
func (c Config) RarityOptions() (rarity.Options, error) {
	method, err := rarity.ParseRankMethod(c.RankMethod)
	if err != nil {
		return rarity.Options{}, err
	}
	naming, err := rarity.ParseNaming(c.Naming)
	if err != nil {
		return rarity.Options{}, err
	}
	return rarity.Options{
		NoneValue:            c.NoneValue,
		RankMethod:           method,
		Naming:               naming,
		CountTraitlessAssets: c.CountTraitless,
	}, nil
}

// OutputFormat parses the output encoding.
func (c Config) OutputFormat() (output.Format, error) {
	return output.ParseFormat(c.Format)
}

// SummaryFormat parses the batch summary encoding.
func (c Config) SummaryFormat() (report.Format, error) {
	return report.ParseFormat(c.Summary)
}

// DelimiterRune parses the delimiter. Zero means sniff it from the input.
func (c Config) DelimiterRune() (rune, error) {
	return parser.ParseDelimiter(c.Delimiter)
}

// WorkerCount is the number of files ranked at once in directory mode.
func (c Config) WorkerCount() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}
