package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/rarity/internal/output"
	"github.com/peekknuf/rarity/internal/rarity"
	"github.com/peekknuf/rarity/internal/report"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	opts, err := cfg.RarityOptions()
	require.NoError(t, err)
	assert.Equal(t, rarity.Options{
		NoneValue:  "None",
		RankMethod: rarity.RankAverage,
		Naming:     rarity.NamingLegacy,
	}, opts)

	f, err := cfg.OutputFormat()
	require.NoError(t, err)
	assert.Equal(t, output.FormatCSV, f)

	s, err := cfg.SummaryFormat()
	require.NoError(t, err)
	assert.Equal(t, report.FormatText, s)

	d, err := cfg.DelimiterRune()
	require.NoError(t, err)
	assert.Equal(t, rune(0), d)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".rarity.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
delimiter: ";"
none-value: "none"
rank-method: dense
naming: clean
count-traitless: true
format: json
workers: 3
top: 5
include:
  - "drops/**.csv"
`), 0644))

	v := New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.NoneValue)
	assert.True(t, cfg.CountTraitless)
	assert.Equal(t, 3, cfg.WorkerCount())
	assert.Equal(t, 5, cfg.Top)
	assert.Equal(t, []string{"drops/**.csv"}, cfg.Include)
	assert.Empty(t, cfg.Exclude)

	opts, err := cfg.RarityOptions()
	require.NoError(t, err)
	assert.Equal(t, rarity.RankDense, opts.RankMethod)
	assert.Equal(t, rarity.NamingClean, opts.Naming)

	d, err := cfg.DelimiterRune()
	require.NoError(t, err)
	assert.Equal(t, ';', d)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RARITY_RANK_METHOD", "min")
	t.Setenv("RARITY_FORMAT", "sqlite")
	t.Setenv("RARITY_COUNT_TRAITLESS", "true")
	t.Setenv("RARITY_EXCLUDE", "old/*,tmp/*")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "min", cfg.RankMethod)
	assert.Equal(t, "sqlite", cfg.Format)
	assert.True(t, cfg.CountTraitless)
	assert.Equal(t, []string{"old/*", "tmp/*"}, cfg.Exclude)
}

func TestLoadOverrideBeatsEnv(t *testing.T) {
	t.Setenv("RARITY_NAMING", "clean")

	v := New()
	v.Set(KeyNaming, "legacy")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Naming)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"rank method", func(c *Config) { c.RankMethod = "random" }},
		{"naming", func(c *Config) { c.Naming = "fancy" }},
		{"format", func(c *Config) { c.Format = "xml" }},
		{"summary", func(c *Config) { c.Summary = "html" }},
		{"delimiter", func(c *Config) { c.Delimiter = "::" }},
		{"workers", func(c *Config) { c.Workers = -1 }},
		{"top", func(c *Config) { c.Top = -2 }},
		{"none value", func(c *Config) { c.NoneValue = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestWorkerCount(t *testing.T) {
	cfg := Default()
	cfg.Workers = 0
	assert.Equal(t, runtime.NumCPU(), cfg.WorkerCount())
}
