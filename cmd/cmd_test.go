package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const threeAssets = `asset_id,trait_type,value,name
A,Background,Red,Alpha
A,Eyes,Blue,Alpha
B,Background,Red,Beta
B,Eyes,Green,Beta
C,Background,Blue,Gamma
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append(args, "--log-level", "disabled"))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeInput(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRankSingleFile(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, filepath.Join(dir, "azuki.csv"), threeAssets)

	stdout, _, err := run(t, "rank", input, "--quiet", "--summary", "json", "--top", "1")
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, float64(1), summary["succeeded"])
	file := summary["files"].([]any)[0].(map[string]any)
	top := file["top"].([]any)
	require.Len(t, top, 1)
	assert.Equal(t, "C", top[0].(map[string]any)["asset_id"])

	data, err := os.ReadFile(filepath.Join(dir, "azuki_rarity.csv"))
	require.NoError(t, err)
	header := strings.SplitN(string(data), "\n", 2)[0]
	assert.True(t, strings.HasSuffix(header, ",rank_33pct_trait_count,name"), header)
}

func TestRankExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, filepath.Join(dir, "in.csv"), threeAssets)
	out := filepath.Join(dir, "ranked.json")

	stdout, stderr, err := run(t, "rank", input, "-o", out, "--format", "json", "--naming", "clean")
	require.NoError(t, err)
	assert.Contains(t, stdout, "=== RARITY SUMMARY ===")
	assert.Contains(t, stderr, "in.csv -> "+out)
	assert.Contains(t, stderr, "degenerate_category")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Background_value": "Red"`)
}

func TestRankDirectory(t *testing.T) {
	root := t.TempDir()
	writeInput(t, filepath.Join(root, "a.csv"), threeAssets)
	writeInput(t, filepath.Join(root, "bad.csv"), "asset_id,kind\n1,x\n")
	writeInput(t, filepath.Join(root, "sub", "c.csv"), threeAssets)
	outDir := filepath.Join(t.TempDir(), "ranked")

	stdout, stderr, err := run(t, "rank", root, "-o", outDir, "--recursive", "--workers", "2", "--summary", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 files failed")
	assert.Contains(t, stderr, "Found 3 input files")
	assert.Contains(t, stderr, "bad.csv")

	var summary struct {
		Succeeded int `yaml:"succeeded"`
		Failed    int `yaml:"failed"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &summary))
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)

	for _, p := range []string{"a_rarity.csv", filepath.Join("sub", "c_rarity.csv")} {
		_, err := os.Stat(filepath.Join(outDir, p))
		assert.NoError(t, err, p)
	}
}

func TestRankDirectoryExclude(t *testing.T) {
	root := t.TempDir()
	writeInput(t, filepath.Join(root, "a.csv"), threeAssets)
	writeInput(t, filepath.Join(root, "bad.csv"), "asset_id,kind\n1,x\n")

	_, _, err := run(t, "rank", root, "--exclude", "bad*", "--quiet", "--summary", "json")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "a_rarity.csv"))
	assert.NoError(t, err)

	_, _, err = run(t, "rank", root, "--quiet", "--summary", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
}

func TestRankConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, filepath.Join(dir, "in.csv"), threeAssets)
	cfg := writeInput(t, filepath.Join(dir, "rarity.yaml"), "format: json\nrank-method: min\n")

	_, _, err := run(t, "rank", input, "--config", cfg, "--quiet")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "in_rarity.json"))
	assert.NoError(t, err)

	t.Setenv("RARITY_FORMAT", "sqlite")
	_, _, err = run(t, "rank", input, "--quiet")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "in_rarity.db"))
	assert.NoError(t, err)
}

func TestRankErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, filepath.Join(dir, "in.csv"), threeAssets)

	_, _, err := run(t, "rank", input, "--rank-method", "random")
	assert.Error(t, err)

	_, _, err = run(t, "rank", filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)

	_, _, err = run(t, "rank", input, "--config", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := writeInput(t, filepath.Join(dir, "bad.csv"), "id,trait_type,value\n1,a,b\n")
	_, _, err = run(t, "rank", bad, "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "asset_id")

	_, _, err = run(t, "rank")
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	input := writeInput(t, filepath.Join(t.TempDir(), "in.csv"), threeAssets)

	stdout, _, err := run(t, "inspect", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Tokens: 3")
	assert.Contains(t, stdout, "Background (absence score inf)")
	assert.Contains(t, stdout, "degenerate: rows equal tokens")
	assert.Contains(t, stdout, "Eyes (absence score 3.0)")
	assert.Contains(t, stdout, "  1 traits:")
	assert.Regexp(t, `Red\s+2\s+score 1\.5`, stdout)
}

func TestInspectOverfullCategory(t *testing.T) {
	input := writeInput(t, filepath.Join(t.TempDir(), "in.csv"),
		"asset_id,trait_type,value\nA,Hat,Cap\nA,Hat,Crown\nA,Hat,Beanie\nB,Hat,Cap\nC,Eyes,Blue\n")

	stdout, _, err := run(t, "inspect", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Hat (absence score -3.0) overfull: more rows than tokens")
	assert.NotContains(t, stdout, "degenerate")
}

func TestInspectTruncatesValues(t *testing.T) {
	var b strings.Builder
	b.WriteString("asset_id,trait_type,value\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "%d,Hat,v%02d\n", i, i)
	}
	for i := 12; i < 15; i++ {
		fmt.Fprintf(&b, "%d,Hat,v11\n", i)
	}
	input := writeInput(t, filepath.Join(t.TempDir(), "in.csv"), b.String())

	stdout, _, err := run(t, "inspect", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "... 2 more values")
	assert.Regexp(t, `Hat \(absence score [^)]+\)[^\n]*\n\s+v11\s+4`, stdout)

	stdout, _, err = run(t, "inspect", input, "--verbose")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "more values")
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "rarity dev"), stdout)
}
