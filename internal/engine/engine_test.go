package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/rarity/internal/output"
	"github.com/peekknuf/rarity/internal/rarity"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

const threeAssets = `asset_id,trait_type,value
A,Background,Red
A,Eyes,Blue
B,Background,Red
B,Eyes,Green
C,Background,Blue
`

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRank(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "azuki.csv", threeAssets)

	e := New(Options{})
	result := e.Rank(context.Background(), input, "")
	require.NoError(t, result.Error)

	assert.Equal(t, filepath.Join(dir, "azuki_rarity.csv"), result.OutputPath)
	assert.Equal(t, 5, result.Rows)
	assert.Equal(t, ',', result.Delimiter)
	assert.Equal(t, int64(len(threeAssets)), result.Size)
	assert.NotEqual(t, uuid.Nil, result.ID)
	require.NotNil(t, result.Result)
	assert.Equal(t, 3, result.Result.NumTokens)

	data, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[3], "C,1,3.0,Blue,3.0,,3.0,9.0,"), lines[3])
}

func TestRankExplicitOutputAndFormat(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "in.tsv", strings.ReplaceAll(threeAssets, ",", "\t"))
	out := filepath.Join(dir, "nested", "ranked.json")

	e := New(Options{Format: output.FormatJSON, Rarity: rarity.Options{RankMethod: rarity.RankMin}})
	result := e.Rank(context.Background(), input, out)
	require.NoError(t, result.Error)
	assert.Equal(t, '\t', result.Delimiter)
	assert.Equal(t, out, result.OutputPath)
	assert.Equal(t, 2.0, result.Result.Records[0].Rank)

	_, err := os.Stat(out)
	assert.NoError(t, err)
}

func TestRankErrors(t *testing.T) {
	dir := t.TempDir()
	e := New(Options{})

	t.Run("missing file", func(t *testing.T) {
		result := e.Rank(context.Background(), filepath.Join(dir, "missing.csv"), "")
		assert.Error(t, result.Error)
	})

	t.Run("schema", func(t *testing.T) {
		input := writeInput(t, dir, "bad.csv", "asset_id,kind\n1,x\n")
		result := e.Rank(context.Background(), input, "")
		assert.ErrorIs(t, result.Error, rarity.ErrInputSchema)
		_, err := os.Stat(result.OutputPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("canceled", func(t *testing.T) {
		input := writeInput(t, dir, "ok.csv", threeAssets)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result := e.Rank(ctx, input, "")
		assert.ErrorIs(t, result.Error, context.Canceled)
	})
}

func TestRankAll(t *testing.T) {
	root := t.TempDir()
	inputs := []string{
		writeInput(t, root, "a.csv", threeAssets),
		writeInput(t, root, "broken.csv", "asset_id\n1\n"),
		writeInput(t, root, "sub/a.csv", threeAssets),
	}
	outDir := filepath.Join(t.TempDir(), "out")

	e := New(Options{OutputDir: outDir})
	jobs := e.Jobs(root, inputs)
	assert.Equal(t, filepath.Join(outDir, "a_rarity.csv"), jobs[0].Output)
	assert.Equal(t, filepath.Join(outDir, "sub", "a_rarity.csv"), jobs[2].Output)

	var done atomic.Int32
	results := e.RankAll(context.Background(), jobs, 2, func(*RankResult) { done.Add(1) })
	require.Len(t, results, 3)
	assert.Equal(t, int32(3), done.Load())

	for i, r := range results {
		assert.Equal(t, inputs[i], r.Path)
	}
	assert.NoError(t, results[0].Error)
	assert.ErrorIs(t, results[1].Error, rarity.ErrInputSchema)
	assert.NoError(t, results[2].Error)

	_, err := os.Stat(filepath.Join(outDir, "sub", "a_rarity.csv"))
	assert.NoError(t, err)
}

func TestJobsWithoutOutputDir(t *testing.T) {
	jobs := New(Options{}).Jobs("/data", []string{"/data/x.csv"})
	assert.Equal(t, []Job{{Input: "/data/x.csv"}}, jobs)
}

func TestInspect(t *testing.T) {
	input := writeInput(t, t.TempDir(), "in.csv", threeAssets)

	insp, err := New(Options{}).Inspect(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 5, insp.Rows)
	assert.Equal(t, 3, insp.Traits.NumTokens)
	require.Len(t, insp.Categories, 2)
	assert.True(t, insp.Categories[0].Degenerate())
	assert.Equal(t, []string{"Red", "Blue"}, insp.Frequencies.Values("Background"))
	require.Len(t, insp.Columns, 3)
	assert.Equal(t, "trait_type", insp.Columns[1].Name)
	assert.Equal(t, 2, insp.Columns[1].DistinctCount)
}
