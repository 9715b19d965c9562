// Package engine runs the ranking for one input file at a time: load the
// table, rank it, write the result. Directory runs fan files out over a
// bounded pool.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/peekknuf/rarity/internal/ingest"
	"github.com/peekknuf/rarity/internal/output"
	"github.com/peekknuf/rarity/internal/rarity"
)

// Options configures an Engine.
type Options struct {
	Rarity rarity.Options
	// Delimiter of the input. Zero means detect it per file.
	Delimiter rune
	Format    output.Format
	// OutputDir holds derived output paths. Empty means next to the input.
	OutputDir string
}

// Engine ranks attribute tables.
type Engine struct {
	opts Options
}

// RankResult describes one ranked file.
type RankResult struct {
	ID             uuid.UUID
	Path           string
	OutputPath     string
	Size           int64
	Rows           int
	Delimiter      rune
	Result         *rarity.Result
	ProcessingTime time.Duration
	Error          error
}

// New creates an engine.
func New(opts Options) *Engine {
	if opts.Format == "" {
		opts.Format = output.FormatCSV
	}
	return &Engine{opts: opts}
}

// OutputPath is where the ranking of input is written when no explicit
// path is given.
func (e *Engine) OutputPath(input string) string {
	return output.DefaultPath(input, e.opts.OutputDir, e.opts.Format)
}

// Rank ranks a single file and writes the result to outputPath, or to
// OutputPath(input) when outputPath is empty. Failures are reported in
// the result, not returned.
func (e *Engine) Rank(ctx context.Context, input, outputPath string) *RankResult {
	start := time.Now()
	if outputPath == "" {
		outputPath = e.OutputPath(input)
	}
	result := &RankResult{
		ID:         uuid.New(),
		Path:       input,
		OutputPath: outputPath,
	}
	logger := log.With().Str("run_id", result.ID.String()).Str("path", input).Logger()

	result.Error = e.rank(ctx, result)
	result.ProcessingTime = time.Since(start)

	if result.Error != nil {
		logger.Debug().Err(result.Error).Msg("ranking failed")
		return result
	}
	logger.Debug().
		Str("output", outputPath).
		Int("rows", result.Rows).
		Int("num_tokens", result.Result.NumTokens).
		Dur("elapsed", result.ProcessingTime).
		Msg("ranking written")
	return result
}

func (e *Engine) rank(ctx context.Context, result *RankResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if info, err := os.Stat(result.Path); err == nil {
		result.Size = info.Size()
	}
	table, err := ingest.Load(result.Path, ingest.Options{Delimiter: e.opts.Delimiter})
	if err != nil {
		return err
	}
	result.Rows = table.Len()
	result.Delimiter = table.Delimiter

	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := rarity.Run(table, e.opts.Rarity)
	if err != nil {
		return fmt.Errorf("%s: %w", result.Path, err)
	}
	result.Result = res

	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(result.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return output.WriteFile(ctx, result.OutputPath, res, e.opts.Format)
}
