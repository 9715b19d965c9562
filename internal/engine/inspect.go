package engine

import (
	"context"
	"time"

	"github.com/peekknuf/rarity/internal/ingest"
	"github.com/peekknuf/rarity/internal/rarity"
)

// Inspection is the aggregation stage of one file, without the reshape.
type Inspection struct {
	Path           string
	Rows           int
	Delimiter      rune
	Columns        []ingest.ColumnStats
	Traits         *rarity.Traits
	Frequencies    *rarity.Frequencies
	Scores         *rarity.Scores
	Categories     []rarity.Category
	ProcessingTime time.Duration
}

// Inspect loads input and computes its frequencies and scores.
func (e *Engine) Inspect(ctx context.Context, input string) (*Inspection, error) {
	start := time.Now()

	table, err := ingest.Load(input, ingest.Options{Delimiter: e.opts.Delimiter})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	traits, err := rarity.Filter(table, e.opts.Rarity)
	if err != nil {
		return nil, err
	}
	freqs := rarity.Aggregate(traits, e.opts.Rarity)
	scores := rarity.Derive(freqs, traits.NumTokens)

	return &Inspection{
		Path:           input,
		Rows:           table.Len(),
		Delimiter:      table.Delimiter,
		Columns:        table.Profile(),
		Traits:         traits,
		Frequencies:    freqs,
		Scores:         scores,
		Categories:     rarity.Categories(freqs, scores),
		ProcessingTime: time.Since(start),
	}, nil
}
