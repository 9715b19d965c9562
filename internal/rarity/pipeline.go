package rarity

import (
	"github.com/rs/zerolog/log"
)

// Run executes the whole pipeline over a raw attribute table.
func Run(src Source, opts Options) (*Result, error) {
	traits, err := Filter(src, opts)
	if err != nil {
		return nil, err
	}
	freqs := Aggregate(traits, opts)
	scores := Derive(freqs, traits.NumTokens)

	res, err := Assemble(src, traits, freqs, scores, opts)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("num_tokens", res.NumTokens).
		Int("assets", len(res.Records)).
		Int("categories", len(res.Categories)).
		Int("passthrough", len(res.PassthroughColumns)).
		Msg("rarity ranking assembled")
	return res, nil
}
