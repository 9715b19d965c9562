package rarity

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// columnIndex locates the pipeline's columns in a header.
type columnIndex struct {
	assetID     int
	traitType   int
	value       int
	description int
}

func indexColumns(header []string) (columnIndex, error) {
	idx := columnIndex{assetID: -1, traitType: -1, value: -1, description: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ColAssetID:
			if idx.assetID < 0 {
				idx.assetID = i
			}
		case ColTraitType:
			if idx.traitType < 0 {
				idx.traitType = i
			}
		case ColValue:
			if idx.value < 0 {
				idx.value = i
			}
		case ColDescription:
			if idx.description < 0 {
				idx.description = i
			}
		}
	}

	var missing []string
	if idx.assetID < 0 {
		missing = append(missing, ColAssetID)
	}
	if idx.traitType < 0 {
		missing = append(missing, ColTraitType)
	}
	if idx.value < 0 {
		missing = append(missing, ColValue)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: missing columns %s", ErrInputSchema, strings.Join(missing, ", "))
	}
	return idx, nil
}

// cell returns record[i], or "" when the record is too short or i < 0.
func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// Filter keeps the rows that carry a trait_type and counts the population.
// Assets are listed in first-seen input order, which is also the order of
// the output records.
//
// num_tokens counts the distinct assets among those rows only: an asset
// that appears solely on rows with an empty trait_type is still emitted
// but does not enlarge the denominator, unless opts.CountTraitlessAssets
// is set. Rows with an empty asset_id cannot be joined and are skipped.
func Filter(src Source, opts Options) (*Traits, error) {
	idx, err := indexColumns(src.Header())
	if err != nil {
		return nil, err
	}

	t := &Traits{HasDescription: idx.description >= 0}
	seen := make(map[string]struct{})
	withTraits := make(map[string]struct{})
	skipped := 0

	for _, record := range src.Records() {
		assetID := cell(record, idx.assetID)
		if assetID == "" {
			skipped++
			continue
		}
		if _, ok := seen[assetID]; !ok {
			seen[assetID] = struct{}{}
			t.Assets = append(t.Assets, assetID)
		}

		traitType := cell(record, idx.traitType)
		if traitType == "" {
			continue
		}
		withTraits[assetID] = struct{}{}
		t.Rows = append(t.Rows, TraitRow{
			AssetID:     assetID,
			TraitType:   traitType,
			Value:       cell(record, idx.value),
			Description: cell(record, idx.description),
		})
	}

	if skipped > 0 {
		log.Debug().Int("rows", skipped).Msg("skipped rows without asset_id")
	}

	t.NumTokens = len(withTraits)
	if opts.CountTraitlessAssets {
		t.NumTokens = len(t.Assets)
	}
	if t.NumTokens == 0 || len(t.Rows) == 0 {
		return nil, ErrEmptyInput
	}

	return t, nil
}
