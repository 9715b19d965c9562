package output

import (
	"math"
	"strconv"
	"strings"

	"github.com/peekknuf/rarity/internal/rarity"
)

type kind int

const (
	kindText kind = iota
	kindInt
	kindReal
)

type column struct {
	name string
	kind kind
}

// columns lays out the output table. Per-category cells are expanded from
// each record's Traits map only here.
func columns(r *rarity.Result) []column {
	cols := []column{
		{rarity.ColAssetID, kindText},
		{rarity.ColAttributeCount, kindInt},
		{rarity.ColAttributeCountScore, kindReal},
	}
	for _, c := range r.Categories {
		cols = append(cols, column{rarity.ValueColumn(c.Name, r.Naming), kindText})
		if r.HasDescription {
			cols = append(cols, column{rarity.DescriptionColumn(c.Name), kindText})
		}
		cols = append(cols, column{rarity.ScoreColumn(c.Name), kindReal})
	}
	for _, name := range []string{
		rarity.ColOverallScore,
		rarity.ColScoreWithoutTraitCount,
		rarity.ColScore33PctTraitCount,
		rarity.ColRank,
		rarity.ColRankWithoutTraitCount,
		rarity.ColRank33PctTraitCount,
	} {
		cols = append(cols, column{name, kindReal})
	}
	for _, name := range r.PassthroughColumns {
		cols = append(cols, column{name, kindText})
	}
	return cols
}

// values returns one record's cells aligned with columns. A cell is a
// string, an int, a float64, or nil for null.
func values(r *rarity.Result, rec *rarity.AssetRecord) []any {
	row := make([]any, 0, 9+3*len(r.Categories)+len(r.PassthroughColumns))
	row = append(row, rec.AssetID, rec.AttributeCount, rec.AttributeCountScore)

	for _, c := range r.Categories {
		tc := rec.Traits[c.Name]
		if tc.Present {
			row = append(row, tc.Value)
		} else {
			row = append(row, nil)
		}
		if r.HasDescription {
			if tc.Present && tc.Description != "" {
				row = append(row, tc.Description)
			} else {
				row = append(row, nil)
			}
		}
		row = append(row, tc.Score)
	}

	row = append(row,
		rec.OverallScore,
		rec.ScoreWithoutTraitCount,
		rec.Score33PctTraitCount,
		rec.Rank,
		rec.RankWithoutTraitCount,
		rec.Rank33PctTraitCount,
	)

	for i := range r.PassthroughColumns {
		if i < len(rec.Passthrough) && rec.Passthrough[i] != "" {
			row = append(row, rec.Passthrough[i])
		} else {
			row = append(row, nil)
		}
	}
	return row
}

// FormatFloat renders a float for text output: whole numbers keep a
// trailing ".0", infinities are "inf" and NaN is empty.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return FormatFloat(x)
	}
	return ""
}
