package rarity

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
)

// Categories groups raw trait types by their normalized name, in first-seen
// order. A normalized category takes the absence score of the first raw
// trait type that maps to it. A name whose columns would repeat a fixed
// output column or another category's column gets a numeric suffix.
func Categories(f *Frequencies, s *Scores) []Category {
	var cats []Category
	pos := make(map[string]int)
	columns := newColumnSet()
	for _, traitType := range f.TraitTypes {
		normalized := NormalizeTraitType(traitType)
		if i, ok := pos[normalized]; ok {
			cats[i].TraitTypes = append(cats[i].TraitTypes, traitType)
			continue
		}
		pos[normalized] = len(cats)
		cats = append(cats, Category{
			Name:       columns.claim(normalized),
			Absence:    s.Absence[traitType],
			TraitTypes: []string{traitType},
		})
	}
	return cats
}

// renamed reports the categories whose name differs from their normalized
// trait type.
func renamed(cats []Category) []Warning {
	var warnings []Warning
	for _, c := range cats {
		normalized := NormalizeTraitType(c.TraitTypes[0])
		if c.Name == normalized {
			continue
		}
		log.Warn().Str("trait_type", c.TraitTypes[0]).Str("category", c.Name).Msg("category renamed")
		warnings = append(warnings, Warning{
			Kind:      WarnRenamedCategory,
			TraitType: c.TraitTypes[0],
			Message:   fmt.Sprintf("%q clashes with another output column and is written as %s", c.TraitTypes[0], c.Name),
		})
	}
	return warnings
}

// Assemble pivots the trait rows into one record per asset, fills missing
// categories with their absence score, totals and ranks the records, and
// re-attaches passthrough columns from src.
//
// Records follow the first-seen order of asset ids in the input, not a
// sorted order. When an asset has several rows in one category the first
// row wins.
func Assemble(src Source, t *Traits, f *Frequencies, s *Scores, opts Options) (*Result, error) {
	naming, err := ParseNaming(string(opts.Naming))
	if err != nil {
		return nil, err
	}
	method, err := ParseRankMethod(string(opts.RankMethod))
	if err != nil {
		return nil, err
	}

	res := &Result{
		NumTokens:      t.NumTokens,
		Categories:     Categories(f, s),
		HasDescription: t.HasDescription,
		Naming:         naming,
		Records:        make([]AssetRecord, len(t.Assets)),
	}
	res.Warnings = append(append([]Warning(nil), s.Warnings...), renamed(res.Categories)...)

	absence := make(map[string]float64, len(res.Categories))
	categoryOf := make(map[string]string, len(f.TraitTypes))
	for _, c := range res.Categories {
		absence[c.Name] = c.Absence
		for _, traitType := range c.TraitTypes {
			categoryOf[traitType] = c.Name
		}
	}

	byID := make(map[string]int, len(t.Assets))
	for i, id := range t.Assets {
		count := f.AttributeCount[id]
		res.Records[i] = AssetRecord{
			AssetID:             id,
			AttributeCount:      count,
			AttributeCountScore: s.AttributeCount[count],
			Traits:              make(map[string]TraitCell, len(res.Categories)),
		}
		byID[id] = i
	}

	for _, row := range t.Rows {
		rec := &res.Records[byID[row.AssetID]]
		name := categoryOf[row.TraitType]
		if _, taken := rec.Traits[name]; taken {
			continue
		}
		tc := TraitCell{Value: row.Value, Description: row.Description, Present: true}
		if score, ok := s.Trait[TraitKey{TraitType: row.TraitType, Value: row.Value}]; ok {
			tc.Score = score
		} else {
			tc.Score = absence[name]
			tc.Imputed = true
		}
		rec.Traits[name] = tc
	}

	overall := make([]float64, len(res.Records))
	without := make([]float64, len(res.Records))
	pct33 := make([]float64, len(res.Records))
	parts := make([]float64, 0, len(res.Categories)+1)

	for i := range res.Records {
		rec := &res.Records[i]
		parts = append(parts[:0], rec.AttributeCountScore)
		for _, c := range res.Categories {
			tc, ok := rec.Traits[c.Name]
			if !ok {
				tc = TraitCell{Score: c.Absence, Imputed: true}
				rec.Traits[c.Name] = tc
			}
			parts = append(parts, tc.Score)
		}

		rec.OverallScore = floats.Sum(parts)
		rec.ScoreWithoutTraitCount = rec.OverallScore - rec.AttributeCountScore
		rec.Score33PctTraitCount = rec.OverallScore - rec.AttributeCountScore*2/3

		overall[i] = rec.OverallScore
		without[i] = rec.ScoreWithoutTraitCount
		pct33[i] = rec.Score33PctTraitCount
	}

	if w, ok := infiniteScores(res, t); ok {
		res.Warnings = append(res.Warnings, w)
	}

	rank := Rank(overall, method)
	rankWithout := Rank(without, method)
	rank33 := Rank(pct33, method)
	for i := range res.Records {
		res.Records[i].Rank = rank[i]
		res.Records[i].RankWithoutTraitCount = rankWithout[i]
		res.Records[i].Rank33PctTraitCount = rank33[i]
	}

	if err := attachPassthrough(res, src, byID); err != nil {
		return nil, err
	}
	return res, nil
}

// infiniteScores reports assets whose overall score is +Inf because they
// lack a degenerate category. Assets without any trait are not part of
// num_tokens unless CountTraitlessAssets is set, so they are named apart.
func infiniteScores(res *Result, t *Traits) (Warning, bool) {
	var infinite, traitless int
	for _, rec := range res.Records {
		if !math.IsInf(rec.OverallScore, 1) {
			continue
		}
		infinite++
		if len(t.Assets) > t.NumTokens && !hasTrait(rec) {
			traitless++
		}
	}
	if infinite == 0 {
		return Warning{}, false
	}

	msg := fmt.Sprintf("%d assets lack a degenerate category and score +Inf", infinite)
	if traitless > 0 {
		msg += fmt.Sprintf(", %d of them have no traits and are not counted in num_tokens (see count-traitless)", traitless)
	}
	log.Warn().Int("assets", infinite).Int("traitless", traitless).Msg("infinite overall scores")
	return Warning{Kind: WarnInfiniteScore, Message: msg}, true
}

func hasTrait(rec AssetRecord) bool {
	for _, tc := range rec.Traits {
		if tc.Present {
			return true
		}
	}
	return false
}

// attachPassthrough copies every input column that the ranking does not
// produce itself onto the records, taking the first row seen per asset.
func attachPassthrough(res *Result, src Source, byID map[string]int) error {
	header := src.Header()
	idx, err := indexColumns(header)
	if err != nil {
		return err
	}

	reserved := map[string]struct{}{
		ColAssetID:     {},
		ColTraitType:   {},
		ColValue:       {},
		ColDescription: {},
	}
	for _, name := range ColumnNames(res.Categories, res.HasDescription, res.Naming) {
		reserved[name] = struct{}{}
	}

	var cols []int
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, ok := reserved[name]; ok {
			continue
		}
		reserved[name] = struct{}{}
		cols = append(cols, i)
		res.PassthroughColumns = append(res.PassthroughColumns, name)
	}
	if len(cols) == 0 {
		return nil
	}

	for _, record := range src.Records() {
		i, ok := byID[cell(record, idx.assetID)]
		if !ok || res.Records[i].Passthrough != nil {
			continue
		}
		values := make([]string, len(cols))
		for j, col := range cols {
			values[j] = cell(record, col)
		}
		res.Records[i].Passthrough = values
	}

	return nil
}
