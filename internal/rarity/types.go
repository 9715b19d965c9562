// Package rarity computes inverse-frequency rarity scores and rankings for
// assets described by categorical traits.
//
// The pipeline has four stages, each a plain function over the previous
// stage's output: Filter, Aggregate, Derive and Assemble. Run chains them.
package rarity

import "math"

// Input column names. They are fixed by the raw attribute export format.
const (
	ColAssetID     = "asset_id"
	ColTraitType   = "trait_type"
	ColValue       = "value"
	ColDescription = "description"
)

// DefaultNoneValue is the trait value that does not count toward an
// asset's attribute count.
const DefaultNoneValue = "None"

// Source is a raw attribute table: a header plus string records.
// An empty cell is treated as null.
type Source interface {
	Header() []string
	Records() [][]string
}

// Options tunes the pipeline. The zero value is usable.
type Options struct {
	// NoneValue is excluded from attribute counts. Empty means DefaultNoneValue.
	NoneValue string
	// RankMethod resolves ties. Empty means RankAverage.
	RankMethod RankMethod
	// Naming selects the output column naming scheme. Empty means NamingLegacy.
	Naming Naming
	// CountTraitlessAssets makes num_tokens count every asset id in the
	// input, including assets that only appear on rows without a trait_type.
	CountTraitlessAssets bool
}

func (o Options) noneValue() string {
	if o.NoneValue == "" {
		return DefaultNoneValue
	}
	return o.NoneValue
}

// TraitRow is one observed (asset, trait_type, value) tuple.
type TraitRow struct {
	AssetID     string
	TraitType   string
	Value       string
	Description string
}

// TraitKey identifies a trait value within its raw category.
type TraitKey struct {
	TraitType string
	Value     string
}

// Traits is the output of Filter.
type Traits struct {
	// NumTokens is the population size every score is normalized by.
	NumTokens int
	// Rows holds every row with a non-null trait_type, in input order.
	Rows []TraitRow
	// Assets lists every distinct asset id of the input in first-seen order.
	Assets []string
	// HasDescription reports whether the input carries a description column.
	HasDescription bool
}

// Frequencies is the output of Aggregate.
type Frequencies struct {
	// AttributeCount is the number of non-None trait rows per asset.
	AttributeCount map[string]int
	// CountFrequency is the number of assets sharing each attribute count.
	CountFrequency map[int]int
	// Trait is the number of rows per (trait_type, value).
	Trait map[TraitKey]int
	// CategoryTotal sums Trait over the values of each raw trait_type.
	CategoryTotal map[string]int
	// TraitTypes lists the raw trait types in first-seen order.
	TraitTypes []string

	values map[string][]string
}

// Values returns the distinct values of a raw trait type in first-seen order.
func (f *Frequencies) Values(traitType string) []string {
	return f.values[traitType]
}

// Scores is the output of Derive.
type Scores struct {
	NumTokens      int
	AttributeCount map[int]float64
	Trait          map[TraitKey]float64
	// Absence is the score imputed for an asset with no row in a raw trait type.
	Absence  map[string]float64
	Warnings []Warning
}

// Category is one normalized trait type, i.e. one column group of the output.
type Category struct {
	Name string
	// Absence is the fill score for assets without this category.
	Absence float64
	// TraitTypes are the raw trait types that normalize to Name.
	TraitTypes []string
}

// Degenerate reports whether the category's absence score is +Inf, i.e.
// its valued rows total num_tokens.
func (c Category) Degenerate() bool {
	return math.IsInf(c.Absence, 1)
}

// TraitCell is one asset's entry in one category.
type TraitCell struct {
	Value       string
	Description string
	Score       float64
	// Present is false when the asset has no row for the category.
	Present bool
	// Imputed is true when Score came from the category absence score.
	Imputed bool
}

// AssetRecord is one output row before serialization.
type AssetRecord struct {
	AssetID                string
	AttributeCount         int
	AttributeCountScore    float64
	Traits                 map[string]TraitCell
	OverallScore           float64
	ScoreWithoutTraitCount float64
	Score33PctTraitCount   float64
	Rank                   float64
	RankWithoutTraitCount  float64
	Rank33PctTraitCount    float64
	Passthrough            []string
}

// Result is the fully assembled ranking.
type Result struct {
	NumTokens          int
	Categories         []Category
	HasDescription     bool
	Naming             Naming
	Records            []AssetRecord
	PassthroughColumns []string
	Warnings           []Warning
}

// Columns returns the output column names in order.
func (r *Result) Columns() []string {
	cols := ColumnNames(r.Categories, r.HasDescription, r.Naming)
	return append(cols, r.PassthroughColumns...)
}
