package rarity

import (
	"fmt"
	"strings"
)

// Naming selects how per-category output columns are labeled.
type Naming string

const (
	// NamingLegacy labels the raw value column <trait>_attribute.
	NamingLegacy Naming = "legacy"
	// NamingClean labels the raw value column <trait>_value.
	NamingClean Naming = "clean"
)

// ParseNaming validates a naming scheme name. Empty means NamingLegacy.
func ParseNaming(s string) (Naming, error) {
	switch Naming(strings.ToLower(strings.TrimSpace(s))) {
	case "", NamingLegacy:
		return NamingLegacy, nil
	case NamingClean:
		return NamingClean, nil
	}
	return "", fmt.Errorf("unknown column naming %q (want legacy or clean)", s)
}

// Fixed output column names.
const (
	ColAttributeCount         = "attribute_count"
	ColAttributeCountScore    = "attribute_count_rarity_score"
	ColOverallScore           = "overall_rarity_score"
	ColScoreWithoutTraitCount = "overall_rarity_score_without_trait_count"
	ColScore33PctTraitCount   = "overall_rarity_score_33pct_trait_count"
	ColRank                   = "rank"
	ColRankWithoutTraitCount  = "rank_without_trait_count"
	ColRank33PctTraitCount    = "rank_33pct_trait_count"

	scoreSuffix = "_rarity_score"
)

var normalizer = strings.NewReplacer(" ", "_", "(", "", ")", "")

// NormalizeTraitType makes a trait type safe to use in a column name.
func NormalizeTraitType(traitType string) string {
	return normalizer.Replace(traitType)
}

// ValueColumn is the column holding a category's raw trait value.
func ValueColumn(category string, naming Naming) string {
	if naming == NamingClean {
		return category + "_value"
	}
	return category + "_attribute"
}

// DescriptionColumn is the column holding a category's trait description.
func DescriptionColumn(category string) string {
	return category + "_description"
}

// ScoreColumn is the column holding a category's rarity score.
func ScoreColumn(category string) string {
	return category + scoreSuffix
}

// fixedColumns are the generated columns that do not belong to a category.
var fixedColumns = []string{
	ColAssetID,
	ColAttributeCount,
	ColAttributeCountScore,
	ColOverallScore,
	ColScoreWithoutTraitCount,
	ColScore33PctTraitCount,
	ColRank,
	ColRankWithoutTraitCount,
	ColRank33PctTraitCount,
}

// categoryColumns lists the column group of one category.
func categoryColumns(category string, hasDescription bool, naming Naming) []string {
	cols := []string{ValueColumn(category, naming)}
	if hasDescription {
		cols = append(cols, DescriptionColumn(category))
	}
	return append(cols, ScoreColumn(category))
}

// ColumnNames lists the generated output columns, without passthrough
// columns: base columns, one group per category, then totals and ranks.
func ColumnNames(categories []Category, hasDescription bool, naming Naming) []string {
	cols := append([]string(nil), fixedColumns[:3]...)
	for _, c := range categories {
		cols = append(cols, categoryColumns(c.Name, hasDescription, naming)...)
	}
	return append(cols, fixedColumns[3:]...)
}

// columnSet reserves lowercased column names while categories are named.
type columnSet map[string]struct{}

func newColumnSet() columnSet {
	set := make(columnSet, len(fixedColumns))
	for _, col := range fixedColumns {
		set[strings.ToLower(col)] = struct{}{}
	}
	return set
}

// all returns every column a category named name could produce under any
// naming scheme.
func (columnSet) all(name string) []string {
	return []string{
		ValueColumn(name, NamingLegacy),
		ValueColumn(name, NamingClean),
		DescriptionColumn(name),
		ScoreColumn(name),
	}
}

// claim reserves the columns of name and returns a free variant of it,
// suffixed _2, _3, ... when name would repeat a reserved column in any case.
func (set columnSet) claim(name string) string {
	candidate := name
	for n := 2; set.taken(candidate); n++ {
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
	for _, col := range set.all(candidate) {
		set[strings.ToLower(col)] = struct{}{}
	}
	return candidate
}

func (set columnSet) taken(name string) bool {
	for _, col := range set.all(name) {
		if _, ok := set[strings.ToLower(col)]; ok {
			return true
		}
	}
	return false
}
