package rarity

// Aggregate tallies the three frequency tables over the filtered traits.
//
// Attribute counts skip rows whose value is the none sentinel; trait
// frequencies do not. A row with an empty value counts toward the asset's
// attribute count but has no trait frequency, matching how a null value
// drops out of a group-by.
func Aggregate(t *Traits, opts Options) *Frequencies {
	none := opts.noneValue()
	f := &Frequencies{
		AttributeCount: make(map[string]int, len(t.Assets)),
		CountFrequency: make(map[int]int),
		Trait:          make(map[TraitKey]int),
		CategoryTotal:  make(map[string]int),
		values:         make(map[string][]string),
	}

	for _, id := range t.Assets {
		f.AttributeCount[id] = 0
	}

	for _, row := range t.Rows {
		if row.Value != none {
			f.AttributeCount[row.AssetID]++
		}

		if _, ok := f.CategoryTotal[row.TraitType]; !ok {
			f.CategoryTotal[row.TraitType] = 0
			f.TraitTypes = append(f.TraitTypes, row.TraitType)
		}
		if row.Value == "" {
			continue
		}

		key := TraitKey{TraitType: row.TraitType, Value: row.Value}
		if f.Trait[key] == 0 {
			f.values[row.TraitType] = append(f.values[row.TraitType], row.Value)
		}
		f.Trait[key]++
		f.CategoryTotal[row.TraitType]++
	}

	for _, count := range f.AttributeCount {
		f.CountFrequency[count]++
	}

	return f
}
