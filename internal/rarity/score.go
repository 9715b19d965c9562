package rarity

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// Score is the inverse relative frequency num_tokens / frequency.
func Score(numTokens, frequency int) float64 {
	return float64(numTokens) / float64(frequency)
}

// AbsenceScore is the rarity of having no row in a category whose values
// total the given number of rows. It is +Inf when total equals numTokens
// and negative when a multi-valued category has more rows than numTokens.
func AbsenceScore(numTokens, total int) float64 {
	lacking := numTokens - total
	if lacking == 0 {
		return math.Inf(1)
	}
	return float64(numTokens) / float64(lacking)
}

// Derive converts every frequency table into rarity scores.
func Derive(f *Frequencies, numTokens int) *Scores {
	s := &Scores{
		NumTokens:      numTokens,
		AttributeCount: make(map[int]float64, len(f.CountFrequency)),
		Trait:          make(map[TraitKey]float64, len(f.Trait)),
		Absence:        make(map[string]float64, len(f.CategoryTotal)),
	}

	for count, freq := range f.CountFrequency {
		s.AttributeCount[count] = Score(numTokens, freq)
	}
	for key, freq := range f.Trait {
		s.Trait[key] = Score(numTokens, freq)
	}

	for _, traitType := range f.TraitTypes {
		total := f.CategoryTotal[traitType]
		s.Absence[traitType] = AbsenceScore(numTokens, total)
		switch {
		case total == numTokens:
			log.Warn().
				Str("trait_type", traitType).
				Int("rows", total).
				Int("num_tokens", numTokens).
				Msg("trait type rows equal num_tokens")
			s.Warnings = append(s.Warnings, Warning{
				Kind:      WarnDegenerateCategory,
				TraitType: traitType,
				Message:   fmt.Sprintf("%q has %d valued rows for %d assets, its absence score is +Inf", traitType, total, numTokens),
			})
		case total > numTokens:
			log.Warn().
				Str("trait_type", traitType).
				Int("rows", total).
				Int("num_tokens", numTokens).
				Msg("trait type rows exceed num_tokens")
			s.Warnings = append(s.Warnings, Warning{
				Kind:      WarnOverfullCategory,
				TraitType: traitType,
				Message: fmt.Sprintf("%q has %d valued rows for %d assets, its absence score %g is negative",
					traitType, total, numTokens, s.Absence[traitType]),
			})
		}
	}

	return s
}
