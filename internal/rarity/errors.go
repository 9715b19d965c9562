package rarity

import (
	"errors"
	"fmt"
)

// ErrInputSchema indicates that a required input column is missing.
var ErrInputSchema = errors.New("input schema error")

// ErrEmptyInput indicates that no asset carries a trait, so every score
// would divide by zero.
var ErrEmptyInput = errors.New("no assets with traits in input")

// WarningKind classifies non-fatal pipeline findings.
type WarningKind string

const (
	// WarnDegenerateCategory marks a trait type whose valued rows total
	// num_tokens. Its absence score is +Inf.
	WarnDegenerateCategory WarningKind = "degenerate_category"
	// WarnOverfullCategory marks a multi-valued trait type with more valued
	// rows than num_tokens. Its absence score is negative.
	WarnOverfullCategory WarningKind = "overfull_category"
	// WarnInfiniteScore marks a ranking where some assets have an infinite
	// overall score because they lack a degenerate category.
	WarnInfiniteScore WarningKind = "infinite_score"
	// WarnRenamedCategory marks a category renamed so that its output
	// columns do not repeat another column.
	WarnRenamedCategory WarningKind = "renamed_category"
)

// Warning is a non-fatal finding attached to a Result.
type Warning struct {
	Kind      WarningKind `json:"kind" yaml:"kind"`
	TraitType string      `json:"trait_type" yaml:"trait_type"`
	Message   string      `json:"message" yaml:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}
