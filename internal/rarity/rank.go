package rarity

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// RankMethod decides how tied scores share ranks.
type RankMethod string

const (
	// RankAverage gives every member of a tie the mean of the positions it spans.
	RankAverage RankMethod = "average"
	// RankMin gives every member of a tie the lowest position it spans.
	RankMin RankMethod = "min"
	// RankMax gives every member of a tie the highest position it spans.
	RankMax RankMethod = "max"
	// RankDense is like RankMin but groups are numbered consecutively.
	RankDense RankMethod = "dense"
	// RankFirst breaks ties by input order.
	RankFirst RankMethod = "first"
)

// ParseRankMethod validates a tie method name. Empty means RankAverage.
func ParseRankMethod(s string) (RankMethod, error) {
	m := RankMethod(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case "":
		return RankAverage, nil
	case RankAverage, RankMin, RankMax, RankDense, RankFirst:
		return m, nil
	}
	return "", fmt.Errorf("unknown rank method %q", s)
}

// Rank orders scores descending, so the highest score gets rank 1.
// NaN scores get a NaN rank and do not occupy a position.
func Rank(scores []float64, method RankMethod) []float64 {
	ranks := make([]float64, len(scores))
	order := make([]int, 0, len(scores))
	for i, s := range scores {
		if math.IsNaN(s) {
			ranks[i] = math.NaN()
			continue
		}
		order = append(order, i)
	}

	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	dense := 0
	for start := 0; start < len(order); {
		end := start
		for end+1 < len(order) && scores[order[end+1]] == scores[order[start]] {
			end++
		}
		dense++

		for k := start; k <= end; k++ {
			var r float64
			switch method {
			case RankMin:
				r = float64(start + 1)
			case RankMax:
				r = float64(end + 1)
			case RankDense:
				r = float64(dense)
			case RankFirst:
				r = float64(k + 1)
			default:
				r = float64(start+end+2) / 2
			}
			ranks[order[k]] = r
		}
		start = end + 1
	}

	return ranks
}
