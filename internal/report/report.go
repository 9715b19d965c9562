// Package report summarizes ranking runs for the terminal or for machines.
package report

import (
	"math"
	"sort"
	"time"

	"github.com/peekknuf/rarity/internal/engine"
	"github.com/peekknuf/rarity/internal/rarity"
)

// Entry is one asset in a top-N listing.
type Entry struct {
	AssetID string `json:"asset_id" yaml:"asset_id"`
	Rank    Float  `json:"rank" yaml:"rank"`
	Score   Float  `json:"overall_rarity_score" yaml:"overall_rarity_score"`
}

// FileReport summarizes one ranked file.
type FileReport struct {
	ID         string        `json:"id" yaml:"id"`
	Path       string        `json:"path" yaml:"path"`
	Output     string        `json:"output,omitempty" yaml:"output,omitempty"`
	Size       int64         `json:"size" yaml:"size"`
	Rows       int           `json:"rows" yaml:"rows"`
	Assets     int           `json:"assets" yaml:"assets"`
	NumTokens  int           `json:"num_tokens" yaml:"num_tokens"`
	Categories int           `json:"categories" yaml:"categories"`
	Degenerate []string      `json:"degenerate_categories,omitempty" yaml:"degenerate_categories,omitempty"`
	Scores     *Distribution `json:"overall_rarity_score,omitempty" yaml:"overall_rarity_score,omitempty"`
	Top        []Entry       `json:"top,omitempty" yaml:"top,omitempty"`
	Elapsed    time.Duration `json:"-" yaml:"-"`
	ElapsedMS  int64         `json:"elapsed_ms" yaml:"elapsed_ms"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary covers a whole run, single file or directory.
type Summary struct {
	Files     []FileReport  `json:"files" yaml:"files"`
	Succeeded int           `json:"succeeded" yaml:"succeeded"`
	Failed    int           `json:"failed" yaml:"failed"`
	Elapsed   time.Duration `json:"-" yaml:"-"`
	ElapsedMS int64         `json:"elapsed_ms" yaml:"elapsed_ms"`
}

// Summarize builds the run summary, listing up to top rarest assets per file.
func Summarize(results []*engine.RankResult, top int, elapsed time.Duration) *Summary {
	s := &Summary{
		Files:     make([]FileReport, 0, len(results)),
		Elapsed:   elapsed,
		ElapsedMS: elapsed.Milliseconds(),
	}
	for _, r := range results {
		fr := SummarizeFile(r, top)
		if fr.Error != "" {
			s.Failed++
		} else {
			s.Succeeded++
		}
		s.Files = append(s.Files, fr)
	}
	return s
}

// SummarizeFile summarizes a single file.
func SummarizeFile(r *engine.RankResult, top int) FileReport {
	fr := FileReport{
		ID:        r.ID.String(),
		Path:      r.Path,
		Size:      r.Size,
		Rows:      r.Rows,
		Elapsed:   r.ProcessingTime,
		ElapsedMS: r.ProcessingTime.Milliseconds(),
	}
	if r.Error != nil {
		fr.Error = r.Error.Error()
		return fr
	}
	fr.Output = r.OutputPath

	res := r.Result
	if res == nil {
		return fr
	}
	fr.Assets = len(res.Records)
	fr.NumTokens = res.NumTokens
	fr.Categories = len(res.Categories)
	for _, c := range res.Categories {
		if c.Degenerate() {
			fr.Degenerate = append(fr.Degenerate, c.Name)
		}
	}

	scores := make([]float64, len(res.Records))
	for i, rec := range res.Records {
		scores[i] = rec.OverallScore
	}
	d := Describe(scores)
	fr.Scores = &d
	fr.Top = TopN(res, top)
	return fr
}

// TopN returns the n best ranked assets. Ties keep input order and NaN
// ranks come last.
func TopN(res *rarity.Result, n int) []Entry {
	if n <= 0 || len(res.Records) == 0 {
		return nil
	}

	order := make([]int, len(res.Records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := res.Records[order[a]].Rank, res.Records[order[b]].Rank
		if math.IsNaN(rb) {
			return !math.IsNaN(ra)
		}
		return ra < rb
	})

	if n > len(order) {
		n = len(order)
	}
	entries := make([]Entry, n)
	for i, idx := range order[:n] {
		rec := res.Records[idx]
		entries[i] = Entry{AssetID: rec.AssetID, Rank: Float(rec.Rank), Score: Float(rec.OverallScore)}
	}
	return entries
}
