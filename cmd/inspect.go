package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/peekknuf/rarity/internal/config"
	"github.com/peekknuf/rarity/internal/engine"
	"github.com/peekknuf/rarity/internal/output"
	"github.com/peekknuf/rarity/internal/rarity"
)

var inspectKeys = []string{
	config.KeyDelimiter,
	config.KeyNoneValue,
	config.KeyCountTraitless,
}

func newInspectCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show trait categories, value counts and scores of an attribute export",
		Long: `Inspect runs the aggregation half of the ranking and prints what it found:
the input columns, the attribute count distribution, and every trait category
with its values, their counts and scores, and the category's absence score.

Categories whose valued rows total the token count are flagged as degenerate:
their absence score is infinite. Multi-valued categories with more rows than
tokens are flagged as overfull: their absence score is negative.`,
		Args: cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			a.bindFlags(cmd.Flags(), inspectKeys...)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			opts, err := cfg.RarityOptions()
			if err != nil {
				return err
			}
			delimiter, err := cfg.DelimiterRune()
			if err != nil {
				return err
			}

			e := engine.New(engine.Options{Rarity: opts, Delimiter: delimiter})
			insp, err := e.Inspect(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printInspection(cmd.OutOrStdout(), insp, verbose)
			return nil
		},
	}

	d := config.Default()
	f := cmd.Flags()
	f.String(config.KeyDelimiter, d.Delimiter, "input delimiter (auto, \",\", \";\", tab, \"|\")")
	f.String(config.KeyNoneValue, d.NoneValue, "trait value that means the asset lacks the trait")
	f.Bool(config.KeyCountTraitless, d.CountTraitless, "count assets without any trait in the population")
	f.BoolVarP(&verbose, "verbose", "v", false, "list every value instead of the ten most common")

	return cmd
}

func printInspection(w io.Writer, insp *engine.Inspection, verbose bool) {
	warn := color.New(color.FgYellow)
	f, s := insp.Frequencies, insp.Scores

	fmt.Fprintf(w, "File: %s\n", insp.Path)
	fmt.Fprintf(w, "- Rows: %s | Assets: %s | Tokens: %s | Delimiter: %q\n",
		humanize.Comma(int64(insp.Rows)),
		humanize.Comma(int64(len(insp.Traits.Assets))),
		humanize.Comma(int64(insp.Traits.NumTokens)),
		insp.Delimiter)

	fmt.Fprintf(w, "\nColumns:\n")
	for _, c := range insp.Columns {
		fmt.Fprintf(w, "  %-20s nulls %-8s distinct %-8s sample: %s\n",
			c.Name, humanize.Comma(int64(c.NullCount)), humanize.Comma(int64(c.DistinctCount)),
			strings.Join(c.SampleValues, ", "))
	}

	fmt.Fprintf(w, "\nAttribute counts:\n")
	counts := make([]int, 0, len(f.CountFrequency))
	for count := range f.CountFrequency {
		counts = append(counts, count)
	}
	sort.Ints(counts)
	for _, count := range counts {
		fmt.Fprintf(w, "  %3d traits: %8s assets  score %s\n",
			count, humanize.Comma(int64(f.CountFrequency[count])), output.FormatFloat(s.AttributeCount[count]))
	}

	fmt.Fprintf(w, "\nCategories:\n")
	for _, c := range insp.Categories {
		fmt.Fprintf(w, "  %s (absence score %s)", c.Name, output.FormatFloat(c.Absence))
		switch {
		case c.Degenerate():
			warn.Fprint(w, " degenerate: rows equal tokens")
		case c.Absence < 0:
			warn.Fprint(w, " overfull: more rows than tokens")
		}
		fmt.Fprintln(w)
		for _, traitType := range c.TraitTypes {
			printValues(w, f, s, traitType, verbose)
		}
	}
}

func printValues(w io.Writer, f *rarity.Frequencies, s *rarity.Scores, traitType string, verbose bool) {
	values := f.Values(traitType)
	shown := values
	if !verbose && len(shown) > 10 {
		shown = topValues(f, traitType, 10)
	}

	for _, v := range shown {
		key := rarity.TraitKey{TraitType: traitType, Value: v}
		fmt.Fprintf(w, "    %-24s %8s  score %s\n", v, humanize.Comma(int64(f.Trait[key])), output.FormatFloat(s.Trait[key]))
	}
	if len(shown) < len(values) {
		fmt.Fprintf(w, "    ... %d more values\n", len(values)-len(shown))
	}
}

// topValues returns the n most common values of a trait type, ties in
// first-seen order.
func topValues(f *rarity.Frequencies, traitType string, n int) []string {
	values := append([]string(nil), f.Values(traitType)...)
	count := func(v string) int { return f.Trait[rarity.TraitKey{TraitType: traitType, Value: v}] }
	sort.SliceStable(values, func(i, j int) bool {
		return count(values[i]) > count(values[j])
	})
	return values[:n]
}
