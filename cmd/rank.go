package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/peekknuf/rarity/internal/config"
	"github.com/peekknuf/rarity/internal/connectors"
	"github.com/peekknuf/rarity/internal/engine"
	"github.com/peekknuf/rarity/internal/output"
	"github.com/peekknuf/rarity/internal/report"
)

var rankKeys = []string{
	config.KeyFormat,
	config.KeyDelimiter,
	config.KeyRankMethod,
	config.KeyNoneValue,
	config.KeyNaming,
	config.KeyCountTraitless,
	config.KeyWorkers,
	config.KeyRecursive,
	config.KeyInclude,
	config.KeyExclude,
	config.KeyTop,
	config.KeySummary,
}

func newRankCmd(a *app) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "rank [file or directory]",
		Short: "Rank the assets of an attribute export by rarity",
		Long: `Rank reads a long-format attribute table with asset_id, trait_type and value
columns (plus an optional description and any passthrough columns) and writes one
row per asset with its rarity scores and ranks.

Given a directory, every .csv, .tsv and .txt file in it is ranked concurrently and
a failing file does not stop the others.

Examples:
  rarity rank azuki.csv                          # writes azuki_rarity.csv
  rarity rank azuki.csv -o ranked.json --format json
  rarity rank exports/ --recursive -o ranked/    # directory mode
  rarity rank azuki.csv --rank-method min --summary yaml`,
		Args: cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			a.bindFlags(cmd.Flags(), rankKeys...)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v)
			if err != nil {
				return err
			}
			return runRank(cmd.Context(), cmd, cfg, args[0], outputPath)
		},
	}

	d := config.Default()
	f := cmd.Flags()
	f.StringVarP(&outputPath, "output", "o", "",
		"output file, or output directory in directory mode (default: next to the input, with a _rarity suffix)")
	f.String(config.KeyFormat, d.Format, "output format (csv, json, sqlite)")
	f.String(config.KeyDelimiter, d.Delimiter, "input delimiter (auto, \",\", \";\", tab, \"|\")")
	f.String(config.KeyRankMethod, d.RankMethod, "tie handling (average, min, max, dense, first)")
	f.String(config.KeyNoneValue, d.NoneValue, "trait value that means the asset lacks the trait")
	f.String(config.KeyNaming, d.Naming, "column naming (legacy: <trait>_attribute, clean: <trait>_value)")
	f.Bool(config.KeyCountTraitless, d.CountTraitless, "count assets without any trait in the population")
	f.Int(config.KeyWorkers, 0, "files ranked at once in directory mode (default: CPU cores)")
	f.BoolP(config.KeyRecursive, "r", d.Recursive, "search directories recursively")
	f.StringSlice(config.KeyInclude, nil, "glob patterns of input paths to rank in directory mode (relative to the directory)")
	f.StringSlice(config.KeyExclude, nil, "glob patterns of input paths to skip in directory mode")
	f.Int(config.KeyTop, d.Top, "rarest assets listed per file in the summary")
	f.String(config.KeySummary, d.Summary, "summary format (text, json, yaml)")

	return cmd
}

func runRank(ctx context.Context, cmd *cobra.Command, cfg config.Config, target, outputPath string) error {
	start := time.Now()

	opts, err := cfg.RarityOptions()
	if err != nil {
		return err
	}
	format, err := cfg.OutputFormat()
	if err != nil {
		return err
	}
	delimiter, err := cfg.DelimiterRune()
	if err != nil {
		return err
	}
	summaryFormat, err := cfg.SummaryFormat()
	if err != nil {
		return err
	}

	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", target, err)
	}

	engineOpts := engine.Options{Rarity: opts, Delimiter: delimiter, Format: format}
	status := cmd.ErrOrStderr()

	var results []*engine.RankResult
	if info.IsDir() {
		engineOpts.OutputDir = outputPath
		results, err = rankDirectory(ctx, status, engine.New(engineOpts), cfg, target)
		if err != nil {
			return err
		}
	} else {
		results = []*engine.RankResult{engine.New(engineOpts).Rank(ctx, target, outputPath)}
	}

	if !cfg.Quiet {
		printStatus(status, results)
	}

	summary := report.Summarize(results, cfg.Top, time.Since(start))
	if err := report.Write(cmd.OutOrStdout(), summary, summaryFormat); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	if !info.IsDir() {
		return results[0].Error
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, len(results))
	}
	return nil
}

func rankDirectory(ctx context.Context, status io.Writer, e *engine.Engine, cfg config.Config, root string) ([]*engine.RankResult, error) {
	files, err := connectors.DiscoverInputs(root, connectors.DiscoveryOptions{
		Recursive:  cfg.Recursive,
		SkipSuffix: output.Suffix,
		Include:    cfg.Include,
		Exclude:    cfg.Exclude,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}

	inputs := make([]string, len(files))
	for i, f := range files {
		inputs[i] = f.Path
	}
	jobs := e.Jobs(root, inputs)

	onDone := func(*engine.RankResult) {}
	if !cfg.Quiet {
		fmt.Fprintf(status, "Found %d input files\n", len(jobs))
	}
	if !cfg.Quiet && isTerminal(status) {
		bar := progressbar.NewOptions(len(jobs),
			progressbar.OptionSetWriter(status),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetDescription("[cyan][reset] Ranking files..."),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(20),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(status)
			}),
		)
		defer bar.Finish()
		onDone = func(*engine.RankResult) { _ = bar.Add(1) }
	}

	return e.RankAll(ctx, jobs, cfg.WorkerCount(), onDone), nil
}

// isTerminal reports whether w is an interactive terminal. The progress
// bar redraws in place and is only drawn there.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printStatus(w io.Writer, results []*engine.RankResult) {
	ok := color.New(color.FgGreen)
	failed := color.New(color.FgRed)
	warn := color.New(color.FgYellow)

	for _, r := range results {
		name := filepath.Base(r.Path)
		if r.Error != nil {
			failed.Fprintf(w, "✗ %s: %v\n", name, r.Error)
			continue
		}
		ok.Fprintf(w, "✓ %s -> %s\n", name, r.OutputPath)
		for _, warning := range r.Result.Warnings {
			warn.Fprintf(w, "  ! %s\n", warning)
		}
	}
}
