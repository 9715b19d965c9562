package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/peekknuf/rarity/internal/output"
)

// Format is a summary encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a summary format name. Empty means FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown summary format %q (want text, json or yaml)", s)
}

// Write encodes the summary.
func Write(w io.Writer, s *Summary, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeText(w, s)
	}
}

func writeText(w io.Writer, s *Summary) error {
	var b strings.Builder

	b.WriteString("=== RARITY SUMMARY ===\n")
	fmt.Fprintf(&b, "Files ranked: %s", humanize.Comma(int64(s.Succeeded)))
	if s.Failed > 0 {
		fmt.Fprintf(&b, " (%s failed)", humanize.Comma(int64(s.Failed)))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total processing time: %v\n", s.Elapsed.Round(time.Millisecond))

	for _, f := range s.Files {
		b.WriteString("\n")
		fmt.Fprintf(&b, "File: %s\n", filepath.Base(f.Path))
		if f.Error != "" {
			fmt.Fprintf(&b, "  Error: %s\n", f.Error)
			continue
		}
		fmt.Fprintf(&b, "  Output: %s\n", f.Output)
		fmt.Fprintf(&b, "  Rows: %s | Assets: %s | Tokens: %s | Categories: %d | Size: %s | Time: %v\n",
			humanize.Comma(int64(f.Rows)), humanize.Comma(int64(f.Assets)), humanize.Comma(int64(f.NumTokens)),
			f.Categories, humanize.Bytes(uint64(f.Size)), f.Elapsed.Round(time.Millisecond))
		if len(f.Degenerate) > 0 {
			fmt.Fprintf(&b, "  Degenerate categories (absence score inf): %s\n", strings.Join(f.Degenerate, ", "))
		}
		if d := f.Scores; d != nil && d.Count > 0 {
			fmt.Fprintf(&b, "  Overall score: mean %s | std %s | min %s | median %s | max %s",
				num(d.Mean), num(d.Std), num(d.Min), num(d.Q50), num(d.Max))
			if d.Infinite > 0 {
				fmt.Fprintf(&b, " | %d infinite", d.Infinite)
			}
			b.WriteString("\n")
		}
		if len(f.Top) > 0 {
			fmt.Fprintf(&b, "  Top %d:\n", len(f.Top))
			fmt.Fprintf(&b, "    %8s  %-20s %s\n", "Rank", "Asset", "Score")
			for _, e := range f.Top {
				fmt.Fprintf(&b, "    %8s  %-20s %s\n", output.FormatFloat(float64(e.Rank)), e.AssetID, num(e.Score))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func num(f Float) string {
	return humanize.FormatFloat("#,###.##", float64(f))
}
