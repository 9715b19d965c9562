package output

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peekknuf/rarity/internal/rarity"
)

// Format is an output encoding.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// ParseFormat validates a format name. Empty means FormatCSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatJSON, FormatSQLite:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want csv, json or sqlite)", s)
}

// Extension is the file extension used for a format.
func (f Format) Extension() string {
	if f == FormatSQLite {
		return ".db"
	}
	return "." + string(f)
}

// DefaultPath derives the output path for an input file: the input name
// with a "_rarity" suffix, in dir when set or next to the input otherwise.
func DefaultPath(input, dir string, f Format) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+Suffix+f.Extension())
}

// Suffix marks files written by this tool.
const Suffix = "_rarity"

// WriteFile encodes the ranking into a file at path.
func WriteFile(ctx context.Context, path string, r *rarity.Result, f Format) error {
	if f == FormatSQLite {
		return WriteSQLite(ctx, path, r)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	switch f {
	case FormatJSON:
		err = WriteJSON(w, r)
	default:
		err = WriteCSV(w, r)
	}
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return file.Close()
}
