package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peekknuf/rarity/internal/parser"
	"github.com/rs/zerolog/log"
)

// ErrNoHeader is returned for an input without a header row.
var ErrNoHeader = errors.New("input has no header row")

// Options controls how a delimited file is read.
type Options struct {
	// Delimiter between fields. Zero means detect from the header line.
	Delimiter rune
}

// Table is a raw attribute export held in memory.
type Table struct {
	Path      string
	Delimiter rune
	header    []string
	records   [][]string
}

// Header returns the column names.
func (t *Table) Header() []string {
	return t.header
}

// Records returns the data rows, header excluded.
func (t *Table) Records() [][]string {
	return t.records
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.records)
}

// Load reads a whole delimited file into memory.
func Load(path string, opts Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	t, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Path = path

	log.Debug().
		Str("path", path).
		Int("rows", t.Len()).
		Int("columns", len(t.header)).
		Str("delimiter", string(t.Delimiter)).
		Msg("loaded attribute table")
	return t, nil
}

// Read loads a delimited table from r.
func Read(r io.Reader, opts Options) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return Parse(data, opts)
}

// Parse decodes delimited text. Rows may have fewer or more fields than the
// header; missing fields read as empty.
func Parse(data []byte, opts Options) (*Table, error) {
	data = parser.StripBOM(data)
	if !parser.ValidateUTF8(data) {
		log.Warn().Msg("input is not valid UTF-8, values may be garbled")
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = parser.DetectDelimiter(data)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Delimiter: delim, header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		t.records = append(t.records, record)
	}

	return t, nil
}
