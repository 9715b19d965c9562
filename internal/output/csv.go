package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/peekknuf/rarity/internal/rarity"
)

// WriteCSV writes the ranking as comma separated text with a header row.
func WriteCSV(w io.Writer, r *rarity.Result) error {
	cols := columns(r)
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(cols))
	for i := range r.Records {
		for j, v := range values(r, &r.Records[i]) {
			record[j] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
