package output

import (
	"bufio"
	"encoding/json"
	"io"
	"math"

	"github.com/peekknuf/rarity/internal/rarity"
)

// WriteJSON writes the ranking as an array of objects whose keys keep the
// column order. Non-finite floats are written as strings ("inf").
func WriteJSON(w io.Writer, r *rarity.Result) error {
	cols := columns(r)
	keys := make([][]byte, len(cols))
	for i, c := range cols {
		k, err := json.Marshal(c.name)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	bw := bufio.NewWriter(w)
	bw.WriteString("[")
	for i := range r.Records {
		if i > 0 {
			bw.WriteString(",")
		}
		bw.WriteString("\n  {")
		for j, v := range values(r, &r.Records[i]) {
			if j > 0 {
				bw.WriteString(", ")
			}
			bw.Write(keys[j])
			bw.WriteString(": ")

			b, err := json.Marshal(jsonValue(v))
			if err != nil {
				return err
			}
			bw.Write(b)
		}
		bw.WriteString("}")
	}
	if len(r.Records) > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("]\n")
	return bw.Flush()
}

func jsonValue(v any) any {
	if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return FormatFloat(f)
	}
	return v
}
