package parser

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// candidates are checked in order; on equal counts the earlier one wins.
var candidates = []rune{',', ';', '\t', '|'}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// IsValidDelimiter checks if a rune is a supported field delimiter
func IsValidDelimiter(delim rune) bool {
	for _, c := range candidates {
		if c == delim {
			return true
		}
	}
	return false
}

// ParseDelimiter turns a flag value into a delimiter rune. Empty or "auto"
// returns 0, meaning detect from the data.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "", "auto":
		return 0, nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || !IsValidDelimiter(r) {
		return 0, fmt.Errorf("unsupported delimiter %q (want one of , ; tab |)", s)
	}
	return r, nil
}

// DetectDelimiter guesses the delimiter from the header line: the candidate
// that occurs most often outside quotes wins, comma when none occurs.
func DetectDelimiter(data []byte) rune {
	data = StripBOM(data)
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		data = data[:i]
	}

	counts := make(map[rune]int, len(candidates))
	inQuotes := false
	for _, b := range data {
		if b == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[rune(b)]++
		}
	}

	best, bestCount := ',', 0
	for _, c := range candidates {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best
}

// StripBOM drops a leading UTF-8 byte order mark
func StripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// ValidateUTF8 checks if data is valid UTF-8
func ValidateUTF8(data []byte) bool {
	return utf8.Valid(data)
}
