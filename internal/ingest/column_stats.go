package ingest

// ColumnStats summarizes one input column.
type ColumnStats struct {
	Name          string
	NullCount     int
	DistinctCount int
	SampleValues  []string
}

// Profile computes null and distinct counts per column, in header order.
func (t *Table) Profile() []ColumnStats {
	stats := make([]ColumnStats, len(t.header))
	seen := make([]map[string]struct{}, len(t.header))
	for i, name := range t.header {
		stats[i] = ColumnStats{Name: name, SampleValues: make([]string, 0, 5)}
		seen[i] = make(map[string]struct{})
	}

	for _, record := range t.records {
		for i := range stats {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			stats[i].update(value, seen[i])
		}
	}

	return stats
}

func (s *ColumnStats) update(value string, seen map[string]struct{}) {
	if value == "" {
		s.NullCount++
		return
	}
	if _, ok := seen[value]; ok {
		return
	}
	seen[value] = struct{}{}
	s.DistinctCount++

	if len(s.SampleValues) < 5 {
		s.SampleValues = append(s.SampleValues, value)
	}
}
