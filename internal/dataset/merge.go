package dataset

import (
	"gobalance/domain/dataset"
)

// Concat stacks datasets into one. The schema is the union of the parts'
// columns in first-occurrence order; rows keep their order and are padded with
// Absent for columns their part lacks. Nil parts are skipped.
func Concat(name string, parts ...*dataset.Dataset) *dataset.Dataset {
	seen := make(map[string]bool)
	var columns []string
	var rows []dataset.FlatRow
	for _, part := range parts {
		if part == nil {
			continue
		}
		for _, col := range part.Columns {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
		rows = append(rows, part.Rows...)
	}
	return dataset.New(name, "", columns, rows)
}
