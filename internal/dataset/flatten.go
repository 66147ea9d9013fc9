// Package dataset reshapes loaded records: flattening nested records into
// dotted-path rows, rescaling and deriving fields, and grouping rows for fitting.
// Every operation returns a new Dataset; input rows are never written to.
package dataset

import (
	"sort"
	"strconv"

	"gobalance/domain/dataset"
)

// Flatten turns nested records into a Dataset of dotted-path rows.
// Nesting depth is unbounded; array elements get index segments ("tags.0").
// Columns follow first-occurrence order across records, with the keys of a
// single record visited in sorted order so the schema is reproducible.
func Flatten(name, source string, records []dataset.Record) *dataset.Dataset {
	var columns []string
	seen := make(map[string]bool)
	rows := make([]dataset.FlatRow, 0, len(records))

	for _, rec := range records {
		row := make(dataset.FlatRow)
		flattenInto(row, "", map[string]any(rec))
		for _, key := range sortedKeys(row) {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
		rows = append(rows, row)
	}

	// Columns discovered late are padded with Absent by dataset.New
	return dataset.New(name, source, columns, rows)
}

func flattenInto(row dataset.FlatRow, prefix string, node any) {
	switch v := node.(type) {
	case map[string]any:
		if len(v) == 0 && prefix != "" {
			row[prefix] = dataset.Absent()
			return
		}
		for k, child := range v {
			flattenInto(row, joinPath(prefix, k), child)
		}
	case dataset.Record:
		flattenInto(row, prefix, map[string]any(v))
	case []any:
		if len(v) == 0 && prefix != "" {
			row[prefix] = dataset.Absent()
			return
		}
		for i, child := range v {
			flattenInto(row, joinPath(prefix, strconv.Itoa(i)), child)
		}
	default:
		if prefix == "" {
			return
		}
		row[prefix] = scalar(v)
	}
}

func scalar(v any) dataset.Value {
	switch t := v.(type) {
	case nil:
		return dataset.Absent()
	case float64:
		return dataset.Number(t)
	case float32:
		return dataset.Number(float64(t))
	case int:
		return dataset.Number(float64(t))
	case int64:
		return dataset.Number(float64(t))
	case string:
		return dataset.Text(t)
	case bool:
		return dataset.Bool(t)
	case dataset.Value:
		return t
	default:
		return dataset.Absent()
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func sortedKeys(row dataset.FlatRow) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
