package dataset

import (
	"fmt"

	"gobalance/domain/core"
	"gobalance/domain/dataset"
)

// AllLabel is the label of the group spanning a whole dataset
const AllLabel = "All"

// Source is one named, pre-loaded dataset taking part in a comparison
type Source struct {
	Name string
	Data *dataset.Dataset
}

// groupKey keeps the number 1 and the text "1" apart
type groupKey struct {
	kind dataset.Kind
	text string
}

// GroupBy partitions d by the distinct values of field, in first-occurrence
// order. Rows with an absent field belong to no group. Values of different kinds
// never share a group; a label already taken gets the kind appended.
func GroupBy(d *dataset.Dataset, field string) ([]dataset.Group, error) {
	if !d.HasColumn(field) {
		return nil, core.NewFieldNotFoundError(field, d.Name)
	}

	index := make(map[groupKey]int)
	order := make([]string, 0)
	used := make(map[string]bool)
	rows := make([][]dataset.FlatRow, 0)
	indices := make([][]int, 0)

	for i, row := range d.Rows {
		v := row.Get(field)
		text, ok := v.Label()
		if !ok {
			continue
		}
		key := groupKey{kind: v.Kind(), text: text}
		pos, exists := index[key]
		if !exists {
			label := text
			if used[label] {
				label = fmt.Sprintf("%s (%s)", text, v.Kind())
			}
			used[label] = true
			pos = len(order)
			index[key] = pos
			order = append(order, label)
			rows = append(rows, nil)
			indices = append(indices, nil)
		}
		rows[pos] = append(rows[pos], row)
		indices[pos] = append(indices[pos], i)
	}

	groups := make([]dataset.Group, len(order))
	for pos, label := range order {
		groups[pos] = dataset.Group{
			Label:   label,
			Data:    d.WithRows(rows[pos]),
			Indices: indices[pos],
		}
	}
	return groups, nil
}

// GroupBySource turns each named dataset into its own group, keeping the
// order of sources
func GroupBySource(sources []Source) []dataset.Group {
	groups := make([]dataset.Group, 0, len(sources))
	for _, src := range sources {
		groups = append(groups, All(src.Data, src.Name))
	}
	return groups
}

// All returns a single group over every row of d
func All(d *dataset.Dataset, label string) dataset.Group {
	if label == "" {
		label = AllLabel
	}
	if d == nil {
		return dataset.Group{Label: label}
	}
	indices := make([]int, d.Len())
	for i := range indices {
		indices[i] = i
	}
	rows := append([]dataset.FlatRow(nil), d.Rows...)
	return dataset.Group{Label: label, Data: d.WithRows(rows), Indices: indices}
}

// Select keeps the groups named in labels, in the order of labels. Labels with
// no matching group are returned as missing so callers can report them.
func Select(groups []dataset.Group, labels []string) (selected []dataset.Group, missing []string) {
	if len(labels) == 0 {
		return groups, nil
	}
	byLabel := make(map[string]dataset.Group, len(groups))
	for _, g := range groups {
		byLabel[g.Label] = g
	}
	for _, l := range labels {
		g, ok := byLabel[l]
		if !ok {
			missing = append(missing, l)
			continue
		}
		selected = append(selected, g)
	}
	return selected, missing
}
