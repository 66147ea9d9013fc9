package dataset

import "gobalance/domain/core"

// Record is one raw item/spell definition: nested string keys to scalars,
// nested mappings or arrays. Records are never mutated after loading.
type Record map[string]any

// FlatRow maps a dotted field path (e.g. "stats.damage") to its scalar value
type FlatRow map[string]Value

// Get returns the value at field, Absent when the row has no such key
func (r FlatRow) Get(field string) Value {
	return r[field]
}

// Float is shorthand for Get(field).Float()
func (r FlatRow) Float(field string) (float64, bool) {
	return r[field].Float()
}

// Has reports whether the value at field is present
func (r FlatRow) Has(field string) bool {
	return r[field].IsPresent()
}

// Clone copies the row so a transformation can write to it
func (r FlatRow) Clone() FlatRow {
	out := make(FlatRow, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is an ordered collection of FlatRows from one source.
// Columns is the union of all leaf paths; every row carries every column.
type Dataset struct {
	Name    string    `json:"name"`
	Source  string    `json:"source,omitempty"` // file path the rows came from
	Digest  core.Hash `json:"digest,omitempty"` // sha256 of the source bytes
	Columns []string  `json:"columns"`
	Rows    []FlatRow `json:"rows"`
}

// New builds a dataset, padding each row with Absent for columns it lacks
func New(name, source string, columns []string, rows []FlatRow) *Dataset {
	cols := append([]string(nil), columns...)
	padded := make([]FlatRow, len(rows))
	for i, row := range rows {
		out := row
		copied := false
		for _, c := range cols {
			if _, ok := row[c]; ok {
				continue
			}
			if !copied {
				out = row.Clone()
				copied = true
			}
			out[c] = Absent()
		}
		if out == nil {
			out = FlatRow{}
		}
		padded[i] = out
	}
	return &Dataset{Name: name, Source: source, Columns: cols, Rows: padded}
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// HasColumn reports whether field is part of the schema
func (d *Dataset) HasColumn(field string) bool {
	if d == nil {
		return false
	}
	for _, c := range d.Columns {
		if c == field {
			return true
		}
	}
	return false
}

// WithRows returns a dataset sharing this schema over a different row set
func (d *Dataset) WithRows(rows []FlatRow) *Dataset {
	return &Dataset{
		Name:    d.Name,
		Source:  d.Source,
		Digest:  d.Digest,
		Columns: append([]string(nil), d.Columns...),
		Rows:    rows,
	}
}

// Point is one (x, y) observation with its optional text label
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// Points collects the rows where both x and y are numeric. labelField may be
// empty; rows with an absent label still contribute a point with no label.
func (d *Dataset) Points(x, y, labelField string) []Point {
	if d == nil {
		return nil
	}
	pts := make([]Point, 0, len(d.Rows))
	for _, row := range d.Rows {
		xv, okX := row.Float(x)
		yv, okY := row.Float(y)
		if !okX || !okY {
			continue
		}
		p := Point{X: xv, Y: yv}
		if labelField != "" {
			p.Label, _ = row.Get(labelField).Label()
		}
		pts = append(pts, p)
	}
	return pts
}

// Group is a named subset of a Dataset
type Group struct {
	Label   string   `json:"label"`
	Data    *Dataset `json:"data"`
	Indices []int    `json:"indices"` // row positions in the parent dataset
}

// Len returns the number of rows in the group
func (g Group) Len() int {
	return g.Data.Len()
}
