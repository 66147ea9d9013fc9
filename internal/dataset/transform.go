package dataset

import (
	"gobalance/domain/core"
	"gobalance/domain/dataset"
)

// AdjustFunc computes the replacement value of a field from its whole row
type AdjustFunc func(row dataset.FlatRow) dataset.Value

// Rescale multiplies every numeric value of field by factor. Absent values stay
// absent and non-numeric text is left untouched. A field outside the schema is
// ErrFieldNotFound, even if the dataset has no rows.
func Rescale(d *dataset.Dataset, field string, factor float64) (*dataset.Dataset, error) {
	if !d.HasColumn(field) {
		return nil, core.NewFieldNotFoundError(field, d.Name)
	}

	rows := make([]dataset.FlatRow, len(d.Rows))
	for i, row := range d.Rows {
		v, ok := row.Float(field)
		if !ok {
			rows[i] = row
			continue
		}
		out := row.Clone()
		out[field] = dataset.Number(v * factor)
		rows[i] = out
	}
	return d.WithRows(rows), nil
}

// DerivedAdjust replaces field in every row with fn(row). Rows whose new value
// is Absent are dropped: this is data cleaning, not an error.
func DerivedAdjust(d *dataset.Dataset, field string, fn AdjustFunc) (*dataset.Dataset, error) {
	if !d.HasColumn(field) {
		return nil, core.NewFieldNotFoundError(field, d.Name)
	}

	rows := make([]dataset.FlatRow, 0, len(d.Rows))
	for _, row := range d.Rows {
		v := fn(row)
		if !v.IsPresent() {
			continue
		}
		out := row.Clone()
		out[field] = v
		rows = append(rows, out)
	}
	return d.WithRows(rows), nil
}

// DurationDiscount weights a per-tick effect by its duration:
// field * duration * discount when duration is present, field unchanged
// otherwise. A row without field yields Absent and is dropped by DerivedAdjust.
func DurationDiscount(field, durationField string, discount float64) AdjustFunc {
	return func(row dataset.FlatRow) dataset.Value {
		v, ok := row.Float(field)
		if !ok {
			return dataset.Absent()
		}
		duration, ok := row.Float(durationField)
		if !ok {
			return dataset.Number(v)
		}
		return dataset.Number(v * duration * discount)
	}
}

// DropMissing keeps only the rows where every listed field is present
func DropMissing(d *dataset.Dataset, fields ...string) (*dataset.Dataset, error) {
	for _, f := range fields {
		if !d.HasColumn(f) {
			return nil, core.NewFieldNotFoundError(f, d.Name)
		}
	}

	rows := make([]dataset.FlatRow, 0, len(d.Rows))
	for _, row := range d.Rows {
		keep := true
		for _, f := range fields {
			if !row.Has(f) {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, row)
		}
	}
	return d.WithRows(rows), nil
}
