// Package jsonfile reads item/spell definitions stored as a JSON array of records.
package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gobalance/domain/core"
	"gobalance/domain/dataset"
	"gobalance/internal"
	internalDataset "gobalance/internal/dataset"

	"github.com/tidwall/gjson"
)

// Reader loads a JSON file into a flattened Dataset
type Reader struct {
	// DataPath is a gjson path to the record array inside the document.
	// Empty means the document itself is the array.
	DataPath string
	logger   *internal.Logger
}

// NewReader creates a reader for top-level JSON arrays
func NewReader() *Reader {
	return &Reader{logger: internal.DefaultLogger.With("jsonfile")}
}

// NewReaderAt creates a reader for an array nested at dataPath (e.g. "data.items")
func NewReaderAt(dataPath string) *Reader {
	r := NewReader()
	r.DataPath = dataPath
	return r
}

// Read loads path in a single attempt. Any failure to read or parse the file
// is reported as core.ErrDataUnavailable.
func (r *Reader) Read(ctx context.Context, path string) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewDataUnavailableError(path, err)
	}

	records, err := ParseRecords(body, r.DataPath)
	if err != nil {
		return nil, core.NewDataUnavailableError(path, err)
	}

	d := internalDataset.Flatten(DatasetName(path), path, records)
	d.Digest = core.NewHash(body)
	r.logger.Debug("loaded %d records (%d columns) from %s", d.Len(), len(d.Columns), path)
	return d, nil
}

// ParseRecords decodes a JSON array of objects. dataPath selects a nested array.
func ParseRecords(body []byte, dataPath string) ([]dataset.Record, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("malformed JSON")
	}

	root := gjson.ParseBytes(body)
	if dataPath != "" {
		root = root.Get(dataPath)
		if !root.Exists() {
			return nil, fmt.Errorf("data path '%s' not found in document", dataPath)
		}
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("expected an array of records, got %s", describe(root))
	}

	var (
		records []dataset.Record
		bad     error
		index   int
	)
	root.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			bad = fmt.Errorf("record %d is %s, not an object", index, describe(value))
			return false
		}
		fields, ok := value.Value().(map[string]interface{})
		if !ok {
			bad = fmt.Errorf("record %d could not be decoded", index)
			return false
		}
		records = append(records, dataset.Record(fields))
		index++
		return true
	})
	if bad != nil {
		return nil, bad
	}
	return records, nil
}

// DatasetName derives a dataset name from a file path ("items/weapons.json" -> "weapons")
func DatasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func describe(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "an array"
	case v.IsObject():
		return "an object"
	case v.Type == gjson.Null:
		return "null"
	default:
		return strings.ToLower(v.Type.String())
	}
}
