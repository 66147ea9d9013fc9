// Package source picks a dataset reader from a file's extension.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"gobalance/adapters/excel"
	"gobalance/adapters/jsonfile"
	"gobalance/domain/core"
	"gobalance/domain/dataset"
	"gobalance/ports"
)

// Reader dispatches to the JSON or table reader by extension
type Reader struct {
	// DataPath locates the record array inside JSON documents
	DataPath string
}

// NewReader creates a dispatching reader
func NewReader(dataPath string) *Reader {
	return &Reader{DataPath: dataPath}
}

// Factory is the default ports.ReaderFactory
func Factory(dataPath string) ports.DatasetReader {
	return NewReader(dataPath)
}

// Read loads path with the reader for its extension
func (r *Reader) Read(ctx context.Context, path string) (*dataset.Dataset, error) {
	reader, err := ForPath(path, r.DataPath)
	if err != nil {
		return nil, err
	}
	return reader.Read(ctx, path)
}

// ForPath returns the reader for path's extension. Unknown extensions are
// core.ErrDataUnavailable.
func ForPath(path, dataPath string) (ports.DatasetReader, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return jsonfile.NewReaderAt(dataPath), nil
	case ".xlsx", ".xlsm", ".csv":
		return excel.NewDataReader(), nil
	default:
		return nil, core.NewDataUnavailableError(path, fmt.Errorf("no reader for '%s' files", ext))
	}
}

// Open reads path in one call
func Open(ctx context.Context, path, dataPath string) (*dataset.Dataset, error) {
	return NewReader(dataPath).Read(ctx, path)
}
