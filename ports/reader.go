package ports

import (
	"context"

	"gobalance/domain/dataset"
)

// DatasetReader loads one source file into a flattened Dataset.
// A missing, unreadable or malformed file is core.ErrDataUnavailable.
type DatasetReader interface {
	Read(ctx context.Context, path string) (*dataset.Dataset, error)
}

// DatasetReaderFunc adapts a function to DatasetReader
type DatasetReaderFunc func(ctx context.Context, path string) (*dataset.Dataset, error)

func (f DatasetReaderFunc) Read(ctx context.Context, path string) (*dataset.Dataset, error) {
	return f(ctx, path)
}

// ReaderFactory returns a reader for records nested at dataPath ("" for a top-level array)
type ReaderFactory func(dataPath string) DatasetReader
