package ports

import (
	"context"

	"gobalance/domain/run"
)

// ReportWriter persists a run manifest in some human-readable form
type ReportWriter interface {
	Write(ctx context.Context, manifest *run.Manifest, path string) error
}
