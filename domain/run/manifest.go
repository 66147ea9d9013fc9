package run

import (
	"fmt"
	"time"

	"gobalance/domain/core"
	"gobalance/domain/dataset"
	"gobalance/domain/stats"
)

// SourceDigest records one input file as it was when the run read it
type SourceDigest struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Hash core.Hash `json:"hash"` // sha256 of the file bytes
	Rows int       `json:"rows"` // rows after flattening, before transforms
}

// GroupSummary describes one plotted group
type GroupSummary struct {
	Label    string          `json:"label"`
	Rows     int             `json:"rows"`   // rows in the group
	Points   int             `json:"points"` // rows with both x and y present
	Observed []dataset.Point `json:"observed,omitempty"`
}

// Manifest is the record of one pipeline invocation: what was read, what was
// fitted, and where the image went. Reports are rendered from it.
type Manifest struct {
	RunID     core.RunID        `json:"run_id"`
	Name      string            `json:"name"`
	Title     string            `json:"title"`
	XField    string            `json:"x_field"`
	YField    string            `json:"y_field"`
	Degree    int               `json:"degree"`
	Sources   []SourceDigest    `json:"sources"`
	Groups    []GroupSummary    `json:"groups"`
	Fits      []stats.FitResult `json:"fits"`
	Legends   []string          `json:"legends"` // legend text per fit, same order as Fits
	Image     string            `json:"image,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewManifest starts a manifest for a run
func NewManifest(runID core.RunID, name, title string) *Manifest {
	return &Manifest{
		RunID:     runID,
		Name:      name,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
}

// AddFit records a fit together with its rendered legend text
func (m *Manifest) AddFit(fit stats.FitResult, legend string) {
	m.Fits = append(m.Fits, fit)
	m.Legends = append(m.Legends, legend)
}

// Validate checks if the manifest is complete
func (m *Manifest) Validate() error {
	if core.ID(m.RunID).IsEmpty() {
		return fmt.Errorf("run manifest: run_id cannot be empty")
	}
	if m.Name == "" {
		return fmt.Errorf("run manifest: name cannot be empty")
	}
	if len(m.Fits) != len(m.Legends) {
		return fmt.Errorf("run manifest: %d fits but %d legends", len(m.Fits), len(m.Legends))
	}
	return nil
}
