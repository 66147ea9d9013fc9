// Package plot holds the rendering instructions handed to a Renderer.
// Nothing here draws; adapters/plot turns a Spec into an image.
package plot

import (
	"gobalance/domain/dataset"
	"gobalance/domain/stats"
)

// DefaultSamples is the number of grid points a fitted curve is drawn with
const DefaultSamples = 100

// Spec is the full scatter + curve + legend description of one figure
type Spec struct {
	Title  string   `json:"title"`
	XLabel string   `json:"x_label"`
	YLabel string   `json:"y_label"`
	Series []Series `json:"series"`
}

// Series is one group's layers: its scatter points and its fitted curve.
// Equation plots carry only a curve.
type Series struct {
	Label         string           `json:"label"`
	PointColor    string           `json:"point_color,omitempty"` // color name or #rrggbb, palette when empty
	LineColor     string           `json:"line_color,omitempty"`  // defaults to PointColor
	Points        []dataset.Point  `json:"points,omitempty"`
	ShowLabels    bool             `json:"show_labels"`              // annotate each point with its Label
	ScatterLegend string           `json:"scatter_legend,omitempty"` // legend entry for the scatter layer, none when empty
	Fit           *stats.FitResult `json:"fit,omitempty"`
	FitLegend     string           `json:"fit_legend,omitempty"`
	Samples       int              `json:"samples,omitempty"` // curve grid size, DefaultSamples when zero
}

// SampleCount returns the curve grid size with the default applied
func (s Series) SampleCount() int {
	if s.Samples < 2 {
		return DefaultSamples
	}
	return s.Samples
}

// HasCurve reports whether the series draws a fitted curve
func (s Series) HasCurve() bool {
	return s.Fit != nil && len(s.Fit.Coefficients) > 0
}
