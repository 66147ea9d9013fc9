// Package plot renders scatter plots with fitted curves using gonum/plot.
package plot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gobalance/adapters/stats/regression"
	"gobalance/domain/core"
	domainPlot "gobalance/domain/plot"
	"gobalance/internal"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// RenderConfig controls where and how large figures are drawn
type RenderConfig struct {
	OutputPath string    // image file; format follows the extension
	Width      vg.Length // figure width
	Height     vg.Length // figure height
	Show       bool      // open the finished image in the platform viewer
}

// DefaultRenderConfig returns a 24x16cm PNG written to plot.png
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		OutputPath: "plot.png",
		Width:      24 * vg.Centimeter,
		Height:     16 * vg.Centimeter,
	}
}

// Renderer implements ports.Renderer on top of gonum/plot
type Renderer struct {
	config RenderConfig
	logger *internal.Logger

	// platform hooks, replaced in tests
	goos   string
	getenv func(string) string
	open   func(path string) error
}

// NewRenderer creates a renderer. Zero sizes fall back to the defaults.
func NewRenderer(config RenderConfig) *Renderer {
	defaults := DefaultRenderConfig()
	if config.Width <= 0 {
		config.Width = defaults.Width
	}
	if config.Height <= 0 {
		config.Height = defaults.Height
	}
	return &Renderer{
		config: config,
		logger: internal.DefaultLogger.With("plot"),
		goos:   runtime.GOOS,
		getenv: os.Getenv,
		open:   openViewer,
	}
}

// Config returns the effective configuration
func (r *Renderer) Config() RenderConfig {
	return r.config
}

// Render draws spec and returns the image path. Failures are
// core.ErrRenderFailed and leave no partial image behind.
func (r *Renderer) Render(ctx context.Context, spec domainPlot.Spec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.config.Show && !r.hasDisplay() {
		return "", core.NewRenderError("no display available (DISPLAY and WAYLAND_DISPLAY are unset)", nil)
	}

	target, err := r.target(spec)
	if err != nil {
		return "", err
	}
	format, err := formatFor(target)
	if err != nil {
		return "", err
	}

	p, err := build(spec)
	if err != nil {
		return "", core.NewRenderError("failed to build figure", err)
	}
	if err := r.write(p, target, format); err != nil {
		return "", err
	}
	r.logger.Info("rendered %q (%d series) to %s", spec.Title, len(spec.Series), target)

	if r.config.Show {
		if err := r.open(target); err != nil {
			return target, core.NewRenderError("failed to open viewer", err)
		}
	}
	return target, nil
}

func (r *Renderer) hasDisplay() bool {
	if r.goos != "linux" && r.goos != "freebsd" && r.goos != "openbsd" {
		return true
	}
	return r.getenv("DISPLAY") != "" || r.getenv("WAYLAND_DISPLAY") != ""
}

// target resolves the output path. Display-only runs go to the temp dir.
func (r *Renderer) target(spec domainPlot.Spec) (string, error) {
	if r.config.OutputPath != "" {
		return r.config.OutputPath, nil
	}
	if !r.config.Show {
		return "", core.NewRenderError("no output path configured", nil)
	}
	name := slug(spec.Title)
	if name == "" {
		name = "figure"
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("balance-%s-%s.png", name, core.NewID().Short())), nil
}

// write saves the figure through a temporary sibling file that is renamed into
// place on success and removed on every failure path.
func (r *Renderer) write(p *gplot.Plot, target, format string) (err error) {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return core.NewRenderError("failed to create output directory", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return core.NewRenderError("failed to create temporary image", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	canvas, err := p.WriterTo(r.config.Width, r.config.Height, format)
	if err != nil {
		return core.NewRenderError("failed to draw figure", err)
	}
	if _, err = canvas.WriteTo(tmp); err != nil {
		return core.NewRenderError("failed to encode image", err)
	}
	if err = tmp.Close(); err != nil {
		return core.NewRenderError("failed to flush image", err)
	}
	if err = os.Rename(tmpName, target); err != nil {
		return core.NewRenderError("failed to move image into place", err)
	}
	return nil
}

// build lays out one gonum plot: scatter, optional point labels, then the
// fitted curve for every series.
func build(spec domainPlot.Spec) (*gplot.Plot, error) {
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("figure has no series")
	}

	p := gplot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	layers := 0
	for i, s := range spec.Series {
		pointColor, err := ParseColor(s.PointColor, i)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Label, err)
		}
		lineColor := pointColor
		if s.LineColor != "" {
			if lineColor, err = ParseColor(s.LineColor, i); err != nil {
				return nil, fmt.Errorf("series %q: %w", s.Label, err)
			}
		}

		if len(s.Points) > 0 {
			xys := make(plotter.XYs, len(s.Points))
			labels := make([]string, len(s.Points))
			for k, pt := range s.Points {
				xys[k].X, xys[k].Y = pt.X, pt.Y
				labels[k] = pt.Label
			}

			scatter, err := plotter.NewScatter(xys)
			if err != nil {
				return nil, fmt.Errorf("series %q scatter: %w", s.Label, err)
			}
			scatter.GlyphStyle.Color = pointColor
			scatter.GlyphStyle.Radius = vg.Points(3)
			scatter.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(scatter)
			if s.ScatterLegend != "" {
				p.Legend.Add(s.ScatterLegend, scatter)
			}
			layers++

			if s.ShowLabels {
				annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
				if err != nil {
					return nil, fmt.Errorf("series %q labels: %w", s.Label, err)
				}
				for k := range annotations.TextStyle {
					annotations.TextStyle[k].Font.Size = vg.Points(7)
				}
				annotations.Offset = vg.Point{X: vg.Points(4), Y: vg.Points(2)}
				p.Add(annotations)
			}
		}

		if s.HasCurve() {
			xs, ys := regression.Sample(*s.Fit, s.SampleCount())
			xys := make(plotter.XYs, len(xs))
			for k := range xs {
				xys[k].X, xys[k].Y = xs[k], ys[k]
			}
			line, err := plotter.NewLine(xys)
			if err != nil {
				return nil, fmt.Errorf("series %q curve: %w", s.Label, err)
			}
			line.LineStyle.Color = lineColor
			line.LineStyle.Width = vg.Points(1.5)
			p.Add(line)
			if s.FitLegend != "" {
				p.Legend.Add(s.FitLegend, line)
			}
			layers++
		}
	}
	if layers == 0 {
		return nil, fmt.Errorf("figure has no points and no curves")
	}
	return p, nil
}

// formatFor maps an image extension to a gonum canvas format
func formatFor(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "svg", "pdf", "eps", "tex":
		return ext, nil
	case "jpg", "jpeg":
		return "jpg", nil
	case "tif", "tiff":
		return "tiff", nil
	default:
		return "", core.NewRenderError(fmt.Sprintf("unsupported image format %q", filepath.Ext(path)), nil)
	}
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
