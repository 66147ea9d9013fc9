package app

import (
	"context"
	"fmt"
	"time"

	"gobalance/adapters/stats/regression"
	"gobalance/domain/core"
	"gobalance/domain/dataset"
	"gobalance/domain/plot"
	"gobalance/domain/run"
	"gobalance/domain/stats"
	"gobalance/internal"
	"gobalance/internal/config"
	internalDataset "gobalance/internal/dataset"
	"gobalance/internal/errors"
	"gobalance/ports"
)

// Pipeline runs Loader -> Transformer -> Grouper -> Fitter -> Renderer for one
// plot config. Every stage error is terminal; nothing is rendered after one.
type Pipeline struct {
	readers  ports.ReaderFactory
	renderer ports.Renderer
	report   ports.ReportWriter
	summary  ports.ReportWriter
	samples  int
	logger   *internal.Logger
}

// PipelineOptions holds the optional collaborators of a Pipeline
type PipelineOptions struct {
	Report  ports.ReportWriter // writes PlotConfig.Report when set
	Summary ports.ReportWriter // writes PlotConfig.Summary when set
	Samples int                // curve grid size when a config sets none
}

// RunResult is the outcome of one successful run
type RunResult struct {
	RunID     core.RunID        `json:"run_id"`
	Image     string            `json:"image"`
	Fits      []stats.FitResult `json:"fits"`
	Manifest  *run.Manifest     `json:"manifest"`
	RuntimeMs int64             `json:"runtime_ms"`
}

// NewPipeline creates a pipeline
func NewPipeline(readers ports.ReaderFactory, renderer ports.Renderer, opts PipelineOptions) *Pipeline {
	samples := opts.Samples
	if samples < 2 {
		samples = plot.DefaultSamples
	}
	return &Pipeline{
		readers:  readers,
		renderer: renderer,
		report:   opts.Report,
		summary:  opts.Summary,
		samples:  samples,
		logger:   internal.DefaultLogger.With("pipeline"),
	}
}

// Run executes cfg. Equation configs are delegated to RunEquations.
func (p *Pipeline) Run(ctx context.Context, cfg *config.PlotConfig) (*RunResult, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("plot config is nil")
	}
	if cfg.IsEquationPlot() {
		return p.RunEquations(ctx, cfg)
	}

	startTime := time.Now()
	manifest := run.NewManifest(core.NewRunID(), cfg.Name, cfg.Title)
	manifest.XField, manifest.YField, manifest.Degree = cfg.X, cfg.Y, cfg.Degree
	p.logger.Info("run %s: %s (%d sources)", manifest.RunID.Short(), cfg.Name, len(cfg.Sources))

	sources, err := p.load(ctx, cfg, manifest)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	groups, err := p.group(cfg, sources)
	if err != nil {
		return nil, err
	}

	spec := plot.Spec{Title: cfg.Title, XLabel: cfg.XLabel, YLabel: cfg.YLabel}
	for _, g := range groups {
		fit, err := p.fit(cfg, g)
		if err != nil {
			return nil, err
		}

		pts := g.Data.Points(cfg.X, cfg.Y, cfg.LabelField)
		manifest.Groups = append(manifest.Groups, run.GroupSummary{
			Label:    g.Label,
			Rows:     g.Len(),
			Points:   len(pts),
			Observed: pts,
		})

		legend := cfg.Legend.Format(g.Label).Legend(cfg.Legend.Label(g.Label), fit)
		manifest.AddFit(fit, legend)

		series := plot.Series{
			Label:      g.Label,
			PointColor: cfg.Colors[g.Label],
			LineColor:  cfg.LineColors[g.Label],
			Points:     pts,
			ShowLabels: cfg.LabelField != "",
			Fit:        &fit,
			FitLegend:  legend,
			Samples:    p.sampleCount(cfg),
		}
		// the combined fit draws only its curve; its points belong to the other groups
		if cfg.IncludeAll && g.Label == cfg.AllLabel && len(groups) > 1 {
			series.Points = nil
		}
		if cfg.ScatterLegend && len(series.Points) > 0 {
			series.ScatterLegend = g.Label
		}
		spec.Series = append(spec.Series, series)
	}

	return p.finish(ctx, cfg, manifest, spec, startTime)
}

// RunEquations plots explicit polynomials over cfg.XRange without any data
func (p *Pipeline) RunEquations(ctx context.Context, cfg *config.PlotConfig) (*RunResult, error) {
	if cfg == nil || !cfg.IsEquationPlot() {
		return nil, errors.ConfigInvalid("plot config has no equations")
	}
	if len(cfg.XRange) != 2 {
		return nil, errors.ConfigInvalid(fmt.Sprintf("plot config %q: x_range needs two values", cfg.Name))
	}

	startTime := time.Now()
	manifest := run.NewManifest(core.NewRunID(), cfg.Name, cfg.Title)
	p.logger.Info("run %s: %s (%d equations)", manifest.RunID.Short(), cfg.Name, len(cfg.Equations))

	spec := plot.Spec{Title: cfg.Title, XLabel: cfg.XLabel, YLabel: cfg.YLabel}
	for _, eq := range cfg.Equations {
		fit := stats.FitResult{
			Label:        eq.Label,
			Degree:       len(eq.Coefficients) - 1,
			Coefficients: append([]float64(nil), eq.Coefficients...),
			XMin:         cfg.XRange[0],
			XMax:         cfg.XRange[1],
		}
		legend := cfg.Legend.Format(eq.Label).Legend(cfg.Legend.Label(eq.Label), fit)
		manifest.AddFit(fit, legend)

		color := eq.Color
		if color == "" {
			color = cfg.Colors[eq.Label]
		}
		spec.Series = append(spec.Series, plot.Series{
			Label:     eq.Label,
			LineColor: color,
			Fit:       &fit,
			FitLegend: legend,
			Samples:   p.sampleCount(cfg),
		})
	}
	if manifest.Degree == 0 && len(manifest.Fits) > 0 {
		manifest.Degree = manifest.Fits[0].Degree
	}

	return p.finish(ctx, cfg, manifest, spec, startTime)
}

// load reads and transforms every source, in config order
func (p *Pipeline) load(ctx context.Context, cfg *config.PlotConfig, manifest *run.Manifest) ([]internalDataset.Source, error) {
	sources := make([]internalDataset.Source, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		d, err := p.readers(src.DataPath).Read(ctx, src.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load source %s", src.Name)
		}
		manifest.Sources = append(manifest.Sources, run.SourceDigest{
			Name: src.Name,
			Path: src.Path,
			Hash: d.Digest,
			Rows: d.Len(),
		})
		p.logger.Debug("loaded %s: %d rows, %d columns", src.Name, d.Len(), len(d.Columns))

		d, err = transform(cfg, d)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to transform source %s", src.Name)
		}
		sources = append(sources, internalDataset.Source{Name: src.GroupLabel(), Data: d})
	}
	return sources, nil
}

// transform applies the configured rescales, the derived adjustment, then
// drops rows missing a required field
func transform(cfg *config.PlotConfig, d *dataset.Dataset) (*dataset.Dataset, error) {
	var err error
	for _, r := range cfg.Rescale {
		if d, err = internalDataset.Rescale(d, r.Field, r.Factor); err != nil {
			return nil, err
		}
	}
	if adj := cfg.Adjust; adj != nil {
		switch adj.Kind {
		case config.AdjustDurationDiscount:
			fn := internalDataset.DurationDiscount(adj.Field, adj.DurationField, adj.Discount)
			if d, err = internalDataset.DerivedAdjust(d, adj.Field, fn); err != nil {
				return nil, err
			}
		default:
			return nil, errors.ConfigInvalid(fmt.Sprintf("unknown adjust kind %q", adj.Kind))
		}
	}
	if len(cfg.DropMissing) > 0 {
		if d, err = internalDataset.DropMissing(d, cfg.DropMissing...); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// group splits a single source on GroupBy, or treats every source as a group,
// then applies the selection and the combined group.
func (p *Pipeline) group(cfg *config.PlotConfig, sources []internalDataset.Source) ([]dataset.Group, error) {
	var groups []dataset.Group
	switch {
	case cfg.GroupBy != "" && len(sources) == 1:
		var err error
		groups, err = internalDataset.GroupBy(sources[0].Data, cfg.GroupBy)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to group by %s", cfg.GroupBy)
		}
	default:
		groups = internalDataset.GroupBySource(sources)
	}

	if len(cfg.Groups) > 0 {
		selected, missing := internalDataset.Select(groups, cfg.Groups)
		if len(missing) > 0 {
			return nil, errors.Wrap(core.NewInsufficientDataError(missing[0], "group has no rows"), "failed to select groups")
		}
		groups = selected
	}

	// without a selection the combined group spans every loaded row
	if cfg.IncludeAll {
		var parts []*dataset.Dataset
		if len(cfg.Groups) > 0 {
			for _, g := range groups {
				parts = append(parts, g.Data)
			}
		} else {
			for _, src := range sources {
				parts = append(parts, src.Data)
			}
		}
		all := internalDataset.All(internalDataset.Concat(cfg.AllLabel, parts...), cfg.AllLabel)
		groups = append([]dataset.Group{all}, groups...)
	}

	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
	}
	p.logger.Debug("groups: %v", labels)
	return groups, nil
}

// fit fits one group and attaches R² when the legend asks for it
func (p *Pipeline) fit(cfg *config.PlotConfig, g dataset.Group) (stats.FitResult, error) {
	fit, err := regression.Fit(g, cfg.X, cfg.Y, cfg.Degree)
	if err != nil {
		return stats.FitResult{}, errors.Wrapf(err, "failed to fit group %s", g.Label)
	}
	if cfg.Legend.RSquared {
		if cfg.Degree != 1 {
			p.logger.Warn("R² is only reported for linear fits, skipping group %s", g.Label)
			return fit, nil
		}
		r2, err := regression.GoodnessOfFit(g, cfg.X, cfg.Y)
		if err != nil {
			return stats.FitResult{}, errors.Wrapf(err, "failed to score group %s", g.Label)
		}
		fit = fit.WithRSquared(r2)
	}
	p.logger.Debug("group %s: coefficients %v over [%g, %g], n=%d", g.Label, fit.Coefficients, fit.XMin, fit.XMax, fit.N)
	return fit, nil
}

func (p *Pipeline) sampleCount(cfg *config.PlotConfig) int {
	if cfg.Samples >= 2 {
		return cfg.Samples
	}
	return p.samples
}

// finish renders the figure, then writes the optional reports
func (p *Pipeline) finish(ctx context.Context, cfg *config.PlotConfig, manifest *run.Manifest, spec plot.Spec, startTime time.Time) (*RunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	image, err := p.renderer.Render(ctx, spec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render figure")
	}
	manifest.Image = image

	if cfg.Report != "" && p.report != nil {
		if err := p.report.Write(ctx, manifest, cfg.Report); err != nil {
			return nil, errors.Wrap(errors.InternalError(err.Error()), "failed to write report")
		}
	}
	if cfg.Summary != "" && p.summary != nil {
		if err := p.summary.Write(ctx, manifest, cfg.Summary); err != nil {
			return nil, errors.Wrap(errors.InternalError(err.Error()), "failed to write summary")
		}
	}

	result := &RunResult{
		RunID:     manifest.RunID,
		Image:     image,
		Fits:      manifest.Fits,
		Manifest:  manifest,
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}
	for _, legend := range manifest.Legends {
		p.logger.Info("  %s", legend)
	}
	p.logger.Info("run %s finished in %dms", manifest.RunID.Short(), result.RuntimeMs)
	return result, nil
}
