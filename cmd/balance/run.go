package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"gobalance/adapters/excel"
	"gobalance/adapters/plot"
	"gobalance/adapters/report"
	"gobalance/adapters/source"
	"gobalance/app"
	"gobalance/internal/config"
	"gobalance/internal/errors"
	"gobalance/internal/presets"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

// runOptions are the flags shared by plot and preset
type runOptions struct {
	out       string
	show      bool
	dataDir   string
	report    string
	summary   string
	precision int
}

func (o *runOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Image file; format follows the extension (png, svg, pdf, jpg, eps, tif)")
	cmd.Flags().BoolVar(&o.show, "show", false, "Open the figure in the platform image viewer")
	cmd.Flags().StringVar(&o.dataDir, "data-dir", "", "Directory relative source paths are read from (default: $BALANCE_DATA_DIR)")
	cmd.Flags().StringVar(&o.report, "report", "", "Also write an xlsx run report")
	cmd.Flags().StringVar(&o.summary, "summary", "", "Also write an HTML or Markdown run summary")
	cmd.Flags().IntVar(&o.precision, "precision", -1, "Legend coefficient precision (0-10)")
}

// apply merges the flags into cfg and resolves every path against env
func (o runOptions) apply(cfg *config.PlotConfig, env *config.Config) (plot.RenderConfig, error) {
	if o.precision >= 0 {
		if o.precision > 10 {
			return plot.RenderConfig{}, errors.ConfigInvalid(fmt.Sprintf("precision must be between 0 and 10, got %d", o.precision))
		}
		p := o.precision
		cfg.Legend.Precision = &p
	}

	dataDir := o.dataDir
	if dataDir == "" {
		dataDir = env.Data.Dir
	}
	cfg.ResolvePaths(dataDir)

	if o.report != "" {
		cfg.Report = o.report
	}
	if o.summary != "" {
		cfg.Summary = o.summary
	}
	cfg.Report = inDir(env.Output.Dir, cfg.Report)
	cfg.Summary = inDir(env.Output.Dir, cfg.Summary)

	show := o.show || env.Output.Show
	image := o.out
	if image == "" {
		image = cfg.Output
	}
	if image == "" && !show {
		image = cfg.Name + ".png"
	}

	return plot.RenderConfig{
		OutputPath: inDir(env.Output.Dir, image),
		Width:      vg.Length(env.Output.WidthCM) * vg.Centimeter,
		Height:     vg.Length(env.Output.HeightCM) * vg.Centimeter,
		Show:       show,
	}, nil
}

// inDir joins relative paths onto dir; empty paths stay empty
func inDir(dir, path string) string {
	if path == "" || filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

func runPlot(ctx context.Context, w io.Writer, cfg *config.PlotConfig, opts runOptions) error {
	env, err := config.Load()
	if err != nil {
		return err
	}
	renderConfig, err := opts.apply(cfg, env)
	if err != nil {
		return err
	}

	pipeline := app.NewPipeline(source.Factory, plot.NewRenderer(renderConfig), app.PipelineOptions{
		Report:  excel.NewReportWriter(),
		Summary: report.NewSummary(),
		Samples: env.Output.Samples,
	})
	result, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	return printResult(w, cfg, result)
}

func printResult(w io.Writer, cfg *config.PlotConfig, result *app.RunResult) error {
	fmt.Fprintf(w, "%s (run %s)\n", cfg.Title, result.RunID.Short())
	for _, legend := range result.Manifest.Legends {
		fmt.Fprintf(w, "  %s\n", legend)
	}
	fmt.Fprintf(w, "image: %s\n", result.Image)
	if cfg.Report != "" {
		fmt.Fprintf(w, "report: %s\n", cfg.Report)
	}
	if cfg.Summary != "" {
		fmt.Fprintf(w, "summary: %s\n", cfg.Summary)
	}
	return nil
}

func loadConfigFile(path string) (*config.PlotConfig, error) {
	if path == "" {
		return nil, errors.InvalidInput("--config is required")
	}
	return config.LoadPlotConfig(path)
}

func loadPreset(name string) (*config.PlotConfig, error) {
	return presets.Get(name)
}

func printPreset(w io.Writer, name string) error {
	body, err := presets.Raw(name)
	if err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

func listPresets(w io.Writer) error {
	for _, name := range presets.Names() {
		cfg, err := presets.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-20s %s\n", name, cfg.Title)
	}
	return nil
}
