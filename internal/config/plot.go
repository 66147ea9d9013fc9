package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"gobalance/internal/equation"
	"gobalance/internal/errors"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Adjust kinds understood by the pipeline
const (
	AdjustDurationDiscount = "duration_discount"
)

// PlotConfig is one invocation of the pipeline: where the data comes from, how
// it is transformed and grouped, and how the figure looks.
type PlotConfig struct {
	Name   string `yaml:"name" validate:"required"`
	Title  string `yaml:"title"`
	XLabel string `yaml:"x_label"`
	YLabel string `yaml:"y_label"`

	Sources []SourceConfig `yaml:"sources" validate:"dive"`
	X       string         `yaml:"x"`
	Y       string         `yaml:"y"`
	Degree  int            `yaml:"degree" validate:"min=1,max=2"`

	// GroupBy splits a single source on a field; several sources are grouped
	// by source instead.
	GroupBy    string   `yaml:"group_by"`
	Groups     []string `yaml:"groups"`      // keep only these groups, in this order
	IncludeAll bool     `yaml:"include_all"` // add a fit over every row
	AllLabel   string   `yaml:"all_label"`

	LabelField    string            `yaml:"label_field"`    // annotate points with this field
	ScatterLegend bool              `yaml:"scatter_legend"` // legend entry per scatter layer
	Colors        map[string]string `yaml:"colors"`         // group label -> point color
	LineColors    map[string]string `yaml:"line_colors"`    // group label -> curve color

	Rescale     []RescaleConfig `yaml:"rescale" validate:"dive"`
	Adjust      *AdjustConfig   `yaml:"adjust"`
	DropMissing []string        `yaml:"drop_missing" validate:"dive,required"` // drop rows lacking any of these fields

	Legend  LegendConfig `yaml:"legend"`
	Samples int          `yaml:"samples" validate:"omitempty,min=2"`

	Equations []EquationConfig `yaml:"equations" validate:"dive"`
	XRange    []float64        `yaml:"x_range" validate:"omitempty,len=2"`

	Output  string `yaml:"output"`
	Report  string `yaml:"report"`  // optional .xlsx run report
	Summary string `yaml:"summary"` // optional .html or .md run summary
}

// SourceConfig names one input file
type SourceConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Label    string `yaml:"label"`     // group label when grouping by source, Name when empty
	Path     string `yaml:"path" validate:"required"`
	DataPath string `yaml:"data_path"` // record array inside a JSON document
}

// GroupLabel returns the label a source contributes when grouping by source
func (s SourceConfig) GroupLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.Name
}

// RescaleConfig multiplies a field by Factor
type RescaleConfig struct {
	Field  string  `yaml:"field" validate:"required"`
	Factor float64 `yaml:"factor" validate:"ne=0"`
}

// AdjustConfig selects a derived adjustment
type AdjustConfig struct {
	Kind          string  `yaml:"kind" validate:"required,oneof=duration_discount"`
	Field         string  `yaml:"field" validate:"required"`
	DurationField string  `yaml:"duration_field" validate:"required"`
	Discount      float64 `yaml:"discount" validate:"gt=0"`
}

// LegendConfig controls the legend text of fitted curves
type LegendConfig struct {
	Precision         *int              `yaml:"precision" validate:"omitempty,min=0,max=10"`
	Precisions        map[string]int    `yaml:"precisions"` // per-group override
	AutoPrecision     *bool             `yaml:"auto_precision"`
	RSquared          bool              `yaml:"r_squared"`
	RSquaredPrecision *int              `yaml:"r_squared_precision" validate:"omitempty,min=0,max=10"`
	Capitalize        bool              `yaml:"capitalize"`
	Labels            map[string]string `yaml:"labels"` // group label -> legend prefix
}

// Format returns the equation format for one group
func (l LegendConfig) Format(group string) equation.Format {
	f := equation.DefaultFormat()
	if l.Precision != nil {
		f.Precision = *l.Precision
	}
	if p, ok := l.Precisions[group]; ok {
		f.Precision = p
	}
	if l.AutoPrecision != nil {
		f.AutoPrecision = *l.AutoPrecision
	}
	if l.RSquaredPrecision != nil {
		f.RSquaredPrecision = *l.RSquaredPrecision
	}
	return f
}

// Label returns the legend prefix for a group
func (l LegendConfig) Label(group string) string {
	if label, ok := l.Labels[group]; ok {
		return label
	}
	if l.Capitalize {
		return equation.Capitalize(group)
	}
	return group
}

// EquationConfig is an explicit polynomial, highest degree first
type EquationConfig struct {
	Label        string    `yaml:"label" validate:"required"`
	Coefficients []float64 `yaml:"coefficients" validate:"min=1,max=3"`
	Color        string    `yaml:"color"`
}

// IsEquationPlot reports whether the config plots explicit equations
func (c *PlotConfig) IsEquationPlot() bool {
	return len(c.Equations) > 0
}

// ApplyDefaults fills in values a config may omit
func (c *PlotConfig) ApplyDefaults() {
	if c.Degree == 0 {
		c.Degree = 1
	}
	if c.AllLabel == "" {
		c.AllLabel = "All"
	}
	if c.Title == "" {
		c.Title = c.Name
	}
	if c.XLabel == "" {
		c.XLabel = c.X
	}
	if c.YLabel == "" {
		c.YLabel = c.Y
	}
	if c.IsEquationPlot() {
		if len(c.XRange) == 0 {
			c.XRange = []float64{0, 20}
		}
		if c.Samples == 0 {
			c.Samples = 400
		}
		if c.XLabel == "" {
			c.XLabel = "x"
		}
		if c.YLabel == "" {
			c.YLabel = "y"
		}
	}
}

// ResolvePaths makes relative source paths relative to dataDir
func (c *PlotConfig) ResolvePaths(dataDir string) {
	if dataDir == "" {
		return
	}
	for i, src := range c.Sources {
		if !filepath.IsAbs(src.Path) {
			c.Sources[i].Path = filepath.Join(dataDir, src.Path)
		}
	}
}

// Validate checks struct tags and the rules spanning several fields
func (c *PlotConfig) Validate() error {
	if err := plotValidator.Struct(c); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("plot config %q: %s", c.Name, describeValidation(err)))
	}

	invalid := func(format string, args ...interface{}) error {
		return errors.ConfigInvalid(fmt.Sprintf("plot config %q: ", c.Name) + fmt.Sprintf(format, args...))
	}

	if c.IsEquationPlot() {
		if len(c.Sources) > 0 {
			return invalid("equations and sources cannot be combined")
		}
		if len(c.XRange) == 2 && c.XRange[0] >= c.XRange[1] {
			return invalid("x_range must be increasing, got %v", c.XRange)
		}
		return nil
	}

	if len(c.Sources) == 0 {
		return invalid("at least one source is required")
	}
	if c.X == "" || c.Y == "" {
		return invalid("x and y fields are required")
	}
	if c.GroupBy != "" && len(c.Sources) > 1 {
		return invalid("group_by applies to a single source, got %d sources", len(c.Sources))
	}
	seen := make(map[string]bool, len(c.Sources))
	for _, src := range c.Sources {
		label := src.GroupLabel()
		if seen[label] {
			return invalid("duplicate source label %q", label)
		}
		seen[label] = true
	}
	return nil
}

// ParsePlotConfig decodes YAML, rejecting unknown keys, then applies defaults
// and validates.
func ParsePlotConfig(body []byte) (*PlotConfig, error) {
	var cfg PlotConfig
	dec := yaml.NewDecoder(bytes.NewReader(body))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.ConfigInvalid("plot config is empty")
		}
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to parse plot config")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadPlotConfig reads and parses a YAML plot config file
func LoadPlotConfig(path string) (*PlotConfig, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to read plot config")
	}
	return ParsePlotConfig(body)
}

var plotValidator = newPlotValidator()

func newPlotValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// describeValidation turns validator errors into one readable line
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed '%s=%s'", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed '%s'", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
