package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gobalance/domain/run"
	"gobalance/internal"

	"github.com/xuri/excelize/v2"
)

const (
	fitsSheet    = "Fits"
	groupsSheet  = "Groups"
	sourcesSheet = "Sources"

	maxSheetName = 31
)

// ReportWriter writes a run manifest as an .xlsx workbook: fits, groups and
// input sources first, then one sheet of observed points per group.
type ReportWriter struct {
	logger *internal.Logger
}

// NewReportWriter creates a workbook report writer
func NewReportWriter() *ReportWriter {
	return &ReportWriter{logger: internal.DefaultLogger.With("excel")}
}

// Write saves the workbook to path, creating parent directories as needed
func (w *ReportWriter) Write(ctx context.Context, manifest *run.Manifest, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if manifest == nil {
		return fmt.Errorf("excel report: manifest is nil")
	}
	if err := manifest.Validate(); err != nil {
		return fmt.Errorf("excel report: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), fitsSheet); err != nil {
		return fmt.Errorf("excel report: %w", err)
	}
	for _, name := range []string{groupsSheet, sourcesSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("excel report: %w", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("excel report: %w", err)
	}

	if err := writeTable(f, fitsSheet, bold, fitHeader, fitRows(manifest)); err != nil {
		return err
	}
	if err := writeTable(f, groupsSheet, bold, groupHeader, groupRows(manifest)); err != nil {
		return err
	}
	if err := writeTable(f, sourcesSheet, bold, sourceHeader, sourceRows(manifest)); err != nil {
		return err
	}

	used := map[string]bool{fitsSheet: true, groupsSheet: true, sourcesSheet: true}
	for _, g := range manifest.Groups {
		name := dataSheetName(g.Label, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("excel report: %w", err)
		}
		header := []interface{}{manifest.XField, manifest.YField, "Label"}
		if err := writeTable(f, name, bold, header, observedRows(g)); err != nil {
			return err
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:       manifest.Title,
		Subject:     manifest.Name,
		Creator:     "balance",
		Identifier:  manifest.RunID.String(),
		Description: fmt.Sprintf("%s vs %s, degree %d", manifest.YField, manifest.XField, manifest.Degree),
		Created:     manifest.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}); err != nil {
		return fmt.Errorf("excel report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("excel report: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("excel report: failed to save %s: %w", path, err)
	}
	w.logger.Info("wrote report %s (run %s)", path, manifest.RunID.Short())
	return nil
}

var (
	fitHeader    = []interface{}{"Group", "Degree", "Coefficients", "X min", "X max", "N", "R²", "Legend"}
	groupHeader  = []interface{}{"Group", "Rows", "Points"}
	sourceHeader = []interface{}{"Name", "Path", "Rows", "SHA-256"}
)

func fitRows(m *run.Manifest) [][]interface{} {
	rows := make([][]interface{}, 0, len(m.Fits))
	for i, fit := range m.Fits {
		coeffs := make([]string, len(fit.Coefficients))
		for k, c := range fit.Coefficients {
			coeffs[k] = fmt.Sprintf("%g", c)
		}
		var r2 interface{} = ""
		if fit.RSquared != nil {
			r2 = *fit.RSquared
		}
		rows = append(rows, []interface{}{
			fit.Label, fit.Degree, strings.Join(coeffs, ", "), fit.XMin, fit.XMax, fit.N, r2, m.Legends[i],
		})
	}
	return rows
}

func groupRows(m *run.Manifest) [][]interface{} {
	rows := make([][]interface{}, 0, len(m.Groups))
	for _, g := range m.Groups {
		rows = append(rows, []interface{}{g.Label, g.Rows, g.Points})
	}
	return rows
}

func sourceRows(m *run.Manifest) [][]interface{} {
	rows := make([][]interface{}, 0, len(m.Sources))
	for _, s := range m.Sources {
		rows = append(rows, []interface{}{s.Name, s.Path, s.Rows, s.Hash.String()})
	}
	return rows
}

func observedRows(g run.GroupSummary) [][]interface{} {
	rows := make([][]interface{}, 0, len(g.Observed))
	for _, p := range g.Observed {
		rows = append(rows, []interface{}{p.X, p.Y, p.Label})
	}
	return rows
}

// dataSheetName makes a unique sheet name (at most 31 chars, none of []:*?/\)
func dataSheetName(label string, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(label))
	if clean == "" {
		clean = "Group"
	}
	base := []rune(clean)
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}
	name := string(base)
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		keep := base
		if len(keep)+len(suffix) > maxSheetName {
			keep = keep[:maxSheetName-len(suffix)]
		}
		name = string(keep) + suffix
	}
	used[name] = true
	return name
}

// writeTable writes a bold, frozen header row followed by rows
func writeTable(f *excelize.File, sheet string, headerStyle int, header []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("excel report: %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("excel report: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("excel report: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel report: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("excel report: %s row %d: %w", sheet, i+1, err)
		}
	}

	lastCol := strings.TrimRight(last, "0123456789")
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("excel report: %w", err)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// ReportName is the default workbook name for a run
func ReportName(m *run.Manifest) string {
	return fmt.Sprintf("%s-%s.xlsx", m.Name, m.RunID.Short())
}
