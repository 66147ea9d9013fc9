package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gobalance/domain/core"
	"gobalance/domain/dataset"
	"gobalance/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader reads item tables from Excel or CSV files. The header row holds
// dotted field paths ("stats.damage"); each following row is one record.
type DataReader struct {
	// Sheet to read from a workbook; empty means the first sheet
	Sheet  string
	logger *internal.Logger
}

// NewDataReader creates a reader for .xlsx and .csv files
func NewDataReader() *DataReader {
	return &DataReader{logger: internal.DefaultLogger.With("excel")}
}

// Read loads path in a single attempt. Any failure is core.ErrDataUnavailable.
func (r *DataReader) Read(ctx context.Context, path string) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewDataUnavailableError(path, err)
	}

	readStart := time.Now()
	var rows [][]string
	switch fileType(path) {
	case "csv":
		rows, err = r.readCSV(body)
	case "xlsx":
		rows, err = r.readWorkbook(path)
	default:
		err = fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, core.NewDataUnavailableError(path, err)
	}
	if len(rows) < 1 {
		return nil, core.NewDataUnavailableError(path, fmt.Errorf("file has no header row"))
	}
	r.logger.Debug("%s read in %.2fms (%d rows)", path, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	d := processRows(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), path, rows)
	d.Digest = core.NewHash(body)
	return d, nil
}

func (r *DataReader) readCSV(body []byte) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(string(body)))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func (r *DataReader) readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

// processRows converts raw string rows into a Dataset. Blank cells are absent,
// numeric cells are numbers, "true"/"false" are booleans, the rest is text.
func processRows(name, source string, rows [][]string) *dataset.Dataset {
	headerRow := rows[0]
	headers := make([]string, 0, len(headerRow))
	positions := make([]int, 0, len(headerRow))
	for i, header := range headerRow {
		h := strings.TrimSpace(header)
		if h == "" {
			continue
		}
		headers = append(headers, h)
		positions = append(positions, i)
	}

	dataRows := make([]dataset.FlatRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		flat := make(dataset.FlatRow, len(headers))
		for k, h := range headers {
			cell := ""
			if positions[k] < len(row) {
				cell = strings.TrimSpace(row[positions[k]])
			}
			flat[h] = cellValue(cell)
		}
		dataRows = append(dataRows, flat)
	}
	return dataset.New(name, source, headers, dataRows)
}

func cellValue(cell string) dataset.Value {
	if cell == "" {
		return dataset.Absent()
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return dataset.Text(cell)
		}
		return dataset.Number(f)
	}
	switch strings.ToLower(cell) {
	case "true":
		return dataset.Bool(true)
	case "false":
		return dataset.Bool(false)
	}
	return dataset.Text(cell)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func fileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".xlsx", ".xlsm":
		return "xlsx"
	default:
		return ""
	}
}
