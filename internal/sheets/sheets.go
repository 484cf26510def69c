// Package sheets turns spreadsheet files into raw rows keyed by their
// header cells, ready for the normalizer.
package sheets

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/trailmap/trailmap/pkg/errors"
	"github.com/trailmap/trailmap/pkg/normalize"
)

// Format is a supported spreadsheet format.
type Format string

// Supported formats.
const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", errors.NewValidationError("file", path, "expected a .xlsx or .csv file")
	}
}

// ReadFile reads the rows of the spreadsheet at path.
func ReadFile(path string) ([]normalize.Row, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := Read(f, format)
	if err != nil {
		var pe *errors.ParseError
		if errors.As(err, &pe) && pe.File == "" {
			pe.File = path
		}
		return nil, err
	}
	return rows, nil
}

// Read reads rows from r. For workbooks the second sheet is used when there
// is one, otherwise the first. The first row holds the column names.
func Read(r io.Reader, format Format) ([]normalize.Row, error) {
	var (
		grid [][]string
		err  error
	)
	switch format {
	case FormatXLSX:
		grid, err = readXLSX(r)
	case FormatCSV:
		grid, err = readCSV(r)
	default:
		return nil, errors.NewValidationError("format", format, "unsupported spreadsheet format")
	}
	if err != nil {
		return nil, err
	}
	return table(grid), nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.WrapParse(string(FormatXLSX), "", err)
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, errors.NewParseError(string(FormatXLSX), "", "workbook has no sheets", nil)
	}
	name := names[0]
	if len(names) > 1 {
		name = names[1]
	}
	grid, err := f.GetRows(name)
	if err != nil {
		return nil, errors.WrapParse(string(FormatXLSX), "", err)
	}
	return grid, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	grid, err := cr.ReadAll()
	if err != nil {
		return nil, errors.WrapParse(string(FormatCSV), "", err)
	}
	return grid, nil
}

// table pairs every data row with the header. Blank rows and columns with
// no header are dropped.
func table(grid [][]string) []normalize.Row {
	if len(grid) == 0 {
		return nil
	}
	header := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]normalize.Row, 0, len(grid)-1)
	for _, cells := range grid[1:] {
		row := make(normalize.Row, len(header))
		blank := true
		for i, cell := range cells {
			if i >= len(header) || header[i] == "" {
				continue
			}
			row[header[i]] = cell
			if strings.TrimSpace(cell) != "" {
				blank = false
			}
		}
		if !blank {
			rows = append(rows, row)
		}
	}
	return rows
}
