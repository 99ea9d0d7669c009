// Package source reads a tabular export (xlsx or csv) into raw rows.
// No header interpretation happens here: row 0 is returned like any other.
package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/zeebo/xxh3"

	"github.com/heartmarshall/membership-backend/internal/domain"
)

// Format is the detected file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// MinRows is the smallest readable file: a header plus one data row.
const MinRows = 2

// Options controls how a file is read.
type Options struct {
	// Sheet selects a workbook sheet by name. Empty means the first sheet.
	Sheet string
}

// Sheet is the raw content of one file.
type Sheet struct {
	Path        string
	Format      Format
	SheetName   string
	Rows        [][]string
	Fingerprint uint64
	Size        int64
}

// Header returns row 0, or nil for an empty sheet.
func (s *Sheet) Header() []string {
	if len(s.Rows) == 0 {
		return nil
	}
	return s.Rows[0]
}

// Read loads every row of the file at path.
// Returns domain.ErrSourceNotFound when path is not a readable regular file
// and domain.ErrSourceTooSmall when fewer than MinRows rows are present.
func Read(path string, opts Options) (*Sheet, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, domain.ErrSourceNotFound, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w: is a directory", path, domain.ErrSourceNotFound)
	}

	format, err := detectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, domain.ErrSourceNotFound, err)
	}

	sheet := &Sheet{
		Path:        path,
		Format:      format,
		Fingerprint: xxh3.Hash(data),
		Size:        int64(len(data)),
	}

	switch format {
	case FormatXLSX:
		sheet.SheetName, sheet.Rows, err = readXLSX(data, opts.Sheet)
	case FormatCSV:
		sheet.Rows, err = readCSV(data)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(sheet.Rows) < MinRows {
		return nil, fmt.Errorf("%s: %w: %d row(s)", path, domain.ErrSourceTooSmall, len(sheet.Rows))
	}

	return sheet, nil
}

func detectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%s: unsupported file type %q", path, filepath.Ext(path))
	}
}

func readXLSX(data []byte, sheet string) (string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, errors.New("workbook has no sheets")
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return "", nil, fmt.Errorf("sheet %q not found (have %s)", sheet, strings.Join(sheets, ", "))
	}

	// Raw values keep numeric institution codes free of locale number formats.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return "", nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return sheet, rows, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// sniffDelimiter picks ';' when the first line has more semicolons than
// commas. Spreadsheet exports in Turkish locales use ';'.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
