// Package tabular decodes header-first spreadsheets (CSV and XLSX) into a
// plain table of strings.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for file extensions that are not decoded.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("table has no header row")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a header row followed by data rows. Rows may be shorter than the
// header; absent cells read as blank.
type Table struct {
	Header []string
	Rows   [][]string
}

// Cell returns row[idx], or "" when the row is too short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Decoder picks a format by file extension.
type Decoder struct{}

// NewDecoder returns a Decoder.
func NewDecoder() Decoder {
	return Decoder{}
}

// Decode implements the corpus and plan upload decoders.
func (Decoder) Decode(filename string, content []byte) (Table, error) {
	return Decode(filename, content)
}

// Decode reads content according to the extension of filename. Names without
// an extension are treated as CSV.
func Decode(filename string, content []byte) (Table, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt", "":
		return DecodeCSV(bytes.NewReader(content))
	case ".xlsx", ".xlsm":
		return DecodeXLSX(content)
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// DecodeCSV reads a comma separated table. Ragged rows are allowed.
func DecodeCSV(r io.Reader) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse csv: %w", err)
	}
	return fromRecords(records)
}

// DecodeXLSX reads the first worksheet of a workbook.
func DecodeXLSX(content []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, ErrNoHeader
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	return fromRecords(rows)
}

func fromRecords(records [][]string) (Table, error) {
	if len(records) == 0 {
		return Table{}, ErrNoHeader
	}
	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}
	rows := make([][]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		rows = append(rows, record)
	}
	return Table{Header: header, Rows: rows}, nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
