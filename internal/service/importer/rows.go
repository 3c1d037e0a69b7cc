// internal/service/importer/rows.go
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for uploads that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("only .csv and .xlsx files are supported")

// SupportedExt reports whether name has an importable extension.
func SupportedExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// ReadRows reads every row of a CSV file or of the first sheet of an XLSX workbook.
func ReadRows(name string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		return rows, nil

	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return [][]string{}, nil
		}

		rs, err := f.Rows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
		}
		defer rs.Close()

		rows := [][]string{}
		for rs.Next() {
			cols, err := rs.Columns()
			if err != nil {
				return nil, fmt.Errorf("failed to read row: %w", err)
			}
			rows = append(rows, cols)
		}
		return rows, nil

	default:
		return nil, ErrUnsupportedFormat
	}
}
