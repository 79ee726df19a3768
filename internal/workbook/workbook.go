// Package workbook is the spreadsheet I/O collaborator: the thin,
// swappable boundary the parser talks to instead of touching a
// spreadsheet library directly.
package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	cerr "ssw-msgspec-gen/pkg/errors"
)

// Source is the interface the parser depends on. Nothing in
// internal/parser imports excelize directly; it only sees this.
type Source interface {
	// SheetNames returns the sheet names in workbook order.
	SheetNames() []string
	// HasSheet reports whether a sheet with this exact name exists.
	HasSheet(name string) bool
	// CellValue returns the string value of a cell as stored (not trimmed)
	// given an A1-style reference (e.g. "C2"), and false if the cell is empty.
	CellValue(sheet, cellRef string) (string, bool, error)
	// Rows returns every row of a sheet as raw string cells, in row order.
	// Short rows are not padded; callers must index defensively.
	Rows(sheet string) ([][]string, error)
	// Close releases any underlying file handles.
	Close() error
}

// excelSource is the excelize-backed Source implementation: the concrete
// collaborator realizing the spreadsheet conventions the parser expects.
type excelSource struct {
	f *excelize.File
}

// Open reads path as an xlsx workbook.
func Open(path string) (Source, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, cerr.ParseWrap("", 0, "", fmt.Sprintf("failed to open workbook %q", path), err)
	}
	return &excelSource{f: f}, nil
}

func (s *excelSource) SheetNames() []string { return s.f.GetSheetList() }

func (s *excelSource) HasSheet(name string) bool {
	return contains(s.f.GetSheetList(), name)
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func (s *excelSource) CellValue(sheet, cellRef string) (string, bool, error) {
	v, err := s.f.GetCellValue(sheet, cellRef)
	if err != nil {
		return "", false, err
	}
	if v == "" {
		return "", false, nil
	}
	return v, true, nil
}

func (s *excelSource) Rows(sheet string) ([][]string, error) {
	rows, err := s.f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *excelSource) Close() error { return s.f.Close() }
