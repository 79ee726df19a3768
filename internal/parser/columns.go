package parser

import (
	"strings"

	cerr "ssw-msgspec-gen/pkg/errors"
)

// Header row is fixed at row 8; data starts at row 9.
const (
	headerRowNumber = 8 // 1-based
	firstDataRow    = 9 // 1-based
)

// requiredColumns must be present in every header row, or parsing fails
// naming the missing column.
var requiredColumns = []string{
	"Seg lvl",
	"Field Name",
	"Description",
	"Length",
	"Messaging Datatype",
}

// optionalColumns are looked up by normalized key when present. The first
// seven are named explicitly; the last three
// (Default Value/Hard Code Value/Enum Values) are this implementation's
// resolution of an underspecified area — FieldNode carries
// defaultValue/hardCodeValue/enumConstraint but the fixed header row
// does not name a source column for them, so dedicated optional columns
// are introduced for them.
var optionalColumns = []string{
	"Opt(O/M)",
	"Null (Y/N)",
	"NLS (Y/N)",
	"Sample Value(s)",
	"Remarks",
	"GMR Physical Name",
	"Test Value",
	"Default Value",
	"Hard Code Value",
	"Enum Values",
}

// normalizeHeader replaces newlines with a space, trims, and collapses
// whitespace runs to one space.
func normalizeHeader(cell string) string {
	s := strings.ReplaceAll(cell, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// ColumnIndex maps a normalized header name to its 0-based column index,
// preserving first-occurrence order for iteration elsewhere if needed.
type ColumnIndex struct {
	order []string
	index map[string]int
}

func (c *ColumnIndex) Get(normalizedName string) (int, bool) {
	i, ok := c.index[normalizedName]
	return i, ok
}

// discoverColumns builds the normalized-name -> column-index map from a
// raw header row, and fails if any required column is absent.
func discoverColumns(sheet string, headerRow []string) (*ColumnIndex, error) {
	ci := &ColumnIndex{index: make(map[string]int)}
	for col, raw := range headerRow {
		name := normalizeHeader(raw)
		if name == "" {
			continue
		}
		if _, exists := ci.index[name]; exists {
			continue // first occurrence wins
		}
		ci.index[name] = col
		ci.order = append(ci.order, name)
	}
	for _, req := range requiredColumns {
		if _, ok := ci.index[req]; !ok {
			return nil, cerr.Parse(sheet, headerRowNumber, req, "required column missing from header row")
		}
	}
	return ci, nil
}

// cell safely reads a row's column by index, returning "" when the row is
// shorter than the column (spreadsheet rows are not padded by excelize).
func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
