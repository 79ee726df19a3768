package parser

import (
	"math"
	"strconv"
	"strings"

	"ssw-msgspec-gen/internal/workbook"
)

// Fixed absolute cell positions for metadata extraction:
// row 2 col C = operationName, row 3 col C = operationId, row 3 col E =
// version. Empty cells become nil.
const (
	operationNameCell = "C2"
	operationIDCell   = "C3"
	versionCell       = "E3"
)

func extractMetadataCells(src workbook.Source, sheet string) (operationName, operationID, version *string, err error) {
	operationName, err = readMetadataCell(src, sheet, operationNameCell)
	if err != nil {
		return nil, nil, nil, err
	}
	operationID, err = readMetadataCell(src, sheet, operationIDCell)
	if err != nil {
		return nil, nil, nil, err
	}
	version, err = readMetadataCell(src, sheet, versionCell)
	if err != nil {
		return nil, nil, nil, err
	}
	return operationName, operationID, version, nil
}

func readMetadataCell(src workbook.Source, sheet, ref string) (*string, error) {
	v, ok, err := src.CellValue(sheet, ref)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	v = coerceNumericCell(strings.TrimSpace(v))
	return &v, nil
}

// coerceNumericCell resolves the workbook cell-type coercion
// question with a fixed locale policy: '.' is the only recognized decimal
// separator, there is no thousands separator, integral values are
// rendered without a trailing ".0", and non-numeric text passes through
// unchanged (e.g. an operationId like "createApp01" is left alone).
func coerceNumericCell(raw string) string {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	if f == math.Trunc(f) && !strings.ContainsAny(raw, "eE") {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
