package parser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildFixture writes a minimal but realistic workbook to a temp file and
// returns its path. header/rows apply to every sheet in sheets; callers that
// need per-sheet content build the file by hand instead.
func buildFixture(t *testing.T, sheets []string, header []string, rows [][]string, meta map[string]string) string {
	t.Helper()
	f := excelize.NewFile()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet))
		} else {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}
		for cellRef, v := range meta {
			require.NoError(t, f.SetCellValue(sheet, cellRef, v))
		}
		require.NoError(t, f.SetSheetRow(sheet, "A8", &header))
		for i, row := range rows {
			rowNum := firstDataRow + i
			cellRow := make([]interface{}, len(row))
			for j, c := range row {
				cellRow[j] = c
			}
			require.NoError(t, f.SetSheetRow(sheet, cellAddr(rowNum), &cellRow))
		}
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func cellAddr(row int) string {
	ref, _ := excelize.CoordinatesToCellName(1, row)
	return ref
}

func standardHeader() []string {
	return []string{"Seg lvl", "Field Name", "Description", "Length", "Messaging Datatype", "Opt(O/M)", "Default Value", "Hard Code Value", "Enum Values"}
}

func TestParseBuildsRequestAndResponseTrees(t *testing.T) {
	header := standardHeader()
	rows := [][]string{
		{"1", "accountId", "account identifier", "20", "xs:string", "M", "", "", ""},
		{"1", "status", "status code", "2", "xs:string", "M", "", "", "A|B|C"},
	}
	path := buildFixture(t, []string{"Request", "Response"}, header, rows, map[string]string{
		"C2": "Create Account",
		"C3": "createAccount",
		"E3": "1.2",
	})

	result, err := Parse(path, Options{})
	require.NoError(t, err)
	require.NotNil(t, result.Model)

	md := result.Model.Metadata
	require.NotNil(t, md.OperationName)
	assert.Equal(t, "Create Account", *md.OperationName)
	require.NotNil(t, md.OperationID)
	assert.Equal(t, "createAccount", *md.OperationID)
	require.NotNil(t, md.Version)
	assert.Equal(t, "1.2", *md.Version)

	require.Len(t, result.Model.Request.Fields, 2)
	assert.Equal(t, "accountId", result.Model.Request.Fields[0].Name())
	assert.Equal(t, "status", result.Model.Request.Fields[1].Name())
	require.NotNil(t, result.Model.Request.Fields[1].EnumConstraint)
	assert.Equal(t, "A|B|C", *result.Model.Request.Fields[1].EnumConstraint)

	require.Len(t, result.Model.Response.Fields, 2)
}

func TestParseBuildsNestedObjectFromColonSyntax(t *testing.T) {
	header := standardHeader()
	rows := [][]string{
		{"1", "address:Address", "mailing address", "", "", "M", "", "", ""},
		{"2", "city", "city name", "30", "xs:string", "M", "", "", ""},
		{"2", "zip", "postal code", "10", "xs:string", "O", "", "", ""},
	}
	path := buildFixture(t, []string{"Request", "Response"}, header, rows, map[string]string{
		"C2": "Ship Order",
		"C3": "shipOrder",
		"E3": "1.0",
	})

	result, err := Parse(path, Options{})
	require.NoError(t, err)

	require.Len(t, result.Model.Request.Fields, 1)
	addr := result.Model.Request.Fields[0]
	assert.True(t, addr.IsObject)
	require.NotNil(t, addr.ClassName)
	assert.Equal(t, "Address", *addr.ClassName)
	require.Len(t, addr.Children, 2)
	assert.Equal(t, "city", addr.Children[0].Name())
	assert.Equal(t, "zip", addr.Children[1].Name())
}

func TestParseDetectsArrayFromOccurrenceCount(t *testing.T) {
	header := standardHeader()
	rows := [][]string{
		{"1", "item:Item", "line item", "", "", "M", "", "", ""},
		{"2", "occurrenceCount", "1..N", "", "", "", "", "", ""},
		{"2", "sku", "stock keeping unit", "20", "xs:string", "M", "", "", ""},
	}
	path := buildFixture(t, []string{"Request", "Response"}, header, rows, map[string]string{
		"C2": "List Items",
		"C3": "listItems",
		"E3": "1.0",
	})

	result, err := Parse(path, Options{})
	require.NoError(t, err)

	require.Len(t, result.Model.Request.Fields, 1)
	item := result.Model.Request.Fields[0]
	assert.True(t, item.IsArray)
	assert.False(t, item.IsObject)
	require.NotNil(t, item.OccurrenceCount)
	assert.Equal(t, "1..N", *item.OccurrenceCount)
}

func TestParseRejectsMissingRequiredColumn(t *testing.T) {
	header := []string{"Seg lvl", "Field Name", "Description", "Length"} // Messaging Datatype missing
	rows := [][]string{
		{"1", "accountId", "account identifier", "20"},
	}
	path := buildFixture(t, []string{"Request", "Response"}, header, rows, map[string]string{
		"C2": "Create Account",
		"C3": "createAccount",
		"E3": "1.0",
	})

	_, err := Parse(path, Options{})
	require.Error(t, err)
}

func TestParseRejectsSegLevelGap(t *testing.T) {
	header := standardHeader()
	rows := [][]string{
		{"1", "item:Item", "line item", "", "", "M", "", "", ""},
		{"3", "sku", "stock keeping unit", "20", "xs:string", "M", "", "", ""},
	}
	path := buildFixture(t, []string{"Request", "Response"}, header, rows, map[string]string{
		"C2": "List Items",
		"C3": "listItems",
		"E3": "1.0",
	})

	_, err := Parse(path, Options{})
	require.Error(t, err)
}

func TestParseRequiresRequestAndResponseSheets(t *testing.T) {
	header := standardHeader()
	rows := [][]string{
		{"1", "accountId", "account identifier", "20", "xs:string", "M", "", "", ""},
	}
	path := buildFixture(t, []string{"Request"}, header, rows, map[string]string{
		"C2": "Create Account",
		"C3": "createAccount",
		"E3": "1.0",
	})

	_, err := Parse(path, Options{})
	require.Error(t, err)
}

func TestParseCoercesNumericVersionCell(t *testing.T) {
	header := standardHeader()
	rows := [][]string{
		{"1", "accountId", "account identifier", "20", "xs:string", "M", "", "", ""},
	}
	path := buildFixture(t, []string{"Request", "Response"}, header, rows, map[string]string{
		"C2": "Create Account",
		"C3": "createAccount",
		"E3": "2",
	})

	result, err := Parse(path, Options{})
	require.NoError(t, err)
	require.NotNil(t, result.Model.Metadata.Version)
	assert.Equal(t, "2", *result.Model.Metadata.Version)
}
