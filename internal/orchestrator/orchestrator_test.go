package orchestrator

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ssw-msgspec-gen/internal/audit"
	"ssw-msgspec-gen/internal/config"
)

// buildWorkbookFixture writes a minimal two-sheet workbook (Request/Response)
// with one primitive Request field and an empty Response sheet, enough for a
// single run to go through every emitter, the validator and the commit.
func buildWorkbookFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Request"))
	_, err := f.NewSheet("Response")
	require.NoError(t, err)

	header := []string{"Seg lvl", "Field Name", "Description", "Length", "Messaging Datatype", "Opt(O/M)", "Default Value", "Hard Code Value", "Enum Values"}
	requestRows := [][]string{
		{"1", "accountId", "account identifier", "20", "xs:string", "M", "", "", ""},
	}

	writeSheet(t, f, "Request", header, requestRows, map[string]string{
		"C2": "Create Account",
		"C3": "createAccount",
		"E3": "1.0",
	})
	writeSheet(t, f, "Response", header, nil, nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeSheet(t *testing.T, f *excelize.File, sheet string, header []string, rows [][]string, meta map[string]string) {
	t.Helper()
	for cellRef, v := range meta {
		require.NoError(t, f.SetCellValue(sheet, cellRef, v))
	}
	require.NoError(t, f.SetSheetRow(sheet, "A8", &header))
	for i, row := range rows {
		rowNum := 9 + i
		ref, _ := excelize.CoordinatesToCellName(1, rowNum)
		cellRow := make([]interface{}, len(row))
		for j, c := range row {
			cellRow[j] = c
		}
		require.NoError(t, f.SetSheetRow(sheet, ref, &cellRow))
	}
}

func validConfig(t *testing.T, outputRoot string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Output.Root = outputRoot
	cfg.Output.MinFreeBytes = 0
	cfg.XML.Namespace.Inbound = "urn:inbound"
	cfg.XML.Namespace.Outbound = "urn:outbound"
	cfg.XML.Project.GroupID = "com.example"
	cfg.XML.Project.ArtifactID = "msgspec"
	cfg.ClassGen.Package = "com.example.msgspec"
	cfg.Parser.MaxNestingDepth = 50
	cfg.OpenAPI.Title = "Example API"
	cfg.OpenAPI.Version = "1.0.0"
	cfg.OpenAPI.ServerURL = "http://localhost:8080"
	cfg.OpenAPI.SplitStrategy = "NONE"
	cfg.Consistency.TypeMappingRules = map[string]string{
		"xs:string": "string",
		"String":    "string",
	}
	cfg.Audit.Enabled = true
	require.NoError(t, config.Validate(cfg))
	return cfg
}

func TestRunDryRunProducesPassingReportWithoutCommitting(t *testing.T) {
	specPath := buildWorkbookFixture(t)
	outDir := filepath.Join(t.TempDir(), "out")
	cfg := validConfig(t, outDir)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	log := audit.New()

	result, err := Run(cfg, Options{SpecPath: specPath, DryRun: true}, logger, log)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotNil(t, result.Report)
	require.False(t, result.Committed)
	require.Nil(t, result.Manifest)
}

func TestRunCommitsStagedOutputTree(t *testing.T) {
	specPath := buildWorkbookFixture(t)
	outDir := filepath.Join(t.TempDir(), "out")
	cfg := validConfig(t, outDir)

	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	log := audit.New()

	result, err := Run(cfg, Options{SpecPath: specPath, DryRun: false}, logger, log)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.True(t, result.Committed)
	require.NotNil(t, result.Manifest)

	require.FileExists(t, filepath.Join(outDir, "json", "spec-tree.json"))
	require.FileExists(t, filepath.Join(outDir, "xml", "outbound-converter.xml"))
	require.FileExists(t, filepath.Join(outDir, "xml", "inbound-converter.xml"))
	require.FileExists(t, filepath.Join(outDir, "openapi", "api.yaml"))
	require.FileExists(t, filepath.Join(outDir, "audit", "audit-log.json"))
}
