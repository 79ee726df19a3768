// Package orchestrator wires the parser, every emitter, the consistency
// validator, and the atomic transaction together in a fixed order:
// IR-JSON -> rename doc -> XML(out,in) -> language classes ->
// OpenAPI(main,split) -> consistency validator -> commit.
package orchestrator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"ssw-msgspec-gen/internal/audit"
	"ssw-msgspec-gen/internal/config"
	"ssw-msgspec-gen/internal/emit/langclass"
	"ssw-msgspec-gen/internal/emit/openapi"
	"ssw-msgspec-gen/internal/emit/rename"
	"ssw-msgspec-gen/internal/emit/xmlconv"
	"ssw-msgspec-gen/internal/ir/serializer"
	"ssw-msgspec-gen/internal/parser"
	"ssw-msgspec-gen/internal/txn"
	"ssw-msgspec-gen/internal/validate"
	cerr "ssw-msgspec-gen/pkg/errors"
)

// ToolVersion is stamped into the manifest and the parser's ParserVersion.
const ToolVersion = "1.0.0"

// Options bundles everything a Run needs beyond the loaded config.
type Options struct {
	SpecPath string
	DryRun   bool
}

// Result is what a successful or dry-run invocation returns to the CLI.
type Result struct {
	Report    *validate.Report
	Manifest  *txn.Manifest
	Committed bool
}

// Run executes one full pipeline invocation.
func Run(cfg *config.Config, opts Options, logger *logrus.Logger, log *audit.Log) (*Result, error) {
	log.Append(audit.ToolStarted, audit.SeverityInfo, "tool started", map[string]interface{}{"specPath": opts.SpecPath})

	if err := txn.ReapOrphans(cfg.Output.Root); err != nil {
		logger.WithError(err).Warn("failed to reap orphan transaction directories")
	}

	log.Append(audit.InputLoaded, audit.SeverityInfo, "input workbook located", map[string]interface{}{"specPath": opts.SpecPath})

	log.Append(audit.ParseStarted, audit.SeverityInfo, "parse started", nil)
	parseResult, err := parser.Parse(opts.SpecPath, parser.Options{
		ParserVersion:   ToolVersion,
		MaxNestingDepth: cfg.Parser.MaxNestingDepth,
	})
	if err != nil {
		return finish(log, logger, nil, err)
	}
	model := parseResult.Model
	for _, w := range parseResult.Warnings {
		logger.WithField("component", "parser").Warn(w)
	}
	log.Append(audit.ParseCompleted, audit.SeverityInfo, "parse completed", map[string]interface{}{
		"requestFields": len(model.Request.Fields), "responseFields": len(model.Response.Fields),
	})

	hasResponse := !model.Response.Empty()
	operationID := ""
	if model.Metadata.OperationID != nil {
		operationID = *model.Metadata.OperationID
	}

	log.Append(audit.GenerationStarted, audit.SeverityInfo, "generation started", nil)

	staged := make(map[string][]byte)
	types := make(map[string]txn.FileType)

	irJSON, err := serializer.Marshal(model)
	if err != nil {
		return finish(log, logger, nil, cerr.Generation("", "failed to marshal canonical IR: "+err.Error()))
	}
	stage(staged, types, "json/spec-tree.json", irJSON, txn.FileJSON)

	stage(staged, types, "diff.md", rename.Emit(model), txn.FileMD)

	xmlOpts := xmlconv.Options{
		NamespaceOutbound: cfg.XML.Namespace.Outbound,
		NamespaceInbound:  cfg.XML.Namespace.Inbound,
		ProjectGroupID:    cfg.XML.Project.GroupID,
		ProjectArtifactID: cfg.XML.Project.ArtifactID,
		ClassPackage:      cfg.ClassGen.Package,
	}
	outbound, err := xmlconv.EmitOutbound(model, xmlOpts)
	if err != nil {
		return finish(log, logger, nil, err)
	}
	stage(staged, types, "xml/outbound-converter.xml", outbound, txn.FileXML)

	inbound, err := xmlconv.EmitInbound(model, xmlOpts)
	if err != nil {
		return finish(log, logger, nil, err)
	}
	stage(staged, types, "xml/inbound-converter.xml", inbound, txn.FileXML)

	classFiles, err := langclass.Emit(model, langclass.Options{
		Package:        cfg.ClassGen.Package,
		UseAnnotations: cfg.ClassGen.UseAnnotations,
	})
	if err != nil {
		return finish(log, logger, nil, err)
	}
	javaDir := path.Join("java", strings.ReplaceAll(cfg.ClassGen.Package, ".", "/"))
	for _, f := range classFiles {
		stage(staged, types, path.Join(javaDir, f.ClassName+".java"), []byte(f.Content), txn.FileJava)
	}

	doc, err := openapi.Build(model, openapi.Options{
		Title:         cfg.OpenAPI.Title,
		Version:       cfg.OpenAPI.Version,
		Description:   cfg.OpenAPI.Description,
		ServerURL:     cfg.OpenAPI.ServerURL,
		SplitStrategy: cfg.OpenAPI.SplitStrategy,
	})
	if err != nil {
		return finish(log, logger, nil, err)
	}
	stage(staged, types, "openapi/api.yaml", doc.Main, txn.FileYAML)
	for name, content := range doc.SchemaFiles {
		stage(staged, types, path.Join("openapi", "schemas", name), content, txn.FileYAML)
	}

	log.Append(audit.GenerationCompleted, audit.SeverityInfo, "generation completed", map[string]interface{}{"fileCount": len(staged)})

	report, err := validate.Run(staged, operationID, hasResponse, validate.Config{
		StrictMode:       cfg.Consistency.StrictMode,
		TypeMappingRules: cfg.Consistency.TypeMappingRules,
		IgnoreFields:     cfg.Consistency.IgnoreFields,
	})
	if err != nil {
		return finish(log, logger, nil, cerr.Validation("", "failed to run consistency validator: "+err.Error()))
	}
	reportJSON, err := marshalReport(report)
	if err != nil {
		return finish(log, logger, nil, cerr.Validation("", "failed to marshal consistency report: "+err.Error()))
	}
	stage(staged, types, "consistency-report.json", reportJSON, txn.FileJSON)

	severity := audit.SeverityInfo
	if !report.Pass {
		severity = audit.SeverityError
	}
	log.Append(audit.ValidationResult, severity, fmt.Sprintf("consistency validation pass=%v issues=%d", report.Pass, len(report.Issues)), nil)

	if !report.Pass {
		detail := "consistency validation found error-severity issues"
		if len(report.Issues) > 0 {
			detail += ": " + report.Issues[0].FieldPath + " " + string(report.Issues[0].Category)
		}
		return finish(log, logger, report, cerr.Validation("", detail))
	}

	if opts.DryRun {
		return &Result{Report: report, Committed: false}, nil
	}

	log.Append(audit.TransactionStarted, audit.SeverityInfo, "transaction started", nil)
	tx, err := txn.Begin(cfg.Output.Root)
	if err != nil {
		return finish(log, logger, report, err)
	}
	for relPath, content := range staged {
		if err := tx.Add(relPath, content, types[relPath]); err != nil {
			_ = tx.Rollback()
			log.Append(audit.TransactionRolledBack, audit.SeverityError, "rolled back: "+err.Error(), nil)
			return finish(log, logger, report, err)
		}
	}
	manifest, err := tx.Commit(txn.Preconditions{
		ConsistencyPass:  report.Pass,
		ValidationPass:   true,
		TargetParentPath: filepath.Dir(cfg.Output.Root),
		MinFreeBytes:     cfg.Output.MinFreeBytes,
	}, ToolVersion, cfg.Output.KeepBackup)
	if err != nil {
		log.Append(audit.TransactionRolledBack, audit.SeverityError, "rolled back: "+err.Error(), nil)
		return finish(log, logger, report, err)
	}
	log.Append(audit.TransactionCommitted, audit.SeverityInfo, "transaction committed", map[string]interface{}{"transactionId": tx.ID()})
	log.Append(audit.ManifestGenerated, audit.SeverityInfo, "manifest generated", map[string]interface{}{"fileCount": manifest.FileCount})

	log.Append(audit.ToolCompleted, audit.SeverityInfo, "tool completed", nil)

	if cfg.Audit.Enabled {
		if err := writeAuditFiles(cfg, log); err != nil {
			logger.WithError(err).Warn("failed to write audit log files after commit")
		}
	}

	return &Result{Report: report, Manifest: manifest, Committed: true}, nil
}

func stage(staged map[string][]byte, types map[string]txn.FileType, relPath string, content []byte, fileType txn.FileType) {
	staged[relPath] = content
	types[relPath] = fileType
}

func marshalReport(report *validate.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeAuditFiles persists audit-log.json/.txt directly under the
// committed output tree, after commit rather than staged inside the
// transaction: the log's own tool_completed/transaction_committed records
// describe the commit's outcome, so they cannot exist before the commit
// they describe has actually happened. A crash between the main commit and
// this write only risks losing the audit tail, never the generated output.
func writeAuditFiles(cfg *config.Config, log *audit.Log) error {
	dir := filepath.Join(cfg.Output.Root, "audit")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	jsonBytes, err := log.MarshalJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "audit-log.json"), jsonBytes, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "audit-log.txt"), log.MarshalText(), 0o644)
}

func finish(log *audit.Log, logger *logrus.Logger, report *validate.Report, err error) (*Result, error) {
	if err != nil {
		log.Append(audit.ToolFailed, audit.SeverityError, err.Error(), nil)
		logger.WithError(err).Error("tool failed")
	}
	return &Result{Report: report}, err
}
