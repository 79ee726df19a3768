// Package parser implements the workbook-to-IR pipeline stage: column
// discovery, metadata extraction, the level-stack tree build, the
// object/array/transitory detector, and identifier normalization.
// Its only collaborator is workbook.Source.
package parser

import (
	"time"

	"ssw-msgspec-gen/internal/ir"
	"ssw-msgspec-gen/internal/workbook"
	cerr "ssw-msgspec-gen/pkg/errors"
)

const (
	sheetRequest      = "Request"
	sheetResponse     = "Response"
	sheetSharedHeader = "Shared Header"

	// DefaultMaxNestingDepth is the configurable nesting cap.
	DefaultMaxNestingDepth = 50
)

// Options configures a single Parse call. Every field has a working
// zero-value default applied by resolve().
type Options struct {
	ParserVersion        string
	MaxNestingDepth      int
	MaxIdentifierLength  int
	Transliterator       Transliterator
	SharedHeaderFilePath string // optional separate workbook for Shared Header
}

func (o Options) resolve() Options {
	if o.ParserVersion == "" {
		o.ParserVersion = "1.0.0"
	}
	if o.MaxNestingDepth <= 0 {
		o.MaxNestingDepth = DefaultMaxNestingDepth
	}
	if o.MaxIdentifierLength <= 0 {
		o.MaxIdentifierLength = DefaultMaxIdentifierLength
	}
	if o.Transliterator == nil {
		o.Transliterator = NewDefaultTransliterator()
	}
	return o
}

// Result is what Parse returns alongside the IR: a total function never
// panics, but parsing may still have something worth telling an operator
// about (e.g. a nesting-depth overrun) without failing the run.
type Result struct {
	Model    *ir.MessageModel
	Warnings []string
}

// Parse reads the workbook at specPath (and, if opts.SharedHeaderFilePath
// is non-empty, a second workbook holding the Shared Header sheet) and builds
// the canonical IR. It is the parser's sole public entrypoint.
func Parse(specPath string, opts Options) (*Result, error) {
	opts = opts.resolve()

	parseStart := time.Now().UTC()

	src, err := workbook.Open(specPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if !src.HasSheet(sheetRequest) {
		return nil, cerr.Parse(sheetRequest, 0, "", "required sheet \"Request\" is missing")
	}
	if !src.HasSheet(sheetResponse) {
		return nil, cerr.Parse(sheetResponse, 0, "", "required sheet \"Response\" is missing")
	}

	var warnings []string

	operationName, operationID, version, err := extractMetadataCells(src, sheetRequest)
	if err != nil {
		return nil, err
	}

	request, reqWarn, err := parseSheet(src, sheetRequest, opts)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, reqWarn...)

	response, respWarn, err := parseSheet(src, sheetResponse, opts)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, respWarn...)

	sharedHeader, shWarn, sharedHeaderFile, err := parseSharedHeader(src, specPath, opts)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, shWarn...)

	model := &ir.MessageModel{
		Metadata: ir.Metadata{
			SourceFile:       specPath,
			SharedHeaderFile: sharedHeaderFile,
			ParseTimestamp:   parseStart,
			ParserVersion:    opts.ParserVersion,
			OperationName:    operationName,
			OperationID:      operationID,
			Version:          version,
		},
		SharedHeader: sharedHeader,
		Request:      *request,
		Response:     *response,
	}

	return &Result{Model: model, Warnings: warnings}, nil
}

func parseSharedHeader(mainSrc workbook.Source, specPath string, opts Options) (*ir.FieldGroup, []string, *string, error) {
	if opts.SharedHeaderFilePath != "" {
		src, err := workbook.Open(opts.SharedHeaderFilePath)
		if err != nil {
			return nil, nil, nil, err
		}
		defer src.Close()
		if !src.HasSheet(sheetSharedHeader) {
			return nil, nil, nil, cerr.Parse(sheetSharedHeader, 0, "", "shared header workbook has no \"Shared Header\" sheet")
		}
		group, warn, err := parseSheet(src, sheetSharedHeader, opts)
		if err != nil {
			return nil, nil, nil, err
		}
		path := opts.SharedHeaderFilePath
		return group, warn, &path, nil
	}
	if mainSrc.HasSheet(sheetSharedHeader) {
		group, warn, err := parseSheet(mainSrc, sheetSharedHeader, opts)
		if err != nil {
			return nil, nil, nil, err
		}
		return group, warn, nil, nil
	}
	return nil, nil, nil, nil
}

func parseSheet(src workbook.Source, sheet string, opts Options) (*ir.FieldGroup, []string, error) {
	rows, err := src.Rows(sheet)
	if err != nil {
		return nil, nil, cerr.ParseWrap(sheet, 0, "", "failed to read sheet rows", err)
	}

	headerIdx := headerRowNumber - 1
	var headerRow []string
	if headerIdx < len(rows) {
		headerRow = rows[headerIdx]
	}
	ci, err := discoverColumns(sheet, headerRow)
	if err != nil {
		return nil, nil, err
	}

	roots, err := buildLevelTree(sheet, rows, ci)
	if err != nil {
		return nil, nil, err
	}

	var warnings []string
	detOpts := detectOptions{
		transliterator: opts.Transliterator,
		maxIdentifier:  opts.MaxIdentifierLength,
		maxDepth:       opts.MaxNestingDepth,
	}
	if err := runDetector(roots, nil, 1, detOpts, &warnings); err != nil {
		return nil, nil, err
	}
	if err := validateContainers(roots); err != nil {
		return nil, nil, err
	}
	if err := checkDuplicates(roots, sheet); err != nil {
		return nil, nil, err
	}

	return &ir.FieldGroup{Fields: toIR(roots)}, warnings, nil
}
