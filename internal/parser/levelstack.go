package parser

import (
	"strconv"
	"strings"

	"ssw-msgspec-gen/internal/ir"
	cerr "ssw-msgspec-gen/pkg/errors"
)

// buildNode is the parser's own mutable tree shape. The public ir.FieldNode
// is an immutable value type with a value-slice Children field, which
// makes incremental in-place mutation during tree construction awkward
// (appends can relocate earlier siblings); buildNode uses pointers while
// the tree is still being assembled and is converted to ir.FieldNode once,
// at the very end, by toIR.
type buildNode struct {
	raw      rawRow
	children []*buildNode

	// populated by the detector pass (detector.go)
	camelCaseName   *string
	className       *string
	groupID         *string
	occurrenceCount *string
	isArray         bool
	isObject        bool
	isTransitory    bool
}

// rawRow holds a data row's cell text, unprocessed.
type rawRow struct {
	sheet           string
	rowIndex        int // 1-based
	segLevel        int
	fieldName       string
	description     string
	length          string
	dataType        string
	optionality     string
	defaultValue    string
	hardCodeValue   string
	enumConstraint  string
}

// buildLevelTree runs the level-stack algorithm over a
// sheet's data rows and returns the root-level node list.
func buildLevelTree(sheet string, rows [][]string, ci *ColumnIndex) ([]*buildNode, error) {
	segCol, _ := ci.Get("Seg lvl")
	nameCol, _ := ci.Get("Field Name")
	descCol, _ := ci.Get("Description")
	lenCol, _ := ci.Get("Length")
	typeCol, _ := ci.Get("Messaging Datatype")
	optCol, hasOpt := ci.Get("Opt(O/M)")
	defCol, hasDef := ci.Get("Default Value")
	hardCol, hasHard := ci.Get("Hard Code Value")
	enumCol, hasEnum := ci.Get("Enum Values")

	var roots []*buildNode
	var stack []*buildNode
	previousLevel := 0

	startIdx := firstDataRow - 1 // 0-based index of first data row
	for idx := startIdx; idx < len(rows); idx++ {
		row := rows[idx]
		rowNumber := idx + 1

		fieldName := cell(row, nameCol)
		segLevelText := cell(row, segCol)
		if fieldName == "" && segLevelText == "" && allBlank(row) {
			continue // skip fully empty rows
		}

		segLevel, err := strconv.Atoi(strings.TrimSpace(segLevelText))
		if err != nil || segLevel <= 0 {
			return nil, cerr.Parse(sheet, rowNumber, "Seg lvl", "segLevel must be a positive integer")
		}

		rr := rawRow{
			sheet:       sheet,
			rowIndex:    rowNumber,
			segLevel:    segLevel,
			fieldName:   fieldName,
			description: cell(row, descCol),
			length:      cell(row, lenCol),
			dataType:    cell(row, typeCol),
		}
		if hasOpt {
			rr.optionality = cell(row, optCol)
		}
		if hasDef {
			rr.defaultValue = cell(row, defCol)
		}
		if hasHard {
			rr.hardCodeValue = cell(row, hardCol)
		}
		if hasEnum {
			rr.enumConstraint = cell(row, enumCol)
		}

		node := &buildNode{raw: rr}

		for len(stack) > 0 && stack[len(stack)-1].raw.segLevel >= segLevel {
			stack = stack[:len(stack)-1]
		}

		if previousLevel > 0 && segLevel > previousLevel+1 {
			return nil, cerr.Parse(sheet, rowNumber, fieldName, "segLevel gap: level jumped more than one from the previous row")
		}

		if len(stack) > 0 {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
		} else {
			roots = append(roots, node)
		}

		if strings.Contains(fieldName, ":") {
			stack = append(stack, node)
		}

		previousLevel = segLevel
	}

	return roots, nil
}

func allBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// toIR converts a buildNode tree into the public, immutable ir.FieldNode
// tree, in exactly the order the children were appended
// invariant 5).
func toIR(nodes []*buildNode) []ir.FieldNode {
	out := make([]ir.FieldNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.toIRNode())
	}
	return out
}

func (n *buildNode) toIRNode() ir.FieldNode {
	fn := ir.FieldNode{
		OriginalName:    n.raw.fieldName,
		CamelCaseName:   n.camelCaseName,
		ClassName:       n.className,
		SegLevel:        n.raw.segLevel,
		Optionality:     strPtrOrNil(n.raw.optionality),
		DefaultValue:    strPtrOrNil(n.raw.defaultValue),
		HardCodeValue:   strPtrOrNil(n.raw.hardCodeValue),
		EnumConstraint:  strPtrOrNil(n.raw.enumConstraint),
		GroupID:         n.groupID,
		OccurrenceCount: n.occurrenceCount,
		IsArray:         n.isArray,
		IsObject:        n.isObject,
		IsTransitory:    n.isTransitory,
		Source:          ir.Source{SheetName: n.raw.sheet, RowIndex: n.raw.rowIndex},
		Children:        toIR(n.children),
	}
	if !fn.IsObject && !fn.IsArray {
		if l, ok := parseLength(n.raw.length); ok {
			fn.Length = &l
		}
		fn.DataType = strPtrOrNil(n.raw.dataType)
	}
	return fn
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseLength(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
