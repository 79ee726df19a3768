// Package rename emits the Markdown field-rename reference document:
// one table per non-empty FieldGroup mapping each field's
// original workbook name to its normalized camelCase identifier.
package rename

import (
	"fmt"
	"strings"

	"ssw-msgspec-gen/internal/ir"
)

// Emit renders diff.md for model.
func Emit(model *ir.MessageModel) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Field Rename Reference\n\n")
	fmt.Fprintf(&b, "- **parseTimestamp:** %s\n", model.Metadata.ParseTimestamp.UTC().Format("2006-01-02T15:04:05.000000000Z"))
	fmt.Fprintf(&b, "- **sourceFile:** %s\n", model.Metadata.SourceFile)
	fmt.Fprintf(&b, "- **parserVersion:** %s\n\n", model.Metadata.ParserVersion)

	total := 0
	total += writeSection(&b, "Shared Header", model.SharedHeader)
	total += writeSection(&b, "Request", &model.Request)
	total += writeSection(&b, "Response", &model.Response)

	fmt.Fprintf(&b, "**Total fields:** %d\n", total)
	return []byte(b.String())
}

func writeSection(b *strings.Builder, title string, group *ir.FieldGroup) int {
	if group.Empty() {
		return 0
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	b.WriteString("| originalName | camelCaseName | sheetName | rowIndex |\n")
	b.WriteString("|---|---|---|---|\n")

	count := 0
	ir.Visit(group, func(node *ir.FieldNode, parent *ir.FieldNode, index int) {
		count++
		fmt.Fprintf(b, "| %s | %s | %s | %d |\n",
			escapeCell(node.OriginalName), escapeCell(node.Name()), escapeCell(node.Source.SheetName), node.Source.RowIndex)
	})
	b.WriteString("\n")
	return count
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `|`, `\|`)
	return s
}
