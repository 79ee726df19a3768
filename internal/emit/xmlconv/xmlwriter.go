package xmlconv

import (
	"bytes"
	"strings"
)

// Attr is a single XML attribute. Attrs are written in the order given;
// callers are responsible for the fixed attribute ordering each converter
// needs, since encoding/xml's struct-tag marshaling cannot express the
// per-branch conditional attribute sets this format requires.
type Attr struct {
	Name  string
	Value string
}

// writer is a minimal indenting XML builder: two-space indent, self-closing
// tags for childless elements, deterministic attribute order.
type writer struct {
	buf    bytes.Buffer
	depth  int
}

func newWriter() *writer { return &writer{} }

func (w *writer) indent() {
	w.buf.WriteString(strings.Repeat("  ", w.depth))
}

func (w *writer) writeAttrs(attrs []Attr) {
	for _, a := range attrs {
		if a.Value == "" {
			continue
		}
		w.buf.WriteByte(' ')
		w.buf.WriteString(a.Name)
		w.buf.WriteString(`="`)
		w.buf.WriteString(escapeAttr(a.Value))
		w.buf.WriteByte('"')
	}
}

// Open starts a non-self-closing element and increases indentation.
func (w *writer) Open(name string, attrs []Attr) {
	w.indent()
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	w.writeAttrs(attrs)
	w.buf.WriteString(">\n")
	w.depth++
}

// Close ends an element opened with Open.
func (w *writer) Close(name string) {
	w.depth--
	w.indent()
	w.buf.WriteString("</")
	w.buf.WriteString(name)
	w.buf.WriteString(">\n")
}

// Empty writes a self-closing element with no children.
func (w *writer) Empty(name string, attrs []Attr) {
	w.indent()
	w.buf.WriteByte('<')
	w.buf.WriteString(name)
	w.writeAttrs(attrs)
	w.buf.WriteString("/>\n")
}

func (w *writer) Raw(s string) { w.buf.WriteString(s) }

func (w *writer) Bytes() []byte { return w.buf.Bytes() }

func escapeAttr(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return r.Replace(s)
}
