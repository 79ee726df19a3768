// Package langclass emits one data-class file per message, nested
// object/array element, and enumeration.
package langclass

import (
	"strings"

	"ssw-msgspec-gen/internal/classname"
	"ssw-msgspec-gen/internal/ir"
	cerr "ssw-msgspec-gen/pkg/errors"
)

// Options configures class-name/package derivation and the
// getters/setters-vs-annotations rendering mode.
type Options struct {
	Package        string
	UseAnnotations bool
}

// Field is one rendered class member.
type Field struct {
	OriginalName string
	CamelName    string
	JavaType     string
	Length       *int
	IsList       bool
}

// EnumConstant is one rendered enum member.
type EnumConstant struct {
	ConstName   string
	Code        string
	Description string
}

// Kind distinguishes a message/object/array record from an enumeration.
type Kind int

const (
	KindRecord Kind = iota
	KindEnum
)

// ClassSpec is one emitted file's content plan.
type ClassSpec struct {
	Name          string
	OriginalLabel string
	Kind          Kind
	Fields        []Field
	EnumConstants []EnumConstant
}

// Collect walks the IR and returns the ordered, de-duplicated set of
// classes to emit: the Request class, the Response class (if Response is
// non-empty), and one class per distinct object/array container and
// enumeration field reachable from either.
func Collect(model *ir.MessageModel, opts Options) ([]ClassSpec, error) {
	if model.Metadata.OperationID == nil || *model.Metadata.OperationID == "" {
		return nil, cerr.Generation("", "operationId is required to emit language classes")
	}
	operationID := *model.Metadata.OperationID

	var classes []ClassSpec
	seen := make(map[string]string)

	if err := addRecordClass(&classes, seen, classname.Request(operationID), "Request", model.Request.Fields); err != nil {
		return nil, err
	}
	if !model.Response.Empty() {
		if err := addRecordClass(&classes, seen, classname.Response(operationID), "Response", model.Response.Fields); err != nil {
			return nil, err
		}
	}
	return classes, nil
}

func addRecordClass(classes *[]ClassSpec, seen map[string]string, name, originalLabel string, children []ir.FieldNode) error {
	sig := "record:" + recordSignature(children)
	if existing, ok := seen[name]; ok {
		if existing != sig {
			return cerr.Generation(name, "class name collision: two scopes normalize to the same class name with different structure")
		}
		return nil // first occurrence wins
	}
	seen[name] = sig
	idx := len(*classes)
	*classes = append(*classes, ClassSpec{Name: name, OriginalLabel: originalLabel, Kind: KindRecord})

	var fields []Field
	for i := range children {
		c := &children[i]
		if c.IsTransitory {
			continue
		}
		switch {
		case c.IsObject:
			childName := objectClassName(c)
			fields = append(fields, Field{OriginalName: c.OriginalName, CamelName: c.Name(), JavaType: childName})
			if err := addRecordClass(classes, seen, childName, c.OriginalName, c.Children); err != nil {
				return err
			}
		case c.IsArray:
			elemName := arrayElementClassName(c)
			fields = append(fields, Field{OriginalName: c.OriginalName, CamelName: c.Name(), JavaType: elemName, IsList: true})
			if err := addRecordClass(classes, seen, elemName, c.OriginalName, c.Children); err != nil {
				return err
			}
		case c.EnumConstraint != nil:
			if strings.TrimSpace(*c.EnumConstraint) == "" {
				return cerr.Generation(c.Name(), "enumConstraint is empty on a field already designated as an enumeration")
			}
			enumName := enumClassName(c)
			fields = append(fields, Field{OriginalName: c.OriginalName, CamelName: c.Name(), JavaType: enumName, Length: c.Length})
			if err := addEnumClass(classes, seen, enumName, c); err != nil {
				return err
			}
		default:
			fields = append(fields, Field{
				OriginalName: c.OriginalName,
				CamelName:    c.Name(),
				JavaType:     primitiveJavaType(c.DataType),
				Length:       c.Length,
			})
		}
	}

	(*classes)[idx].Fields = fields
	return nil
}

func addEnumClass(classes *[]ClassSpec, seen map[string]string, name string, c *ir.FieldNode) error {
	codes := splitEnumConstraint(*c.EnumConstraint)
	sig := "enum:" + strings.Join(codes, "|")
	if existing, ok := seen[name]; ok {
		if existing != sig {
			return cerr.Generation(name, "class name collision: two enumerations normalize to the same class name with different codes")
		}
		return nil
	}
	seen[name] = sig

	consts := make([]EnumConstant, 0, len(codes))
	for _, code := range codes {
		consts = append(consts, EnumConstant{
			ConstName:   enumConstName(code),
			Code:        code,
			Description: code,
		})
	}
	*classes = append(*classes, ClassSpec{Name: name, OriginalLabel: c.OriginalName, Kind: KindEnum, EnumConstants: consts})
	return nil
}

func splitEnumConstraint(raw string) []string {
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func objectClassName(c *ir.FieldNode) string { return classname.Object(c.Name(), c.ClassName) }

func arrayElementClassName(c *ir.FieldNode) string { return classname.ArrayElement(c.Name(), c.ClassName) }

func enumClassName(c *ir.FieldNode) string { return classname.Enum(c.Name()) }

func capitalize(s string) string { return classname.Capitalize(s) }

func primitiveJavaType(dataType *string) string {
	if dataType == nil {
		return "String"
	}
	switch strings.ToLower(strings.TrimSpace(*dataType)) {
	case "amount", "currency":
		return "java.math.BigDecimal"
	default:
		return "String"
	}
}

// enumConstName derives a Java constant name from a raw enum code
// pure digits -> VALUE_{code}; pure uppercase letters ->
// {code} as-is; otherwise upper-case and replace non [A-Z0-9] with '_'.
func enumConstName(code string) string {
	if isAllDigits(code) {
		return "VALUE_" + code
	}
	if isAllUpperLetters(code) {
		return code
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAllUpperLetters(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// recordSignature is a shallow structural fingerprint (child name + kind)
// used to detect a class-name-collision case: two
// different scopes normalizing to the same class name. Identical
// structure dedupes silently; a genuine conflict is rejected.
func recordSignature(children []ir.FieldNode) string {
	var parts []string
	for i := range children {
		c := &children[i]
		if c.IsTransitory {
			continue
		}
		kind := "p"
		switch {
		case c.IsObject:
			kind = "o"
		case c.IsArray:
			kind = "a"
		case c.EnumConstraint != nil:
			kind = "e"
		}
		parts = append(parts, c.Name()+":"+kind)
	}
	return strings.Join(parts, ",")
}
