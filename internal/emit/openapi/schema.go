package openapi

import (
	"strconv"
	"strings"

	yaml "github.com/goccy/go-yaml"

	"ssw-msgspec-gen/internal/classname"
	"ssw-msgspec-gen/internal/ir"
	"ssw-msgspec-gen/internal/parser"
	cerr "ssw-msgspec-gen/pkg/errors"
)

// schemaSet accumulates named components.schemas entries in first-seen
// order, deduping identical structures and rejecting name collisions the
// same way langclass.Collect does (applies equally to OpenAPI
// schema names, since the consistency validator requires both to agree).
type schemaSet struct {
	order  []string
	bodies map[string]yaml.MapSlice
	sigs   map[string]string
}

func newSchemaSet() *schemaSet {
	return &schemaSet{bodies: make(map[string]yaml.MapSlice), sigs: make(map[string]string)}
}

func (s *schemaSet) add(name string, body yaml.MapSlice, sig string) error {
	if existing, ok := s.sigs[name]; ok {
		if existing != sig {
			return cerr.Generation(name, "schema name collision: two scopes normalize to the same schema name with different structure")
		}
		return nil
	}
	s.sigs[name] = sig
	s.bodies[name] = body
	s.order = append(s.order, name)
	return nil
}

// buildObjectSchema renders one JSON-schema "object" body for a set of
// sibling fields, registering a named schema for every
// nested object/array container it encounters along the way.
func buildObjectSchema(children []ir.FieldNode, schemas *schemaSet) (yaml.MapSlice, string, error) {
	properties := yaml.MapSlice{}
	var required []string
	var sigParts []string

	for i := range children {
		c := &children[i]
		if c.IsTransitory {
			continue
		}
		propName := c.Name()

		switch {
		case c.IsObject:
			childName := classname.Object(propName, c.ClassName)
			childBody, childSig, err := buildObjectSchema(c.Children, schemas)
			if err != nil {
				return nil, "", err
			}
			if err := schemas.add(childName, childBody, "o:"+childSig); err != nil {
				return nil, "", err
			}
			properties = append(properties, item(propName, refSchema(childName)))
			sigParts = append(sigParts, propName+":o:"+childName)

		case c.IsArray:
			elemName := classname.ArrayElement(propName, c.ClassName)
			childBody, childSig, err := buildObjectSchema(c.Children, schemas)
			if err != nil {
				return nil, "", err
			}
			if err := schemas.add(elemName, childBody, "o:"+childSig); err != nil {
				return nil, "", err
			}
			arr := om().Add("type", "array").Add("items", refSchema(elemName))
			if c.OccurrenceCount != nil {
				if _, max, finite, ok := parser.ParseOccurrence(*c.OccurrenceCount); ok && finite {
					arr.Add("maxItems", max)
				}
			}
			properties = append(properties, item(propName, arr.Slice()))
			sigParts = append(sigParts, propName+":a:"+elemName)

		default:
			properties = append(properties, item(propName, buildPrimitiveSchema(c)))
			sigParts = append(sigParts, propName+":p:"+primitiveSig(c))
		}

		if c.Optionality != nil && strings.EqualFold(*c.Optionality, "M") {
			required = append(required, propName)
		}
	}

	body := om().Add("type", "object").Add("properties", properties)
	if len(required) > 0 {
		body.Add("required", required)
	}
	return body.Slice(), strings.Join(sigParts, ","), nil
}

// buildPrimitiveSchema renders a leaf field's schema: string
// by default, with format/maxLength/default/enum layered on per the same
// dataType and enumConstraint rules the XML and language-class emitters use.
func buildPrimitiveSchema(c *ir.FieldNode) yaml.MapSlice {
	b := om()
	dt := ""
	if c.DataType != nil {
		dt = strings.ToLower(strings.TrimSpace(*c.DataType))
	}
	switch dt {
	case "amount", "currency":
		b.Add("type", "string").Add("format", "decimal")
	case "date":
		b.Add("type", "string").Add("format", "date")
	default:
		b.Add("type", "string")
	}
	if c.Length != nil {
		b.Add("maxLength", *c.Length)
	}
	if c.DefaultValue != nil && *c.DefaultValue != "" {
		b.Add("default", *c.DefaultValue)
	}
	if c.EnumConstraint != nil && strings.TrimSpace(*c.EnumConstraint) != "" {
		codes := splitEnum(*c.EnumConstraint)
		if len(codes) > 0 {
			enumVals := make([]interface{}, 0, len(codes))
			for _, code := range codes {
				enumVals = append(enumVals, code)
			}
			b.Add("enum", enumVals)
		}
	}
	return b.Slice()
}

func splitEnum(raw string) []string {
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

func primitiveSig(c *ir.FieldNode) string {
	length := ""
	if c.Length != nil {
		length = strconv.Itoa(*c.Length)
	}
	enum := ""
	if c.EnumConstraint != nil {
		enum = strings.Join(splitEnum(*c.EnumConstraint), "|")
	}
	dt := ""
	if c.DataType != nil {
		dt = *c.DataType
	}
	return dt + ":" + length + ":" + enum
}
