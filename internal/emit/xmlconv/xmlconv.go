// Package xmlconv emits the outbound and inbound fixed-length converter
// XML beans from the IR.
package xmlconv

import (
	"fmt"
	"strings"

	"ssw-msgspec-gen/internal/ir"
	"ssw-msgspec-gen/internal/parser"
	cerr "ssw-msgspec-gen/pkg/errors"
)

// Options configures both converter emissions. Namespaces and the
// project coordinates are required configuration.
type Options struct {
	NamespaceOutbound string
	NamespaceInbound  string
	ProjectGroupID    string
	ProjectArtifactID string
	ClassPackage      string
}

const (
	defaultGroupIDLength      = 10
	defaultOccurrenceLength   = 4
	xsiNamespace              = "http://www.w3.org/2001/XMLSchema-instance"
	utilNamespace             = "http://www.springframework.org/schema/util"
)

// EmitOutbound renders outbound-converter.xml from model.Request. An empty
// Request is a GenerationError.
func EmitOutbound(model *ir.MessageModel, opts Options) ([]byte, error) {
	if model.Request.Empty() {
		return nil, cerr.Generation("Request", "cannot emit outbound converter: Request field group is empty")
	}
	operationID, err := requireOperationID(model)
	if err != nil {
		return nil, err
	}
	forType := composeForType(opts, operationID, "Request")
	return emitEnvelope(opts.NamespaceOutbound, "fix-length-outbound-converter", "req_converter", forType, &model.Request, opts)
}

// EmitInbound renders inbound-converter.xml from model.Response. An empty
// Response emits the envelope only, with no <message> element and no
// error (unlike EmitOutbound, which rejects an empty Request).
func EmitInbound(model *ir.MessageModel, opts Options) ([]byte, error) {
	if model.Response.Empty() {
		return emitEnvelope(opts.NamespaceInbound, "fix-length-inbound-converter", "resp_converter", "", nil, opts)
	}
	operationID, err := requireOperationID(model)
	if err != nil {
		return nil, err
	}
	forType := composeForType(opts, operationID, "Response")
	return emitEnvelope(opts.NamespaceInbound, "fix-length-inbound-converter", "resp_converter", forType, &model.Response, opts)
}

func requireOperationID(model *ir.MessageModel) (string, error) {
	if model.Metadata.OperationID == nil || *model.Metadata.OperationID == "" {
		return "", cerr.Generation("", "operationId is required to emit a <message> element")
	}
	return *model.Metadata.OperationID, nil
}

func composeForType(opts Options, operationID, suffix string) string {
	return fmt.Sprintf("%s.%s.%s%s", opts.ProjectGroupID, opts.ProjectArtifactID, operationID, suffix)
}

func emitEnvelope(namespace, rootElement, id, forType string, group *ir.FieldGroup, opts Options) ([]byte, error) {
	w := newWriter()
	w.Raw(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	w.Open(rootElement, []Attr{
		{"xmlns", namespace},
		{"xmlns:xsi", xsiNamespace},
		{"xmlns:util", utilNamespace},
		{"id", id},
		{"codeGen", "true"},
	})
	if group != nil {
		w.Open("message", []Attr{{"forType", forType}})
		for i := range group.Fields {
			if err := writeNode(w, &group.Fields[i], opts); err != nil {
				return nil, err
			}
		}
		w.Close("message")
	}
	w.Close(rootElement)
	return w.Bytes(), nil
}

func writeNode(w *writer, n *ir.FieldNode, opts Options) error {
	switch {
	case n.IsTransitory && n.GroupID != nil:
		length := defaultGroupIDLength
		if n.Length != nil {
			length = *n.Length
		}
		w.Empty("field", []Attr{
			{"type", "DataField"},
			{"length", fmt.Sprintf("%d", length)},
			{"fixedLength", "true"},
			{"transitory", "true"},
			{"defaultValue", *n.GroupID},
			{"converter", "stringFieldConverter"},
		})
		return nil

	case n.IsTransitory && n.OccurrenceCount != nil:
		length := defaultOccurrenceLength
		if n.Length != nil {
			length = *n.Length
		}
		defaultValue := *n.OccurrenceCount
		if _, max, finite, ok := parser.ParseOccurrence(*n.OccurrenceCount); ok && finite {
			defaultValue = fmt.Sprintf("%d", max)
		}
		w.Empty("field", []Attr{
			{"type", "DataField"},
			{"length", fmt.Sprintf("%d", length)},
			{"fixedLength", "true"},
			{"transitory", "true"},
			{"defaultValue", defaultValue},
			{"pad", "0"},
			{"alignRight", "true"},
			{"converter", "counterFieldConverter"},
		})
		return nil

	case n.IsObject:
		return writeContainer(w, n, "CompositeField", nil, opts)

	case n.IsArray:
		var extra []Attr
		if n.OccurrenceCount != nil {
			if _, max, finite, ok := parser.ParseOccurrence(*n.OccurrenceCount); ok && finite {
				extra = []Attr{{"fixedCount", fmt.Sprintf("%d", max)}}
			}
		}
		return writeContainer(w, n, "RepeatingField", extra, opts)

	default:
		return writePrimitive(w, n)
	}
}

func writeContainer(w *writer, n *ir.FieldNode, fieldType string, extra []Attr, opts Options) error {
	className := n.Name()
	if n.ClassName != nil && *n.ClassName != "" {
		className = *n.ClassName
	}
	attrs := []Attr{
		{"name", n.Name()},
		{"type", fieldType},
		{"forType", opts.ClassPackage + "." + className},
	}
	attrs = append(attrs, extra...)
	w.Open("field", attrs)
	for i := range n.Children {
		if err := writeNode(w, &n.Children[i], opts); err != nil {
			return err
		}
	}
	w.Close("field")
	return nil
}

func writePrimitive(w *writer, n *ir.FieldNode) error {
	dataType := ""
	if n.DataType != nil {
		dataType = *n.DataType
	}
	length := 0
	if n.Length != nil {
		length = *n.Length
	}

	attrs := []Attr{
		{"name", n.Name()},
		{"type", "DataField"},
		{"length", fmt.Sprintf("%d", length)},
	}

	switch {
	case isNumericType(dataType):
		attrs = append(attrs, Attr{"pad", "0"}, Attr{"alignRight", "true"})
	default:
		attrs = append(attrs, Attr{"nullPad", " "})
	}

	converter, forType := converterFor(dataType)
	attrs = append(attrs, Attr{"converter", converter})
	if forType != "" {
		attrs = append(attrs, Attr{"forType", forType})
	}

	w.Empty("field", attrs)
	return nil
}

func isNumericType(dataType string) bool {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case "number", "n", "unsigned integer":
		return true
	default:
		return false
	}
}

func converterFor(dataType string) (converter, forType string) {
	switch strings.ToLower(strings.TrimSpace(dataType)) {
	case "string", "an", "number", "n", "unsigned integer", "date":
		return "stringFieldConverter", ""
	case "amount", "currency":
		return "OHcurrencyamountFieldConverter", "java.math.BigDecimal"
	default:
		return "stringFieldConverter", ""
	}
}
