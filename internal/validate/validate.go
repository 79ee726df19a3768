// Package validate implements the cross-artifact consistency validator.
// It independently re-derives field shape/type information
// from each of the three staged artifacts (XML, language classes, OpenAPI)
// rather than trusting the IR a second time, so a bug in one emitter's own
// derivation logic is actually caught instead of silently agreeing with
// itself.
package validate

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"sort"
	"strings"

	yaml "github.com/goccy/go-yaml"
)

// Shape mirrors the shape enumeration the emitters produce.
type Shape string

const (
	ShapePrimitive Shape = "primitive"
	ShapeObject    Shape = "object"
	ShapeArray     Shape = "array"
)

// Required mirrors the required-field enumeration.
type Required string

const (
	RequiredTrue    Required = "true"
	RequiredFalse   Required = "false"
	RequiredUnknown Required = "unknown"
)

// Tuple is one (fieldPath, typeKey, shape, required) fact about a field as
// read from a single artifact.
type Tuple struct {
	FieldPath string
	TypeKey   string
	Shape     Shape
	Required  Required
}

// Severity of a reported issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Category names the kind of inconsistency found.
type Category string

const (
	CategoryMissingField      Category = "MISSING_FIELD"
	CategoryTypeMismatch      Category = "TYPE_MISMATCH"
	CategoryStructureMismatch Category = "STRUCTURE_MISMATCH"
	CategoryRequiredUnknown   Category = "REQUIRED_UNKNOWN"
)

// Issue is one reported inconsistency.
type Issue struct {
	Category  Category `json:"category"`
	Severity  Severity `json:"severity"`
	FieldPath string   `json:"fieldPath"`
	Detail    string   `json:"detail"`
}

// Report is the full structured result.
type Report struct {
	Pass   bool    `json:"pass"`
	Issues []Issue `json:"issues"`
}

// Config carries the configured knobs exposed to the validator.
type Config struct {
	StrictMode       bool
	TypeMappingRules map[string]string
	IgnoreFields     []string
}

// Run reads the three artifacts out of files (staged relative-path ->
// content, exactly what is about to be committed) and produces a Report.
// operationID names the XML/OpenAPI/Java root classes; hasResponse mirrors
// the boundary-11 rule that an empty Response FieldGroup produces no
// Response artifact in any of the three emitters.
func Run(files map[string][]byte, operationID string, hasResponse bool, cfg Config) (*Report, error) {
	xmlTuples, err := extractXML(files, operationID, hasResponse)
	if err != nil {
		return nil, err
	}
	langTuples, err := extractLangClasses(files, operationID, hasResponse)
	if err != nil {
		return nil, err
	}
	openapiTuples, err := extractOpenAPI(files, operationID, hasResponse)
	if err != nil {
		return nil, err
	}

	ignore := make(map[string]bool, len(cfg.IgnoreFields))
	for _, f := range cfg.IgnoreFields {
		ignore[f] = true
	}

	allPaths := make(map[string]bool)
	for p := range xmlTuples {
		allPaths[p] = true
	}
	for p := range langTuples {
		allPaths[p] = true
	}
	for p := range openapiTuples {
		allPaths[p] = true
	}

	var paths []string
	for p := range allPaths {
		if !ignore[p] {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var issues []Issue
	for _, p := range paths {
		x, xok := xmlTuples[p]
		l, lok := langTuples[p]
		o, ook := openapiTuples[p]

		present := map[string]bool{"xml": xok, "lang": lok, "openapi": ook}
		for artifact, ok := range present {
			if !ok {
				issues = append(issues, Issue{
					Category: CategoryMissingField, Severity: SeverityError, FieldPath: p,
					Detail: fmt.Sprintf("fieldPath absent from %s artifact", artifact),
				})
			}
		}

		shapes := map[string]Shape{}
		if xok {
			shapes["xml"] = x.Shape
		}
		if lok {
			shapes["lang"] = l.Shape
		}
		if ook {
			shapes["openapi"] = o.Shape
		}
		if !allEqual(shapesToStrings(shapes)) {
			issues = append(issues, Issue{
				Category: CategoryStructureMismatch, Severity: SeverityError, FieldPath: p,
				Detail: fmt.Sprintf("shape differs across artifacts: %v", shapes),
			})
		}

		types := map[string]string{}
		if xok && x.Shape == ShapePrimitive {
			types["xml"] = canonicalType(x.TypeKey, cfg.TypeMappingRules)
		}
		if lok && l.Shape == ShapePrimitive {
			types["lang"] = canonicalType(l.TypeKey, cfg.TypeMappingRules)
		}
		if ook && o.Shape == ShapePrimitive {
			types["openapi"] = canonicalType(o.TypeKey, cfg.TypeMappingRules)
		}
		if len(types) > 1 {
			vals := make([]string, 0, len(types))
			for _, v := range types {
				vals = append(vals, v)
			}
			if !allEqual(vals) {
				sev := SeverityError
				if containsUnknown(vals) && !cfg.StrictMode {
					sev = SeverityWarning
				}
				issues = append(issues, Issue{
					Category: CategoryTypeMismatch, Severity: sev, FieldPath: p,
					Detail: fmt.Sprintf("typeKey differs across artifacts: %v", types),
				})
			}
		}

		reqs := map[string]Required{}
		if xok {
			reqs["xml"] = x.Required
		}
		if lok {
			reqs["lang"] = l.Required
		}
		if ook {
			reqs["openapi"] = o.Required
		}
		hasUnknown := false
		for _, r := range reqs {
			if r == RequiredUnknown {
				hasUnknown = true
			}
		}
		if hasUnknown {
			sev := SeverityWarning
			if cfg.StrictMode {
				sev = SeverityError
			}
			issues = append(issues, Issue{
				Category: CategoryRequiredUnknown, Severity: sev, FieldPath: p,
				Detail: "at least one artifact lacks required metadata",
			})
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Category != issues[j].Category {
			return issues[i].Category < issues[j].Category
		}
		return issues[i].FieldPath < issues[j].FieldPath
	})

	pass := true
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			pass = false
			break
		}
	}
	return &Report{Pass: pass, Issues: issues}, nil
}

func allEqual(vals []string) bool {
	for i := 1; i < len(vals); i++ {
		if vals[i] != vals[0] {
			return false
		}
	}
	return true
}

func shapesToStrings(m map[string]Shape) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, string(v))
	}
	return out
}

func containsUnknown(vals []string) bool {
	for _, v := range vals {
		if v == "unknown" {
			return true
		}
	}
	return false
}

func canonicalType(raw string, rules map[string]string) string {
	if canon, ok := rules[raw]; ok {
		return canon
	}
	return "unknown"
}

// --- XML ---

type xmlField struct {
	XMLName     xml.Name
	Name        string     `xml:"name,attr"`
	Type        string     `xml:"type,attr"`
	Converter   string     `xml:"converter,attr"`
	Transitory  string     `xml:"transitory,attr"`
	Fields      []xmlField `xml:"field"`
}

func extractXML(files map[string][]byte, operationID string, hasResponse bool) (map[string]Tuple, error) {
	out := make(map[string]Tuple)
	if data, ok := files["xml/outbound-converter.xml"]; ok {
		if err := extractXMLFile(data, "Request", out); err != nil {
			return nil, err
		}
	}
	if hasResponse {
		if data, ok := files["xml/inbound-converter.xml"]; ok {
			if err := extractXMLFile(data, "Response", out); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

type xmlMessage struct {
	Fields []xmlField `xml:"field"`
}

type xmlEnvelope struct {
	Message xmlMessage `xml:"message"`
}

func extractXMLFile(data []byte, root string, out map[string]Tuple) error {
	var env xmlEnvelope
	if err := xml.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("parse %s xml: %w", root, err)
	}
	for _, f := range env.Message.Fields {
		walkXMLField(f, root, out)
	}
	return nil
}

func walkXMLField(f xmlField, path string, out map[string]Tuple) {
	if f.Transitory == "true" {
		return
	}
	p := path + "/" + f.Name
	switch f.Type {
	case "CompositeField":
		out[p] = Tuple{FieldPath: p, Shape: ShapeObject, Required: RequiredUnknown}
	case "RepeatingField":
		out[p] = Tuple{FieldPath: p, Shape: ShapeArray, Required: RequiredUnknown}
	default:
		out[p] = Tuple{FieldPath: p, Shape: ShapePrimitive, TypeKey: xmlConverterTypeKey(f.Converter), Required: RequiredUnknown}
	}
	for _, c := range f.Fields {
		walkXMLField(c, p, out)
	}
}

func xmlConverterTypeKey(converter string) string {
	switch converter {
	case "OHcurrencyamountFieldConverter":
		return "decimal"
	default:
		return "string"
	}
}

// --- Language classes ---

var javaClassRe = regexp.MustCompile(`public (?:class|enum) (\w+)`)
var javaFieldRe = regexp.MustCompile(`private (?:@\w+\([^)]*\)\s*)?([\w.<>]+) (\w+)(?:\s*=\s*new java\.util\.ArrayList<>\(\))?;`)

type javaField struct {
	name     string
	javaType string
}

func extractLangClasses(files map[string][]byte, operationID string, hasResponse bool) (map[string]Tuple, error) {
	classes := make(map[string][]javaField)
	for path, data := range files {
		if !strings.HasPrefix(path, "java/") || !strings.HasSuffix(path, ".java") {
			continue
		}
		src := string(data)
		m := javaClassRe.FindStringSubmatch(src)
		if m == nil {
			continue
		}
		className := m[1]
		for _, fm := range javaFieldRe.FindAllStringSubmatch(src, -1) {
			classes[className] = append(classes[className], javaField{name: fm[2], javaType: fm[1]})
		}
	}

	out := make(map[string]Tuple)
	requestClass := operationID + "Request"
	if fields, ok := classes[requestClass]; ok {
		walkJavaClass(fields, classes, "Request", out)
	}
	if hasResponse {
		responseClass := operationID + "Response"
		if fields, ok := classes[responseClass]; ok {
			walkJavaClass(fields, classes, "Response", out)
		}
	}
	return out, nil
}

func walkJavaClass(fields []javaField, classes map[string][]javaField, path string, out map[string]Tuple) {
	for _, f := range fields {
		p := path + "/" + f.name
		if strings.HasPrefix(f.javaType, "java.util.List<") {
			elem := strings.TrimSuffix(strings.TrimPrefix(f.javaType, "java.util.List<"), ">")
			out[p] = Tuple{FieldPath: p, Shape: ShapeArray, Required: RequiredUnknown}
			if childFields, ok := classes[elem]; ok {
				walkJavaClass(childFields, classes, p, out)
			}
			continue
		}
		if childFields, ok := classes[f.javaType]; ok {
			out[p] = Tuple{FieldPath: p, Shape: ShapeObject, Required: RequiredUnknown}
			walkJavaClass(childFields, classes, p, out)
			continue
		}
		out[p] = Tuple{FieldPath: p, Shape: ShapePrimitive, TypeKey: javaTypeKey(f.javaType), Required: RequiredUnknown}
	}
}

func javaTypeKey(javaType string) string {
	switch javaType {
	case "java.math.BigDecimal":
		return "decimal"
	default:
		return "string"
	}
}

// --- OpenAPI ---

func extractOpenAPI(files map[string][]byte, operationID string, hasResponse bool) (map[string]Tuple, error) {
	mainData, ok := files["openapi/api.yaml"]
	if !ok {
		return nil, fmt.Errorf("openapi/api.yaml not found among staged files")
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal(mainData, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi main document: %w", err)
	}

	schemas := map[string]interface{}{}
	if components, ok := doc["components"].(map[string]interface{}); ok {
		if s, ok := components["schemas"].(map[string]interface{}); ok {
			schemas = s
		}
	}
	resolveSchema := func(name string) (map[string]interface{}, bool) {
		if s, ok := schemas[name].(map[string]interface{}); ok {
			return s, true
		}
		data, ok := files["openapi/schemas/"+name+".yaml"]
		if !ok {
			return nil, false
		}
		var wrapper map[string]interface{}
		if err := yaml.Unmarshal(data, &wrapper); err != nil {
			return nil, false
		}
		if s, ok := wrapper[name].(map[string]interface{}); ok {
			return s, true
		}
		return nil, false
	}

	out := make(map[string]Tuple)
	if s, ok := resolveSchema(operationID + "Request"); ok {
		walkOpenAPISchema(s, "Request", resolveSchema, out)
	}
	if hasResponse {
		if s, ok := resolveSchema(operationID + "Response"); ok {
			walkOpenAPISchema(s, "Response", resolveSchema, out)
		}
	}
	return out, nil
}

func refName(ref string) string {
	i := strings.LastIndex(ref, "/")
	if i < 0 {
		return ref
	}
	return ref[i+1:]
}

func walkOpenAPISchema(schema map[string]interface{}, path string, resolve func(string) (map[string]interface{}, bool), out map[string]Tuple) {
	properties, _ := schema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if reqList, ok := schema["required"].([]interface{}); ok {
		for _, r := range reqList {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	for name, raw := range properties {
		prop, _ := raw.(map[string]interface{})
		p := path + "/" + name
		req := RequiredFalse
		if required[name] {
			req = RequiredTrue
		}

		if ref, ok := prop["$ref"].(string); ok {
			childName := refName(ref)
			if s, ok := resolve(childName); ok {
				out[p] = Tuple{FieldPath: p, Shape: ShapeObject, Required: req}
				walkOpenAPISchema(s, p, resolve, out)
			}
			continue
		}
		if prop["type"] == "array" {
			out[p] = Tuple{FieldPath: p, Shape: ShapeArray, Required: req}
			if items, ok := prop["items"].(map[string]interface{}); ok {
				if ref, ok := items["$ref"].(string); ok {
					childName := refName(ref)
					if s, ok := resolve(childName); ok {
						walkOpenAPISchema(s, p, resolve, out)
					}
				}
			}
			continue
		}

		typeKey := "unknown"
		if format, ok := prop["format"].(string); ok {
			switch format {
			case "decimal":
				typeKey = "decimal"
			case "date":
				typeKey = "date"
			}
		} else if t, ok := prop["type"].(string); ok {
			typeKey = t
		}
		out[p] = Tuple{FieldPath: p, Shape: ShapePrimitive, TypeKey: typeKey, Required: req}
	}
}
