// Package openapi emits an OpenAPI 3.0.3 document describing the Request
// and Response message shapes, with an optional BY_OBJECT schema-splitting
// pass.
package openapi

import (
	"regexp"
	"strings"

	yaml "github.com/goccy/go-yaml"

	"ssw-msgspec-gen/internal/classname"
	"ssw-msgspec-gen/internal/ir"
	cerr "ssw-msgspec-gen/pkg/errors"
)

const openapiVersion = "3.0.3"

// SplitNone keeps every schema inline under components.schemas.
// SplitByObject writes one file per named schema under schemas/ and
// rewrites every $ref to point at it.
const (
	SplitNone     = "NONE"
	SplitByObject = "BY_OBJECT"
)

// Options configures document metadata and the splitting strategy.
type Options struct {
	Title         string
	Version       string
	Description   string
	ServerURL     string
	SplitStrategy string
}

// Document is the rendered output: the main api.yaml body and, when
// splitting produced any, the per-schema files keyed by file name under
// schemas/ (e.g. "Foo.yaml").
type Document struct {
	Main        []byte
	SchemaFiles map[string][]byte // key: file name under schemas/, e.g. "CBACardArray.yaml"
}

var refPattern = regexp.MustCompile(`#/components/schemas/([A-Za-z0-9_]+)`)

// Build renders the OpenAPI document for model. Response is
// omitted from both the schema set and the 200 response body when empty
// (same rule the language-class emitter applies).
func Build(model *ir.MessageModel, opts Options) (*Document, error) {
	if model.Metadata.OperationID == nil || *model.Metadata.OperationID == "" {
		return nil, cerr.Generation("", "operationId is required to emit an OpenAPI document")
	}
	operationID := *model.Metadata.OperationID

	schemas := newSchemaSet()
	reqName := classname.Request(operationID)
	reqBody, _, err := buildObjectSchema(model.Request.Fields, schemas)
	if err != nil {
		return nil, err
	}
	if err := schemas.add(reqName, reqBody, "root"); err != nil {
		return nil, err
	}

	var respName string
	if !model.Response.Empty() {
		respName = classname.Response(operationID)
		respBody, _, err := buildObjectSchema(model.Response.Fields, schemas)
		if err != nil {
			return nil, err
		}
		if err := schemas.add(respName, respBody, "root"); err != nil {
			return nil, err
		}
	}

	split := opts.SplitStrategy == SplitByObject && len(schemas.order) > 0

	doc := om().
		Add("openapi", openapiVersion).
		Add("info", buildInfo(operationID, opts)).
		Add("servers", []yaml.MapSlice{om().Add("url", serverURL(opts)).Slice()}).
		Add("paths", buildPaths(operationID, reqName, respName))

	if !split {
		componentsSchemas := yaml.MapSlice{}
		for _, name := range schemas.order {
			componentsSchemas = append(componentsSchemas, item(name, schemas.bodies[name]))
		}
		doc.Add("components", om().Add("schemas", componentsSchemas).Slice())
	}

	mainBytes, err := marshalYAML(doc.Slice())
	if err != nil {
		return nil, cerr.Generation(operationID, "failed to marshal OpenAPI document: "+err.Error())
	}

	result := &Document{}
	if !split {
		result.Main = mainBytes
		return result, nil
	}

	result.Main = rewriteRefs(mainBytes, "./schemas/")
	result.SchemaFiles = make(map[string][]byte, len(schemas.order))
	for _, name := range schemas.order {
		fileDoc := yaml.MapSlice{item(name, schemas.bodies[name])}
		fb, err := marshalYAML(fileDoc)
		if err != nil {
			return nil, cerr.Generation(name, "failed to marshal split schema file: "+err.Error())
		}
		result.SchemaFiles[name+".yaml"] = rewriteRefs(fb, "./")
	}
	return result, nil
}

// rewriteRefs rewrites every "#/components/schemas/Name" ref to
// "{prefix}Name.yaml#/Name". Applied at the rendered-text
// level: every ref produced by this package is a simple, self-contained
// token, so a regexp pass is exact and avoids re-walking the whole
// yaml.MapSlice tree a second time just to relocate refs.
func rewriteRefs(data []byte, prefix string) []byte {
	return refPattern.ReplaceAll(data, []byte(prefix+"$1.yaml#/$1"))
}

func buildInfo(operationID string, opts Options) yaml.MapSlice {
	title := opts.Title
	if title == "" {
		title = operationID + " API"
	}
	version := opts.Version
	if version == "" {
		version = "1.0.0"
	}
	description := opts.Description
	if description == "" {
		description = "Generated from the " + operationID + " message specification."
	}
	return om().Add("title", title).Add("version", version).Add("description", description).Slice()
}

func serverURL(opts Options) string {
	if opts.ServerURL != "" {
		return opts.ServerURL
	}
	return "http://localhost:8080"
}

func buildPaths(operationID, reqName, respName string) yaml.MapSlice {
	requestBody := om().
		Add("required", true).
		Add("content", om().Add("application/json", om().Add("schema", refSchema(reqName)).Slice()).Slice()).
		Slice()

	okResponse := om().Add("description", "OK")
	if respName != "" {
		okResponse.Add("content", om().Add("application/json", om().Add("schema", refSchema(respName)).Slice()).Slice())
	}

	operation := om().
		Add("operationId", operationID).
		Add("requestBody", requestBody).
		Add("responses", om().Add("200", okResponse.Slice()).Slice()).
		Slice()

	path := "/" + kebab(operationID)
	return om().Add(path, om().Add("post", operation).Slice()).Slice()
}

// kebab converts a camelCase operationId into a kebab-case path segment,
// e.g. "createCbaCard" -> "create-cba-card".
func kebab(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
