package openapi

import yaml "github.com/goccy/go-yaml"

// omBuilder is a tiny fluent wrapper over yaml.MapSlice so the rest of
// this package can build insertion-ordered YAML maps without repeating
// append(... , yaml.MapItem{...}) everywhere. goccy/go-yaml preserves
// MapSlice order and defaults to block style, which is exactly what
// the OpenAPI writer needs.
type omBuilder struct{ items yaml.MapSlice }

func om() *omBuilder { return &omBuilder{} }

func (b *omBuilder) Add(key string, value interface{}) *omBuilder {
	b.items = append(b.items, yaml.MapItem{Key: key, Value: value})
	return b
}

func (b *omBuilder) Slice() yaml.MapSlice { return b.items }

func item(key string, value interface{}) yaml.MapItem {
	return yaml.MapItem{Key: key, Value: value}
}

func refSchema(name string) yaml.MapSlice {
	return om().Add("$ref", "#/components/schemas/"+name).Slice()
}

func marshalYAML(v interface{}) ([]byte, error) {
	return yaml.MarshalWithOptions(v, yaml.Indent(2))
}
