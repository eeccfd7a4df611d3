// Package structured turns an explicit field description into two things:
// the output-format section of an LLM prompt and a decoder that validates
// and default-fills the model's JSON reply.
package structured

// Type is a JSON value type.
type Type string

const (
	String  Type = "string"
	Integer Type = "integer"
	Number  Type = "number"
	Boolean Type = "boolean"
	Object  Type = "object"
	Array   Type = "array"
)

// Field describes one key of the expected JSON object.
type Field struct {
	Name        string
	Type        Type
	Description string
	// Default replaces a missing or null value. nil means the zero value of Type.
	Default any
	// Enum is advisory: it is rendered in the prompt but not enforced by the decoder.
	Enum []string
	// Items describes array elements.
	Items *Field
	// Fields describes object members.
	Fields []Field
}

// Schema is the explicit description of a model reply.
type Schema struct {
	Name        string
	Description string
	Rules       []string
	Fields      []Field
}

// JSONSchema renders s as a draft-07 JSON Schema document. Every property
// also accepts null so the decoder can substitute defaults afterwards.
func (s Schema) JSONSchema() map[string]any {
	return map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"title":      s.Name,
		"type":       "object",
		"properties": properties(s.Fields),
	}
}

func properties(fields []Field) map[string]any {
	props := make(map[string]any, len(fields))
	for _, f := range fields {
		props[f.Name] = fieldSchema(f)
	}
	return props
}

func fieldSchema(f Field) map[string]any {
	out := map[string]any{"type": []string{string(f.Type), "null"}}
	switch f.Type {
	case Object:
		out["properties"] = properties(f.Fields)
	case Array:
		if f.Items != nil {
			item := fieldSchema(*f.Items)
			// array elements themselves must not be null
			item["type"] = string(f.Items.Type)
			out["items"] = item
		}
	}
	return out
}

func zeroValue(t Type) any {
	switch t {
	case String:
		return ""
	case Integer, Number:
		return float64(0)
	case Boolean:
		return false
	case Array:
		return []any{}
	case Object:
		return map[string]any{}
	}
	return nil
}
