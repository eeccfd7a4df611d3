package structured

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/artem13815/portfolio/pkg/apperr"
)

// ErrNoJSONObject is returned when the reply contains no {...} span.
var ErrNoJSONObject = errors.New("no JSON object in model reply")

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every type violation found in a reply.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("model reply failed schema validation:")
	for _, e := range ve.Errors {
		fmt.Fprintf(&sb, " %s: %s;", e.Field, e.Message)
	}
	return sb.String()
}

// Decoder validates model replies against one Schema.
type Decoder struct {
	schema   Schema
	compiled *gojsonschema.Schema
}

func NewDecoder(s Schema) (*Decoder, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s.JSONSchema()))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}
	return &Decoder{schema: s, compiled: compiled}, nil
}

// MustDecoder is NewDecoder for package-level schemas known to be valid.
func MustDecoder(s Schema) *Decoder {
	d, err := NewDecoder(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d *Decoder) Schema() Schema { return d.schema }

// Decode extracts the JSON object from raw, coerces drifted scalar values
// to the declared types, fills defaults for missing, null or unconvertible
// values, validates the result and unmarshals it into out.
// A reply without a decodable JSON object is a malformed-model-output error.
func (d *Decoder) Decode(raw string, out any) error {
	span, err := ExtractJSON(raw)
	if err != nil {
		return apperr.MalformedModelOutput(err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(span), &doc); err != nil {
		return apperr.MalformedModelOutput(fmt.Errorf("decode JSON: %w", err))
	}

	fillObject(doc, d.schema.Fields)

	result, err := d.compiled.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return apperr.MalformedModelOutput(fmt.Errorf("validate JSON: %w", err))
	}
	if !result.Valid() {
		ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
		}
		return apperr.MalformedModelOutput(ve)
	}

	filled, err := json.Marshal(doc)
	if err != nil {
		return apperr.MalformedModelOutput(err)
	}
	if err := json.Unmarshal(filled, out); err != nil {
		return apperr.MalformedModelOutput(fmt.Errorf("decode into %T: %w", out, err))
	}
	return nil
}

// ExtractJSON strips markdown code fences and returns the span from the
// first '{' to the last '}' inclusive.
func ExtractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")

	i := strings.Index(s, "{")
	j := strings.LastIndex(s, "}")
	if i < 0 || j <= i {
		return "", ErrNoJSONObject
	}
	return s[i : j+1], nil
}

func fillObject(obj map[string]any, fields []Field) {
	for _, f := range fields {
		obj[f.Name] = fillValue(obj[f.Name], f)
	}
}

func defaultValue(f Field) any {
	if f.Default != nil {
		return f.Default
	}
	return zeroValue(f.Type)
}

// fillValue returns v converted to f's type, or f's default when v is
// missing, null or cannot be converted.
func fillValue(v any, f Field) any {
	if v == nil {
		v = defaultValue(f)
		if f.Type != Object {
			return v
		}
	}
	if c, ok := coerce(v, f); ok {
		return c
	}
	if f.Type == Object {
		m := map[string]any{}
		fillObject(m, f.Fields)
		return m
	}
	return defaultValue(f)
}

func coerce(v any, f Field) (any, bool) {
	switch f.Type {
	case String:
		switch x := v.(type) {
		case string:
			return x, true
		case float64:
			return strconv.FormatFloat(x, 'f', -1, 64), true
		case bool:
			return strconv.FormatBool(x), true
		}
	case Integer, Number:
		var n float64
		switch x := v.(type) {
		case float64:
			n = x
		case int:
			n = float64(x)
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
			if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
				return nil, false
			}
			n = parsed
		default:
			return nil, false
		}
		if f.Type == Integer {
			n = math.Trunc(n)
		}
		return n, true
	case Boolean:
		switch x := v.(type) {
		case bool:
			return x, true
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(x))
			return b, err == nil
		}
	case Object:
		if m, ok := v.(map[string]any); ok {
			fillObject(m, f.Fields)
			return m, true
		}
	case Array:
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		if f.Items == nil {
			return arr, true
		}
		// elements that cannot be converted are dropped
		kept := make([]any, 0, len(arr))
		for _, el := range arr {
			if el == nil {
				continue
			}
			if c, ok := coerce(el, *f.Items); ok {
				kept = append(kept, c)
			}
		}
		return kept, true
	}
	return nil, false
}
