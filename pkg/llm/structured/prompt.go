package structured

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BuildPrompt renders schema description, output format, rules and the
// input text into a single prompt. The input is embedded verbatim.
func BuildPrompt(s Schema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(s.Description))
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n")
	writeObject(&sb, s.Fields, 0)
	sb.WriteString("\n\n")

	sb.WriteString("IMPORTANT RULES:\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n")
	sb.WriteString("- Empty lists are always [], never null.\n")
	for _, r := range s.Rules {
		sb.WriteString("- ")
		sb.WriteString(r)
		sb.WriteString("\n")
	}

	sb.WriteString("\nInput text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}

func writeObject(sb *strings.Builder, fields []Field, depth int) {
	pad := strings.Repeat("  ", depth)
	sb.WriteString("{\n")
	for i, f := range fields {
		fmt.Fprintf(sb, "%s  %q: ", pad, f.Name)
		writeType(sb, f, depth+1)
		if i < len(fields)-1 {
			sb.WriteString(",")
		}
		if hint := fieldHint(f); hint != "" {
			sb.WriteString(" // ")
			sb.WriteString(hint)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(pad)
	sb.WriteString("}")
}

func writeType(sb *strings.Builder, f Field, depth int) {
	switch f.Type {
	case Object:
		writeObject(sb, f.Fields, depth)
	case Array:
		sb.WriteString("[")
		if f.Items != nil {
			writeType(sb, *f.Items, depth)
		}
		sb.WriteString("]")
	default:
		sb.WriteString(string(f.Type))
	}
}

func fieldHint(f Field) string {
	var parts []string
	if f.Description != "" {
		parts = append(parts, f.Description)
	}
	if len(f.Enum) > 0 {
		quoted := make([]string, len(f.Enum))
		for i, e := range f.Enum {
			quoted[i] = fmt.Sprintf("%q", e)
		}
		parts = append(parts, "one of "+strings.Join(quoted, ", "))
	}
	if f.Default != nil {
		if b, err := json.Marshal(f.Default); err == nil {
			parts = append(parts, "if absent use "+string(b))
		}
	}
	return strings.Join(parts, "; ")
}
