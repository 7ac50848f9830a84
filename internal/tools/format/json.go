// Package format holds the structured-document formatters and validators.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danmuck/devkit/internal/tools"
)

const (
	Category   = "format"
	JSONID     = "format.json"
	YAMLID     = "format.yaml"
	XMLID      = "format.xml"
	HCLID      = "format.hcl"
	MarkdownID = "format.markdown"
)

func documentArg(kind string) tools.ArgSpec {
	return tools.ArgSpec{Name: tools.ArgInput, Description: kind + " document", Required: true}
}

var indentArg = tools.ArgSpec{Name: "indent", Description: "spaces per level (0-8), or \"tab\"", Default: "2"}

// indentString resolves the indent argument into the literal indent unit.
func indentString(args map[string]string) (string, error) {
	raw := tools.String(args, "indent", "2")
	if strings.EqualFold(raw, "tab") {
		return "\t", nil
	}
	n, err := tools.Int(args, "indent", 2, 0, 8)
	if err != nil {
		return "", err
	}
	return strings.Repeat(" ", n), nil
}

// JSON pretty-prints, minifies and validates JSON.
type JSON struct{}

func (JSON) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          JSONID,
		Name:        "JSON formatter",
		Category:    Category,
		Description: "Format, minify or validate JSON, or convert it to YAML",
	}
}

func (JSON) Operations() []tools.OperationSpec {
	doc := documentArg("JSON")
	sortKeys := tools.ArgSpec{Name: "sort_keys", Description: "emit object keys in sorted order", Default: "false"}
	return []tools.OperationSpec{
		{Name: "format", Description: "pretty-print", Args: []tools.ArgSpec{doc, indentArg, sortKeys}},
		{Name: "minify", Description: "strip insignificant whitespace", Args: []tools.ArgSpec{doc}},
		{Name: "validate", Description: "report whether the document parses", Args: []tools.ArgSpec{doc}},
		{Name: "to-yaml", Description: "convert to YAML", Args: []tools.ArgSpec{doc}},
	}
}

func (j JSON) Execute(action string, args map[string]string) (tools.Result, error) {
	input := []byte(tools.Input(args))
	switch strings.TrimSpace(action) {
	case "format":
		return tools.Run(j.format(input, args))
	case "minify":
		var buf bytes.Buffer
		if err := json.Compact(&buf, input); err != nil {
			return tools.Run("", jsonError(input, err))
		}
		return tools.Run(buf.String(), nil)
	case "validate":
		v, err := decodeJSON(input)
		if err != nil {
			return tools.Run("", err)
		}
		return tools.Run(fmt.Sprintf("valid JSON (%s)", jsonKind(v)), nil)
	case "to-yaml":
		v, err := decodeJSON(input)
		if err != nil {
			return tools.Run("", err)
		}
		return tools.Run(marshalYAML(v))
	default:
		return tools.UnknownAction(JSONID, action)
	}
}

func (JSON) format(input []byte, args map[string]string) (string, error) {
	indent, err := indentString(args)
	if err != nil {
		return "", err
	}
	sortKeys, err := tools.Bool(args, "sort_keys", false)
	if err != nil {
		return "", err
	}
	if sortKeys {
		// encoding/json sorts map keys on output
		v, err := decodeJSON(input)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", indent)
		if err := enc.Encode(v); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(input), "", indent); err != nil {
		return "", jsonError(input, err)
	}
	return buf.String(), nil
}

// decodeJSON parses a single JSON value, keeping numbers exact.
func decodeJSON(input []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, jsonError(input, err)
	}
	if dec.More() {
		return nil, tools.Invalid("unexpected data after the top-level JSON value")
	}
	return v, nil
}

// jsonError converts byte offsets in syntax errors into line:column positions.
func jsonError(input []byte, err error) error {
	var offset int64 = -1
	switch e := err.(type) {
	case *json.SyntaxError:
		offset = e.Offset
	case *json.UnmarshalTypeError:
		offset = e.Offset
	}
	if offset < 0 {
		if len(bytes.TrimSpace(input)) == 0 {
			return tools.Invalid("empty JSON document")
		}
		return tools.Invalid("%v", err)
	}
	line, col := position(input, int(offset))
	return tools.Invalid("line %d, column %d: %v", line, col, err)
}

func position(input []byte, offset int) (int, int) {
	if offset > len(input) {
		offset = len(input)
	}
	prefix := input[:offset]
	line := bytes.Count(prefix, []byte("\n")) + 1
	col := offset - bytes.LastIndexByte(prefix, '\n')
	return line, col
}

func jsonKind(v any) string {
	switch t := v.(type) {
	case map[string]any:
		return fmt.Sprintf("object, %d keys", len(t))
	case []any:
		return fmt.Sprintf("array, %d items", len(t))
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return "null"
	}
}

// yamlValue rewrites json.Number into int64 or float64 so YAML emits plain scalars.
func yamlValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = yamlValue(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = yamlValue(item)
		}
		return t
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

func marshalYAML(v any) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlValue(v)); err != nil {
		return "", tools.Invalid("%v", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
