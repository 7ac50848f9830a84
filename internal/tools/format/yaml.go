package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danmuck/devkit/internal/tools"
)

// YAML re-emits, validates and converts YAML streams.
type YAML struct{}

func (YAML) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          YAMLID,
		Name:        "YAML formatter",
		Category:    Category,
		Description: "Normalize or validate YAML, or convert it to JSON",
	}
}

func (YAML) Operations() []tools.OperationSpec {
	doc := documentArg("YAML")
	return []tools.OperationSpec{
		{Name: "format", Description: "re-emit with consistent indentation, keeping key order and comments", Args: []tools.ArgSpec{
			doc, {Name: "indent", Description: "spaces per level (2-8)", Default: "2"},
		}},
		{Name: "validate", Description: "report whether every document parses", Args: []tools.ArgSpec{doc}},
		{Name: "to-json", Description: "convert to JSON; several documents become an array", Args: []tools.ArgSpec{doc, indentArg}},
	}
}

func (y YAML) Execute(action string, args map[string]string) (tools.Result, error) {
	docs, err := decodeYAML(tools.Input(args))
	if err != nil {
		return tools.Run("", err)
	}
	switch strings.TrimSpace(action) {
	case "format":
		indent, err := tools.Int(args, "indent", 2, 2, 8)
		if err != nil {
			return tools.Run("", err)
		}
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(indent)
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return tools.Run("", tools.Invalid("%v", err))
			}
		}
		if err := enc.Close(); err != nil {
			return tools.Run("", err)
		}
		return tools.Run(buf.String(), nil)
	case "validate":
		noun := "documents"
		if len(docs) == 1 {
			noun = "document"
		}
		return tools.Run(fmt.Sprintf("valid YAML (%d %s)", len(docs), noun), nil)
	case "to-json":
		return tools.Run(y.toJSON(docs, args))
	default:
		return tools.UnknownAction(YAMLID, action)
	}
}

func (YAML) toJSON(docs []*yaml.Node, args map[string]string) (string, error) {
	indent, err := indentString(args)
	if err != nil {
		return "", err
	}
	var raw bytes.Buffer
	w := newJSONWriter(&raw, docs)
	if len(docs) > 1 {
		raw.WriteByte('[')
	}
	for i, doc := range docs {
		if i > 0 {
			raw.WriteByte(',')
		}
		if err := w.write(doc); err != nil {
			return "", err
		}
	}
	if len(docs) > 1 {
		raw.WriteByte(']')
	}
	if indent == "" {
		return raw.String(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", indent); err != nil {
		return "", err
	}
	return out.String(), nil
}

// decodeYAML reads every document in the stream as a node tree.
func decodeYAML(input string) ([]*yaml.Node, error) {
	dec := yaml.NewDecoder(strings.NewReader(input))
	var docs []*yaml.Node
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, tools.Invalid("%v", err)
		}
		docs = append(docs, &node)
	}
	if len(docs) == 0 {
		return nil, tools.Invalid("empty YAML document")
	}
	return docs, nil
}

// Alias expansion is bounded by the size of the source tree so a few bytes of
// nested anchors cannot fan out into an unbounded document.
const (
	minExpandedNodes     = 10000
	expandedNodesPerNode = 100
	maxExpandedNodes     = 1000000
)

// jsonWriter walks the node tree so mapping key order survives conversion.
type jsonWriter struct {
	buf    *bytes.Buffer
	active map[*yaml.Node]bool
	budget int
}

func newJSONWriter(buf *bytes.Buffer, docs []*yaml.Node) *jsonWriter {
	n := 0
	for _, doc := range docs {
		n += countNodes(doc)
	}
	budget := n * expandedNodesPerNode
	budget = max(budget, minExpandedNodes)
	budget = min(budget, maxExpandedNodes)
	return &jsonWriter{buf: buf, active: make(map[*yaml.Node]bool), budget: budget}
}

// countNodes counts source nodes without following aliases.
func countNodes(node *yaml.Node) int {
	n := 1
	for _, child := range node.Content {
		n += countNodes(child)
	}
	return n
}

func (w *jsonWriter) write(node *yaml.Node) error {
	w.budget--
	if w.budget < 0 {
		return tools.Invalid("line %d: alias expansion exceeds the document size limit", node.Line)
	}
	if node.Anchor != "" {
		w.active[node] = true
		defer delete(w.active, node)
	}

	buf := w.buf
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return w.write(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil || w.active[node.Alias] {
			return tools.Invalid("line %d: recursive alias", node.Line)
		}
		return w.write(node.Alias)
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := w.write(item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if key.Tag == "!!merge" {
				return tools.Invalid("line %d: merge keys are not supported in JSON conversion", key.Line)
			}
			if i > 0 {
				buf.WriteByte(',')
			}
			if key.Kind != yaml.ScalarNode {
				return tools.Invalid("line %d: only scalar mapping keys convert to JSON", key.Line)
			}
			encoded, _ := json.Marshal(key.Value)
			buf.Write(encoded)
			buf.WriteByte(':')
			if err := w.write(value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return tools.Invalid("line %d: %v", node.Line, err)
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return tools.Invalid("line %d: %v", node.Line, err)
		}
		buf.Write(encoded)
		return nil
	}
}
