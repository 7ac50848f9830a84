package format

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/danmuck/devkit/internal/tools"
)

// HCL formats HashiCorp configuration and converts it to JSON.
type HCL struct{}

func (HCL) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          HCLID,
		Name:        "HCL formatter",
		Category:    Category,
		Description: "Canonically format HCL or convert constant HCL to JSON",
	}
}

func (HCL) Operations() []tools.OperationSpec {
	doc := documentArg("HCL")
	return []tools.OperationSpec{
		{Name: "format", Description: "canonical hclfmt layout", Args: []tools.ArgSpec{doc}},
		{Name: "to-json", Description: "evaluate attributes without variables or functions and emit JSON", Args: []tools.ArgSpec{doc, indentArg}},
	}
}

func (h HCL) Execute(action string, args map[string]string) (tools.Result, error) {
	src := []byte(tools.Input(args))
	file, diags := hclsyntax.ParseConfig(src, "input.hcl", hcl.Pos{Line: 1, Column: 1, Byte: 0})
	if diags.HasErrors() {
		return tools.Run("", tools.Invalid("%s", diags.Error()))
	}
	switch strings.TrimSpace(action) {
	case "format":
		return tools.Run(string(hclwrite.Format(src)), nil)
	case "to-json":
		return tools.Run(h.toJSON(file, args))
	default:
		return tools.UnknownAction(HCLID, action)
	}
}

func (HCL) toJSON(file *hcl.File, args map[string]string) (string, error) {
	indent, err := indentString(args)
	if err != nil {
		return "", err
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return "", tools.Invalid("unsupported HCL body")
	}
	obj, err := bodyObject(body)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	if indent == "" {
		return string(raw), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", indent); err != nil {
		return "", err
	}
	return out.String(), nil
}

// blockList holds every body for one block type and label path. A single
// block renders as an object, repeated blocks as an array.
type blockList []map[string]any

func (l blockList) MarshalJSON() ([]byte, error) {
	if len(l) == 1 {
		return json.Marshal(l[0])
	}
	return json.Marshal([]map[string]any(l))
}

// bodyObject mirrors the HCL JSON syntax: blocks nest by type then labels.
func bodyObject(body *hclsyntax.Body) (map[string]any, error) {
	obj := make(map[string]any, len(body.Attributes)+len(body.Blocks))
	for name, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, tools.Invalid("%s", diags.Error())
		}
		raw, err := ctyjson.SimpleJSONValue{Value: val}.MarshalJSON()
		if err != nil {
			return nil, tools.Invalid("attribute %s: %v", name, err)
		}
		obj[name] = json.RawMessage(raw)
	}
	for _, block := range body.Blocks {
		child, err := bodyObject(block.Body)
		if err != nil {
			return nil, err
		}
		line := block.TypeRange.Start.Line
		if _, clash := body.Attributes[block.Type]; clash {
			return nil, tools.Invalid("line %d: block %q collides with an attribute of the same name", line, block.Type)
		}
		parent := obj
		keys := append([]string{block.Type}, block.Labels...)
		for _, key := range keys[:len(keys)-1] {
			existing, present := parent[key]
			next, ok := existing.(map[string]any)
			if present && !ok {
				return nil, tools.Invalid("line %d: blocks of type %q use inconsistent labels", line, block.Type)
			}
			if !ok {
				next = map[string]any{}
				parent[key] = next
			}
			parent = next
		}
		leaf := keys[len(keys)-1]
		existing, present := parent[leaf]
		list, ok := existing.(blockList)
		if present && !ok {
			return nil, tools.Invalid("line %d: blocks of type %q use inconsistent labels", line, block.Type)
		}
		parent[leaf] = append(list, child)
	}
	return obj, nil
}
