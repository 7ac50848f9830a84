package text

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/danmuck/devkit/internal/tools"
)

// Diff compares two texts line by line.
type Diff struct{}

func (Diff) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          DiffID,
		Name:        "Text diff",
		Category:    Category,
		Description: "Show a unified diff between two texts",
	}
}

func (Diff) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "unified", Description: "unified diff of a against b", Args: []tools.ArgSpec{
			{Name: "a", Description: "original text", Required: true},
			{Name: "b", Description: "changed text", Required: true},
			{Name: "context", Description: "unchanged lines around each hunk (0-100)", Default: "3"},
			{Name: "a_name", Default: "a"},
			{Name: "b_name", Default: "b"},
		}},
	}
}

func (d Diff) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "unified":
		return tools.Run(d.unified(args))
	default:
		return tools.UnknownAction(DiffID, action)
	}
}

func (Diff) unified(args map[string]string) (string, error) {
	context, err := tools.Int(args, "context", 3, 0, 100)
	if err != nil {
		return "", err
	}
	a := strings.ReplaceAll(args["a"], "\r\n", "\n")
	b := strings.ReplaceAll(args["b"], "\r\n", "\n")
	if a == b {
		return "no differences", nil
	}
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: tools.String(args, "a_name", "a"),
		ToFile:   tools.String(args, "b_name", "b"),
		Context:  context,
	})
	if err != nil {
		return "", err
	}
	return out, nil
}
