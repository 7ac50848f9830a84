package format

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/danmuck/devkit/internal/tools"
)

// Markdown renders CommonMark with GitHub extensions to sanitized HTML.
type Markdown struct{}

func (Markdown) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          MarkdownID,
		Name:        "Markdown preview",
		Category:    Category,
		Description: "Render Markdown (GFM tables, task lists, strikethrough) to sanitized HTML",
	}
}

func (Markdown) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "to-html", Description: "render and sanitize", Args: []tools.ArgSpec{
			documentArg("Markdown"),
			{Name: "allow_html", Description: "pass raw HTML through the sanitizer instead of dropping it", Default: "false"},
		}},
	}
}

func (m Markdown) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "to-html":
		return tools.Run(m.render(args))
	default:
		return tools.UnknownAction(MarkdownID, action)
	}
}

func (Markdown) render(args map[string]string) (string, error) {
	allowHTML, err := tools.Bool(args, "allow_html", false)
	if err != nil {
		return "", err
	}
	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	if allowHTML {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	md := goldmark.New(rendererOpts...)

	var buf bytes.Buffer
	if err := md.Convert([]byte(tools.Input(args)), &buf); err != nil {
		return "", tools.Invalid("%v", err)
	}
	return string(bluemonday.UGCPolicy().SanitizeBytes(buf.Bytes())), nil
}
