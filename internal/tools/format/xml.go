package format

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/devkit/internal/tools"
)

// XML pretty-prints, minifies and validates XML documents.
type XML struct{}

func (XML) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          XMLID,
		Name:        "XML formatter",
		Category:    Category,
		Description: "Format, minify or validate XML",
	}
}

func (XML) Operations() []tools.OperationSpec {
	doc := documentArg("XML")
	return []tools.OperationSpec{
		{Name: "format", Description: "pretty-print", Args: []tools.ArgSpec{doc, indentArg}},
		{Name: "minify", Description: "drop whitespace between elements", Args: []tools.ArgSpec{doc}},
		{Name: "validate", Description: "check well-formedness", Args: []tools.ArgSpec{doc}},
	}
}

func (XML) Execute(action string, args map[string]string) (tools.Result, error) {
	toks, stats, err := readXML(tools.Input(args))
	if err != nil {
		return tools.Run("", err)
	}
	switch strings.TrimSpace(action) {
	case "format":
		indent, err := indentString(args)
		if err != nil {
			return tools.Run("", err)
		}
		return tools.Run(writeXML(toks, indent, true), nil)
	case "minify":
		return tools.Run(writeXML(toks, "", false), nil)
	case "validate":
		return tools.Run(tools.RenderFields([]tools.Field{
			tools.F("status", "well-formed"),
			tools.F("root", stats.root),
			tools.F("elements", stats.elements),
			tools.F("max_depth", stats.maxDepth),
		}), nil)
	default:
		return tools.UnknownAction(XMLID, action)
	}
}

type xmlStats struct {
	root     string
	elements int
	maxDepth int
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// readXML tokenizes without namespace translation so prefixes are preserved,
// checking element nesting itself.
func readXML(input string) ([]xml.Token, xmlStats, error) {
	var stats xmlStats
	if strings.TrimSpace(input) == "" {
		return nil, stats, tools.Invalid("empty XML document")
	}
	dec := xml.NewDecoder(strings.NewReader(input))
	var (
		toks  []xml.Token
		stack []string
		roots int
	)
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, tools.Invalid("%v", err)
		}
		line, _ := dec.InputPos()
		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				roots++
				if roots > 1 {
					return nil, stats, tools.Invalid("line %d: more than one root element", line)
				}
				stats.root = qname(t.Name)
			}
			stack = append(stack, qname(t.Name))
			stats.elements++
			stats.maxDepth = max(stats.maxDepth, len(stack))
		case xml.EndElement:
			name := qname(t.Name)
			if len(stack) == 0 || stack[len(stack)-1] != name {
				return nil, stats, tools.Invalid("line %d: unexpected closing tag </%s>", line, name)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 && strings.TrimSpace(string(t)) != "" {
				return nil, stats, tools.Invalid("line %d: text outside the root element", line)
			}
		}
		toks = append(toks, xml.CopyToken(tok))
	}
	if len(stack) > 0 {
		return nil, stats, tools.Invalid("unclosed element <%s>", stack[len(stack)-1])
	}
	if roots == 0 {
		return nil, stats, tools.Invalid("no root element")
	}
	return toks, stats, nil
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func startTag(t xml.StartElement, selfClose bool) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(qname(t.Name))
	for _, a := range t.Attr {
		fmt.Fprintf(&b, ` %s="%s"`, qname(a.Name), attrEscaper.Replace(a.Value))
	}
	if selfClose {
		b.WriteByte('/')
	}
	b.WriteByte('>')
	return b.String()
}

// writeXML serializes tokens one node per line. Elements holding only text
// stay on one line, and empty elements collapse to self-closing tags.
func writeXML(toks []xml.Token, indent string, pretty bool) string {
	var b strings.Builder
	depth := 0
	line := func(s string) {
		if pretty {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(strings.Repeat(indent, depth))
		}
		b.WriteString(s)
	}
	for i := 0; i < len(toks); i++ {
		switch t := toks[i].(type) {
		case xml.ProcInst:
			line(fmt.Sprintf("<?%s %s?>", t.Target, strings.TrimSpace(string(t.Inst))))
		case xml.Directive:
			line("<!" + string(t) + ">")
		case xml.Comment:
			line("<!--" + string(t) + "-->")
		case xml.StartElement:
			if i+1 < len(toks) {
				if _, ok := toks[i+1].(xml.EndElement); ok {
					line(startTag(t, true))
					i++
					continue
				}
			}
			if i+2 < len(toks) {
				text, isText := toks[i+1].(xml.CharData)
				_, closes := toks[i+2].(xml.EndElement)
				if isText && closes {
					body := string(text)
					if pretty {
						body = strings.TrimSpace(body)
					}
					line(startTag(t, false) + textEscaper.Replace(body) + "</" + qname(t.Name) + ">")
					i += 2
					continue
				}
			}
			line(startTag(t, false))
			depth++
		case xml.EndElement:
			depth--
			line("</" + qname(t.Name) + ">")
		case xml.CharData:
			text := string(t)
			if strings.TrimSpace(text) == "" {
				continue
			}
			if pretty {
				text = strings.TrimSpace(text)
			}
			line(textEscaper.Replace(text))
		}
	}
	return b.String()
}
