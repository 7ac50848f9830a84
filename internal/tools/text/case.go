// Package text holds the string manipulation and inspection tools.
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/danmuck/devkit/internal/tools"
)

const (
	Category = "text"
	CaseID   = "text.case"
	StatsID  = "text.stats"
	SlugID   = "text.slug"
	DiffID   = "text.diff"
	RegexID  = "text.regex"
)

var textArg = tools.ArgSpec{Name: tools.ArgInput, Description: "text", Required: true}

// splitWords breaks identifiers and prose into words at separators, case
// changes and letter/digit boundaries. Acronyms stay whole: "HTTPServer"
// yields "HTTP", "Server".
func splitWords(s string) []string {
	var (
		words []string
		cur   []rune
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(r):
				flush()
			case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			case unicode.IsDigit(prev) != unicode.IsDigit(r):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// Casers carry state, so each call builds its own.
func lower(s string) string { return cases.Lower(language.Und).String(s) }
func upper(s string) string { return cases.Upper(language.Und).String(s) }
func title(s string) string { return cases.Title(language.Und).String(s) }

type caseStyle struct {
	name    string
	convert func(words []string) string
}

func joinMapped(words []string, sep string, fn func(i int, w string) string) string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = fn(i, w)
	}
	return strings.Join(out, sep)
}

var caseStyles = []caseStyle{
	{"camel", func(w []string) string {
		return joinMapped(w, "", func(i int, s string) string {
			if i == 0 {
				return lower(s)
			}
			return title(s)
		})
	}},
	{"pascal", func(w []string) string {
		return joinMapped(w, "", func(_ int, s string) string { return title(s) })
	}},
	{"snake", func(w []string) string { return lower(strings.Join(w, "_")) }},
	{"kebab", func(w []string) string { return lower(strings.Join(w, "-")) }},
	{"constant", func(w []string) string { return upper(strings.Join(w, "_")) }},
	{"dot", func(w []string) string { return lower(strings.Join(w, ".")) }},
	{"path", func(w []string) string { return lower(strings.Join(w, "/")) }},
	{"title", func(w []string) string {
		return joinMapped(w, " ", func(_ int, s string) string { return title(s) })
	}},
	{"sentence", func(w []string) string {
		return joinMapped(w, " ", func(i int, s string) string {
			if i == 0 {
				return title(s)
			}
			return lower(s)
		})
	}},
	{"upper", func(w []string) string { return upper(strings.Join(w, " ")) }},
	{"lower", func(w []string) string { return lower(strings.Join(w, " ")) }},
}

func caseNames() []string {
	names := make([]string, len(caseStyles))
	for i, c := range caseStyles {
		names[i] = c.name
	}
	return names
}

// Case converts text between identifier and prose casing conventions.
type Case struct{}

func (Case) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          CaseID,
		Name:        "Case converter",
		Category:    Category,
		Description: "Convert text between camel, pascal, snake, kebab, constant and other cases",
	}
}

func (Case) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "convert", Description: "convert to one case", Args: []tools.ArgSpec{
			textArg, {Name: "to", Description: strings.Join(caseNames(), "|"), Required: true},
		}},
		{Name: "all", Description: "show every case", Args: []tools.ArgSpec{textArg}},
	}
}

func (Case) Execute(action string, args map[string]string) (tools.Result, error) {
	words := splitWords(tools.Input(args))
	switch strings.TrimSpace(action) {
	case "convert":
		to, err := tools.Choice(args, "to", "", caseNames()...)
		if err != nil {
			return tools.Run("", err)
		}
		for _, c := range caseStyles {
			if c.name == to {
				return tools.Run(c.convert(words), nil)
			}
		}
		return tools.Run("", tools.Invalid("unknown case %q", to))
	case "all":
		fields := make([]tools.Field, 0, len(caseStyles))
		for _, c := range caseStyles {
			fields = append(fields, tools.F(c.name, c.convert(words)))
		}
		return tools.Run(tools.RenderFields(fields), nil)
	default:
		return tools.UnknownAction(CaseID, action)
	}
}
