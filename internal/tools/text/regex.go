package text

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/danmuck/devkit/internal/tools"
)

const regexTimeout = 2 * time.Second

// Regex tests JavaScript-style regular expressions against text.
type Regex struct{}

func (Regex) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          RegexID,
		Name:        "Regex tester",
		Category:    Category,
		Description: "Match or replace with ECMAScript regular expressions, including lookaround and backreferences",
	}
}

func (Regex) Operations() []tools.OperationSpec {
	common := []tools.ArgSpec{
		textArg,
		{Name: "pattern", Description: "expression without delimiters", Required: true},
		{Name: "flags", Description: "any of g i m s", Default: "g"},
	}
	replace := append(append([]tools.ArgSpec{}, common...), tools.ArgSpec{
		Name: "replacement", Description: "replacement with $1, ${name} and $& references",
	})
	return []tools.OperationSpec{
		{Name: "match", Description: "list matches and capture groups", Args: common},
		{Name: "replace", Description: "substitute matches", Args: replace},
	}
}

func (r Regex) Execute(action string, args map[string]string) (tools.Result, error) {
	re, global, err := compile(args)
	if err != nil {
		return tools.Run("", err)
	}
	input := tools.Input(args)
	switch strings.TrimSpace(action) {
	case "match":
		return tools.Run(r.match(re, input, global))
	case "replace":
		count := -1
		if !global {
			count = 1
		}
		out, err := re.Replace(input, args["replacement"], -1, count)
		if err != nil {
			return tools.Run("", tools.Invalid("%v", err))
		}
		return tools.Run(out, nil)
	default:
		return tools.UnknownAction(RegexID, action)
	}
}

func compile(args map[string]string) (*regexp2.Regexp, bool, error) {
	opts := regexp2.RegexOptions(regexp2.ECMAScript)
	global := false
	for _, f := range tools.String(args, "flags", "g") {
		switch f {
		case 'g':
			global = true
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		case 's':
			opts |= regexp2.Singleline
		default:
			return nil, false, tools.Invalid("unsupported flag %q", f)
		}
	}
	re, err := regexp2.Compile(args["pattern"], opts)
	if err != nil {
		return nil, false, tools.Invalid("%v", err)
	}
	re.MatchTimeout = regexTimeout
	return re, global, nil
}

func (Regex) match(re *regexp2.Regexp, input string, global bool) (string, error) {
	var lines []string
	n := 0
	m, err := re.FindStringMatch(input)
	for m != nil && err == nil {
		n++
		lines = append(lines, fmt.Sprintf("match %d at %d: %q", n, m.Index, m.String()))
		for i, g := range m.Groups() {
			if i == 0 {
				continue
			}
			value := "(unmatched)"
			if len(g.Captures) > 0 {
				value = fmt.Sprintf("%q", g.String())
			}
			lines = append(lines, fmt.Sprintf("  group %s: %s", g.Name, value))
		}
		if !global {
			break
		}
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return "", tools.Invalid("%v", err)
	}
	if n == 0 {
		return "no matches", nil
	}
	return strings.Join(lines, "\n"), nil
}
