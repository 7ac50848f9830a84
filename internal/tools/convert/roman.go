package convert

import (
	"strconv"
	"strings"

	"github.com/danmuck/devkit/internal/tools"
)

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func toRoman(n int) string {
	var b strings.Builder
	for _, r := range romanNumerals {
		for n >= r.value {
			b.WriteString(r.symbol)
			n -= r.value
		}
	}
	return b.String()
}

// fromRoman accepts only the canonical subtractive form, so "IIII" and "VX"
// are rejected.
func fromRoman(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, tools.Invalid("empty numeral")
	}
	n, rest := 0, s
	for _, r := range romanNumerals {
		for strings.HasPrefix(rest, r.symbol) {
			n += r.value
			rest = rest[len(r.symbol):]
		}
	}
	if rest != "" || n > 3999 || toRoman(n) != s {
		return 0, tools.Invalid("%q is not a canonical roman numeral", s)
	}
	return n, nil
}

// Roman converts between integers and roman numerals.
type Roman struct{}

func (Roman) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          RomanID,
		Name:        "Roman numerals",
		Category:    Category,
		Description: "Convert integers 1-3999 to and from roman numerals",
	}
}

func (Roman) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "to-roman", Description: "integer to numeral", Args: []tools.ArgSpec{
			{Name: tools.ArgInput, Description: "integer 1-3999", Required: true},
		}},
		{Name: "from-roman", Description: "numeral to integer", Args: []tools.ArgSpec{
			{Name: tools.ArgInput, Description: "canonical numeral", Required: true},
		}},
	}
}

func (Roman) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "to-roman":
		raw := strings.TrimSpace(tools.Input(args))
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 3999 {
			return tools.Run("", tools.Invalid("%q is not an integer between 1 and 3999", raw))
		}
		return tools.Run(toRoman(n), nil)
	case "from-roman":
		n, err := fromRoman(tools.Input(args))
		if err != nil {
			return tools.Run("", err)
		}
		return tools.Run(strconv.Itoa(n), nil)
	default:
		return tools.UnknownAction(RomanID, action)
	}
}
