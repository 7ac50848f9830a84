// Package convert holds the number and unit conversion tools.
package convert

import (
	"math/big"
	"strings"

	"github.com/danmuck/devkit/internal/tools"
)

const (
	Category = "convert"
	BaseID   = "convert.base"
	RomanID  = "convert.roman"
	BytesID  = "convert.bytes"
)

var basePrefixes = map[int]string{2: "0b", 8: "0o", 16: "0x"}

// parseInBase reads an arbitrary precision integer, allowing an optional sign,
// the conventional prefix for bases 2, 8 and 16, and _ or space digit grouping.
func parseInBase(raw string, base int) (*big.Int, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("_", "", " ", "").Replace(s)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if p, ok := basePrefixes[base]; ok {
		s = strings.TrimPrefix(s, p)
	}
	if s == "" {
		return nil, tools.Invalid("empty number")
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, tools.Invalid("%q is not a base %d number", strings.TrimSpace(raw), base)
	}
	if neg {
		v.Neg(v)
	}
	return v, nil
}

// Base converts integers between radixes 2 through 36.
type Base struct{}

func (Base) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          BaseID,
		Name:        "Number base converter",
		Category:    Category,
		Description: "Convert arbitrarily large integers between bases 2 and 36",
	}
}

func (Base) Operations() []tools.OperationSpec {
	number := tools.ArgSpec{Name: tools.ArgInput, Description: "integer, optionally signed", Required: true}
	from := tools.ArgSpec{Name: "from", Description: "input base (2-36)", Default: "10"}
	return []tools.OperationSpec{
		{Name: "convert", Description: "convert to one base", Args: []tools.ArgSpec{
			number, from,
			{Name: "to", Description: "output base (2-36)", Default: "16"},
			{Name: "upper", Description: "upper-case letter digits", Default: "false"},
		}},
		{Name: "all", Description: "binary, octal, decimal and hex", Args: []tools.ArgSpec{number, from}},
	}
}

func (b Base) Execute(action string, args map[string]string) (tools.Result, error) {
	from, err := tools.Int(args, "from", 10, 2, 36)
	if err != nil {
		return tools.Run("", err)
	}
	v, err := parseInBase(tools.Input(args), from)
	if err != nil {
		return tools.Run("", err)
	}
	switch strings.TrimSpace(action) {
	case "convert":
		to, err := tools.Int(args, "to", 16, 2, 36)
		if err != nil {
			return tools.Run("", err)
		}
		upper, err := tools.Bool(args, "upper", false)
		if err != nil {
			return tools.Run("", err)
		}
		out := v.Text(to)
		if upper {
			out = strings.ToUpper(out)
		}
		return tools.Run(out, nil)
	case "all":
		return tools.Run(tools.RenderFields([]tools.Field{
			tools.F("binary", v.Text(2)),
			tools.F("octal", v.Text(8)),
			tools.F("decimal", v.Text(10)),
			tools.F("hex", v.Text(16)),
			tools.F("bits", v.BitLen()),
		}), nil)
	default:
		return tools.UnknownAction(BaseID, action)
	}
}
