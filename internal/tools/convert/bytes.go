package convert

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danmuck/devkit/internal/tools"
)

// Bytes converts between raw byte counts and human-readable sizes.
type Bytes struct{}

func (Bytes) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          BytesID,
		Name:        "Byte size converter",
		Category:    Category,
		Description: "Render byte counts as SI or IEC sizes and parse sizes such as \"1.5 GB\"",
	}
}

func (Bytes) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "humanize", Description: "byte count to size", Args: []tools.ArgSpec{
			{Name: tools.ArgInput, Description: "number of bytes", Required: true},
			{Name: "system", Description: "si (1000) or iec (1024)", Default: "si"},
		}},
		{Name: "parse", Description: "size to byte count in every form", Args: []tools.ArgSpec{
			{Name: tools.ArgInput, Description: "size such as 1.5 GB, 10MiB or 4096", Required: true},
		}},
	}
}

func (Bytes) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "humanize":
		system, err := tools.Choice(args, "system", "si", "si", "iec")
		if err != nil {
			return tools.Run("", err)
		}
		raw := strings.ReplaceAll(strings.TrimSpace(tools.Input(args)), ",", "")
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return tools.Run("", tools.Invalid("%q is not a non-negative byte count", raw))
		}
		if system == "iec" {
			return tools.Run(humanize.IBytes(n), nil)
		}
		return tools.Run(humanize.Bytes(n), nil)
	case "parse":
		n, err := humanize.ParseBytes(strings.TrimSpace(tools.Input(args)))
		if err != nil {
			return tools.Run("", tools.Invalid("%v", err))
		}
		return tools.Run(tools.RenderFields([]tools.Field{
			tools.F("bytes", n),
			tools.F("grouped", humanize.BigComma(new(big.Int).SetUint64(n))),
			tools.F("si", humanize.Bytes(n)),
			tools.F("iec", humanize.IBytes(n)),
		}), nil)
	default:
		return tools.UnknownAction(BytesID, action)
	}
}
