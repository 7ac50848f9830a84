// Package encoding holds the text/binary codec tools.
package encoding

import (
	stdbase64 "encoding/base64"
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/danmuck/devkit/internal/codec/base32"
	"github.com/danmuck/devkit/internal/codec/base58"
	"github.com/danmuck/devkit/internal/tools"
)

const Category = "encoding"

const (
	Base64ID = "encoding.base64"
	Base32ID = "encoding.base32"
	Base58ID = "encoding.base58"
	HexID    = "encoding.hex"
)

var inputArg = tools.ArgSpec{Name: tools.ArgInput, Description: "text to transform", Required: true}

// Base64 encodes and decodes RFC 4648 Base64 in standard and URL-safe forms.
type Base64 struct{}

func (Base64) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          Base64ID,
		Name:        "Base64",
		Category:    Category,
		Description: "Encode text to Base64 or decode Base64 back to text",
	}
}

func (Base64) Operations() []tools.OperationSpec {
	flags := []tools.ArgSpec{
		inputArg,
		{Name: "url", Description: "use the URL-safe alphabet", Default: "false"},
		{Name: "pad", Description: "emit '=' padding when encoding", Default: "true"},
	}
	return []tools.OperationSpec{
		{Name: "encode", Description: "text to Base64", Args: flags},
		{Name: "decode", Description: "Base64 to text", Args: flags[:2]},
	}
}

func (b Base64) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "encode":
		return tools.Run(b.encode(args))
	case "decode":
		return tools.Run(b.decode(args))
	default:
		return tools.UnknownAction(Base64ID, action)
	}
}

func (Base64) encode(args map[string]string) (string, error) {
	url, err := tools.Bool(args, "url", false)
	if err != nil {
		return "", err
	}
	pad, err := tools.Bool(args, "pad", true)
	if err != nil {
		return "", err
	}
	return base64Encoding(url, pad).EncodeToString([]byte(tools.Input(args))), nil
}

func (Base64) decode(args map[string]string) (string, error) {
	url, err := tools.Bool(args, "url", false)
	if err != nil {
		return "", err
	}
	in := stripSpace(tools.Input(args))
	// Accept either alphabet when the caller did not ask for one explicitly.
	if !url && strings.ContainsAny(in, "-_") {
		url = true
	}
	out, err := base64Encoding(url, false).DecodeString(strings.TrimRight(in, "="))
	if err != nil {
		return "", tools.Invalid("not valid Base64: %v", err)
	}
	return string(out), nil
}

func base64Encoding(url, pad bool) *stdbase64.Encoding {
	enc := stdbase64.StdEncoding
	if url {
		enc = stdbase64.URLEncoding
	}
	if !pad {
		enc = enc.WithPadding(stdbase64.NoPadding)
	}
	return enc
}

// Base32 wraps the RFC 4648 codec.
type Base32 struct{}

func (Base32) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          Base32ID,
		Name:        "Base32",
		Category:    Category,
		Description: "Encode text to RFC 4648 Base32 or decode it back",
	}
}

func (Base32) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "encode", Description: "text to Base32", Args: []tools.ArgSpec{
			inputArg,
			{Name: "pad", Description: "emit '=' padding", Default: "true"},
		}},
		{Name: "decode", Description: "Base32 to text", Args: []tools.ArgSpec{inputArg}},
	}
}

func (Base32) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "encode":
		pad, err := tools.Bool(args, "pad", true)
		if err != nil {
			return tools.Run("", err)
		}
		return tools.Run(base32.Encode([]byte(tools.Input(args)), pad), nil)
	case "decode":
		out, err := base32.Decode(tools.Input(args))
		if err != nil {
			return tools.Run("", tools.Invalid("%v", err))
		}
		return tools.Run(string(out), nil)
	default:
		return tools.UnknownAction(Base32ID, action)
	}
}

// Base58 wraps the Bitcoin-alphabet codec.
type Base58 struct{}

func (Base58) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          Base58ID,
		Name:        "Base58",
		Category:    Category,
		Description: "Encode text to Base58 (Bitcoin alphabet) or decode it back",
	}
}

func (Base58) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "encode", Description: "text to Base58", Args: []tools.ArgSpec{inputArg}},
		{Name: "decode", Description: "Base58 to text", Args: []tools.ArgSpec{inputArg}},
	}
}

func (Base58) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "encode":
		return tools.Run(base58.Encode([]byte(tools.Input(args))), nil)
	case "decode":
		out, err := base58.Decode(strings.TrimSpace(tools.Input(args)))
		if err != nil {
			return tools.Run("", tools.Invalid("%v", err))
		}
		return tools.Run(string(out), nil)
	default:
		return tools.UnknownAction(Base58ID, action)
	}
}

// Hex converts text to and from hexadecimal bytes.
type Hex struct{}

func (Hex) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          HexID,
		Name:        "Hex",
		Category:    Category,
		Description: "Convert text to hexadecimal bytes and back",
	}
}

func (Hex) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "encode", Description: "text to hex", Args: []tools.ArgSpec{
			inputArg,
			{Name: "upper", Description: "use upper-case digits", Default: "false"},
			{Name: "separator", Description: "string placed between bytes"},
		}},
		{Name: "decode", Description: "hex to text; accepts 0x, spaces and colons", Args: []tools.ArgSpec{inputArg}},
	}
}

func (Hex) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "encode":
		upper, err := tools.Bool(args, "upper", false)
		if err != nil {
			return tools.Run("", err)
		}
		in := []byte(tools.Input(args))
		parts := make([]string, len(in))
		for i, c := range in {
			parts[i] = hex.EncodeToString([]byte{c})
		}
		out := strings.Join(parts, args["separator"])
		if upper {
			out = strings.ToUpper(out)
		}
		return tools.Run(out, nil)
	case "decode":
		in := stripSpace(tools.Input(args))
		in = strings.ReplaceAll(in, ":", "")
		in = strings.ReplaceAll(strings.ReplaceAll(in, "0x", ""), "0X", "")
		out, err := hex.DecodeString(in)
		if err != nil {
			return tools.Run("", tools.Invalid("not valid hex: %v", err))
		}
		return tools.Run(string(out), nil)
	default:
		return tools.UnknownAction(HexID, action)
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
