// Package catalog is the static list of builtin tools and their categories.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/danmuck/devkit/internal/tools"
	"github.com/danmuck/devkit/internal/tools/convert"
	"github.com/danmuck/devkit/internal/tools/crypto"
	"github.com/danmuck/devkit/internal/tools/encoding"
	"github.com/danmuck/devkit/internal/tools/format"
	"github.com/danmuck/devkit/internal/tools/generator"
	"github.com/danmuck/devkit/internal/tools/network"
	"github.com/danmuck/devkit/internal/tools/text"
	"github.com/danmuck/devkit/internal/tools/timeutil"
)

var ErrUnknownTool = errors.New("unknown builtin tool")

// Category groups tools for listings.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var categories = []Category{
	{ID: encoding.Category, Name: "Encoding", Description: "Binary-to-text codecs, URL, HTML and JWT"},
	{ID: crypto.Category, Name: "Crypto", Description: "Message digests and HMACs"},
	{ID: generator.Category, Name: "Generators", Description: "UUIDs, passwords, random numbers and placeholder text"},
	{ID: format.Category, Name: "Formatters", Description: "JSON, YAML, XML, HCL and Markdown"},
	{ID: network.Category, Name: "Network", Description: "IPv4 subnets and address notations"},
	{ID: timeutil.Category, Name: "Time", Description: "Cron schedules, timestamps and durations"},
	{ID: text.Category, Name: "Text", Description: "Case, slugs, statistics, diffs and regular expressions"},
	{ID: convert.Category, Name: "Converters", Description: "Number bases, roman numerals and byte sizes"},
}

// Categories returns every category in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Builtins returns a fresh instance of every tool in display order.
func Builtins() []tools.Tool {
	return []tools.Tool{
		encoding.Base64{}, encoding.Base32{}, encoding.Base58{}, encoding.Hex{},
		encoding.URL{}, encoding.HTML{}, encoding.JWT{},
		crypto.Hash{}, crypto.HMAC{},
		generator.UUID{}, generator.Password{}, generator.Number{}, generator.Shuffle{}, generator.Lorem{},
		format.JSON{}, format.YAML{}, format.XML{}, format.HCL{}, format.Markdown{},
		network.Subnet{}, network.IPv4{},
		timeutil.Cron{}, timeutil.Timestamp{}, timeutil.Duration{},
		text.Case{}, text.Stats{}, text.Slug{}, text.Diff{}, text.Regex{},
		convert.Base{}, convert.Roman{}, convert.Bytes{},
	}
}

// NewRegistry registers the enabled builtins. Entries may be tool IDs or
// category IDs; an empty list enables everything and "none" is skipped.
func NewRegistry(enabled []string) (*tools.Registry, error) {
	reg := tools.NewRegistry()
	builtins := Builtins()

	want, err := resolve(enabled, builtins)
	if err != nil {
		return nil, err
	}
	for _, tool := range builtins {
		if want != nil {
			if _, ok := want[tool.Metadata().ID]; !ok {
				continue
			}
		}
		if err := reg.Register(tool); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// resolve expands the enabled list into a set of tool IDs. A nil set means all.
func resolve(enabled []string, builtins []tools.Tool) (map[string]struct{}, error) {
	if len(enabled) == 0 {
		return nil, nil
	}
	byCategory := make(map[string][]string)
	known := make(map[string]struct{}, len(builtins))
	for _, tool := range builtins {
		meta := tool.Metadata()
		known[meta.ID] = struct{}{}
		byCategory[meta.Category] = append(byCategory[meta.Category], meta.ID)
	}

	want := make(map[string]struct{})
	for _, raw := range enabled {
		id := strings.ToLower(strings.TrimSpace(raw))
		if id == "" || id == "none" {
			continue
		}
		if ids, ok := byCategory[id]; ok {
			for _, toolID := range ids {
				want[toolID] = struct{}{}
			}
			continue
		}
		if _, ok := known[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTool, id)
		}
		want[id] = struct{}{}
	}
	return want, nil
}
