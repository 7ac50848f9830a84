package catalog

import (
	"errors"
	"testing"

	"github.com/danmuck/devkit/internal/testutil/testlog"
	"github.com/danmuck/devkit/internal/tools"
)

func TestNewRegistryAllBuiltins(t *testing.T) {
	testlog.Start(t)
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if reg.Len() != len(Builtins()) {
		t.Fatalf("expected %d tools, got %d", len(Builtins()), reg.Len())
	}

	known := map[string]bool{}
	for _, c := range Categories() {
		known[c.ID] = true
	}
	for _, c := range reg.Categories() {
		if !known[c] {
			t.Fatalf("category %q used by a tool but missing from Categories()", c)
		}
	}
	if len(reg.Categories()) != len(Categories()) {
		t.Fatalf("expected every category to hold a tool")
	}
}

func TestBuiltinsDeclareValidOperations(t *testing.T) {
	testlog.Start(t)
	for _, tool := range Builtins() {
		meta := tool.Metadata()
		if err := tools.ValidateMetadata(meta); err != nil {
			t.Fatalf("%s: %v", meta.ID, err)
		}
		ops := tool.Operations()
		if len(ops) == 0 {
			t.Fatalf("%s declares no operations", meta.ID)
		}
		seen := map[string]bool{}
		for _, op := range ops {
			if seen[op.Name] {
				t.Fatalf("%s declares %q twice", meta.ID, op.Name)
			}
			seen[op.Name] = true
		}
		if _, err := tool.Execute("no-such-action", map[string]string{}); !errors.Is(err, tools.ErrActionNotFound) && !errors.Is(err, tools.ErrInvalidInput) {
			t.Fatalf("%s: unexpected error for unknown action: %v", meta.ID, err)
		}
	}
}

func TestNewRegistrySelection(t *testing.T) {
	testlog.Start(t)
	reg, err := NewRegistry([]string{"encoding.base64", " network ", "none", "encoding.base64"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if reg.Len() != 3 {
		t.Fatalf("expected 3 tools, got %d", reg.Len())
	}
	if _, ok := reg.Resolve("network.ipv4"); !ok {
		t.Fatalf("expected category selection to include network.ipv4")
	}
	if _, ok := reg.Resolve("crypto.hash"); ok {
		t.Fatalf("crypto.hash should not be enabled")
	}
}

func TestNewRegistryUnknownTool(t *testing.T) {
	testlog.Start(t)
	_, err := NewRegistry([]string{"encoding.rot13"})
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
}

func TestNewRegistryOnlyNone(t *testing.T) {
	testlog.Start(t)
	reg, err := NewRegistry([]string{"none"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}
}
