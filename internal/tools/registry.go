package tools

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrToolExists      = errors.New("tool already exists")
	ErrToolNil         = errors.New("tool is nil")
	ErrToolNotFound    = errors.New("tool not found")
	ErrInvalidMetadata = errors.New("invalid tool metadata")
)

// Registry stores tools by stable identifier.
type Registry struct {
	mu    sync.RWMutex
	items map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]Tool)}
}

// ValidateMetadata checks required metadata fields and id format. The id must
// be prefixed by its category, e.g. "encoding.base32".
func ValidateMetadata(meta Metadata) error {
	id := strings.TrimSpace(meta.ID)
	name := strings.TrimSpace(meta.Name)
	desc := strings.TrimSpace(meta.Description)
	category := strings.TrimSpace(meta.Category)
	if id == "" || name == "" || desc == "" || category == "" {
		return fmt.Errorf("%w: id, name, category, and description are required", ErrInvalidMetadata)
	}
	if !isValidID(id) {
		return fmt.Errorf("%w: invalid id format %q", ErrInvalidMetadata, id)
	}
	if !strings.HasPrefix(id, category+".") {
		return fmt.Errorf("%w: id %q must start with category %q", ErrInvalidMetadata, id, category)
	}
	return nil
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return ErrToolNil
	}

	meta := tool.Metadata()
	if err := ValidateMetadata(meta); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[meta.ID]; ok {
		return fmt.Errorf("%w: %s", ErrToolExists, meta.ID)
	}
	r.items[meta.ID] = tool
	return nil
}

// Resolve returns a tool by id.
func (r *Registry) Resolve(id string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.items[strings.TrimSpace(id)]
	return tool, ok
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// ListMetadata returns deterministic metadata ordering by id. A non-empty
// category filters the list.
func (r *Registry) ListMetadata(category string) []Metadata {
	r.mu.RLock()
	list := make([]Metadata, 0, len(r.items))
	for _, tool := range r.items {
		meta := tool.Metadata()
		if category != "" && meta.Category != category {
			continue
		}
		list = append(list, meta)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].ID < list[j].ID
	})
	return list
}

// Categories returns the distinct categories in use, sorted.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	seen := make(map[string]struct{})
	for _, tool := range r.items {
		seen[tool.Metadata().Category] = struct{}{}
	}
	r.mu.RUnlock()

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Operation looks up one action on a tool.
func Operation(tool Tool, action string) (OperationSpec, bool) {
	for _, op := range tool.Operations() {
		if op.Name == action {
			return op, true
		}
	}
	return OperationSpec{}, false
}

func isValidID(id string) bool {
	if id == "" {
		return false
	}
	lastSep := false
	for i := 0; i < len(id); i++ {
		c := id[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '.' || c == '-' || c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if i == 0 || i == len(id)-1 {
			if isSep {
				return false
			}
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}
