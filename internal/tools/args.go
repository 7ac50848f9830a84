package tools

import (
	"strconv"
	"strings"
)

// ArgInput is the conventional name of the primary text argument.
const ArgInput = "input"

// Input returns the primary text argument untouched.
func Input(args map[string]string) string {
	return args[ArgInput]
}

// String returns the trimmed argument value, or def when it is blank.
func String(args map[string]string, name, def string) string {
	v := strings.TrimSpace(args[name])
	if v == "" {
		return def
	}
	return v
}

// Bool parses a boolean argument. Blank values yield def.
func Bool(args map[string]string, name string, def bool) (bool, error) {
	raw := strings.TrimSpace(args[name])
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(raw) {
	case "yes", "on", "y":
		return true, nil
	case "no", "off", "n":
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, Invalid("%s must be a boolean, got %q", name, raw)
	}
	return v, nil
}

// Int parses an integer argument within [lo, hi]. Blank values yield def.
func Int(args map[string]string, name string, def, lo, hi int) (int, error) {
	raw := strings.TrimSpace(args[name])
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, Invalid("%s must be an integer, got %q", name, raw)
	}
	if v < lo || v > hi {
		return 0, Invalid("%s must be between %d and %d, got %d", name, lo, hi, v)
	}
	return v, nil
}

// Choice returns the lowercased argument if it is one of allowed.
func Choice(args map[string]string, name, def string, allowed ...string) (string, error) {
	v := strings.ToLower(String(args, name, def))
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", Invalid("%s must be one of %s, got %q", name, strings.Join(allowed, "|"), v)
}

// Lines splits input on newlines and drops blank lines.
func Lines(input string) []string {
	raw := strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
