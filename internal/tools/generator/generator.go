// Package generator holds the tools that produce random or synthetic values.
// All randomness comes from crypto/rand.
package generator

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danmuck/devkit/internal/tools"
)

const (
	Category   = "generator"
	UUIDID     = "generator.uuid"
	PasswordID = "generator.password"
	NumberID   = "generator.number"
	ShuffleID  = "generator.shuffle"
)

const maxCount = 1000

var countArg = tools.ArgSpec{Name: "count", Description: "how many values to produce (1-1000)", Default: "1"}

// randIntn returns a uniform integer in [0, n).
func randIntn(n int64) (int64, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

func shuffle[T any](items []T) error {
	for i := len(items) - 1; i > 0; i-- {
		j, err := randIntn(int64(i + 1))
		if err != nil {
			return err
		}
		items[i], items[j] = items[j], items[i]
	}
	return nil
}

// UUID generates and inspects RFC 9562 identifiers.
type UUID struct{}

func (UUID) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          UUIDID,
		Name:        "UUID",
		Category:    Category,
		Description: "Generate version 4 or 7 UUIDs and inspect existing ones",
	}
}

func (UUID) Operations() []tools.OperationSpec {
	upper := tools.ArgSpec{Name: "upper", Description: "upper-case hex digits", Default: "false"}
	return []tools.OperationSpec{
		{Name: "v4", Description: "random UUIDs", Args: []tools.ArgSpec{countArg, upper}},
		{Name: "v7", Description: "time-ordered UUIDs", Args: []tools.ArgSpec{countArg, upper}},
		{Name: "parse", Description: "report version, variant and embedded time", Args: []tools.ArgSpec{
			{Name: tools.ArgInput, Description: "UUID in any common form", Required: true},
		}},
	}
}

func (u UUID) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "v4":
		return tools.Run(u.generate(args, uuid.NewRandom))
	case "v7":
		return tools.Run(u.generate(args, uuid.NewV7))
	case "parse":
		return tools.Run(u.parse(strings.TrimSpace(tools.Input(args))))
	default:
		return tools.UnknownAction(UUIDID, action)
	}
}

func (UUID) generate(args map[string]string, next func() (uuid.UUID, error)) (string, error) {
	count, err := tools.Int(args, "count", 1, 1, maxCount)
	if err != nil {
		return "", err
	}
	upper, err := tools.Bool(args, "upper", false)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id, err := next()
		if err != nil {
			return "", err
		}
		s := id.String()
		if upper {
			s = strings.ToUpper(s)
		}
		lines = append(lines, s)
	}
	return strings.Join(lines, "\n"), nil
}

func (UUID) parse(raw string) (string, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", tools.Invalid("%v", err)
	}
	fields := []tools.Field{
		tools.F("canonical", id.String()),
		tools.F("version", int(id.Version())),
		tools.F("variant", id.Variant().String()),
	}
	switch id.Version() {
	case 1, 2, 6, 7:
		sec, nsec := id.Time().UnixTime()
		fields = append(fields, tools.F("time", time.Unix(sec, nsec).UTC().Format(time.RFC3339Nano)))
	}
	if id == uuid.Nil {
		fields = append(fields, tools.F("nil", true))
	}
	return tools.RenderFields(fields), nil
}

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.<>/?~"
	ambiguous   = "Il1O0o"
)

// Password produces random strings from selectable character classes.
type Password struct{}

func (Password) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          PasswordID,
		Name:        "Password generator",
		Category:    Category,
		Description: "Generate random passwords or tokens from chosen character classes",
	}
}

func (Password) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "generate", Description: "random strings; every enabled class appears at least once", Args: []tools.ArgSpec{
			{Name: "length", Description: "characters per password (1-1024)", Default: "16"},
			{Name: "lower", Default: "true"},
			{Name: "upper", Default: "true"},
			{Name: "digits", Default: "true"},
			{Name: "symbols", Default: "false"},
			{Name: "exclude_ambiguous", Description: "drop look-alike characters such as l, 1, O and 0", Default: "false"},
			countArg,
		}},
	}
}

func (p Password) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "generate":
		return tools.Run(p.generate(args))
	default:
		return tools.UnknownAction(PasswordID, action)
	}
}

func (Password) generate(args map[string]string) (string, error) {
	length, err := tools.Int(args, "length", 16, 1, 1024)
	if err != nil {
		return "", err
	}
	count, err := tools.Int(args, "count", 1, 1, maxCount)
	if err != nil {
		return "", err
	}
	noAmbiguous, err := tools.Bool(args, "exclude_ambiguous", false)
	if err != nil {
		return "", err
	}

	var classes []string
	for _, c := range []struct {
		name  string
		def   bool
		chars string
	}{
		{"lower", true, lowerChars},
		{"upper", true, upperChars},
		{"digits", true, digitChars},
		{"symbols", false, symbolChars},
	} {
		on, err := tools.Bool(args, c.name, c.def)
		if err != nil {
			return "", err
		}
		if !on {
			continue
		}
		chars := c.chars
		if noAmbiguous {
			chars = strings.Map(func(r rune) rune {
				if strings.ContainsRune(ambiguous, r) {
					return -1
				}
				return r
			}, chars)
		}
		classes = append(classes, chars)
	}
	if len(classes) == 0 {
		return "", tools.Invalid("at least one character class must be enabled")
	}
	if length < len(classes) {
		return "", tools.Invalid("length %d is too short for %d character classes", length, len(classes))
	}
	pool := strings.Join(classes, "")

	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		buf := make([]byte, 0, length)
		for _, class := range classes {
			c, err := pick(class)
			if err != nil {
				return "", err
			}
			buf = append(buf, c)
		}
		for len(buf) < length {
			c, err := pick(pool)
			if err != nil {
				return "", err
			}
			buf = append(buf, c)
		}
		if err := shuffle(buf); err != nil {
			return "", err
		}
		lines = append(lines, string(buf))
	}
	return strings.Join(lines, "\n"), nil
}

func pick(chars string) (byte, error) {
	i, err := randIntn(int64(len(chars)))
	if err != nil {
		return 0, err
	}
	return chars[i], nil
}

// Number draws uniform integers from an inclusive range.
type Number struct{}

func (Number) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          NumberID,
		Name:        "Random number",
		Category:    Category,
		Description: "Draw random integers from an inclusive range",
	}
}

func (Number) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "int", Description: "uniform integers in [min, max]", Args: []tools.ArgSpec{
			{Name: "min", Default: "1"},
			{Name: "max", Default: "100"},
			countArg,
		}},
	}
}

func (n Number) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "int":
		return tools.Run(n.ints(args))
	default:
		return tools.UnknownAction(NumberID, action)
	}
}

func (Number) ints(args map[string]string) (string, error) {
	lo, err := strconv.ParseInt(tools.String(args, "min", "1"), 10, 64)
	if err != nil {
		return "", tools.Invalid("min must be an integer")
	}
	hi, err := strconv.ParseInt(tools.String(args, "max", "100"), 10, 64)
	if err != nil {
		return "", tools.Invalid("max must be an integer")
	}
	if lo > hi {
		return "", tools.Invalid("min %d is greater than max %d", lo, hi)
	}
	count, err := tools.Int(args, "count", 1, 1, maxCount)
	if err != nil {
		return "", err
	}

	span := new(big.Int).Sub(big.NewInt(hi), big.NewInt(lo))
	span.Add(span, big.NewInt(1))
	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		v, err := rand.Int(rand.Reader, span)
		if err != nil {
			return "", err
		}
		v.Add(v, big.NewInt(lo))
		lines = append(lines, v.String())
	}
	return strings.Join(lines, "\n"), nil
}

// Shuffle randomizes or samples a line-oriented list.
type Shuffle struct{}

func (Shuffle) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          ShuffleID,
		Name:        "List randomizer",
		Category:    Category,
		Description: "Shuffle a list of lines or pick random entries from it",
	}
}

func (Shuffle) Operations() []tools.OperationSpec {
	input := tools.ArgSpec{Name: tools.ArgInput, Description: "one item per line", Required: true}
	return []tools.OperationSpec{
		{Name: "shuffle", Description: "return every item in random order", Args: []tools.ArgSpec{input}},
		{Name: "pick", Description: "return count distinct random items", Args: []tools.ArgSpec{input, countArg}},
	}
}

func (Shuffle) Execute(action string, args map[string]string) (tools.Result, error) {
	items := tools.Lines(tools.Input(args))
	switch strings.TrimSpace(action) {
	case "shuffle":
		if err := shuffle(items); err != nil {
			return tools.Run("", err)
		}
		return tools.Run(strings.Join(items, "\n"), nil)
	case "pick":
		count, err := tools.Int(args, "count", 1, 1, maxCount)
		if err != nil {
			return tools.Run("", err)
		}
		if count > len(items) {
			return tools.Run("", tools.Invalid("cannot pick %d from %d items", count, len(items)))
		}
		if err := shuffle(items); err != nil {
			return tools.Run("", err)
		}
		return tools.Run(strings.Join(items[:count], "\n"), nil)
	default:
		return tools.UnknownAction(ShuffleID, action)
	}
}
