package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/danmuck/devkit/internal/tools"
)

// foldRunes covers letters that do not decompose into base + combining mark.
var foldRunes = strings.NewReplacer(
	"ß", "ss", "æ", "ae", "Æ", "AE", "ø", "o", "Ø", "O", "œ", "oe", "Œ", "OE",
	"ł", "l", "Ł", "L", "đ", "d", "Đ", "D", "þ", "th", "Þ", "TH",
)

// stripDiacritics decomposes and drops combining marks: "Crème" -> "Creme".
func stripDiacritics(s string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, foldRunes.Replace(s))
	return out, err
}

// Slug turns text into a URL-safe identifier.
type Slug struct{}

func (Slug) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          SlugID,
		Name:        "Slugify",
		Category:    Category,
		Description: "Turn text into a URL-safe slug with diacritics removed",
	}
}

func (Slug) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "slugify", Description: "produce the slug", Args: []tools.ArgSpec{
			textArg,
			{Name: "separator", Description: "joiner between words", Default: "-"},
			{Name: "lower", Description: "lowercase the result", Default: "true"},
			{Name: "max_length", Description: "truncate at a word boundary (0 = no limit)", Default: "0"},
		}},
	}
}

func (s Slug) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "slugify":
		return tools.Run(s.slugify(args))
	default:
		return tools.UnknownAction(SlugID, action)
	}
}

func (Slug) slugify(args map[string]string) (string, error) {
	sep := args["separator"]
	if sep == "" {
		sep = "-"
	}
	if strings.ContainsAny(sep, "/?#") {
		return "", tools.Invalid("separator %q is not URL safe", sep)
	}
	lowerCase, err := tools.Bool(args, "lower", true)
	if err != nil {
		return "", err
	}
	maxLen, err := tools.Int(args, "max_length", 0, 0, 1<<16)
	if err != nil {
		return "", err
	}
	plain, err := stripDiacritics(tools.Input(args))
	if err != nil {
		return "", tools.Invalid("%v", err)
	}
	words := strings.FieldsFunc(plain, func(r rune) bool {
		return r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	var b strings.Builder
	for _, w := range words {
		next := len(w)
		if b.Len() > 0 {
			next += len(sep)
		}
		if maxLen > 0 && b.Len()+next > maxLen {
			break
		}
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(w)
	}
	out := b.String()
	if lowerCase {
		out = strings.ToLower(out)
	}
	return out, nil
}
