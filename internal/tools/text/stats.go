package text

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/danmuck/devkit/internal/tools"
)

// Stats counts characters, words and structure in a text.
type Stats struct{}

func (Stats) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          StatsID,
		Name:        "Text statistics",
		Category:    Category,
		Description: "Count characters, bytes, words, lines, sentences and paragraphs",
	}
}

func (Stats) Operations() []tools.OperationSpec {
	return []tools.OperationSpec{
		{Name: "count", Description: "all counters", Args: []tools.ArgSpec{textArg}},
	}
}

func (Stats) Execute(action string, args map[string]string) (tools.Result, error) {
	switch strings.TrimSpace(action) {
	case "count":
		return tools.Run(tools.RenderFields(countText(tools.Input(args))), nil)
	default:
		return tools.UnknownAction(StatsID, action)
	}
}

func countText(s string) []tools.Field {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	words := strings.Fields(s)
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[strings.ToLower(strings.TrimFunc(w, unicode.IsPunct))] = struct{}{}
	}
	delete(unique, "")

	nonSpace := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			nonSpace++
		}
	}

	return []tools.Field{
		tools.F("characters", utf8.RuneCountInString(s)),
		tools.F("characters_no_spaces", nonSpace),
		tools.F("bytes", humanize.Comma(int64(len(s)))),
		tools.F("words", len(words)),
		tools.F("unique_words", len(unique)),
		tools.F("lines", countLines(s)),
		tools.F("sentences", countSentences(s)),
		tools.F("paragraphs", countParagraphs(s)),
	}
}

// countLines ignores a single trailing newline.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
}

// countSentences counts runs of terminal punctuation that end a word, plus a
// trailing sentence without punctuation.
func countSentences(s string) int {
	n := 0
	pending := false
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '.' || r == '!' || r == '?':
			for i+1 < len(runes) && strings.ContainsRune(".!?", runes[i+1]) {
				i++
			}
			if pending && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])) {
				n++
				pending = false
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			pending = true
		}
	}
	if pending {
		n++
	}
	return n
}

func countParagraphs(s string) int {
	n := 0
	for _, block := range strings.Split(s, "\n\n") {
		if strings.TrimSpace(block) != "" {
			n++
		}
	}
	return n
}
