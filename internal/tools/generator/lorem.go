package generator

import (
	"strings"

	"github.com/danmuck/devkit/internal/tools"
)

const LoremID = "generator.lorem"

var loremWords = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing elit sed do
eiusmod tempor incididunt ut labore et dolore magna aliqua enim ad minim veniam quis nostrud
exercitation ullamco laboris nisi aliquip ex ea commodo consequat duis aute irure in
reprehenderit voluptate velit esse cillum fugiat nulla pariatur excepteur sint occaecat
cupidatat non proident sunt culpa qui officia deserunt mollit anim id est laborum`)

// Lorem produces placeholder text.
type Lorem struct{}

func (Lorem) Metadata() tools.Metadata {
	return tools.Metadata{
		ID:          LoremID,
		Name:        "Lorem ipsum",
		Category:    Category,
		Description: "Generate lorem ipsum placeholder words, sentences or paragraphs",
	}
}

func (Lorem) Operations() []tools.OperationSpec {
	count := tools.ArgSpec{Name: "count", Description: "number of units (1-1000)", Default: "3"}
	classic := tools.ArgSpec{Name: "classic", Description: "start with \"Lorem ipsum dolor sit amet\"", Default: "true"}
	return []tools.OperationSpec{
		{Name: "words", Description: "space separated words", Args: []tools.ArgSpec{count, classic}},
		{Name: "sentences", Description: "sentences of 6-14 words", Args: []tools.ArgSpec{count, classic}},
		{Name: "paragraphs", Description: "paragraphs of 3-6 sentences", Args: []tools.ArgSpec{count, classic}},
	}
}

func (l Lorem) Execute(action string, args map[string]string) (tools.Result, error) {
	count, err := tools.Int(args, "count", 3, 1, maxCount)
	if err != nil {
		return tools.Run("", err)
	}
	classic, err := tools.Bool(args, "classic", true)
	if err != nil {
		return tools.Run("", err)
	}
	g := &loremGen{classic: classic}

	switch strings.TrimSpace(action) {
	case "words":
		return tools.Run(g.words(count))
	case "sentences":
		return tools.Run(g.sentences(count))
	case "paragraphs":
		var paras []string
		for i := 0; i < count; i++ {
			n, err := randIntn(4)
			if err != nil {
				return tools.Run("", err)
			}
			p, err := g.sentences(int(n) + 3)
			if err != nil {
				return tools.Run("", err)
			}
			paras = append(paras, p)
		}
		return tools.Run(strings.Join(paras, "\n\n"), nil)
	default:
		return tools.UnknownAction(LoremID, action)
	}
}

type loremGen struct {
	classic bool
	emitted int
}

func (g *loremGen) words(n int) (string, error) {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if g.classic && g.emitted < 5 {
			out = append(out, loremWords[g.emitted])
			g.emitted++
			continue
		}
		j, err := randIntn(int64(len(loremWords)))
		if err != nil {
			return "", err
		}
		out = append(out, loremWords[j])
		g.emitted++
	}
	return strings.Join(out, " "), nil
}

func (g *loremGen) sentences(n int) (string, error) {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		size, err := randIntn(9)
		if err != nil {
			return "", err
		}
		s, err := g.words(int(size) + 6)
		if err != nil {
			return "", err
		}
		out = append(out, strings.ToUpper(s[:1])+s[1:]+".")
	}
	return strings.Join(out, " "), nil
}
