package text

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/devkit/internal/testutil/testlog"
	"github.com/danmuck/devkit/internal/tools"
)

func run(t *testing.T, tool tools.Tool, action string, args map[string]string) string {
	t.Helper()
	res, err := tool.Execute(action, args)
	require.NoError(t, err, string(res.Stderr))
	return strings.TrimSuffix(string(res.Stdout), "\n")
}

func TestSplitWords(t *testing.T) {
	cases := map[string][]string{
		"hello_world-fooBar":   {"hello", "world", "foo", "Bar"},
		"HTTPServer":           {"HTTP", "Server"},
		"version2Update":       {"version", "2", "Update"},
		"  spaced   out\ttext ": {"spaced", "out", "text"},
		"":                     nil,
	}
	for in, want := range cases {
		if diff := cmp.Diff(want, splitWords(in)); diff != "" {
			t.Errorf("splitWords(%q) mismatch (-want +got):\n%s", in, diff)
		}
	}
}

func TestCaseConvert(t *testing.T) {
	testlog.Start(t)
	want := map[string]string{
		"camel":    "helloWorldFooBar",
		"pascal":   "HelloWorldFooBar",
		"snake":    "hello_world_foo_bar",
		"kebab":    "hello-world-foo-bar",
		"constant": "HELLO_WORLD_FOO_BAR",
		"dot":      "hello.world.foo.bar",
		"path":     "hello/world/foo/bar",
		"title":    "Hello World Foo Bar",
		"sentence": "Hello world foo bar",
		"upper":    "HELLO WORLD FOO BAR",
		"lower":    "hello world foo bar",
	}
	for to, expected := range want {
		assert.Equal(t, expected, run(t, Case{}, "convert", map[string]string{"input": "hello_world-fooBar", "to": to}), to)
	}

	all := run(t, Case{}, "all", map[string]string{"input": "hello_world-fooBar"})
	assert.Len(t, strings.Split(all, "\n"), len(caseStyles))
	assert.Contains(t, all, "constant: HELLO_WORLD_FOO_BAR")

	_, err := Case{}.Execute("convert", map[string]string{"input": "x", "to": "sponge"})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
}

func TestStatsCount(t *testing.T) {
	testlog.Start(t)
	out := run(t, Stats{}, "count", map[string]string{"input": "Hello world. How are you?\nFine!\n\nNew para here"})
	for _, want := range []string{
		"characters:           46",
		"characters_no_spaces: 37",
		"bytes:                46",
		"words:                9",
		"unique_words:         9",
		"lines:                4",
		"sentences:            4",
		"paragraphs:           2",
	} {
		assert.Contains(t, out, want)
	}

	out = run(t, Stats{}, "count", map[string]string{"input": "naïve café"})
	assert.Contains(t, out, "characters:           10")
	assert.Contains(t, out, "bytes:                12")
}

func TestSlugify(t *testing.T) {
	testlog.Start(t)
	assert.Equal(t, "creme-brulee-a-recipe", run(t, Slug{}, "slugify", map[string]string{"input": "Crème Brûlée: a Recipe!"}))
	assert.Equal(t, "Creme_Brulee_a_Recipe", run(t, Slug{}, "slugify", map[string]string{
		"input": "Crème Brûlée: a Recipe!", "separator": "_", "lower": "false",
	}))
	assert.Equal(t, "creme-brulee", run(t, Slug{}, "slugify", map[string]string{"input": "Crème Brûlée: a Recipe!", "max_length": "12"}))
	assert.Equal(t, "strasse-ol", run(t, Slug{}, "slugify", map[string]string{"input": "Straße  Øl"}))

	_, err := Slug{}.Execute("slugify", map[string]string{"input": "x", "separator": "/"})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
}

func TestDiffUnified(t *testing.T) {
	testlog.Start(t)
	out := run(t, Diff{}, "unified", map[string]string{"a": "one\ntwo\nthree", "b": "one\n2\nthree"})
	assert.Equal(t, "--- a\n+++ b\n@@ -1,3 +1,3 @@\n one\n-two\n+2\n three", out)

	assert.Equal(t, "no differences", run(t, Diff{}, "unified", map[string]string{"a": "x\r\n", "b": "x\n"}))

	out = run(t, Diff{}, "unified", map[string]string{"a": "x", "b": "y", "a_name": "old.txt", "b_name": "new.txt"})
	assert.True(t, strings.HasPrefix(out, "--- old.txt\n+++ new.txt\n"), out)
}

func TestRegexMatch(t *testing.T) {
	testlog.Start(t)
	out := run(t, Regex{}, "match", map[string]string{"input": "a@x.com, b@y.com", "pattern": `(\w+)@(\w+)\.com`})
	assert.Equal(t, strings.Join([]string{
		`match 1 at 0: "a@x.com"`,
		`  group 1: "a"`,
		`  group 2: "x"`,
		`match 2 at 9: "b@y.com"`,
		`  group 1: "b"`,
		`  group 2: "y"`,
	}, "\n"), out)

	out = run(t, Regex{}, "match", map[string]string{"input": "a@x.com, b@y.com", "pattern": `\w@`, "flags": "i"})
	assert.Equal(t, `match 1 at 0: "a@"`, out)

	assert.Equal(t, `match 1 at 0: "10"`, run(t, Regex{}, "match", map[string]string{"input": "10px 20em", "pattern": `\d+(?=px)`}))
	assert.Equal(t, `match 1 at 2: "ll"`+"\n"+`  group 1: "l"`, run(t, Regex{}, "match", map[string]string{"input": "hello", "pattern": `(\w)\1`}))
	assert.Equal(t, `match 1 at 4: "hello"`, run(t, Regex{}, "match", map[string]string{"input": "say hello", "pattern": "HELLO", "flags": "gi"}))
	assert.Equal(t, "no matches", run(t, Regex{}, "match", map[string]string{"input": "abc", "pattern": `\d`}))
}

func TestRegexReplace(t *testing.T) {
	testlog.Start(t)
	args := map[string]string{"input": "a@x b@y", "pattern": `(\w+)@(\w+)`, "replacement": "$2 at $1"}
	assert.Equal(t, "x at a y at b", run(t, Regex{}, "replace", args))
	args["flags"] = "i"
	assert.Equal(t, "x at a b@y", run(t, Regex{}, "replace", args))
}

func TestRegexErrors(t *testing.T) {
	testlog.Start(t)
	_, err := Regex{}.Execute("match", map[string]string{"input": "x", "pattern": "("})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
	_, err = Regex{}.Execute("match", map[string]string{"input": "x", "pattern": "x", "flags": "gx"})
	assert.True(t, errors.Is(err, tools.ErrInvalidInput))
}
