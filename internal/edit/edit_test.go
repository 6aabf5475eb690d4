package edit_test

import (
	"errors"
	"reflect"
	"testing"

	"fixo/internal/edit"
	"fixo/internal/lexer"
	"fixo/internal/source"
	"fixo/internal/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	return lexer.Tokenize(fs.Get(fs.AddVirtual("t.py", []byte(src))), lexer.Options{})
}

func find(t *testing.T, toks []token.Token, text string) int {
	t.Helper()
	for i, tok := range toks {
		if tok.Text == text {
			return i
		}
	}
	t.Fatalf("token %q not found", text)
	return -1
}

func TestApplyNoEditsRoundTrip(t *testing.T) {
	srcs := []string{
		"",
		"x = 1",
		"def f(a,   b) :  # c\n\treturn a\n\n\n",
		"\ufeffimport os\r\nx = (1,\r\n  2)\r\n",
		"s = f'{a!r:>{w}}'\nt = '''x\n''' \\\n  + 'y'\n",
		"class A:\n    def f(self): pass\n# tail",
	}
	for _, src := range srcs {
		got, err := edit.Apply(nil, tokenize(t, src), []byte(src))
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		if got != src {
			t.Fatalf("round trip changed text:\n got %q\nwant %q", got, src)
		}
	}
}

func TestApplyInsertsBeforeToken(t *testing.T) {
	src := "def one(self, is_nice):\n    return True\n"
	toks := tokenize(t, src)
	name := find(t, toks, "is_nice")
	colon := find(t, toks, ":")
	edits := []edit.TokenEdit{
		{Position: name + 1, Text: ": bool"},
		{Position: colon, Text: " -> bool"},
	}
	got, err := edit.Apply(edits, toks, []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	want := "def one(self, is_nice: bool) -> bool:\n    return True\n"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestApplyOrderIndependent(t *testing.T) {
	src := "a = b + c\n"
	toks := tokenize(t, src)
	edits := []edit.TokenEdit{
		{Position: 0, Text: "# x\n"},
		{Position: 2, Text: "("},
		{Position: 5, Text: ")"},
		{Position: len(toks), Text: "# end\n"},
	}
	first, err := edit.Apply(edits, toks, []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	reversed := []edit.TokenEdit{edits[3], edits[2], edits[1], edits[0]}
	second, err := edit.Apply(reversed, toks, []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("order changed output: %q vs %q", first, second)
	}
	// text goes right after the previous token, ahead of the whitespace gap
	if first != "# x\na =( b + c)\n# end\n" {
		t.Fatalf("unexpected output %q", first)
	}
}

func TestApplyRejectsDuplicates(t *testing.T) {
	src := "a = 1\n"
	toks := tokenize(t, src)
	_, err := edit.Apply([]edit.TokenEdit{
		{Position: 1, Text: "x"},
		{Position: 2, Text: "y"},
		{Position: 1, Text: "z"},
		{Position: 2, Text: "w"},
		{Position: 2, Text: "v"},
	}, toks, []byte(src))
	var de *edit.DuplicateError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateError, got %v", err)
	}
	if !reflect.DeepEqual(de.Positions, []int{1, 2}) {
		t.Fatalf("positions = %v", de.Positions)
	}
}

func TestApplyRejectsOutOfRange(t *testing.T) {
	src := "a = 1\n"
	toks := tokenize(t, src)
	for _, pos := range []int{-1, len(toks) + 1} {
		_, err := edit.Apply([]edit.TokenEdit{{Position: pos, Text: "x"}}, toks, []byte(src))
		var re *edit.RangeError
		if !errors.As(err, &re) || re.Position != pos {
			t.Fatalf("position %d: expected RangeError, got %v", pos, err)
		}
	}
}

func TestRenderKeepsBOMFirst(t *testing.T) {
	src := "\ufeffx = 1\n"
	toks := tokenize(t, src)
	s := edit.NewStream(toks, []byte(src))
	s.Insert(0, "import os\n")
	if got := edit.Render(s); got != "\ufeffimport os\nx = 1\n" {
		t.Fatalf("got %q", got)
	}
}

func TestStreamKeepsInsertionOrder(t *testing.T) {
	src := "x\n"
	toks := tokenize(t, src)
	s := edit.NewStream(toks, []byte(src))
	s.Insert(0, "a")
	s.Insert(0, "b")
	s.Insert(99, "!")
	if got := edit.Render(s); got != "abx\n!" {
		t.Fatalf("got %q", got)
	}
	if len(s.Extra(0)) != 2 {
		t.Fatalf("extra = %v", s.Extra(0))
	}
}
