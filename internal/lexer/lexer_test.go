package lexer_test

import (
	"strings"
	"testing"

	"fixo/internal/diag"
	"fixo/internal/lexer"
	"fixo/internal/source"
	"fixo/internal/token"
)

// lexString токенизирует строку и возвращает токены, файл и собранные диагностики.
func lexString(t *testing.T, input string) ([]token.Token, *source.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(input)))
	bag := diag.NewBag(0)
	toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return toks, file, bag
}

func kinds(toks []token.Token) string {
	parts := make([]string, len(toks))
	for i, tok := range toks {
		parts[i] = tok.Kind.String()
	}
	return strings.Join(parts, " ")
}

func texts(toks []token.Token, kind token.Kind) []string {
	var out []string
	for _, tok := range toks {
		if tok.Kind == kind {
			out = append(out, tok.Text)
		}
	}
	return out
}

func roundTrip(content []byte, toks []token.Token) string {
	var b strings.Builder
	prev := uint32(0)
	for _, tok := range toks {
		b.Write(content[prev:tok.Span.Start])
		b.WriteString(tok.Text)
		prev = tok.Span.End
	}
	b.Write(content[prev:])
	return b.String()
}

func expectNoErrors(t *testing.T, bag *diag.Bag) {
	t.Helper()
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestTokenizeStructure(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "function",
			input: "def f(x):\n    return x\n",
			want:  "NAME NAME OP NAME OP OP NEWLINE INDENT NAME NAME NEWLINE DEDENT ENDMARKER",
		},
		{
			name:  "no trailing newline",
			input: "x = 1",
			want:  "NAME OP NUMBER NEWLINE ENDMARKER",
		},
		{
			name:  "comment and blank lines",
			input: "# c\n\nx\n",
			want:  "COMMENT NL NL NAME NEWLINE ENDMARKER",
		},
		{
			name:  "implicit continuation",
			input: "f(a,\n  b)\n",
			want:  "NAME OP NAME OP NL NAME OP NEWLINE ENDMARKER",
		},
		{
			name:  "backslash continuation",
			input: "x = 1 + \\\n    2\n",
			want:  "NAME OP NUMBER OP NUMBER NEWLINE ENDMARKER",
		},
		{
			name:  "double dedent",
			input: "class A:\n    def f(self):\n        pass\nx = 1\n",
			want: "NAME NAME OP NEWLINE INDENT NAME NAME OP NAME OP OP NEWLINE " +
				"INDENT NAME NEWLINE DEDENT DEDENT NAME OP NUMBER NEWLINE ENDMARKER",
		},
		{
			name:  "comment before dedent",
			input: "if x:\n    a\n# c\nb\n",
			want:  "NAME NAME OP NEWLINE INDENT NAME NEWLINE COMMENT NL DEDENT NAME NEWLINE ENDMARKER",
		},
		{
			name:  "indented body without trailing newline",
			input: "def f():\n    pass",
			want:  "NAME NAME OP OP OP NEWLINE INDENT NAME NEWLINE DEDENT ENDMARKER",
		},
		{
			name:  "trailing comment without newline",
			input: "x\n# end",
			want:  "NAME NEWLINE COMMENT NL ENDMARKER",
		},
		{
			name:  "empty",
			input: "",
			want:  "ENDMARKER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, _, bag := lexString(t, tt.input)
			expectNoErrors(t, bag)
			if got := kinds(toks); got != tt.want {
				t.Fatalf("kinds mismatch\n got: %s\nwant: %s", got, tt.want)
			}
		})
	}
}

func TestTokenTextsAndWidths(t *testing.T) {
	toks, _, bag := lexString(t, "def f():\n    pass")
	expectNoErrors(t, bag)

	indent := toks[6]
	if indent.Kind != token.Indent || indent.Text != "    " {
		t.Fatalf("expected INDENT of four spaces, got %v", indent)
	}
	eofNewline := toks[8]
	if eofNewline.Kind != token.Newline || eofNewline.Text != "" || !eofNewline.Span.Empty() {
		t.Fatalf("expected zero-width NEWLINE at EOF, got %v", eofNewline)
	}
	if dedent := toks[9]; dedent.Kind != token.Dedent || !dedent.Span.Empty() {
		t.Fatalf("expected zero-width DEDENT, got %v", dedent)
	}
	pass := toks[7]
	if pass.Start != (source.LineCol{Line: 2, Col: 5}) || pass.End != (source.LineCol{Line: 2, Col: 9}) {
		t.Fatalf("pass position = %+v..%+v", pass.Start, pass.End)
	}
}

func TestStrings(t *testing.T) {
	input := "s = f\"a{b!r:>{w}}\" + '''x\n'y'\n''' + rb'\\d' + 'it\\'s'\n"
	toks, _, bag := lexString(t, input)
	expectNoErrors(t, bag)

	want := []string{`f"a{b!r:>{w}}"`, "'''x\n'y'\n'''", `rb'\d'`, `'it\'s'`}
	got := texts(toks, token.String)
	if len(got) != len(want) {
		t.Fatalf("strings = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("string %d = %q, want %q", i, got[i], want[i])
		}
	}
	if k := kinds(toks); k != "NAME OP STRING OP STRING OP STRING OP STRING NEWLINE ENDMARKER" {
		t.Fatalf("unexpected kinds: %s", k)
	}
}

func TestFStringNesting(t *testing.T) {
	input := "x = f\"{d['k']} {{literal}} {f'{y}'}\"\nz\n"
	toks, _, bag := lexString(t, input)
	expectNoErrors(t, bag)
	got := texts(toks, token.String)
	if len(got) != 1 || got[0] != `f"{d['k']} {{literal}} {f'{y}'}"` {
		t.Fatalf("unexpected f-string tokens: %q", got)
	}
	if names := texts(toks, token.Name); len(names) != 2 || names[1] != "z" {
		t.Fatalf("tokenization after f-string desynced: %q", names)
	}
}

func TestPrefixNameIsNotString(t *testing.T) {
	toks, _, _ := lexString(t, "rb = br\nf(x)\n")
	if got := texts(toks, token.Name); strings.Join(got, ",") != "rb,br,f,x" {
		t.Fatalf("names = %q", got)
	}
}

func TestOperators(t *testing.T) {
	toks, _, bag := lexString(t, "a **= b // c -> d := e ... @ f != g >>= h\n")
	expectNoErrors(t, bag)
	want := []string{"**=", "//", "->", ":=", "...", "@", "!=", ">>="}
	got := texts(toks, token.Op)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("ops = %q, want %q", got, want)
	}
}

func TestNumbers(t *testing.T) {
	toks, _, bag := lexString(t, "0xff 1_000 1.5e-3 .5 3j 0o17 10. 1e\n")
	expectNoErrors(t, bag)
	want := []string{"0xff", "1_000", "1.5e-3", ".5", "3j", "0o17", "10.", "1"}
	got := texts(toks, token.Number)
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("numbers = %q, want %q", got, want)
	}
	if names := texts(toks, token.Name); len(names) != 1 || names[0] != "e" {
		t.Fatalf("expected trailing NAME e, got %q", names)
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	toks, _, bag := lexString(t, "def grüße(naïve, ℌ):\n    pass\n")
	expectNoErrors(t, bag)
	got := texts(toks, token.Name)
	if strings.Join(got, ",") != "def,grüße,naïve,ℌ,pass" {
		t.Fatalf("names = %q", got)
	}
}

func TestCRLFAndLoneCR(t *testing.T) {
	toks, _, bag := lexString(t, "a\r\nif b:\r    c\r\n")
	expectNoErrors(t, bag)
	got := texts(toks, token.Newline)
	want := []string{"\r\n", "\r", "\r\n"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("newlines = %q, want %q", got, want)
	}
	if k := kinds(toks); k != "NAME NEWLINE NAME NAME OP NEWLINE INDENT NAME NEWLINE DEDENT ENDMARKER" {
		t.Fatalf("kinds = %s", k)
	}
}

func TestTabsExpandToEight(t *testing.T) {
	toks, _, bag := lexString(t, "if x:\n\tif y:\n\t\tz\n\tw\n")
	expectNoErrors(t, bag)
	if k := kinds(toks); !strings.Contains(k, "INDENT NAME NEWLINE DEDENT NAME NEWLINE DEDENT ENDMARKER") {
		t.Fatalf("kinds = %s", k)
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"def f(x, y):\n    return x  # tail   \n",
		"\xEF\xBB\xBFimport os\r\n\r\nclass A:\r\n\tdef m(self): pass\r\n",
		"x = (1,\n     2)   \\\n\n",
		"s = '''a\n  b'''  \n\n\n   # indented comment\nt = 1",
		"\f\nx = 1 \\\n  + 2\n",
		"if a:\n    b\n\n    \n    c\n",
	}
	for _, in := range inputs {
		toks, file, _ := lexString(t, in)
		if got := roundTrip(file.Content, toks); got != in {
			t.Fatalf("round trip mismatch\n got: %q\nwant: %q", got, in)
		}
		prev := uint32(0)
		for i, tok := range toks {
			if tok.Span.Start < prev {
				t.Fatalf("token %d (%v) overlaps previous", i, tok)
			}
			if tok.Text != string(file.Content[tok.Span.Start:tok.Span.End]) {
				t.Fatalf("token %d text %q does not match its span", i, tok.Text)
			}
			prev = tok.Span.End
		}
		if toks[len(toks)-1].Kind != token.EndMarker {
			t.Fatalf("stream does not end with ENDMARKER: %s", kinds(toks))
		}
	}
}

func TestBOMIsSkipped(t *testing.T) {
	toks, _, bag := lexString(t, "\xEF\xBB\xBFx\n")
	expectNoErrors(t, bag)
	if toks[0].Kind != token.Name || toks[0].Span.Start != 3 {
		t.Fatalf("first token = %v", toks[0])
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"bad dedent", "if x:\n    a\n  b\n", diag.LexBadDedent},
		{"unterminated triple", "x = \"\"\"abc\n", diag.LexEOFInMultiLine},
		{"open bracket at eof", "f(\n", diag.LexEOFInMultiLine},
		{"unterminated string", "x = 'abc\ny = 1\n", diag.LexUnterminatedString},
		{"tab space mix", "if x:\n\ta\n        b\n", diag.LexTabsMixed},
		{"continuation at eof", "x = 1 \\", diag.LexEOFInMultiLine},
		{"f-string field without brace", "x = f'{x'\n", diag.LexUnterminatedString},
		{"f-string format spec without brace", "x = f'{x:>4'\n", diag.LexUnterminatedString},
		{"null byte in code", "x = 1\x00\n", diag.LexUnknownChar},
		{"null byte in string", "s = 'a\x00b'\n", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, _, bag := lexString(t, tt.input)
			if !bag.HasErrors() {
				t.Fatalf("expected an error, tokens: %s", kinds(toks))
			}
			found := false
			for _, d := range bag.Items() {
				if d.Code == tt.code {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %s, got %v", tt.code.ID(), bag.Items())
			}
			if toks[len(toks)-1].Kind != token.EndMarker {
				t.Fatalf("stream must still end with ENDMARKER")
			}
		})
	}
}

func TestUnknownCharIsErrorToken(t *testing.T) {
	toks, _, bag := lexString(t, "a $ b\n")
	if bag.HasErrors() {
		t.Fatal("unknown character must be a warning")
	}
	if !bag.HasWarnings() || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected LexUnknownChar warning, got %v", bag.Items())
	}
	if k := kinds(toks); k != "NAME ERRORTOKEN NAME NEWLINE ENDMARKER" {
		t.Fatalf("kinds = %s", k)
	}
}

func TestClosedFStringFieldsAreClean(t *testing.T) {
	for _, src := range []string{
		"s = f'{a!r:>{w}} {b}'\n",
		"s = f'{{literal}}'\n",
		"s = f\"{d['k']}\"\n",
	} {
		_, _, bag := lexString(t, src)
		if bag.Len() != 0 {
			t.Fatalf("%q: unexpected diagnostics %v", src, bag.Items())
		}
	}
}

func TestNextAfterEndMarker(t *testing.T) {
	fs := source.NewFileSet()
	lx := lexer.New(fs.Get(fs.AddVirtual("t.py", []byte("x"))), lexer.Options{})
	for range 4 {
		lx.Next()
	}
	if tok := lx.Next(); tok.Kind != token.EndMarker {
		t.Fatalf("expected ENDMARKER after end of stream, got %v", tok)
	}
}
