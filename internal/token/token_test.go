package token_test

import (
	"testing"

	"fixo/internal/token"
)

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.Name:      "NAME",
		token.Newline:   "NEWLINE",
		token.Dedent:    "DEDENT",
		token.EndMarker: "ENDMARKER",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", k, got, want)
		}
		back, ok := token.ParseKind(want)
		if !ok || back != k {
			t.Fatalf("ParseKind(%q) = %v,%v", want, back, ok)
		}
	}
	if _, ok := token.ParseKind("FOO"); ok {
		t.Fatal("ParseKind accepted unknown name")
	}
}

func TestPredicates(t *testing.T) {
	op := token.Token{Kind: token.Op, Text: "("}
	if !op.IsOp("(") || !op.IsOpenBracket() || op.IsCloseBracket() {
		t.Fatalf("bad predicates for %v", op)
	}
	def := token.Token{Kind: token.Name, Text: "def"}
	if !def.IsKeyword() || !def.IsName("def") || def.IsOp("def") {
		t.Fatalf("bad predicates for %v", def)
	}
	str := token.Token{Kind: token.String, Text: "'def'"}
	if str.Is("def") {
		t.Fatal("string literal must not match Is")
	}
	for _, k := range []token.Kind{token.Comment, token.NL, token.Newline, token.Indent, token.Dedent} {
		if !(token.Token{Kind: k}).IsLayout() {
			t.Fatalf("%v should be layout", k)
		}
	}
	if (token.Token{Kind: token.Name, Text: "x"}).IsLayout() {
		t.Fatal("NAME is not layout")
	}
}

func TestKeywords(t *testing.T) {
	for _, kw := range []string{"def", "class", "async", "import", "from", "as", "None"} {
		if !token.IsKeyword(kw) {
			t.Errorf("%q should be a keyword", kw)
		}
	}
	for _, id := range []string{"self", "match", "Def", "print"} {
		if token.IsKeyword(id) {
			t.Errorf("%q must not be a hard keyword", id)
		}
	}
	if !token.IsSoftKeyword("match") || token.IsSoftKeyword("def") {
		t.Error("soft keyword table is wrong")
	}
}
