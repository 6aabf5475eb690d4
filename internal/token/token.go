package token

import (
	"fmt"

	"fixo/internal/source"
)

// Token represents a single Python token with its location.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string
	Start source.LineCol
	End   source.LineCol
}

// Is reports whether the token is an OP or NAME with exactly this text.
func (t Token) Is(text string) bool {
	return (t.Kind == Op || t.Kind == Name) && t.Text == text
}

// IsOp reports whether the token is the operator op.
func (t Token) IsOp(op string) bool { return t.Kind == Op && t.Text == op }

// IsName reports whether the token is the identifier or keyword name.
func (t Token) IsName(name string) bool { return t.Kind == Name && t.Text == name }

// IsKeyword reports whether the token is a hard keyword.
func (t Token) IsKeyword() bool { return t.Kind == Name && IsKeyword(t.Text) }

// IsLineEnd reports whether the token terminates a physical line.
func (t Token) IsLineEnd() bool { return t.Kind == NL || t.Kind == Newline }

// IsLayout reports whether the token carries layout only and no code:
// comments, line ends and indentation changes.
func (t Token) IsLayout() bool {
	switch t.Kind {
	case Comment, NL, Newline, Indent, Dedent:
		return true
	default:
		return false
	}
}

// IsOpenBracket reports '(', '[' or '{'.
func (t Token) IsOpenBracket() bool {
	return t.Kind == Op && (t.Text == "(" || t.Text == "[" || t.Text == "{")
}

// IsCloseBracket reports ')', ']' or '}'.
func (t Token) IsCloseBracket() bool {
	return t.Kind == Op && (t.Text == ")" || t.Text == "]" || t.Text == "}")
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %d:%d-%d:%d", t.Kind, t.Text, t.Start.Line, t.Start.Col, t.End.Line, t.End.Col)
}
