package lexer

import (
	"testing"

	"fixo/internal/source"
)

func TestCursorSkipsBOMAndEatsLineBreaks(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("c.py", []byte("\xEF\xBB\xBFa\r\nb\rc")))
	c := NewCursor(f)
	if c.Off != 3 {
		t.Fatalf("expected cursor after BOM, got %d", c.Off)
	}
	if c.Bump() != 'a' {
		t.Fatal("expected 'a'")
	}
	if !c.AtLineBreak() || !c.EatLineBreak() || c.Peek() != 'b' {
		t.Fatalf("CRLF not consumed as one break, at %d", c.Off)
	}
	c.Bump()
	if !c.EatLineBreak() || c.Peek() != 'c' {
		t.Fatalf("lone CR not consumed, at %d", c.Off)
	}
	m := c.Mark()
	c.Bump()
	if !c.EOF() || c.SpanFrom(m).Len() != 1 {
		t.Fatal("expected EOF after last byte")
	}
	c.Reset(m)
	if c.Peek() != 'c' {
		t.Fatal("Reset did not restore position")
	}
}
