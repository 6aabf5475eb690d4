// Package pyfile bundles everything known about one Python source file:
// raw bytes, the token stream, logical lines, blocks and imports.
package pyfile

import (
	"errors"
	"fmt"

	"fixo/internal/blocks"
	"fixo/internal/diag"
	"fixo/internal/imports"
	"fixo/internal/lexer"
	"fixo/internal/source"
	"fixo/internal/token"
)

// LineRange is a half-open range of token indices forming one logical line.
// The range ends right after the line's NEWLINE token (or ENDMARKER).
type LineRange struct {
	Begin int
	End   int
}

// File is a tokenized and indexed Python module.
type File struct {
	Source  *source.File
	Tokens  []token.Token
	Lines   []LineRange
	Blocks  *blocks.Blocks
	Imports *imports.Table
	Diags   *diag.Bag
}

// SyntaxError is returned when a file cannot be processed: the tokenizer
// reported an error or indentation does not balance.
type SyntaxError struct {
	Path string
	Pos  source.LineCol
	Code diag.Code
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Pos.Line, e.Pos.Col, e.Msg)
}

// Parse tokenizes src and builds blocks and imports. On a SyntaxError the
// returned File still carries Tokens and Diags, but Blocks and Imports are nil.
func Parse(src *source.File) (*File, error) {
	bag := diag.NewBag(0)
	toks := lexer.Tokenize(src, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	f := &File{
		Source: src,
		Tokens: toks,
		Lines:  splitLines(toks),
		Diags:  bag,
	}
	if d, ok := bag.FirstError(); ok {
		return f, &SyntaxError{
			Path: src.Path,
			Pos:  src.Position(d.Primary.Start),
			Code: d.Code,
			Msg:  d.Message,
		}
	}
	bs, err := blocks.Build(toks)
	if err != nil {
		var pe *blocks.ParseError
		if !errors.As(err, &pe) {
			return f, err
		}
		code := diag.BlkUnbalancedDedent
		if pe.Token.Kind == token.Indent {
			code = diag.BlkUnclosedIndent
		}
		return f, &SyntaxError{Path: src.Path, Pos: pe.Token.Start, Code: code, Msg: pe.Msg}
	}
	f.Blocks = bs
	f.Imports = imports.Build(f.LineTokens())
	return f, nil
}

// ParseBytes is a convenience wrapper registering content in a fresh FileSet.
func ParseBytes(path string, content []byte) (*File, error) {
	fs := source.NewFileSet()
	return Parse(fs.Get(fs.AddVirtual(path, content)))
}

func splitLines(toks []token.Token) []LineRange {
	lines := make([]LineRange, 0, len(toks)/4+1)
	begin := 0
	for i, tok := range toks {
		if tok.Kind == token.Newline {
			lines = append(lines, LineRange{Begin: begin, End: i + 1})
			begin = i + 1
		}
	}
	if begin < len(toks) {
		lines = append(lines, LineRange{Begin: begin, End: len(toks)})
	}
	return lines
}

// LineTokens returns the tokens of every logical line.
func (f *File) LineTokens() [][]token.Token {
	out := make([][]token.Token, len(f.Lines))
	for i, l := range f.Lines {
		out[i] = f.Tokens[l.Begin:l.End]
	}
	return out
}

// Path returns the path the file was loaded from.
func (f *File) Path() string { return f.Source.Path }

// Text returns the original content as a string.
func (f *File) Text() string { return string(f.Source.Content) }
