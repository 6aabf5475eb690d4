package lexer

import (
	"bytes"

	"fortio.org/safecast"

	"fixo/internal/diag"
	"fixo/internal/source"
	"fixo/internal/token"
)

// indentLevel хранит колонку отступа в двух системах: tab=8 и tab=1.
// Расхождение между ними означает неоднозначное смешение табов и пробелов.
type indentLevel struct {
	col uint32
	alt uint32
}

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	indents   []indentLevel
	depth     int        // открытые скобки
	lineStart bool       // курсор в начале новой логической строки
	inLogical bool       // в текущей логической строке уже был значимый токен
	last      token.Kind // последний выданный токен
	queue     []token.Token
	done      bool
	openField bool // f-строка закрылась внутри поля замены
}

func New(file *source.File, opts Options) *Lexer {
	lx := &Lexer{
		file:      file,
		cursor:    NewCursor(file),
		opts:      opts,
		indents:   []indentLevel{{}},
		lineStart: true,
		last:      token.Newline,
	}
	lx.checkNUL()
	return lx
}

// checkNUL reports the first NUL byte; Python rejects such sources entirely.
func (lx *Lexer) checkNUL() {
	i := bytes.IndexByte(lx.file.Content, 0)
	if i < 0 {
		return
	}
	off, err := safecast.Conv[uint32](i)
	if err != nil {
		return
	}
	lx.errLex(diag.LexUnknownChar, source.Span{File: lx.file.ID, Start: off, End: off + 1}, "source code cannot contain null bytes")
}

// Tokenize runs the lexer over the whole file and returns every token up to
// and including ENDMARKER.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/4+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EndMarker {
			return out
		}
	}
}

// Next возвращает следующий токен. После ENDMARKER всегда возвращает ENDMARKER.
func (lx *Lexer) Next() token.Token {
	tok := lx.next()
	lx.last = tok.Kind
	return tok
}

func (lx *Lexer) next() token.Token {
	if tok, ok := lx.dequeue(); ok {
		return tok
	}
	if lx.done {
		return lx.make(token.EndMarker, lx.emptySpan())
	}

	for {
		if lx.lineStart {
			if tok, ok := lx.scanIndentation(); ok {
				return tok
			}
		}
		if tok, ok := lx.skipBlanks(); ok {
			return lx.significant(tok)
		}
		if lx.cursor.EOF() {
			return lx.finish()
		}

		ch := lx.cursor.Peek()
		switch {
		case ch == '#':
			return lx.scanComment()

		case ch == '\n' || ch == '\r':
			return lx.scanLineEnd()

		case ch == '"' || ch == '\'':
			return lx.significant(lx.scanString(lx.cursor.Mark(), false))

		case isIdentStartByte(ch) || ch >= utf8RuneSelf:
			return lx.significant(lx.scanIdentOrString())

		case isDec(ch) || lx.isNumberAfterDot():
			return lx.significant(lx.scanNumber())

		default:
			return lx.significant(lx.scanOperator())
		}
	}
}

// significant marks the current logical line as non-empty.
func (lx *Lexer) significant(tok token.Token) token.Token {
	lx.inLogical = true
	return tok
}

// skipBlanks пропускает пробелы, табы, form feed и продолжения строк через '\'.
// Одиночный '\' без перевода строки возвращается как ERRORTOKEN.
func (lx *Lexer) skipBlanks() (token.Token, bool) {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\f':
			lx.cursor.Bump()
		case '\\':
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EatLineBreak() {
				continue
			}
			sp := lx.cursor.SpanFrom(start)
			if lx.cursor.EOF() {
				lx.errLex(diag.LexEOFInMultiLine, sp, "unexpected EOF after line continuation character")
			} else {
				lx.errLex(diag.LexUnknownChar, sp, "unexpected character after line continuation character")
			}
			return lx.make(token.ErrorToken, sp), true
		default:
			return token.Token{}, false
		}
	}
	return token.Token{}, false
}

// scanIndentation measures the leading whitespace of a new logical line and
// produces INDENT or DEDENT tokens. Blank and comment-only lines never change
// the indentation stack.
func (lx *Lexer) scanIndentation() (token.Token, bool) {
	lx.lineStart = false
	start := lx.cursor.Mark()
	var col, alt uint32
measure:
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ':
			col++
			alt++
		case '\t':
			col = (col/tabSize + 1) * tabSize
			alt++
		case '\f':
			col, alt = 0, 0
		default:
			break measure
		}
		lx.cursor.Bump()
	}
	if lx.cursor.EOF() || lx.cursor.AtLineBreak() || lx.cursor.Peek() == '#' {
		return token.Token{}, false
	}

	top := lx.indents[len(lx.indents)-1]
	switch {
	case col > top.col:
		if alt <= top.alt {
			lx.errLex(diag.LexTabsMixed, lx.cursor.SpanFrom(start), "inconsistent use of tabs and spaces in indentation")
		}
		lx.indents = append(lx.indents, indentLevel{col: col, alt: alt})
		return lx.make(token.Indent, lx.cursor.SpanFrom(start)), true

	case col < top.col:
		for len(lx.indents) > 1 && col < lx.indents[len(lx.indents)-1].col {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.queue = append(lx.queue, lx.make(token.Dedent, lx.emptySpan()))
		}
		cur := lx.indents[len(lx.indents)-1]
		if col != cur.col {
			lx.errLex(diag.LexBadDedent, lx.cursor.SpanFrom(start), "unindent does not match any outer indentation level")
		} else if alt != cur.alt {
			lx.errLex(diag.LexTabsMixed, lx.cursor.SpanFrom(start), "inconsistent use of tabs and spaces in indentation")
		}
		return lx.dequeue()

	default:
		if alt != top.alt {
			lx.errLex(diag.LexTabsMixed, lx.cursor.SpanFrom(start), "inconsistent use of tabs and spaces in indentation")
		}
		return token.Token{}, false
	}
}

// scanLineEnd emits NEWLINE when a logical line ends and NL otherwise.
func (lx *Lexer) scanLineEnd() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.EatLineBreak()
	sp := lx.cursor.SpanFrom(start)

	kind := token.NL
	if lx.depth == 0 && lx.inLogical {
		kind = token.Newline
		lx.inLogical = false
	}
	if lx.depth == 0 {
		lx.lineStart = true
	}
	return lx.make(kind, sp)
}

func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && !lx.cursor.AtLineBreak() {
		lx.cursor.Bump()
	}
	return lx.make(token.Comment, lx.cursor.SpanFrom(start))
}

// finish closes the stream: a zero-width NEWLINE if the last logical line was
// not terminated, DEDENT for every open level, then ENDMARKER.
func (lx *Lexer) finish() token.Token {
	lx.done = true
	end := lx.emptySpan()
	if lx.depth > 0 {
		lx.errLex(diag.LexEOFInMultiLine, end, "unexpected EOF in multi-line statement")
	}
	switch {
	case lx.inLogical:
		lx.queue = append(lx.queue, lx.make(token.Newline, end))
		lx.inLogical = false
	case lx.last == token.Comment:
		lx.queue = append(lx.queue, lx.make(token.NL, end))
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.queue = append(lx.queue, lx.make(token.Dedent, end))
	}
	lx.queue = append(lx.queue, lx.make(token.EndMarker, end))
	tok, _ := lx.dequeue()
	return tok
}

func (lx *Lexer) dequeue() (token.Token, bool) {
	if len(lx.queue) == 0 {
		return token.Token{}, false
	}
	tok := lx.queue[0]
	lx.queue = lx.queue[1:]
	return tok, true
}

func (lx *Lexer) make(kind token.Kind, sp source.Span) token.Token {
	return token.Token{
		Kind:  kind,
		Span:  sp,
		Text:  string(lx.file.Content[sp.Start:sp.End]),
		Start: lx.file.Position(sp.Start),
		End:   lx.file.Position(sp.End),
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
