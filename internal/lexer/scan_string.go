package lexer

import (
	"strings"

	"fixo/internal/diag"
	"fixo/internal/token"
)

type stringEnd uint8

const (
	strClosed stringEnd = iota
	strNewline
	strEOF
)

// scanString сканирует строковый литерал; start указывает на префикс (если он есть),
// курсор стоит на открывающей кавычке. f-строки сканируются целиком вместе с
// вложенными полями замены, поэтому результат: один STRING токен.
func (lx *Lexer) scanString(start Mark, fstr bool) token.Token {
	quote := lx.cursor.Bump()
	triple := lx.eatTriple(quote)

	lx.openField = false
	end := lx.scanStringBody(quote, triple, fstr)
	sp := lx.cursor.SpanFrom(start)
	if end == strClosed && lx.openField {
		lx.errLex(diag.LexUnterminatedString, sp, "f-string: expecting '}'")
	}
	switch end {
	case strNewline:
		lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	case strEOF:
		if triple {
			lx.errLex(diag.LexEOFInMultiLine, sp, "unterminated triple-quoted string literal")
		} else {
			lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
		}
	}
	return lx.make(token.String, sp)
}

func (lx *Lexer) eatTriple(quote byte) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if ok && b0 == quote && b1 == quote {
		lx.cursor.Off += 2
		return true
	}
	return false
}

func (lx *Lexer) atTripleClose(quote byte) bool {
	b0, b1, b2, ok := lx.cursor.Peek3()
	return ok && b0 == quote && b1 == quote && b2 == quote
}

func (lx *Lexer) scanStringBody(quote byte, triple, fstr bool) stringEnd {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\':
			lx.cursor.Bump()
			if !lx.cursor.EatLineBreak() {
				lx.cursor.Bump()
			}

		case b == quote:
			if !triple {
				lx.cursor.Bump()
				return strClosed
			}
			if lx.atTripleClose(quote) {
				lx.cursor.Off += 3
				return strClosed
			}
			lx.cursor.Bump()

		case b == '\n' || b == '\r':
			if !triple {
				return strNewline
			}
			lx.cursor.Bump()

		case fstr && b == '{':
			if lx.try2('{', '{') {
				continue
			}
			lx.cursor.Bump()
			if end := lx.scanReplacementField(quote, triple); end != strClosed {
				return end
			}

		default:
			lx.cursor.Bump()
		}
	}
	return strEOF
}

// scanReplacementField сканирует выражение внутри {...} f-строки вместе с
// необязательным format spec. Курсор стоит сразу после '{'.
func (lx *Lexer) scanReplacementField(quote byte, triple bool) stringEnd {
	depth := 0
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"' || b == '\'':
			if b == quote && !triple && depth == 0 {
				// закрывающая кавычка внешней строки без '}'
				lx.openField = true
				return strClosed
			}
			lx.cursor.Bump()
			inner := lx.eatTriple(b)
			if end := lx.scanStringBody(b, inner, false); end != strClosed {
				return end
			}

		case isIdentStartByte(b):
			mark := lx.cursor.Mark()
			for isIdentContinueByte(lx.cursor.Peek()) && !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
			q := lx.cursor.Peek()
			if q != '"' && q != '\'' || lx.cursor.EOF() {
				continue
			}
			prefix := strings.ToLower(string(lx.file.Content[uint32(mark):lx.cursor.Off]))
			if !stringPrefixes[prefix] {
				continue
			}
			lx.cursor.Bump()
			inner := lx.eatTriple(q)
			if end := lx.scanStringBody(q, inner, strings.ContainsAny(prefix, "ft")); end != strClosed {
				return end
			}

		case b == '(' || b == '[' || b == '{':
			depth++
			lx.cursor.Bump()

		case b == ')' || b == ']':
			if depth > 0 {
				depth--
			}
			lx.cursor.Bump()

		case b == '}':
			lx.cursor.Bump()
			if depth == 0 {
				return strClosed
			}
			depth--

		case b == ':' && depth == 0:
			lx.cursor.Bump()
			return lx.scanFormatSpec(quote, triple)

		case b == '\n' || b == '\r':
			if !triple {
				return strNewline
			}
			lx.cursor.Bump()

		default:
			lx.cursor.Bump()
		}
	}
	return strEOF
}

// scanFormatSpec сканирует format spec до закрывающей '}' поля; вложенные поля
// вида {width} разрешены.
func (lx *Lexer) scanFormatSpec(quote byte, triple bool) stringEnd {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '}':
			lx.cursor.Bump()
			return strClosed
		case b == '{':
			lx.cursor.Bump()
			if end := lx.scanReplacementField(quote, triple); end != strClosed {
				return end
			}
		case b == quote && !triple:
			lx.openField = true
			return strClosed
		case b == '\n' || b == '\r':
			if !triple {
				return strNewline
			}
			lx.cursor.Bump()
		case b == '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
		default:
			lx.cursor.Bump()
		}
	}
	return strEOF
}
