package lexer

import (
	"fixo/internal/token"
)

// scanOperator распознаёт операторы и разделители жадно: 3, затем 2, затем 1 байт.
func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try3('*', '*', '='), lx.try3('/', '/', '='),
		lx.try3('>', '>', '='), lx.try3('<', '<', '='),
		lx.try3('.', '.', '.'):
		return lx.make(token.Op, lx.cursor.SpanFrom(start))
	}

	for _, op := range twoByteOps {
		if lx.try2(op[0], op[1]) {
			return lx.make(token.Op, lx.cursor.SpanFrom(start))
		}
	}

	b := lx.cursor.Peek()
	switch b {
	case '(', '[', '{':
		lx.depth++
	case ')', ']', '}':
		if lx.depth > 0 {
			lx.depth--
		}
	case '+', '-', '*', '/', '%', '@', '&', '|', '^', '~',
		'<', '>', ',', ':', ';', '.', '=', '!':
	default:
		return lx.scanUnknown()
	}
	lx.cursor.Bump()
	return lx.make(token.Op, lx.cursor.SpanFrom(start))
}

var twoByteOps = [...]string{
	"**", "//", ">>", "<<", "<=", ">=", "==", "!=", "->", ":=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
}
