package lexer

import (
	"strings"

	"fixo/internal/diag"
	"fixo/internal/token"
)

// stringPrefixes перечисляет допустимые префиксы строк в нижнем регистре.
var stringPrefixes = map[string]bool{
	"r": true, "u": true, "b": true, "f": true, "t": true,
	"br": true, "rb": true, "fr": true, "rf": true, "tr": true, "rt": true,
}

// scanIdentOrString сканирует NAME. Если имя является префиксом строки и сразу
// за ним идёт кавычка, сканируется строка целиком.
func (lx *Lexer) scanIdentOrString() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if r < utf8RuneSelf {
		lx.cursor.Bump()
		for isIdentContinueByte(lx.cursor.Peek()) && !lx.cursor.EOF() {
			lx.cursor.Bump()
		}
		if q := lx.cursor.Peek(); (q == '"' || q == '\'') && !lx.cursor.EOF() {
			sp := lx.cursor.SpanFrom(start)
			prefix := strings.ToLower(string(lx.file.Content[sp.Start:sp.End]))
			if stringPrefixes[prefix] {
				return lx.scanString(start, strings.ContainsAny(prefix, "ft"))
			}
		}
	} else {
		if sz == 0 || !isIdentStartRune(r) {
			return lx.scanUnknown()
		}
		lx.bumpRune()
	}

	for {
		if b := lx.cursor.Peek(); b < utf8RuneSelf {
			if lx.cursor.EOF() || !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}
	return lx.make(token.Name, lx.cursor.SpanFrom(start))
}

// scanUnknown выдаёт ERRORTOKEN на одну руну.
func (lx *Lexer) scanUnknown() token.Token {
	start := lx.cursor.Mark()
	lx.bumpRune()
	if lx.cursor.Off == uint32(start) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	tok := lx.make(token.ErrorToken, sp)
	if tok.Text == "\x00" {
		// уже сообщено в checkNUL
		return tok
	}
	lx.warnLex(diag.LexUnknownChar, sp, "unknown character "+quoteText(tok.Text))
	return tok
}

func quoteText(s string) string {
	return "'" + s + "'"
}
