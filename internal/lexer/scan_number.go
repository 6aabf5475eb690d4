package lexer

import (
	"fixo/internal/diag"
	"fixo/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b..., 0o..., 0x..., 1.0, 1., .5, 1e-3, 1.0E+10, 3j.
// Неверные формы репортим, токен по возможности завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	// ".digits"
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		lx.eatDigits(isDec)
		lx.scanExponent()
		lx.eatImaginary()
		return lx.make(token.Number, lx.cursor.SpanFrom(start))
	}

	if lx.cursor.Peek() == '0' {
		b0, b1, ok := lx.cursor.Peek2()
		if ok && b0 == '0' {
			var digit func(byte) bool
			switch b1 {
			case 'x', 'X':
				digit = isHex
			case 'o', 'O':
				digit = isOct
			case 'b', 'B':
				digit = isBin
			}
			if digit != nil {
				lx.cursor.Off += 2
				if !lx.eatDigits(digit) {
					sp := lx.cursor.SpanFrom(start)
					lx.errLex(diag.LexBadNumber, sp, "invalid number literal: missing digits after base prefix")
				}
				return lx.make(token.Number, lx.cursor.SpanFrom(start))
			}
		}
	}

	lx.eatDigits(isDec)
	if lx.cursor.Peek() == '.' && !lx.cursor.EOF() {
		lx.cursor.Bump()
		lx.eatDigits(isDec)
	}
	lx.scanExponent()
	lx.eatImaginary()
	return lx.make(token.Number, lx.cursor.SpanFrom(start))
}

// eatDigits съедает цифры и одиночные '_' между ними.
func (lx *Lexer) eatDigits(digit func(byte) bool) bool {
	seen := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if digit(b) {
			lx.cursor.Bump()
			seen = true
			continue
		}
		if b == '_' && seen {
			b0, b1, ok := lx.cursor.Peek2()
			if ok && b0 == '_' && digit(b1) {
				lx.cursor.Bump()
				continue
			}
		}
		break
	}
	return seen
}

func (lx *Lexer) scanExponent() {
	b := lx.cursor.Peek()
	if lx.cursor.EOF() || (b != 'e' && b != 'E') {
		return
	}
	mark := lx.cursor.Mark()
	lx.cursor.Bump()
	if !lx.cursor.Eat('+') {
		lx.cursor.Eat('-')
	}
	if !lx.eatDigits(isDec) {
		// "1else" и подобное: 'e' не часть числа
		lx.cursor.Reset(mark)
	}
}

func (lx *Lexer) eatImaginary() {
	if !lx.cursor.Eat('j') {
		lx.cursor.Eat('J')
	}
}
