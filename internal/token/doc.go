// Package token defines the Python token vocabulary used by fixo.
// Invariants:
//   - Token.Text is exactly content[Span.Start:Span.End].
//   - INDENT covers the leading whitespace of its line; DEDENT and ENDMARKER
//     are zero-width, as is a NEWLINE synthesised at end of input.
//   - Bytes between two tokens (spaces, backslash continuations, a BOM) are
//     not tokens; serializers copy them from the source.
//   - Keywords are NAME tokens. Operators and delimiters are OP tokens.
package token
