package edit

import (
	"strings"

	"fixo/internal/token"
)

// Stream is a token sequence annotated with extra literal text per position.
// Several texts at one position are kept in insertion order; Apply is the
// strict entry point that forbids that.
type Stream struct {
	tokens  []token.Token
	content []byte
	extra   map[int][]string
	size    int
}

func NewStream(tokens []token.Token, content []byte) *Stream {
	return &Stream{tokens: tokens, content: content, extra: make(map[int][]string)}
}

// Insert registers text before the token at pos. Out-of-range positions are
// clamped to the ends of the stream.
func (s *Stream) Insert(pos int, text string) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.tokens) {
		pos = len(s.tokens)
	}
	s.extra[pos] = append(s.extra[pos], text)
	s.size += len(text)
}

// Extra returns the texts registered at pos.
func (s *Stream) Extra(pos int) []string { return s.extra[pos] }

// Len returns the number of tokens.
func (s *Stream) Len() int { return len(s.tokens) }

// Render serializes the stream. Each token is preceded by its registered
// texts and then by the original bytes between it and the previous token.
// Bytes before the first token (a BOM) always come first, and bytes after the
// last token are kept at the end.
func Render(s *Stream) string {
	var b strings.Builder
	b.Grow(len(s.content) + s.size)

	prev := uint32(0)
	if len(s.tokens) > 0 {
		prev = clamp(s.tokens[0].Span.Start, uint32(len(s.content)))
		b.Write(s.content[:prev])
	}
	for i, tok := range s.tokens {
		for _, text := range s.extra[i] {
			b.WriteString(text)
		}
		start := clamp(tok.Span.Start, uint32(len(s.content)))
		end := clamp(tok.Span.End, uint32(len(s.content)))
		if start > prev {
			b.Write(s.content[prev:start])
			prev = start
		}
		if end > prev {
			b.Write(s.content[prev:end])
			prev = end
		}
	}
	if int(prev) < len(s.content) {
		b.Write(s.content[prev:])
	}
	for _, text := range s.extra[len(s.tokens)] {
		b.WriteString(text)
	}
	return b.String()
}

func clamp(v, limit uint32) uint32 {
	if v > limit {
		return limit
	}
	return v
}
