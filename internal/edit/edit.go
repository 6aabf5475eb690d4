// Package edit re-serializes a token stream with literal text inserted in
// front of chosen tokens. Insertions are keyed by token index, so adding one
// never shifts the anchor of another.
package edit

import (
	"fmt"
	"sort"
	"strings"

	"fixo/internal/token"
)

// TokenEdit inserts Text immediately before the token at Position.
// Position == len(tokens) appends after the last token.
type TokenEdit struct {
	Position int
	Text     string
}

// DuplicateError rejects a batch in which several edits share a position.
type DuplicateError struct {
	Positions []int
}

func (e *DuplicateError) Error() string {
	parts := make([]string, len(e.Positions))
	for i, p := range e.Positions {
		parts[i] = fmt.Sprint(p)
	}
	return "several edits at token position " + strings.Join(parts, ", ")
}

// RangeError reports an edit anchored outside the token stream.
type RangeError struct {
	Position int
	Len      int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("edit position %d outside token stream of length %d", e.Position, e.Len)
}

// Check validates a batch: every position in range and no position used twice.
func Check(edits []TokenEdit, n int) error {
	seen := make(map[int]int, len(edits))
	var dups []int
	for _, e := range edits {
		if e.Position < 0 || e.Position > n {
			return &RangeError{Position: e.Position, Len: n}
		}
		seen[e.Position]++
		if seen[e.Position] == 2 {
			dups = append(dups, e.Position)
		}
	}
	if len(dups) > 0 {
		sort.Ints(dups)
		return &DuplicateError{Positions: dups}
	}
	return nil
}

// Apply validates edits and renders tokens of content with the insertions.
// The result does not depend on the order of edits.
func Apply(edits []TokenEdit, tokens []token.Token, content []byte) (string, error) {
	if err := Check(edits, len(tokens)); err != nil {
		return "", err
	}
	s := NewStream(tokens, content)
	for _, e := range edits {
		s.Insert(e.Position, e.Text)
	}
	return Render(s), nil
}
