// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"fixo/internal/blocks"
	"fixo/internal/source"
	"fixo/internal/token"
)

// CheckTokenInvariants runs a minimal set of invariants on a token stream:
// 1) spans are ordered, non-overlapping and within the content
// 2) Text is exactly the bytes of the span
// 3) the stream ends with a single ENDMARKER
func CheckTokenInvariants(toks []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EndMarker {
		return fmt.Errorf("stream does not end with ENDMARKER")
	}
	var prev uint32
	for i, tok := range toks {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d points to file %d, want %d", i, sp.File, sf.ID)
		}
		if sp.Start > sp.End || sp.End > lenContent {
			return fmt.Errorf("token %d span %v out of bounds (len %d)", i, sp, lenContent)
		}
		if sp.Start < prev {
			return fmt.Errorf("token %d starts at %d before previous end %d", i, sp.Start, prev)
		}
		if got := string(sf.Content[sp.Start:sp.End]); got != tok.Text {
			return fmt.Errorf("token %d text %q, span holds %q", i, tok.Text, got)
		}
		if tok.Kind == token.EndMarker && i != len(toks)-1 {
			return fmt.Errorf("ENDMARKER at %d before the end", i)
		}
		prev = sp.End
	}
	return nil
}

// CheckBlockInvariants verifies that block indices point into a stream of n
// tokens and that every nested block lies inside a block one level up
// carrying its name prefix. Names may repeat (redefinitions), so any such
// enclosing block will do.
func CheckBlockInvariants(bs *blocks.Blocks, n int) error {
	if bs == nil {
		return fmt.Errorf("nil blocks")
	}
	all := bs.All()
	for i := range all {
		b := &all[i]
		if b.Decorated > b.Header || b.Header >= b.Begin || b.Begin > b.Dedent || b.Dedent >= n {
			return fmt.Errorf("%s: indices out of order", b.String())
		}
		if b.Lines.First > b.Lines.Last {
			return fmt.Errorf("%s: line range reversed", b.String())
		}
		if want := strings.Count(b.FullName, ".") + 1; b.Depth != want {
			return fmt.Errorf("%s: depth %d, want %d", b.String(), b.Depth, want)
		}
		if b.Depth == 1 {
			continue
		}
		prefix := b.FullName[:strings.LastIndexByte(b.FullName, '.')]
		enclosed := false
		for j := range all {
			p := &all[j]
			if p.FullName == prefix && p.Depth == b.Depth-1 && p.Begin <= b.Decorated && b.Dedent <= p.Dedent {
				enclosed = true
				break
			}
		}
		if !enclosed {
			return fmt.Errorf("%s: no enclosing %s", b.String(), prefix)
		}
	}
	return nil
}
