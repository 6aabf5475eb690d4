package rules

import (
	"fmt"
	"slices"
	"strings"

	"fortio.org/safecast"

	"fixo/internal/annotate"
	"fixo/internal/blocks"
	"fixo/internal/message"
	"fixo/internal/pyfile"
)

// acceptFilters applies categories, name_match, match and contains.
func acceptFilters(m message.Message, r *Rule) bool {
	if len(r.Categories) > 0 && !slices.Contains(r.Categories, m.Category) {
		return false
	}
	if r.NameMatch != nil && !r.NameMatch.MatchString(m.Subject()) {
		return false
	}
	for field, want := range r.Match {
		if got, ok := m.Attr(field); !ok || got != want {
			return false
		}
	}
	for field, sub := range r.Contains {
		if got, ok := m.Attr(field); !ok || !strings.Contains(got, sub) {
			return false
		}
	}
	return true
}

// produceRequest yields one request for the function the message is about.
func produceRequest(pf *pyfile.File, m message.Message, r *Rule) ([]annotate.Request, error) {
	b := ResolveBlock(pf.Blocks, m)
	if b.Category != blocks.Function {
		name := b.FullName
		if name == "" {
			name = "<module>"
		}
		return nil, fmt.Errorf("%s resolves to %s %s, not a function", m.SourceName, b.Category, name)
	}
	req := annotate.Request{
		BlockName:      b.FullName,
		TypeName:       r.TypeName,
		PreferImportAs: r.PreferImportAs,
	}
	if m.Category == message.Param {
		req.Param = m.Param
	}
	return []annotate.Request{req}, nil
}

// ResolveBlock maps a message to a block: the longest suffix of the qualified
// symbol name that names a block, else the innermost block on the start line.
func ResolveBlock(bs *blocks.Blocks, m message.Message) *blocks.Block {
	parts := strings.Split(m.SourceName, ".")
	for i := range parts {
		name := strings.Join(parts[i:], ".")
		if name == "" {
			continue
		}
		if b, ok := bs.ByName(name); ok {
			return b
		}
	}
	line, err := safecast.Conv[uint32](m.Start.Line)
	if err != nil {
		return bs.Module()
	}
	return bs.ByLine(line)
}
