// Package imports extracts import statements from logical lines of tokens
// into a lookup table of already-bound names.
package imports

import (
	"strings"

	"fixo/internal/token"
)

// Import is one imported name. A statement importing several names yields one
// Import per name.
type Import struct {
	Address  string // fully-qualified dotted path, e.g. "a.b.c" or ".rel.x"
	Alias    string // local name as written, e.g. "d", "c" or "a.c"
	Line     uint32 // line of the statement's first token
	TopLevel bool   // statement is at module indentation
	Logical  int    // index of the logical line in the slice given to Build
}

// IsStar reports a `from m import *` record.
func (imp Import) IsStar() bool { return imp.Alias == "*" }

// boundPackage returns the top-level package a plain `import a.b` binds.
func (imp Import) boundPackage() (string, bool) {
	if imp.Alias != imp.Address {
		return "", false
	}
	root, _, dotted := strings.Cut(imp.Address, ".")
	return root, dotted && root != ""
}

// ParseLine parses the tokens of one logical line. Lines that are not import
// statements yield nothing. Layout tokens and parentheses are ignored, so a
// parenthesized multi-line import is handled as one statement; statements
// joined with ';' are parsed separately.
func ParseLine(toks []token.Token) []Import {
	var out []Import
	words := significant(toks)
	start := 0
	for i := 0; i <= len(words); i++ {
		if i < len(words) && !words[i].IsOp(";") {
			continue
		}
		out = append(out, parseStatement(words[start:i])...)
		start = i + 1
	}
	return out
}

func parseStatement(words []token.Token) []Import {
	if len(words) == 0 {
		return nil
	}
	first := words[0]
	if !first.IsName("import") && !first.IsName("from") {
		return nil
	}
	line := first.Start.Line
	rest := words[1:]

	var from string
	if first.IsName("from") {
		var b strings.Builder
		for len(rest) > 0 && !rest[0].IsName("import") {
			b.WriteString(rest[0].Text)
			rest = rest[1:]
		}
		if len(rest) == 0 {
			return nil // "from x" без import
		}
		rest = rest[1:]
		from = b.String()
	}

	var out []Import
	for _, group := range splitCommas(rest) {
		name, alias := splitAs(group)
		if name == "" {
			continue
		}
		addr := name
		if from != "" {
			sep := "."
			if strings.HasSuffix(from, ".") {
				sep = ""
			}
			addr = from + sep + name
		}
		if alias == "" {
			alias = name
		}
		out = append(out, Import{Address: addr, Alias: alias, Line: line})
	}
	return out
}

// significant drops comments, layout tokens and parentheses.
func significant(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		switch {
		case t.IsLayout(), t.Kind == token.EndMarker:
		case t.IsOp("(") || t.IsOp(")"):
		default:
			out = append(out, t)
		}
	}
	return out
}

func splitCommas(toks []token.Token) [][]token.Token {
	var groups [][]token.Token
	start := 0
	for i, t := range toks {
		if t.IsOp(",") {
			groups = append(groups, toks[start:i])
			start = i + 1
		}
	}
	return append(groups, toks[start:])
}

// splitAs joins "a . b as c" into ("a.b", "c").
func splitAs(group []token.Token) (name, alias string) {
	var b strings.Builder
	for i, t := range group {
		if t.IsName("as") {
			var a strings.Builder
			for _, at := range group[i+1:] {
				a.WriteString(at.Text)
			}
			return b.String(), a.String()
		}
		b.WriteString(t.Text)
	}
	return b.String(), ""
}
