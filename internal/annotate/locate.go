package annotate

import (
	"golang.org/x/text/unicode/norm"

	"fixo/internal/blocks"
	"fixo/internal/pyfile"
	"fixo/internal/token"
)

// Locate returns the token index the annotation for param (the return type
// when param is empty) must be inserted before.
func Locate(pf *pyfile.File, block *blocks.Block, param string) (int, error) {
	req := Request{BlockName: block.FullName, Param: param}
	if block.Category != blocks.Function {
		return -1, failf(req, NotFunction, block.Header, "%s is a %s", block.FullName, block.Category)
	}
	toks := pf.Tokens
	open, ok := openParen(toks, block.Header)
	if !ok {
		return -1, failf(req, NoSignature, block.Header, "no parameter list after def %s", block.Name)
	}
	if param == "" {
		return locateReturn(toks, open, req)
	}
	return locateParam(toks, open, req)
}

// openParen finds the '(' of the parameter list of the def at header,
// stepping over a PEP 695 type parameter list.
func openParen(toks []token.Token, header int) (int, bool) {
	i := nextSignificant(toks, header+1)
	if i < 0 || toks[i].Kind != token.Name {
		return -1, false
	}
	i = nextSignificant(toks, i+1)
	if i >= 0 && toks[i].IsOp("[") {
		i = matching(toks, i)
		if i < 0 {
			return -1, false
		}
		i = nextSignificant(toks, i+1)
	}
	if i < 0 || !toks[i].IsOp("(") {
		return -1, false
	}
	return i, true
}

// matching returns the index of the bracket closing the one at open.
func matching(toks []token.Token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch {
		case toks[i].IsOpenBracket():
			depth++
		case toks[i].IsCloseBracket():
			depth--
			if depth == 0 {
				return i
			}
		case toks[i].Kind == token.Newline || toks[i].Kind == token.EndMarker:
			return -1
		}
	}
	return -1
}

func locateReturn(toks []token.Token, open int, req Request) (int, error) {
	closing := matching(toks, open)
	if closing < 0 {
		return -1, failf(req, NoSignature, open, "unclosed parameter list")
	}
	if next := nextSignificant(toks, closing+1); next >= 0 && toks[next].IsOp("->") {
		return -1, failf(req, AlreadyAnnotated, next, "return type already present")
	}
	return closing + 1, nil
}

func locateParam(toks []token.Token, open int, req Request) (int, error) {
	want := norm.NFKC.String(req.Param)
	found := -1
	depth := 0
	expectName := true
	for i := open; i < len(toks); i++ {
		tok := toks[i]
		switch {
		case tok.Kind == token.Comment || tok.Kind == token.NL:
			continue
		case tok.IsOpenBracket():
			depth++
			continue
		case tok.IsCloseBracket():
			depth--
			if depth == 0 {
				if found < 0 {
					return -1, failf(req, ParamNotFound, open, "no parameter %q", req.Param)
				}
				return found + 1, nil
			}
			continue
		case tok.Kind == token.Newline || tok.Kind == token.EndMarker:
			return -1, failf(req, NoSignature, open, "unclosed parameter list")
		}
		if depth != 1 {
			continue
		}
		if tok.IsOp(",") {
			expectName = true
			continue
		}
		if !expectName {
			continue
		}
		if tok.IsOp("*") || tok.IsOp("**") {
			continue
		}
		expectName = false
		if tok.Kind != token.Name || norm.NFKC.String(tok.Text) != want {
			continue
		}
		if found >= 0 {
			return -1, failf(req, DuplicateParam, i, "parameter %q appears twice", req.Param)
		}
		if next := nextSignificant(toks, i+1); next >= 0 && toks[next].IsOp(":") {
			return -1, failf(req, AlreadyAnnotated, next, "parameter %q already annotated", req.Param)
		}
		found = i
	}
	return -1, failf(req, NoSignature, open, "unclosed parameter list")
}

// nextSignificant skips comments and line breaks inside brackets.
func nextSignificant(toks []token.Token, from int) int {
	for i := from; i < len(toks); i++ {
		switch toks[i].Kind {
		case token.Comment, token.NL:
			continue
		}
		return i
	}
	return -1
}
