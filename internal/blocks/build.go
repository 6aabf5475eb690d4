package blocks

import (
	"fixo/internal/token"
)

// header is a def/class line seen but not yet attached to a body.
type header struct {
	category  Category
	name      string
	decorated int
	kw        int
	depth     int // скобки внутри заголовка
	colon     int // индекс ':' заголовка, -1 пока не найден
	bodyStart int // первый токен после ':' в той же строке
	awaiting  bool
}

// frame is one open INDENT; block < 0 for bodies of if/for/while/...
type frame struct {
	indent int
	block  int
}

type builder struct {
	toks   []token.Token
	out    *Blocks
	stack  []frame
	cur    *header
	decor  int
	atLine bool
}

// Build scans tokens once and returns the block structure. It fails only on
// unbalanced indentation: a DEDENT without an open INDENT, or an INDENT
// still open at the end of the stream. Headers without a body are recorded
// in Blocks.Errors and skipped.
func Build(toks []token.Token) (*Blocks, error) {
	b := &builder{
		toks:   toks,
		out:    newBlocks(),
		decor:  -1,
		atLine: true,
	}
	b.out.list = append(b.out.list, Block{
		Category:  Module,
		Decorated: 0,
		Begin:     0,
		Dedent:    max(len(toks)-1, 0),
	})
	if len(toks) > 0 {
		b.out.list[0].Lines = LineRange{First: 1, Last: toks[len(toks)-1].Start.Line}
		b.out.list[0].Docstring = docstring(toks, -1)
	}

	for i := range toks {
		if err := b.step(i); err != nil {
			return nil, err
		}
	}
	if b.cur != nil {
		b.out.Errors[b.fullName(b.cur.name)] = "definition with no body"
		b.cur = nil
	}
	if len(b.stack) > 0 {
		open := b.stack[len(b.stack)-1].indent
		return nil, &ParseError{Token: toks[open], Index: open, Msg: "indented block is never closed"}
	}
	b.out.index()
	return b.out, nil
}

func (b *builder) step(i int) error {
	tok := b.toks[i]
	switch tok.Kind {
	case token.Indent:
		if b.cur != nil && b.cur.awaiting {
			b.open(i)
			return nil
		}
		b.stack = append(b.stack, frame{indent: i, block: -1})

	case token.Dedent:
		if len(b.stack) == 0 {
			return &ParseError{Token: tok, Index: i, Msg: "dedent does not match any open indent"}
		}
		top := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		if top.block >= 0 {
			b.close(top.block, i)
		}

	case token.Newline:
		if b.cur != nil && !b.cur.awaiting {
			b.endHeaderLine(i)
		}
		b.atLine = true

	case token.Comment, token.NL, token.EndMarker:
		// не влияют на структуру

	default:
		if b.cur != nil && b.cur.awaiting {
			// ожидали INDENT, а строка осталась на том же уровне
			b.out.Errors[b.fullName(b.cur.name)] = "definition with no body"
			b.cur = nil
		}
		if b.atLine {
			b.atLine = false
			b.lineStart(i)
			return nil
		}
		if b.cur != nil {
			b.headerToken(i)
		}
	}
	return nil
}

// lineStart inspects the first significant token of a logical line.
func (b *builder) lineStart(i int) {
	tok := b.toks[i]
	if tok.IsOp("@") {
		if b.decor < 0 {
			b.decor = i
		}
		return
	}

	kw := i
	if tok.IsName("async") && i+1 < len(b.toks) && b.toks[i+1].IsName("def") {
		kw = i + 1
	}
	kwTok := b.toks[kw]
	var cat Category
	switch {
	case kwTok.IsName("def"):
		cat = Function
	case kwTok.IsName("class"):
		cat = Class
	default:
		b.decor = -1
		return
	}
	if kw+1 >= len(b.toks) || b.toks[kw+1].Kind != token.Name {
		b.decor = -1
		return
	}

	decorated := i
	if b.decor >= 0 {
		decorated = b.decor
	}
	b.decor = -1
	b.cur = &header{
		category:  cat,
		name:      b.toks[kw+1].Text,
		decorated: decorated,
		kw:        kw,
		colon:     -1,
		bodyStart: -1,
	}
}

// headerToken tracks brackets in a pending header to find its ':' and the
// start of a one-line suite.
func (b *builder) headerToken(i int) {
	h := b.cur
	tok := b.toks[i]
	if h.colon >= 0 {
		if h.bodyStart < 0 {
			h.bodyStart = i
		}
		return
	}
	switch {
	case tok.IsOpenBracket():
		h.depth++
	case tok.IsCloseBracket():
		if h.depth > 0 {
			h.depth--
		}
	case tok.IsOp(":") && h.depth == 0:
		h.colon = i
	}
}

func (b *builder) endHeaderLine(newline int) {
	h := b.cur
	switch {
	case h.colon < 0:
		b.out.Errors[b.fullName(h.name)] = "header without ':'"
		b.cur = nil
	case h.bodyStart >= 0:
		idx := b.register(h, h.bodyStart)
		blk := &b.out.list[idx]
		blk.OneLine = true
		b.close(idx, newline)
		b.cur = nil
	default:
		h.awaiting = true
	}
}

func (b *builder) open(indent int) {
	idx := b.register(b.cur, indent)
	b.stack = append(b.stack, frame{indent: indent, block: idx})
	b.cur = nil
}

// register appends the block in header order, so a nested block always comes
// after its parent in the arena.
func (b *builder) register(h *header, begin int) int {
	parent := b.innermost()
	full := h.name
	depth := 1
	if parent >= 0 {
		p := b.out.list[parent]
		full = p.FullName + "." + h.name
		depth = p.Depth + 1
	}
	b.out.list = append(b.out.list, Block{
		Category:  h.category,
		Name:      h.name,
		FullName:  full,
		Decorated: h.decorated,
		Header:    h.kw,
		Begin:     begin,
		Depth:     depth,
	})
	return len(b.out.list) - 1
}

func (b *builder) close(idx, end int) {
	blk := &b.out.list[idx]
	blk.Dedent = end
	blk.Lines = LineRange{
		First: b.toks[blk.Decorated].Start.Line,
		Last:  lastLine(b.toks, blk.Begin, end),
	}
	from := blk.Begin
	if blk.OneLine {
		from = blk.Begin - 1
	}
	blk.Docstring = docstring(b.toks, from)
}

// innermost returns the arena index of the closest open def/class, or -1.
func (b *builder) innermost() int {
	for i := len(b.stack) - 1; i >= 0; i-- {
		if b.stack[i].block >= 0 {
			return b.stack[i].block
		}
	}
	return -1
}

func (b *builder) fullName(name string) string {
	if p := b.innermost(); p >= 0 {
		return b.out.list[p].FullName + "." + name
	}
	return name
}

// lastLine returns the line of the last code token in tokens[begin:end];
// trailing comment-only lines belong to whatever follows.
func lastLine(toks []token.Token, begin, end int) uint32 {
	for i := end; i > begin; i-- {
		switch toks[i].Kind {
		case token.Dedent, token.EndMarker, token.NL, token.Comment:
			continue
		}
		return toks[i].Start.Line
	}
	return toks[begin].End.Line
}

// docstring returns the string literal that opens the body after index from.
func docstring(toks []token.Token, from int) string {
	for i := from + 1; i < len(toks); i++ {
		t := toks[i]
		switch t.Kind {
		case token.Comment, token.NL, token.Indent:
			continue
		case token.String:
			if i+1 < len(toks) && toks[i+1].Kind == token.Newline {
				return t.Text
			}
		}
		return ""
	}
	return ""
}
