package blocks

import (
	"strings"
)

// Blocks is the flat arena of scopes built from one token stream.
// Index 0 is always the module.
type Blocks struct {
	list   []Block
	byName map[string]int
	byLine map[uint32]int

	// Errors maps the full name of a malformed definition to the reason it was skipped.
	Errors map[string]string
}

func newBlocks() *Blocks {
	return &Blocks{
		list:   make([]Block, 0, 16),
		byName: make(map[string]int),
		byLine: make(map[uint32]int),
		Errors: make(map[string]string),
	}
}

// index fills the name and line maps. Blocks are stored in header order, so a
// nested block overwrites its parent's claim on the lines it covers, and a
// later duplicate name replaces an earlier one.
func (bs *Blocks) index() {
	for i := 1; i < len(bs.list); i++ {
		b := &bs.list[i]
		bs.byName[b.FullName] = i
		for line := b.Lines.First; line <= b.Lines.Last; line++ {
			bs.byLine[line] = i
		}
	}
}

// Len returns the number of blocks, the module included.
func (bs *Blocks) Len() int { return len(bs.list) }

// At returns the block stored at arena index i.
func (bs *Blocks) At(i int) *Block { return &bs.list[i] }

// Module returns the top-level block.
func (bs *Blocks) Module() *Block { return &bs.list[0] }

// All returns every def/class block in header order. The slice must not be modified.
func (bs *Blocks) All() []Block { return bs.list[1:] }

// ByName looks up a block by its dotted full name. The empty name is the module.
func (bs *Blocks) ByName(full string) (*Block, bool) {
	if full == "" {
		return bs.Module(), true
	}
	i, ok := bs.byName[full]
	if !ok {
		return nil, false
	}
	return &bs.list[i], true
}

// ByLine returns the innermost block covering a 1-based line, or the module.
func (bs *Blocks) ByLine(line uint32) *Block {
	if i, ok := bs.byLine[line]; ok {
		return &bs.list[i]
	}
	return bs.Module()
}

// BlockName returns the full name of the innermost block on line; "" for module level.
func (bs *Blocks) BlockName(line uint32) string {
	return bs.ByLine(line).FullName
}

// Parent finds the enclosing block by stripping the last dotted component.
func (bs *Blocks) Parent(b *Block) (*Block, bool) {
	if b.Category == Module {
		return nil, false
	}
	name := b.FullName
	for {
		dot := strings.LastIndexByte(name, '.')
		if dot < 0 {
			return bs.Module(), true
		}
		name = name[:dot]
		if p, ok := bs.ByName(name); ok {
			return p, true
		}
	}
}

// Children returns the blocks directly nested in b, in source order.
func (bs *Blocks) Children(b *Block) []*Block {
	var out []*Block
	for i := 1; i < len(bs.list); i++ {
		c := &bs.list[i]
		if c.Depth != b.Depth+1 {
			continue
		}
		if b.Category == Module || strings.HasPrefix(c.FullName, b.FullName+".") {
			out = append(out, c)
		}
	}
	return out
}

// Names returns all full names in header order.
func (bs *Blocks) Names() []string {
	out := make([]string, 0, len(bs.list)-1)
	for i := 1; i < len(bs.list); i++ {
		out = append(out, bs.list[i].FullName)
	}
	return out
}
