package blocks

import (
	"fmt"

	"fixo/internal/token"
)

// Category is the kind of lexical scope a Block represents.
type Category uint8

const (
	// Module is the implicit top-level scope.
	Module Category = iota
	// Class is a `class` body.
	Class
	// Function is a `def` (or `async def`) body.
	Function
)

func (c Category) String() string {
	switch c {
	case Module:
		return "module"
	case Class:
		return "class"
	case Function:
		return "def"
	}
	return "unknown"
}

// LineRange is an inclusive interval of 1-based source lines.
type LineRange struct {
	First uint32
	Last  uint32
}

func (r LineRange) Contains(line uint32) bool {
	return line >= r.First && line <= r.Last
}

// Block is one lexical scope. Indices point into the token slice the block
// was built from. Blocks never reference each other directly; the parent of
// a block is found through its dotted FullName.
type Block struct {
	Category Category
	Name     string
	FullName string

	Decorated int // первый '@' декоратора или Header
	Header    int // ключевое слово def/class
	Begin     int // INDENT тела, либо первый токен однострочного тела
	Dedent    int // парный DEDENT, либо NEWLINE однострочного тела
	OneLine   bool

	Lines     LineRange
	Docstring string
	Depth     int // 0 для модуля
}

// Contains reports whether token index i lies inside the block, header included.
func (b *Block) Contains(i int) bool {
	return i >= b.Decorated && i <= b.Dedent
}

func (b *Block) String() string {
	name := b.FullName
	if name == "" {
		name = "<module>"
	}
	return fmt.Sprintf("%s %s [%d,%d] lines %d-%d", b.Category, name, b.Begin, b.Dedent, b.Lines.First, b.Lines.Last)
}

// ParseError reports unbalanced indentation in a token stream.
type ParseError struct {
	Token token.Token
	Index int
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Token.Start.Line, e.Token.Start.Col, e.Msg)
}
