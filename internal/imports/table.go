package imports

import (
	"strings"

	"fixo/internal/token"
)

// Table is the ordered list of imports of one file with lookups by address
// and by local name.
type Table struct {
	list []Import
}

// Build parses a file split into logical lines. Each line carries its own
// leading INDENT/DEDENT tokens, which are used to decide TopLevel.
func Build(lines [][]token.Token) *Table {
	t := &Table{}
	depth := 0
	for n, line := range lines {
		for _, tok := range line {
			if tok.Kind == token.Indent {
				depth++
			} else if tok.Kind == token.Dedent && depth > 0 {
				depth--
			}
		}
		for _, imp := range ParseLine(line) {
			imp.TopLevel = depth == 0
			imp.Logical = n
			t.list = append(t.list, imp)
		}
	}
	return t
}

// NewTable wraps already parsed records.
func NewTable(list []Import) *Table {
	return &Table{list: list}
}

// All returns the records in source order. The slice must not be modified.
func (t *Table) All() []Import { return t.list }

func (t *Table) Len() int { return len(t.list) }

// LastTopLevel returns the last module-level import.
func (t *Table) LastTopLevel() (Import, bool) {
	for i := len(t.list) - 1; i >= 0; i-- {
		if t.list[i].TopLevel {
			return t.list[i], true
		}
	}
	return Import{}, false
}

// ByAddress returns the first record importing exactly addr.
func (t *Table) ByAddress(addr string) (Import, bool) {
	for _, imp := range t.list {
		if imp.Address == addr {
			return imp, true
		}
	}
	return Import{}, false
}

// ByAlias returns the last record binding the local name alias.
func (t *Table) ByAlias(alias string) (Import, bool) {
	for i := len(t.list) - 1; i >= 0; i-- {
		if t.list[i].Alias == alias {
			return t.list[i], true
		}
	}
	return Import{}, false
}

// Resolve returns the local spelling of a dotted type name when it is already
// reachable: an exact import of the name, or an import of one of its
// enclosing modules (`import torch` makes "torch.Tensor" reachable as
// "torch.Tensor", `import numpy as np` makes "numpy.ndarray" reachable as
// "np.ndarray"). A plain `import a.b` also binds the package a.
func (t *Table) Resolve(typeName string) (string, bool) {
	if imp, ok := t.ByAddress(typeName); ok {
		return imp.Alias, true
	}
	var bestAddr, bestAlias string
	consider := func(addr, alias string) {
		if strings.HasPrefix(typeName, addr+".") && len(addr) > len(bestAddr) {
			bestAddr, bestAlias = addr, alias
		}
	}
	for _, imp := range t.list {
		if imp.IsStar() || strings.HasPrefix(imp.Address, ".") {
			continue
		}
		consider(imp.Address, imp.Alias)
		if root, ok := imp.boundPackage(); ok {
			consider(root, root)
		}
	}
	if bestAddr == "" {
		return "", false
	}
	return bestAlias + strings.TrimPrefix(typeName, bestAddr), true
}
