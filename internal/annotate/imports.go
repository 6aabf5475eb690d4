package annotate

import (
	"strings"
	"unicode"

	"fixo/internal/imports"
)

// binding is the outcome of making a type name usable inside a file.
type binding struct {
	local string // spelling used in the annotation
	alias string // name bound by the new import, "" when no import is needed
	addr  string
	line  string // new import statement without the trailing newline
}

// bind decides how typeName is spelled in the file and whether an import
// statement must be added. pending holds names bound by imports planned
// earlier in the same batch, alias -> address.
func bind(table *imports.Table, req Request, pending map[string]string) (binding, *RequestError) {
	typeName := req.TypeName
	dot := strings.LastIndexByte(typeName, '.')
	if dot < 0 {
		return binding{local: typeName}, nil
	}
	if !isDottedPath(typeName) {
		return binding{}, failf(req, InvalidRequest, -1, "type name %q is not a dotted path; it cannot be imported", typeName)
	}
	if local, ok := table.Resolve(typeName); ok {
		return binding{local: local}, nil
	}
	module, name := typeName[:dot], typeName[dot+1:]
	if imp, ok := table.ByAlias(name); ok && imp.Address != typeName {
		return binding{}, failf(req, NameConflict, -1, "%s is already bound to %s", name, imp.Address)
	}
	if addr, ok := pending[name]; ok && addr != typeName {
		return binding{}, failf(req, NameConflict, -1, "%s is already planned for %s", name, addr)
	}
	b := binding{local: name, alias: name, addr: typeName}
	if req.PreferImportAs {
		b.line = "import " + typeName + " as " + name
	} else {
		b.line = "from " + module + " import " + name
	}
	return b, nil
}

// isDottedPath reports whether s is identifiers joined by single dots, such
// as "torch.nn.Module".
func isDottedPath(s string) bool {
	for part := range strings.SplitSeq(s, ".") {
		if !isIdentifier(part) {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)):
		default:
			return false
		}
	}
	return true
}
