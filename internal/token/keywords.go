package token

var keywords = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"async": {}, "await": {}, "break": {}, "class": {}, "continue": {},
	"def": {}, "del": {}, "elif": {}, "else": {}, "except": {}, "finally": {},
	"for": {}, "from": {}, "global": {}, "if": {}, "import": {}, "in": {},
	"is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {}, "pass": {},
	"raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

// soft keywords are only reserved in specific positions
var softKeywords = map[string]struct{}{
	"match": {}, "case": {}, "type": {}, "_": {},
}

// IsKeyword reports whether ident is a hard Python keyword.
func IsKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}

// IsSoftKeyword reports whether ident is a soft keyword (match, case, type, _).
func IsSoftKeyword(ident string) bool {
	_, ok := softKeywords[ident]
	return ok
}
