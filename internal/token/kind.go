package token

// Kind represents the category of a Python token.
type Kind uint8

const (
	// ErrorToken marks a character the tokenizer could not classify.
	ErrorToken Kind = iota
	// EndMarker marks the end of the token stream.
	EndMarker
	// Name is an identifier or keyword.
	Name
	// Number is a numeric literal.
	Number
	// String is a string literal, prefix and quotes included.
	String
	// Op is an operator or delimiter.
	Op
	// Comment is a '#' comment up to the end of line.
	Comment
	// NL ends a line that does not end a logical line (blank, comment-only, inside brackets).
	NL
	// Newline ends a logical line.
	Newline
	// Indent opens a deeper indentation level.
	Indent
	// Dedent closes the innermost indentation level.
	Dedent
)

var kindNames = [...]string{
	ErrorToken: "ERRORTOKEN",
	EndMarker:  "ENDMARKER",
	Name:       "NAME",
	Number:     "NUMBER",
	String:     "STRING",
	Op:         "OP",
	Comment:    "COMMENT",
	NL:         "NL",
	Newline:    "NEWLINE",
	Indent:     "INDENT",
	Dedent:     "DEDENT",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// ParseKind maps a name as printed by String back to its Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return ErrorToken, false
}
