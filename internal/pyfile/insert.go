package pyfile

import "fixo/internal/token"

// ImportPoint is where new import statements go.
type ImportPoint struct {
	// Index is the token the insertion precedes.
	Index int
	// NeedNewline is set when the preceding line has no terminator of its own
	// (the file ends without '\n'), so inserted text must start with one.
	NeedNewline bool
	// EOL is the line terminator inserted lines end with, taken from the
	// nearest physical line end of the file ("\n" when there is none).
	EOL string
}

// InsertImportToken picks the insertion point for new imports: right after
// the logical line of the last module-level import. Without imports the
// point follows the leading comment-only lines and a module docstring.
func (f *File) InsertImportToken() ImportPoint {
	idx := f.afterPreamble()
	if f.Imports != nil {
		if last, ok := f.Imports.LastTopLevel(); ok && last.Logical < len(f.Lines) {
			idx = f.Lines[last.Logical].End
		}
	}
	return ImportPoint{Index: idx, NeedNewline: f.openLineBefore(idx), EOL: f.eolNear(idx)}
}

// eolNear returns the text of the closest non-empty line end before idx,
// else the first one after it.
func (f *File) eolNear(idx int) string {
	toks := f.Tokens
	for i := min(idx, len(toks)) - 1; i >= 0; i-- {
		if toks[i].IsLineEnd() && toks[i].Text != "" {
			return toks[i].Text
		}
	}
	for i := max(idx, 0); i < len(toks); i++ {
		if toks[i].IsLineEnd() && toks[i].Text != "" {
			return toks[i].Text
		}
	}
	return "\n"
}

func (f *File) afterPreamble() int {
	toks := f.Tokens
	i := 0
	for i+1 < len(toks) && toks[i].Kind == token.Comment && toks[i+1].Kind == token.NL {
		i += 2
	}
	// module docstring: a lone string statement
	if i+1 < len(toks) && toks[i].Kind == token.String && toks[i+1].Kind == token.Newline {
		i += 2
	}
	return i
}

func (f *File) openLineBefore(idx int) bool {
	if idx == 0 || idx > len(f.Tokens) {
		return false
	}
	prev := f.Tokens[idx-1]
	return prev.IsLineEnd() && prev.Text == ""
}
