package diagfmt

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"fixo/internal/blocks"
	"fixo/internal/imports"
	"fixo/internal/pyfile"
)

type BlockOutput struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	FullName  string `json:"full_name"`
	Decorated int    `json:"decorated"`
	Header    int    `json:"header"`
	Begin     int    `json:"begin"`
	End       int    `json:"end"`
	OneLine   bool   `json:"one_line,omitempty"`
	FirstLine uint32 `json:"first_line"`
	LastLine  uint32 `json:"last_line"`
	Docstring string `json:"docstring,omitempty"`
}

type ImportOutput struct {
	Address  string `json:"address"`
	Alias    string `json:"alias"`
	Line     uint32 `json:"line"`
	TopLevel bool   `json:"top_level"`
}

// FileOutput is the structure of one parsed file.
type FileOutput struct {
	Path    string         `json:"path"`
	Blocks  []BlockOutput  `json:"blocks"`
	Imports []ImportOutput `json:"imports"`
	Errors  []string       `json:"errors,omitempty"` // блоки с нераспознанным заголовком
}

func BuildFileOutput(pf *pyfile.File) FileOutput {
	out := FileOutput{Path: pf.Path(), Blocks: []BlockOutput{}, Imports: []ImportOutput{}}
	if pf.Blocks != nil {
		for _, b := range pf.Blocks.All() {
			out.Blocks = append(out.Blocks, blockOutput(b))
		}
		for name, msg := range pf.Blocks.Errors {
			out.Errors = append(out.Errors, name+": "+msg)
		}
	}
	if pf.Imports != nil {
		for _, imp := range pf.Imports.All() {
			out.Imports = append(out.Imports, importOutput(imp))
		}
	}
	sort.Strings(out.Errors)
	return out
}

func blockOutput(b blocks.Block) BlockOutput {
	return BlockOutput{
		Category:  b.Category.String(),
		Name:      b.Name,
		FullName:  b.FullName,
		Decorated: b.Decorated,
		Header:    b.Header,
		Begin:     b.Begin,
		End:       b.Dedent,
		OneLine:   b.OneLine,
		FirstLine: b.Lines.First,
		LastLine:  b.Lines.Last,
		Docstring: b.Docstring,
	}
}

func importOutput(imp imports.Import) ImportOutput {
	return ImportOutput{Address: imp.Address, Alias: imp.Alias, Line: imp.Line, TopLevel: imp.TopLevel}
}

// FormatFileJSON writes blocks and imports of pf as JSON.
func FormatFileJSON(w io.Writer, pf *pyfile.File) error {
	return writeJSON(w, BuildFileOutput(pf))
}

// FormatFilePretty prints the block tree, indented by depth, then the imports.
func FormatFilePretty(w io.Writer, pf *pyfile.File, opts PrettyOpts) error {
	pal := newPalette(opts.Color)
	out := BuildFileOutput(pf)
	fmt.Fprintln(w, pal.path.Sprint(out.Path))

	fmt.Fprintln(w, "blocks:")
	if pf.Blocks != nil {
		for _, b := range pf.Blocks.All() {
			one := ""
			if b.OneLine {
				one = " one-line"
			}
			fmt.Fprintf(w, "  %s%-5s %s %s%s\n",
				strings.Repeat("  ", max(b.Depth-1, 0)),
				b.Category, pal.ok.Sprint(b.FullName),
				pal.dim.Sprintf("lines %d-%d tokens [%d,%d]", b.Lines.First, b.Lines.Last, b.Begin, b.Dedent), one)
		}
	}
	for _, e := range out.Errors {
		fmt.Fprintf(w, "  %s %s\n", pal.warn.Sprint("skipped:"), e)
	}

	fmt.Fprintln(w, "imports:")
	for _, imp := range out.Imports {
		scope := ""
		if !imp.TopLevel {
			scope = pal.dim.Sprint(" (nested)")
		}
		fmt.Fprintf(w, "  %4d  %s -> %s%s\n", imp.Line, imp.Alias, imp.Address, scope)
	}
	return nil
}
