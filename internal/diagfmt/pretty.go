package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"fixo/internal/diag"
	"fixo/internal/source"
)

// Pretty prints diagnostics in bag order (call bag.Sort() first):
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline, then the notes.
func Pretty(w io.Writer, bag *diag.Bag, files Files, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		f := files.Get(d.Primary.File)
		if f == nil {
			fmt.Fprintf(w, "%s %s: %s\n", severity(pal, d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)
			continue
		}
		pos := f.Position(d.Primary.Start)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.path.Sprintf("%s:%d:%d", opts.PathMode.format(f), pos.Line, pos.Col),
			severity(pal, d.Severity), pal.code.Sprint(d.Code.ID()), d.Message)
		excerpt(w, pal, f, d.Primary, opts.Context)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			np := f.Position(n.Span.Start)
			fmt.Fprintf(w, "  %s %d:%d: %s\n", pal.note.Sprint("note:"), np.Line, np.Col, n.Msg)
		}
	}
}

func severity(pal palette, sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return pal.err.Sprint(sev.String())
	case diag.SevWarning:
		return pal.warn.Sprint(sev.String())
	default:
		return pal.info.Sprint(sev.String())
	}
}

func excerpt(w io.Writer, pal palette, f *source.File, sp source.Span, context int) {
	start, end := f.Position(sp.Start), f.Position(sp.End)
	context = max(context, 0)
	line := int(start.Line)
	first := max(1, line-context)
	last := min(line+context, max(line, f.LineCount()))
	width := len(strconv.Itoa(last))

	for ln := first; ln <= last; ln++ {
		n, err := safecast.Conv[uint32](ln)
		if err != nil {
			return
		}
		text := strings.ReplaceAll(f.GetLine(n), "\t", " ")
		fmt.Fprintf(w, "  %s | %s\n", pal.dim.Sprintf("%*d", width, ln), text)
		if ln != line {
			continue
		}
		span := 1
		if end.Line == start.Line && end.Col > start.Col {
			span = int(end.Col - start.Col)
		}
		pad := strings.Repeat(" ", max(int(start.Col)-1, 0))
		mark := "^" + strings.Repeat("~", span-1)
		fmt.Fprintf(w, "  %s | %s%s\n", strings.Repeat(" ", width), pad, pal.caret.Sprint(mark))
	}
}
