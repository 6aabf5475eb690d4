package diagfmt

import (
	"fmt"
	"io"

	"fixo/internal/driver"
	"fixo/internal/rules"
)

type RequestOutput struct {
	Block string `json:"block_name"`
	Type  string `json:"type_name"`
	Param string `json:"param,omitempty"`
}

type FailureOutput struct {
	RequestOutput
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type FileResultOutput struct {
	Path    string          `json:"path"`
	Error   string          `json:"error,omitempty"`
	Changed bool            `json:"changed"`
	Written bool            `json:"written"`
	Applied []RequestOutput `json:"applied"`
	Failed  []FailureOutput `json:"failed"`
}

// ApplyOutput is the JSON form of a batch apply.
type ApplyOutput struct {
	Files          []FileResultOutput `json:"files"`
	Applied        int                `json:"applied"`
	FailedRequests int                `json:"failed_requests"`
	FailedFiles    int                `json:"failed_files"`
	Changed        int                `json:"changed"`
}

func BuildApplyOutput(res *driver.ApplyResult) ApplyOutput {
	out := ApplyOutput{
		Files:          make([]FileResultOutput, 0, len(res.Files)),
		Applied:        res.Applied(),
		FailedRequests: res.FailedRequests(),
		FailedFiles:    res.Errors(),
		Changed:        res.Changed(),
	}
	for _, f := range res.Files {
		fo := FileResultOutput{
			Path:    f.Path,
			Changed: f.Changed,
			Written: f.Written,
			Applied: make([]RequestOutput, 0, len(f.Applied)),
			Failed:  make([]FailureOutput, 0, len(f.Failed)),
		}
		if f.Err != nil {
			fo.Error = f.Err.Error()
		}
		for _, r := range f.Applied {
			fo.Applied = append(fo.Applied, RequestOutput{Block: r.BlockName, Type: r.TypeName, Param: r.Param})
		}
		for _, e := range f.Failed {
			fo.Failed = append(fo.Failed, FailureOutput{
				RequestOutput: RequestOutput{Block: e.Request.BlockName, Type: e.Request.TypeName, Param: e.Request.Param},
				Kind:          e.Kind.String(),
				Message:       e.Msg,
			})
		}
		out.Files = append(out.Files, fo)
	}
	return out
}

// FormatApplyJSON writes res as JSON.
func FormatApplyJSON(w io.Writer, res *driver.ApplyResult) error {
	return writeJSON(w, BuildApplyOutput(res))
}

// FormatApplyPretty prints one line per file, failed requests below it, and
// a summary line.
func FormatApplyPretty(w io.Writer, res *driver.ApplyResult, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, f := range res.Files {
		switch {
		case f.Err != nil:
			fmt.Fprintf(w, "%s %s: %v\n", pal.err.Sprint("error"), f.Path, f.Err)
			continue
		case f.Written:
			fmt.Fprintf(w, "%s %s (%d)\n", pal.ok.Sprint("fixed"), pal.path.Sprint(f.Path), len(f.Applied))
		case f.Changed:
			fmt.Fprintf(w, "%s %s (%d)\n", pal.info.Sprint("would fix"), pal.path.Sprint(f.Path), len(f.Applied))
		default:
			fmt.Fprintf(w, "%s %s\n", pal.dim.Sprint("unchanged"), f.Path)
		}
		for _, e := range f.Failed {
			fmt.Fprintf(w, "  %s %s: %s\n", pal.warn.Sprint("skip"), pal.code.Sprint(e.Kind.String()), e.Error())
		}
	}
	fmt.Fprintf(w, "%d applied, %d skipped, %d of %d files changed",
		res.Applied(), res.FailedRequests(), res.Changed(), len(res.Files))
	if n := res.Errors(); n > 0 {
		fmt.Fprintf(w, ", %s", pal.err.Sprintf("%d failed", n))
	}
	fmt.Fprintln(w)
}

// FormatWarnings prints planning warnings, one per line.
func FormatWarnings(w io.Writer, warnings []rules.Warning, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, warn := range warnings {
		fmt.Fprintf(w, "%s %s\n", pal.warn.Sprint("warning:"), warn.String())
	}
}
