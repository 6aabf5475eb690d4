package fuzztests

import (
	"errors"
	"testing"

	"fixo/internal/annotate"
	"fixo/internal/blocks"
	"fixo/internal/edit"
	"fixo/internal/pyfile"
	"fixo/internal/testkit"
)

// FuzzAnnotateDefs asks for a return and a first-parameter annotation on
// every function. Requests may fail; the text outside the edits must not change.
func FuzzAnnotateDefs(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(append([]byte(nil), input...))
		pf, err := pyfile.ParseBytes("fuzz.py", input)
		if err != nil {
			return
		}
		if err := testkit.CheckBlockInvariants(pf.Blocks, len(pf.Tokens)); err != nil {
			t.Fatalf("block invariants: %v\ninput: %q", err, input)
		}

		var reqs []annotate.Request
		for _, b := range pf.Blocks.All() {
			if b.Category != blocks.Function {
				continue
			}
			reqs = append(reqs,
				annotate.Request{BlockName: b.FullName, TypeName: "pkg.T"},
				annotate.Request{BlockName: b.FullName, TypeName: "int", Param: "x"})
		}
		res, err := annotate.Annotate(pf, reqs)
		if err != nil {
			var dup *edit.DuplicateError
			if errors.As(err, &dup) {
				// одноимённые функции дают одну и ту же позицию
				return
			}
			t.Fatalf("annotate: %v\ninput: %q", err, input)
		}
		if len(res.Applied)+len(res.Failed) > len(reqs) {
			t.Fatalf("%d results for %d requests", len(res.Applied)+len(res.Failed), len(reqs))
		}
		if !res.Changed && res.Text != string(input) {
			t.Fatalf("unchanged result differs from input\ninput: %q", input)
		}
		if len(res.Text) < len(input) {
			t.Fatalf("edited text shorter than input")
		}
	})
}
