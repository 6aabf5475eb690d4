package fuzztests

import (
	"testing"

	"fixo/internal/diag"
	"fixo/internal/edit"
	"fixo/internal/lexer"
	"fixo/internal/source"
	"fixo/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func FuzzLexerRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(append([]byte(nil), input...))

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.py", input))
		bag := diag.NewBag(64)
		toks := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})

		if err := testkit.CheckTokenInvariants(toks, file); err != nil {
			t.Fatalf("token invariants: %v\ninput: %q", err, input)
		}
		if got := edit.Render(edit.NewStream(toks, input)); got != string(input) {
			t.Fatalf("round trip mismatch\ninput: %q\ngot:   %q", input, got)
		}
	})
}
