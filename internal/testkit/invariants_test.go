package testkit

import (
	"testing"

	"fixo/internal/lexer"
	"fixo/internal/pyfile"
	"fixo/internal/source"
	"fixo/internal/token"
)

const nested = `@dec
class A:
    def f(self):
        def g(): return 1
        return g
    class B:
        pass

def f(): pass
`

func TestInvariantsHoldOnParsedFile(t *testing.T) {
	pf, err := pyfile.ParseBytes("nested.py", []byte(nested))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := CheckTokenInvariants(pf.Tokens, pf.Source); err != nil {
		t.Fatalf("tokens: %v", err)
	}
	if err := CheckBlockInvariants(pf.Blocks, len(pf.Tokens)); err != nil {
		t.Fatalf("blocks: %v", err)
	}
}

func TestTokenInvariantsCatchTampering(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("x.py", []byte("x = 1\n")))
	toks := lexer.Tokenize(file, lexer.Options{})

	bad := append([]token.Token(nil), toks...)
	bad[0].Text = "y"
	if err := CheckTokenInvariants(bad, file); err == nil {
		t.Fatal("expected text mismatch")
	}

	if err := CheckTokenInvariants(toks[:len(toks)-1], file); err == nil {
		t.Fatal("expected missing ENDMARKER")
	}

	if err := CheckTokenInvariants(toks, nil); err == nil {
		t.Fatal("expected error for nil file")
	}
}

func TestBlockInvariantsNil(t *testing.T) {
	if err := CheckBlockInvariants(nil, 0); err == nil {
		t.Fatal("expected error")
	}
}
