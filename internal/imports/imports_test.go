package imports_test

import (
	"testing"

	"fixo/internal/imports"
	"fixo/internal/lexer"
	"fixo/internal/source"
	"fixo/internal/token"
)

func lines(t *testing.T, src string) [][]token.Token {
	t.Helper()
	fs := source.NewFileSet()
	toks := lexer.Tokenize(fs.Get(fs.AddVirtual("t.py", []byte(src))), lexer.Options{})
	var out [][]token.Token
	start := 0
	for i, tok := range toks {
		if tok.Kind == token.Newline {
			out = append(out, toks[start:i+1])
			start = i + 1
		}
	}
	return append(out, toks[start:])
}

func parseOne(t *testing.T, src string) []imports.Import {
	t.Helper()
	return imports.ParseLine(lines(t, src)[0])
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		src  string
		want []imports.Import
	}{
		{"from a.b import c as d\n", []imports.Import{{Address: "a.b.c", Alias: "d", Line: 1}}},
		{"import a.c\n", []imports.Import{{Address: "a.c", Alias: "a.c", Line: 1}}},
		{"import os, sys as system\n", []imports.Import{
			{Address: "os", Alias: "os", Line: 1},
			{Address: "sys", Alias: "system", Line: 1},
		}},
		{"from . import sibling\n", []imports.Import{{Address: ".sibling", Alias: "sibling", Line: 1}}},
		{"from ..pkg.mod import (\n    One,  # first\n    Two as Deux,\n)\n", []imports.Import{
			{Address: "..pkg.mod.One", Alias: "One", Line: 1},
			{Address: "..pkg.mod.Two", Alias: "Deux", Line: 1},
		}},
		{"from m import *\n", []imports.Import{{Address: "m.*", Alias: "*", Line: 1}}},
		{"from a import \\\n    b\n", []imports.Import{{Address: "a.b", Alias: "b", Line: 1}}},
		{"import a; from b import c\n", []imports.Import{
			{Address: "a", Alias: "a", Line: 1},
			{Address: "b.c", Alias: "c", Line: 1},
		}},
	}
	for _, tt := range tests {
		got := parseOne(t, tt.src)
		if len(got) != len(tt.want) {
			t.Fatalf("%q: got %+v, want %+v", tt.src, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Fatalf("%q record %d: got %+v, want %+v", tt.src, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParseLineIgnoresOtherStatements(t *testing.T) {
	for _, src := range []string{"x = 1\n", "# import os\n", "print('import')\n", "important = 2\n", "\n"} {
		if got := parseOne(t, src); len(got) != 0 {
			t.Errorf("%q: expected no imports, got %+v", src, got)
		}
	}
}

func TestBuildTopLevel(t *testing.T) {
	src := "import os\n\ndef f():\n    import json\n    return json\n\nfrom typing import Any\n"
	table := imports.Build(lines(t, src))
	if table.Len() != 3 {
		t.Fatalf("expected 3 imports, got %+v", table.All())
	}
	all := table.All()
	if !all[0].TopLevel || all[1].TopLevel || !all[2].TopLevel {
		t.Fatalf("TopLevel flags wrong: %+v", all)
	}
	if all[1].Line != 4 || all[2].Line != 7 || all[2].Logical != 4 {
		t.Fatalf("lines wrong: %+v", all)
	}
	last, ok := table.LastTopLevel()
	if !ok || last.Address != "typing.Any" {
		t.Fatalf("LastTopLevel = %+v", last)
	}
}

func TestResolve(t *testing.T) {
	table := imports.NewTable([]imports.Import{
		{Address: "torch", Alias: "torch"},
		{Address: "numpy", Alias: "np"},
		{Address: "torch.nn", Alias: "nn"},
		{Address: "typing.Any", Alias: "Any"},
		{Address: "x.*", Alias: "*"},
	})
	cases := []struct {
		name, want string
		ok         bool
	}{
		{"typing.Any", "Any", true},
		{"torch.Tensor", "torch.Tensor", true},
		{"numpy.ndarray", "np.ndarray", true},
		{"torch.nn.Module", "nn.Module", true},
		{"x.Y", "", false},
		{"collections.OrderedDict", "", false},
		{"torchvision.Thing", "", false},
	}
	for _, c := range cases {
		got, ok := table.Resolve(c.name)
		if got != c.want || ok != c.ok {
			t.Errorf("Resolve(%q) = %q,%v; want %q,%v", c.name, got, ok, c.want, c.ok)
		}
	}
}

func TestResolveThroughDottedImport(t *testing.T) {
	table := imports.NewTable([]imports.Import{
		{Address: "torch.nn", Alias: "torch.nn"},
		{Address: "os.path", Alias: "osp"},
	})
	cases := []struct {
		name, want string
		ok         bool
	}{
		{"torch.Tensor", "torch.Tensor", true},
		{"torch.nn.Module", "torch.nn.Module", true},
		{"os.PathLike", "", false},
		{"os.path.join", "osp.join", true},
	}
	for _, c := range cases {
		got, ok := table.Resolve(c.name)
		if got != c.want || ok != c.ok {
			t.Errorf("Resolve(%q) = %q,%v; want %q,%v", c.name, got, ok, c.want, c.ok)
		}
	}
}

func TestByAliasLastBindingWins(t *testing.T) {
	table := imports.NewTable([]imports.Import{
		{Address: "a.T", Alias: "T"},
		{Address: "b.T", Alias: "T"},
	})
	imp, ok := table.ByAlias("T")
	if !ok || imp.Address != "b.T" {
		t.Fatalf("ByAlias = %+v", imp)
	}
	if _, ok := table.ByAddress("c.T"); ok {
		t.Fatal("unexpected address match")
	}
}
