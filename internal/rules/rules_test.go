package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fixo/internal/annotate"
	"fixo/internal/message"
	"fixo/internal/pyfile"
	"fixo/internal/rules"
)

// dirFiles parses files from testdata on demand.
type dirFiles struct{ dir string }

func (d dirFiles) File(path string) (*pyfile.File, error) {
	data, err := os.ReadFile(filepath.Join(d.dir, path))
	if err != nil {
		return nil, err
	}
	return pyfile.ParseBytes(path, data)
}

func messages(t *testing.T, set *rules.Set, report string) []message.Message {
	t.Helper()
	p, err := set.Parser()
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join("testdata", report))
	require.NoError(t, err)
	msgs, err := p.Parse(data)
	require.NoError(t, err)
	return msgs
}

func TestDefaultsOverPyright(t *testing.T) {
	set := rules.Defaults()
	require.Equal(t, []string{"bools", "self_params"}, set.Names())

	p, warnings := set.Plan(dirFiles{"testdata"}, messages(t, set, "sample.pyright.json"))
	require.Empty(t, warnings)
	require.Equal(t, []annotate.Request{
		{BlockName: "A.one", TypeName: "bool", Param: "is_nice"},
		{BlockName: "A.is_two", TypeName: "bool"},
		{BlockName: "has_items", TypeName: "bool"},
	}, p["sample_code.py"])
}

func TestAcceptFilters(t *testing.T) {
	set, err := rules.Parse(`{
		"returns": {"parent": "pyright", "categories": ["function"], "contains": {"message": "Return"}, "match": {"severity": "error"}, "type_name": "None"},
		"none": {"parent": "pyright", "match": {"severity": "warning"}, "type_name": "int"}
	}`)
	require.NoError(t, err)
	msgs := messages(t, set, "sample.pyright.json")

	returns, _ := set.Get("returns")
	none, _ := set.Get("none")
	var accepted []string
	for _, m := range msgs {
		require.False(t, none.Accept(m), "%v", m)
		if returns.Accept(m) {
			accepted = append(accepted, m.SourceName)
		}
	}
	require.Equal(t, []string{"sample_code.A.one", "sample_code.A.is_two", "sample_code.has_items"}, accepted)
}

func TestNameMatchIsAnchored(t *testing.T) {
	set, err := rules.Parse(`{"r": {"parent": "pyright", "name_match": "is", "type_name": "bool"}}`)
	require.NoError(t, err)
	r, _ := set.Get("r")
	require.False(t, r.Accept(message.Message{SourceName: "m.is_two", Category: message.Function}))
	require.True(t, r.Accept(message.Message{SourceName: "m.is", Category: message.Function}))
	require.True(t, r.Accept(message.Message{SourceName: "m.f", Category: message.Param, Param: "is"}))
}

func TestPlanConflictsAndDuplicates(t *testing.T) {
	set, err := rules.Parse(`{
		"a": {"parent": ".pyright", "categories": ["param"], "name_match": "self", "type_name": "torch.Tensor"},
		"b": {"parent": "a", "type_name": "Self"},
		"c": {"parent": "a"}
	}`)
	require.NoError(t, err)
	p, warnings := set.Plan(dirFiles{"testdata"}, messages(t, set, "sample.pyright.json"))
	require.Equal(t, []annotate.Request{
		{BlockName: "A.is_two", TypeName: "torch.Tensor", Param: "self"},
	}, p["sample_code.py"])
	require.Len(t, warnings, 1)
	require.Equal(t, "b", warnings[0].Rule)
	require.ErrorIs(t, warnings[0].Err, rules.ErrConflict)
}

func TestPyreflyPreset(t *testing.T) {
	set, err := rules.Parse(`{"selfs": {"parent": "pyrefly", "categories": ["param"], "name_match": "self", "type_name": "typing.Self", "prefer_import_as": true}}`)
	require.NoError(t, err)
	p, warnings := set.Plan(dirFiles{"testdata"}, messages(t, set, "sample.pyrefly.json"))
	require.Empty(t, warnings)
	require.Equal(t, []annotate.Request{
		{BlockName: "A.one", TypeName: "typing.Self", Param: "self", PreferImportAs: true},
		{BlockName: "A.is_two", TypeName: "typing.Self", Param: "self", PreferImportAs: true},
	}, p["sample_code.py"])
}

func TestResolveBlock(t *testing.T) {
	pf, err := (dirFiles{"testdata"}).File("sample_code.py")
	require.NoError(t, err)
	cases := []struct {
		name string
		line int
		want string
	}{
		{"pkg.sub.sample_code.A.one", 0, "A.one"},
		{"sample_code.has_items", 0, "has_items"},
		{"unknown.symbol", 6, "A.one"},
		{"unknown.symbol", 9, "A.is_two"},
		{"unknown.symbol", 1, ""},
		{"unknown.symbol", -3, ""},
	}
	for _, c := range cases {
		b := rules.ResolveBlock(pf.Blocks, message.Message{SourceName: c.name, Start: message.LineCharacter{Line: c.line}})
		require.Equal(t, c.want, b.FullName, "%s line %d", c.name, c.line)
	}
}

func TestPlanWarnsOnBadTargets(t *testing.T) {
	set := rules.Defaults()
	msgs := []message.Message{
		{SourceName: "missing.is_x", File: "missing.py", Category: message.Function, Start: message.LineCharacter{Line: 1}},
		{SourceName: "sample_code.is_module", File: "sample_code.py", Category: message.Function, Start: message.LineCharacter{Line: 1}},
	}
	p, warnings := set.Plan(dirFiles{"testdata"}, msgs)
	require.Empty(t, p["sample_code.py"])
	require.Len(t, warnings, 2)
	require.Equal(t, "missing.py", warnings[0].File)
	require.Equal(t, "bools", warnings[1].Rule)
}

func TestLoadFormats(t *testing.T) {
	for _, name := range []string{"rules.json", "rules.toml", "rules.yaml"} {
		t.Run(name, func(t *testing.T) {
			set, err := rules.Load(filepath.Join("testdata", name))
			require.NoError(t, err)
			require.Equal(t, []string{"bools", "tensors"}, set.Names())

			r, ok := set.Get("tensors")
			require.True(t, ok)
			require.Equal(t, "torch.Tensor", r.TypeName)
			require.True(t, r.PreferImportAs)
			require.Equal(t, []message.Category{message.Param}, r.Categories)
			require.Equal(t, map[string]string{"message": "parameter"}, r.Contains)
			require.Equal(t, "pyright", r.Parser.Name())
			require.True(t, r.Accept(message.Message{Category: message.Param, Param: "x", Message: `parameter "x"`}))
			require.False(t, r.Accept(message.Message{Category: message.Param, Param: "is_x", Message: `parameter "is_x"`}))
		})
	}
}

func TestCompileErrors(t *testing.T) {
	cases := map[string]string{
		"unknown parent":   `{"r": {"parent": "mypy", "type_name": "int"}}`,
		"cycle":            `{"a": {"parent": "b", "type_name": "int"}, "b": {"parent": "a"}}`,
		"missing strategy": `{"r": {"type_name": "int"}}`,
		"missing type":     `{"r": {"parent": "pyright"}}`,
		"bad regexp":       `{"r": {"parent": "pyright", "type_name": "int", "name_match": "("}}`,
		"bad category":     `{"r": {"parent": "pyright", "type_name": "int", "categories": ["class"]}}`,
		"bad attribute":    `{"r": {"parent": "pyright", "type_name": "int", "match": {"colour": "red"}}}`,
		"unknown field":    `{"r": {"parent": "pyright", "type_name": "int", "typo": 1}}`,
		"unknown acceptor": `{"r": {"parent": "pyright", "type_name": "int", "accept_message": "nope"}}`,
	}
	for name, src := range cases {
		_, err := rules.Parse(src)
		require.Error(t, err, name)
	}
}

func TestSelect(t *testing.T) {
	set := rules.Defaults()
	sel, err := set.Select([]string{"self_params"})
	require.NoError(t, err)
	require.Equal(t, []string{"self_params"}, sel.Names())

	_, err = set.Select([]string{"bools", "nope", "other"})
	require.EqualError(t, err, "unknown rule: nope, other")

	all, err := set.Select(nil)
	require.NoError(t, err)
	require.Equal(t, 2, all.Len())
}

func TestMixedParsers(t *testing.T) {
	set, err := rules.Parse(`{"a": {"parent": "pyright", "type_name": "int"}, "b": {"parent": "pyrefly", "type_name": "int"}}`)
	require.NoError(t, err)
	_, err = set.Parser()
	require.Error(t, err)
}

type singleLetter struct{}

func (singleLetter) Accept(m message.Message, _ *rules.Rule) bool { return len(m.Param) == 1 }

func TestCustomAcceptor(t *testing.T) {
	rules.RegisterAcceptor("single_letter", singleLetter{})
	set, err := rules.Parse(`{"r": {"parent": "pyright", "accept_message": ".single_letter", "type_name": "int"}}`)
	require.NoError(t, err)
	r, _ := set.Get("r")
	require.True(t, r.Accept(message.Message{Param: "x"}))
	require.False(t, r.Accept(message.Message{Param: "xy"}))
}
