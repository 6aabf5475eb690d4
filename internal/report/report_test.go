package report_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"fixo/internal/message"
	"fixo/internal/report"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

type brief struct {
	Name     string
	Category message.Category
	Param    string
	Line     int
}

func summarize(msgs []message.Message) []brief {
	out := make([]brief, len(msgs))
	for i, m := range msgs {
		out[i] = brief{m.SourceName, m.Category, m.Param, m.Start.Line}
	}
	return out
}

func TestPyright(t *testing.T) {
	p, err := report.Lookup("pyright")
	if err != nil {
		t.Fatal(err)
	}
	msgs, err := p.Parse(readTestdata(t, "sample.pyright.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := []brief{
		{"sample_code.A.one", message.Param, "is_nice", 5},
		{"sample_code.A.one", message.Function, "", 5},
		{"sample_code.A.is_two", message.Function, "", 8},
		{"sample_code.A.is_two", message.Param, "self", 8},
		{"sample_code.has_items", message.Param, "items", 12},
		{"sample_code.has_items", message.Param, "limit", 12},
		{"sample_code.has_items", message.Function, "", 12},
	}
	if got := summarize(msgs); !reflect.DeepEqual(got, want) {
		t.Fatalf("got  %+v\nwant %+v", got, want)
	}
	if msgs[0].File != "sample_code.py" || msgs[0].Severity != "error" || msgs[0].Start.Character != 18 {
		t.Fatalf("first message fields: %+v", msgs[0])
	}
}

func TestPyrefly(t *testing.T) {
	p, err := report.Lookup("pyrefly")
	if err != nil {
		t.Fatal(err)
	}
	msgs, err := p.Parse(readTestdata(t, "sample.pyrefly.json"))
	if err != nil {
		t.Fatal(err)
	}
	want := []brief{
		{"sample_code.A.one", message.Function, "", 5},
		{"sample_code.A.one", message.Param, "self", 5},
		{"sample_code.A.one", message.Param, "is_nice", 5},
		{"sample_code.A.is_two", message.Param, "self", 8},
		{"sample_code.has_items", message.Function, "", 12},
		{"sample_code.has_items", message.Param, "items", 12},
	}
	if got := summarize(msgs); !reflect.DeepEqual(got, want) {
		t.Fatalf("got  %+v\nwant %+v", got, want)
	}
}

func TestBadReports(t *testing.T) {
	cases := []struct {
		parser string
		data   string
	}{
		{"pyright", "not json"},
		{"pyright", `{"summary": {}}`},
		{"pyrefly", `[1, 2]`},
	}
	for _, c := range cases {
		p, err := report.Lookup(c.parser)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := p.Parse([]byte(c.data)); !errors.Is(err, report.ErrBadReport) {
			t.Errorf("%s %q: expected ErrBadReport, got %v", c.parser, c.data, err)
		}
	}
}

func TestRegistry(t *testing.T) {
	if got := report.Names(); !reflect.DeepEqual(got, []string{"pyrefly", "pyright"}) {
		t.Fatalf("names = %v", got)
	}
	if _, err := report.Lookup("mypy"); err == nil {
		t.Fatal("expected unknown format error")
	}
}
