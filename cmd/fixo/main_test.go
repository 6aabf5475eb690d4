package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fixo/internal/plan"
)

func TestParseProgressMode(t *testing.T) {
	for in, want := range map[string]progressMode{"": progressAuto, "AUTO": progressAuto, " on ": progressOn, "off": progressOff} {
		got, err := parseProgressMode(in)
		if err != nil || got != want {
			t.Fatalf("parseProgressMode(%q) = %q, %v", in, got, err)
		}
	}
	_, err := parseProgressMode("sometimes")
	if err == nil || !strings.Contains(err.Error(), "apply: --ui") {
		t.Fatalf("err = %v", err)
	}
}

func TestWantsProgressView(t *testing.T) {
	if !wantsProgressView(progressOn, "pretty", false, 2) {
		t.Fatal("--ui on with pretty output should draw the view")
	}
	if wantsProgressView(progressOn, "json", false, 2) {
		t.Fatal("json output never draws the view")
	}
	if wantsProgressView(progressOn, "pretty", true, 2) {
		t.Fatal("--quiet never draws the view")
	}
	if wantsProgressView(progressOn, "pretty", false, 0) {
		t.Fatal("empty plan never draws the view")
	}
	if wantsProgressView(progressOff, "pretty", false, 2) {
		t.Fatal("--ui off")
	}
}

func TestRootRejectsSeveralPlans(t *testing.T) {
	if err := runRoot(rootCmd, []string{"a.json", "b.json"}); err == nil || !strings.Contains(err.Error(), "at most one plan") {
		t.Fatalf("err = %v", err)
	}
	if err := runRoot(rootCmd, []string{"a.json", "b.py"}); err == nil || !strings.Contains(err.Error(), "cannot be combined") {
		t.Fatalf("err = %v", err)
	}
}

func copyTestdata(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"sample_code.py", "sample.pyright.json"} {
		data, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestFindThenApplyPlan(t *testing.T) {
	dir := copyTestdata(t)
	t.Chdir(dir)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	rootCmd.SetArgs([]string{"find", "--quiet", "-t", "sample.pyright.json", "-o", "plan.json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("find: %v", err)
	}
	p, err := plan.Load("plan.json")
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 3 {
		t.Fatalf("plan has %d requests", p.Len())
	}

	rootCmd.SetArgs([]string{"--quiet", "--ui", "off", "plan.json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	data, err := os.ReadFile("sample_code.py")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "def is_two(self) -> bool:") {
		t.Fatalf("file not edited:\n%s", data)
	}
}

func TestApplyReportsFailedFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("plan.json", []byte(`{"gone.py": [{"block_name": "f", "type_name": "int"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	rootCmd.SetArgs([]string{"apply", "--quiet", "--ui", "off", "plan.json"})
	if err := rootCmd.Execute(); err != errFailed {
		t.Fatalf("err = %v, want errFailed", err)
	}
}
