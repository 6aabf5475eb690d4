package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"fixo/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("fixo apply", []string{"a.py", "b.py"}, events).(*progressModel)

	m.Update(eventMsg(driver.Event{File: "a.py", Stage: driver.StageAnnotate, Status: driver.StatusWorking}))
	m.Update(eventMsg(driver.Event{File: "b.py", Stage: driver.StageRead, Status: driver.StatusError, Err: errors.New("missing")}))
	m.Update(eventMsg(driver.Event{File: "unknown.py", Status: driver.StatusDone}))

	if got := m.rows[0].label(); got != "annotating" {
		t.Fatalf("a.py label %q", got)
	}
	if got := m.rows[1].label(); got != "error" {
		t.Fatalf("b.py label %q", got)
	}
	if f := m.fraction(); f != 0.75 {
		t.Fatalf("fraction %v, want 0.75", f)
	}
	view := m.View()
	for _, want := range []string{"annotating", "b.py", "missing", "1/2 files", "1 failed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}

	m.Update(eventMsg(driver.Event{File: "a.py", Stage: driver.StageWrite, Status: driver.StatusDone, Elapsed: 3 * time.Millisecond}))
	m.Update(doneMsg{})
	view = m.View()
	if !m.closed || !strings.Contains(view, "done: fixo apply  2/2 files") || !strings.Contains(view, "3ms") {
		t.Fatalf("not finished:\n%s", view)
	}
}

func TestQueuedResetsStage(t *testing.T) {
	m := NewProgressModel("x", []string{"a.py"}, nil).(*progressModel)
	m.record(driver.Event{File: "a.py", Stage: driver.StageParse, Status: driver.StatusQueued})
	if m.rows[0].stage != "" || m.rows[0].label() != "queued" {
		t.Fatalf("row %+v", m.rows[0])
	}
}

func TestFitKeepsTail(t *testing.T) {
	if got := fit("internal/pkg/module.py", 12); got != "...module.py" {
		t.Fatalf("got %q", got)
	}
	if got := fit("a.py", 10); got != "a.py" {
		t.Fatalf("got %q", got)
	}
	if got := fit("abcdef", 2); got != "ab" {
		t.Fatalf("got %q", got)
	}
}
