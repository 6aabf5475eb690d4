package observ

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestTimerAggregatesByName(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Track("apply")("")
		}()
	}
	wg.Wait()
	_ = tm.Measure("check", func() error { return errors.New("boom") })

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("phases = %+v", rep.Phases)
	}
	if rep.Phases[0].Name != "apply" || rep.Phases[0].Count != 8 {
		t.Fatalf("apply row = %+v", rep.Phases[0])
	}
	if rep.Phases[1].Note != "failed" {
		t.Fatalf("check row = %+v", rep.Phases[1])
	}
	sum := tm.Summary()
	if !strings.Contains(sum, "x8") || !strings.Contains(sum, "total") {
		t.Fatalf("summary:\n%s", sum)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Track("x")("note")
	if err := tm.Measure("y", func() error { return nil }); err != nil {
		t.Fatal(err)
	}
	if len(tm.Report().Phases) != 0 {
		t.Fatal("nil timer recorded phases")
	}
}
