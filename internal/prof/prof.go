// Package prof writes pprof profiles of a CLI run.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Options names the profile files; empty paths disable a profile.
type Options struct {
	CPU string
	Mem string // heap profile written when the session stops
}

// Start begins CPU profiling if requested. The returned stop ends it and
// writes the heap profile; it is safe to call more than once.
func Start(opts Options) (stop func() error, err error) {
	var cpu *os.File
	if opts.CPU != "" {
		cpu, err = os.Create(opts.CPU)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(cpu); err != nil {
			_ = cpu.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
	}

	stopped := false
	return func() error {
		if stopped {
			return nil
		}
		stopped = true
		var errs []error
		if cpu != nil {
			pprof.StopCPUProfile()
			errs = append(errs, cpu.Close())
		}
		if opts.Mem != "" {
			errs = append(errs, writeHeap(opts.Mem))
		}
		return errors.Join(errs...)
	}, nil
}

func writeHeap(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
