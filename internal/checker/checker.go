// Package checker runs the external type checker and returns its report.
package checker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"

	"fixo/internal/trace"
)

// DefaultCommand asks pyright for a type completeness report.
const DefaultCommand = "pyright --ignoreexternal --outputjson --verifytypes"

// MaxErrorChars caps the stderr excerpt carried by RunError.
const MaxErrorChars = 1024

// RunError is a checker run that produced no report.
type RunError struct {
	Command  []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("%s: exit status %d", shellquote.Join(e.Command...), e.ExitCode)
	if e.ExitCode < 0 && e.Err != nil {
		msg = fmt.Sprintf("%s: %v", shellquote.Join(e.Command...), e.Err)
	}
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *RunError) Unwrap() error { return e.Err }

// Checker produces type checker reports for a set of targets.
type Checker struct {
	// Command is a shell-quoted command line, or the path of a saved .json report.
	Command string
	// Cache, when set, keeps reports keyed by command and file contents.
	Cache *Cache
	// Env is added to the process environment of the command.
	Env []string
	// Dir is the working directory of the command.
	Dir string
}

// Report reads the saved report, or runs the command with targets appended.
// A non-zero exit that still printed a report is accepted: pyright exits 1
// whenever it finds incomplete types.
func (c *Checker) Report(ctx context.Context, targets []string) ([]byte, error) {
	ctx, span := trace.Start(ctx, trace.ScopePhase, "check")
	defer span.End("")

	cmd := c.Command
	if cmd == "" {
		cmd = DefaultCommand
	}
	if strings.HasSuffix(cmd, ".json") {
		if st, err := os.Stat(cmd); err == nil && !st.IsDir() {
			span.WithExtra("source", "file")
			return os.ReadFile(cmd)
		}
	}
	args, err := shellquote.Split(cmd)
	if err != nil {
		return nil, fmt.Errorf("checker command %q: %w", cmd, err)
	}
	if len(args) == 0 {
		return nil, errors.New("empty checker command")
	}
	args = append(args, targets...)

	var key Key
	if c.Cache != nil {
		if key, err = keyFor(args, targets); err != nil {
			return nil, err
		}
		e, ok, err := c.Cache.Get(key)
		if err != nil {
			trace.Error(ctx, trace.ScopePhase, "cache", err)
		} else if ok {
			span.WithExtra("source", "cache")
			return e.Report, nil
		}
	}

	out, err := c.run(ctx, args)
	if err != nil {
		return nil, err
	}
	span.WithExtra("source", "run")
	if c.Cache != nil {
		if err := c.Cache.Put(key, &Entry{Command: args, Files: targets, Report: out}); err != nil {
			trace.Error(ctx, trace.ScopePhase, "cache", err)
		}
	}
	return out, nil
}

func (c *Checker) run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(bytes.TrimSpace(stdout.Bytes())) > 0 {
		return stdout.Bytes(), nil
	}
	code := -1
	if exitErr != nil {
		code = exitErr.ExitCode()
	}
	return nil, &RunError{Command: args, ExitCode: code, Stderr: truncate(stderr.String(), MaxErrorChars), Err: err}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// pythonFiles expands a target to the .py files it names, sorted.
// Missing targets contribute nothing; the checker reports them itself.
func pythonFiles(target string) ([]string, error) {
	st, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if !st.IsDir() {
		return []string{target}, nil
	}
	var out []string
	err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != target && (strings.HasPrefix(name, ".") || name == "__pycache__") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".py") || strings.HasSuffix(path, ".pyi") {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}
