package driver

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"fixo/internal/annotate"
	"fixo/internal/observ"
	"fixo/internal/plan"
	"fixo/internal/trace"
)

// ApplyOptions configures Apply.
type ApplyOptions struct {
	Jobs     int  // GOMAXPROCS when <= 0
	Write    bool // write changed files back in place
	Progress ProgressSink
	Files    *FileCache
	Timer    *observ.Timer
}

// FileResult is the outcome for one file of a plan.
type FileResult struct {
	Path    string
	Err     error  // the file could not be read, parsed, edited or written
	Text    string // edited text
	Changed bool
	Written bool
	Applied []annotate.Request
	Failed  []*annotate.RequestError
}

// ApplyResult holds one FileResult per plan file, in plan.Files order.
type ApplyResult struct {
	Files []FileResult
}

// Errors counts files that failed as a whole.
func (r *ApplyResult) Errors() int {
	n := 0
	for _, f := range r.Files {
		if f.Err != nil {
			n++
		}
	}
	return n
}

// Applied counts applied requests over all files.
func (r *ApplyResult) Applied() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Applied)
	}
	return n
}

// FailedRequests counts requests that could not be applied.
func (r *ApplyResult) FailedRequests() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Failed)
	}
	return n
}

// Changed counts files whose text changed.
func (r *ApplyResult) Changed() int {
	n := 0
	for _, f := range r.Files {
		if f.Changed {
			n++
		}
	}
	return n
}

// Apply edits every file of p in parallel. A failing file never stops the
// batch. Cancelling ctx stops dispatching: files not yet started get
// ctx.Err() as their error, running ones finish.
func Apply(ctx context.Context, p plan.Plan, opts ApplyOptions) (*ApplyResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeCommand, "apply")
	paths := p.Files()
	span.WithExtra("files", fmt.Sprint(len(paths)))
	defer span.End("")

	res := &ApplyResult{Files: make([]FileResult, len(paths))}
	if len(paths) == 0 {
		return res, nil
	}
	for _, path := range paths {
		emit(opts.Progress, Event{File: path, Stage: StageRead, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// каждый воркер пишет только в свой индекс
	var g errgroup.Group
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			for j := i; j < len(paths); j++ {
				res.Files[j] = FileResult{Path: paths[j], Err: err}
				emit(opts.Progress, Event{File: paths[j], Stage: StageRead, Status: StatusError, Err: err})
			}
			break
		}
		g.Go(func() error {
			res.Files[i] = applyFile(ctx, path, p[path], opts)
			return nil
		})
	}
	_ = g.Wait()
	return res, ctx.Err()
}

func applyFile(ctx context.Context, path string, reqs []annotate.Request, opts ApplyOptions) (r FileResult) {
	r.Path = path
	ctx, span := trace.Start(ctx, trace.ScopeFile, path)
	start := time.Now()
	stage := StageRead
	defer func() {
		status := StatusDone
		if r.Err != nil {
			status = StatusError
			trace.Error(ctx, trace.ScopeFile, path, r.Err)
			span.End("error")
		} else {
			span.End(fmt.Sprintf("%d applied, %d failed", len(r.Applied), len(r.Failed)))
		}
		emit(opts.Progress, Event{File: path, Stage: stage, Status: status, Err: r.Err, Elapsed: time.Since(start)})
	}()
	enter := func(s Stage) {
		stage = s
		emit(opts.Progress, Event{File: path, Stage: s, Status: StatusWorking})
	}

	enter(StageRead)
	stop := opts.Timer.Track("read")
	info, err := os.Stat(path)
	if err != nil {
		stop("failed")
		r.Err = err
		return r
	}
	data, err := os.ReadFile(path)
	stop("")
	if err != nil {
		r.Err = err
		return r
	}

	enter(StageParse)
	stop = opts.Timer.Track("parse")
	pf, err := opts.Files.Parse(path, data)
	stop("")
	if err != nil {
		r.Err = err
		return r
	}

	enter(StageAnnotate)
	stop = opts.Timer.Track("annotate")
	out, err := annotate.Annotate(pf, reqs)
	stop("")
	if err != nil {
		r.Err = fmt.Errorf("%s: %w", path, err)
		return r
	}
	r.Text = out.Text
	r.Applied = out.Applied
	r.Failed = out.Failed
	r.Changed = out.Text != string(data)
	for _, f := range out.Failed {
		trace.Point(ctx, trace.ScopeRequest, f.Kind.String(), f.Error())
	}

	if opts.Write && r.Changed {
		enter(StageWrite)
		stop = opts.Timer.Track("write")
		err = os.WriteFile(path, []byte(out.Text), info.Mode().Perm())
		stop("")
		if err != nil {
			r.Err = err
			return r
		}
		r.Written = true
	}
	return r
}
