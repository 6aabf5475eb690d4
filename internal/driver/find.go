// Package driver runs the batch pipelines: find (checker report to plan)
// and apply (plan to edited files).
package driver

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"fixo/internal/checker"
	"fixo/internal/observ"
	"fixo/internal/plan"
	"fixo/internal/rules"
	"fixo/internal/trace"
)

// FindOptions configures Find.
type FindOptions struct {
	Targets []string
	Checker *checker.Checker
	Rules   *rules.Set // rules.Defaults() when nil
	Files   *FileCache // a fresh cache when nil
	Timer   *observ.Timer
}

// FindResult is the plan derived from one checker report.
type FindResult struct {
	Plan     plan.Plan
	Warnings []rules.Warning
	Messages int // diagnostics in the report
}

// Find obtains the checker report for the targets, parses it and runs the
// rule set over its messages.
func Find(ctx context.Context, opts FindOptions) (*FindResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeCommand, "find")
	defer span.End("")

	set := opts.Rules
	if set == nil {
		set = rules.Defaults()
	}
	parser, err := set.Parser()
	if err != nil {
		return nil, err
	}
	if opts.Checker == nil {
		return nil, errors.New("find: no checker configured")
	}
	files := opts.Files
	if files == nil {
		files = NewFileCache(0)
	}

	var raw []byte
	err = opts.Timer.Measure("check", func() error {
		var err error
		raw, err = opts.Checker.Report(ctx, opts.Targets)
		return err
	})
	if err != nil {
		return nil, err
	}

	stop := opts.Timer.Track("report")
	msgs, err := parser.Parse(raw)
	stop(parser.Name())
	if err != nil {
		return nil, fmt.Errorf("%s report: %w", parser.Name(), err)
	}
	trace.Point(ctx, trace.ScopePhase, "messages", strconv.Itoa(len(msgs)))

	stop = opts.Timer.Track("rules")
	_, rspan := trace.Start(ctx, trace.ScopePhase, "rules")
	p, warnings := set.Plan(files, msgs)
	rspan.End(fmt.Sprintf("%d requests", p.Len()))
	stop("")

	for _, w := range warnings {
		trace.Point(ctx, trace.ScopeFile, "warning", w.String())
	}
	return &FindResult{Plan: p, Warnings: warnings, Messages: len(msgs)}, nil
}
