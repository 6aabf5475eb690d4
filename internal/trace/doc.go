// Package trace records what fixo does while it runs: command boundaries,
// pipeline phases (check, parse, plan, apply) and per-file work.
//
// Enable it from the command line:
//
//	fixo find --trace=- --trace-level=phase src/
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePhase, "parse")
//	defer span.End("")
//
// Levels filter by scope: phase shows commands and phases, detail adds files,
// debug adds individual requests. The text format is for people, NDJSON for
// tools.
package trace
