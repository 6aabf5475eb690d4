// Package diag defines the diagnostic model shared by the tokenizer, the
// block builder, the annotation planner and the batch driver.
//
// A Diagnostic carries a Severity, a numeric Code with a stable string ID
// (LEX, BLK, ANN, EDT and IO ranges), a short Message, the primary
// source.Span and optional Notes. Producers emit through a Reporter;
// BagReporter collects into a Bag, which supports sorting and deduplication.
//
// Rendering lives in internal/diagfmt. This package performs no IO.
package diag
