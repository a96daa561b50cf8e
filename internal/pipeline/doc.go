// Package pipeline converts audit output into report records.
//
// Lines flow through a fixed sequence of stages:
//
//	strip escapes -> table parser -> extractor -> dependency filter -> dedup -> writer
//
// Each stage handles one unit at a time and hands at most one value to the
// next stage before the following line is read. The only blocking points
// are reading the input and writing to the report. Any read or write error
// aborts the run; nothing is retried and the report is not flushed.
//
// A Processor holds the per-run state (parser buffers and the seen set).
// Pipeline wraps it with line reading, cancellation and logging, and
// receives the dependency set explicitly so it can be tested without a
// working directory.
package pipeline
