// Package report renders vulnerability records.
//
// This package contains writers for different output formats:
//   - CSVWriter: Semicolon separated rows, streamed as records arrive
//   - JSONWriter: A JSON document with the records and the run summary
//   - MarkdownWriter: A Markdown document for pull requests and wikis
//
// All writers implement Writer. Records are handed over one at a time in
// report order; Flush is called once at the end of a successful run.
// A run that fails is never flushed.
package report
