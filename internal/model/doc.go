// Package model defines the data structures shared by the audit conversion
// pipeline.
//
// This package contains the following main types:
//   - Vulnerability: One advisory reconstructed from an audit table
//   - Severity: An ordered view of the audit tool's severity labels
//   - Summary: Counters describing what happened to every table in a run
//
// The extractor, filters, report writers and the history database all
// depend on these types.
package model
