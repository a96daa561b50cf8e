// Package database provides SQLite-based run history for auditcsv.
//
// A saved run stores the working directory, the output format, the run
// summary and every record that was written to the report. History is an
// archive only. It is never consulted when deciding what a later run emits.
//
// The driver is modernc.org/sqlite, which needs no cgo, so the database is a
// single file under the XDG data directory.
package database
