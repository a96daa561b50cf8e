// Package main provides the entry point for the auditcsv CLI.
//
// auditcsv reads the table output of a dependency audit and writes the
// advisories affecting the project's direct dependencies as a
// semicolon separated report.
//
// Usage:
//
//	npm audit | auditcsv convert
//	auditcsv convert --dir ./app --input audit.txt --stdout
//
// See --help for all available options.
package main

// main is the entry point for auditcsv.
func main() {
	Execute()
}
