// Package extract maps parsed audit tables onto vulnerability records.
//
// An advisory table has its rows in a fixed order:
//
//	severity │ reason
//	Package  │ <package>
//	Patched in │ <version range>
//	Dependency of │ <direct dependency>
//	... (Path, More info; ignored)
//
// Only the first four rows are read. A table that does not have them is
// rejected with ErrMalformedBlock; callers skip it and keep going.
package extract
