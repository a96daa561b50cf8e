// Package table reconstructs box-drawn tables from a stream of text lines.
//
// Audit tools render each advisory as a small two-column table:
//
//	┌───────────────┬──────────────────────────┐
//	│ high          │ Prototype Pollution      │
//	├───────────────┼──────────────────────────┤
//	│ Package       │ left-pad                 │
//	└───────────────┴──────────────────────────┘
//
// The Parser is a finite state machine fed one line at a time. It only
// understands delimiter structure: which lines open a table, separate rows,
// carry cell content and close a table. What the cells mean is decided by
// the caller.
package table
