// Package ansi removes terminal escape sequences from text.
//
// Audit tools colorize their table output when attached to a terminal and
// frequently keep doing so when piped. The sequences are removed line by
// line before any box-drawing glyph detection takes place, so that a
// colored border character is still recognized as a border.
package ansi
