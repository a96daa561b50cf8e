package ansi

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// sequenceBody is everything after the introducer of a CSI or related sequence.
const sequenceBody = `[\[()#;?]*(?:[0-9]{1,4}(?:;[0-9]{0,4})*)?[0-9A-ORZcf-nqry=><]`

// rawCSI is the 8-bit CSI introducer as a single byte, as written by
// terminals that do not encode their output as UTF-8.
const rawCSI = 0x9b

var (
	// escapePattern matches sequences introduced by the 7-bit ESC byte
	// (0x1B) or the UTF-8 encoding of the 8-bit CSI code point (U+009B).
	escapePattern = regexp.MustCompile("[\u001b\u009b]" + sequenceBody)

	// bodyPattern matches a sequence body at the start of its input.
	bodyPattern = regexp.MustCompile("^" + sequenceBody)
)

// Strip returns s with all recognized escape sequences removed.
// Text that does not form a complete sequence is left untouched.
//
// A raw 0x9B byte introduces a sequence only where it is not part of a
// valid UTF-8 encoding; inside a multi-byte character it is text.
//
// Removing a sequence can join its neighbours into a new one
// ("\x1b[" followed by a stripped sequence and then "m"), so replacement
// repeats until the text is stable. This keeps Strip idempotent.
func Strip(s string) string {
	for {
		next := stripRaw(escapePattern.ReplaceAllString(s, ""))
		if next == s {
			return s
		}
		s = next
	}
}

// StripBytes is the []byte counterpart of Strip.
func StripBytes(b []byte) []byte {
	return []byte(Strip(string(b)))
}

// Contains reports whether s holds at least one escape sequence.
func Contains(s string) bool {
	return escapePattern.MatchString(s) || stripRaw(s) != s
}

// stripRaw removes sequences introduced by a stray raw CSI byte.
func stripRaw(s string) string {
	if strings.IndexByte(s, rawCSI) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 && s[i] == rawCSI {
			if loc := bodyPattern.FindStringIndex(s[i+1:]); loc != nil {
				i += 1 + loc[1]
				continue
			}
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}
