package model

// keySeparator joins the dedup key parts. Terminal text never carries NUL,
// so two different (package, reason) pairs cannot produce the same key.
const keySeparator = "\x00"

// Vulnerability is one advisory as printed by the audit tool.
// All fields are plain strings and may be empty; the audit output is
// copied as-is without interpretation.
type Vulnerability struct {
	// Severity is the label of the first table row, e.g. "high".
	Severity string `json:"severity"`

	// Reason is the advisory title, e.g. "Prototype Pollution".
	Reason string `json:"reason"`

	// Package is the vulnerable package name.
	Package string `json:"package"`

	// PatchedIn is the version range that fixes the advisory.
	PatchedIn string `json:"patchedIn"`

	// Dependency is the direct dependency that pulls the package in.
	Dependency string `json:"dependency"`
}

// DedupKey identifies "the same vulnerability": same package and same
// reason text. Severity and PatchedIn are deliberately not part of it.
func (v Vulnerability) DedupKey() string {
	return v.Package + keySeparator + v.Reason
}

// Level returns the parsed severity of the record.
func (v Vulnerability) Level() Severity {
	return ParseSeverity(v.Severity)
}
