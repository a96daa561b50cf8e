package model

import "strings"

// Severity orders the severity labels printed by npm-style audit tools.
// Labels outside the known set map to SeverityUnknown; they are still
// reported unchanged, only their ordering is undefined.
type Severity int

const (
	// SeverityUnknown is any label the audit tool printed that is not listed below.
	SeverityUnknown Severity = iota

	// SeverityInfo is an informational advisory.
	SeverityInfo

	// SeverityLow is a low impact advisory.
	SeverityLow

	// SeverityModerate is the audit tool's middle level.
	SeverityModerate

	// SeverityHigh is a high impact advisory.
	SeverityHigh

	// SeverityCritical is the most severe level.
	SeverityCritical
)

// String returns the label as the audit tool prints it.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityLow:
		return "low"
	case SeverityModerate:
		return "moderate"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseSeverity maps an audit label to a Severity, ignoring case and
// surrounding whitespace. "medium" is accepted as an alias of moderate.
func ParseSeverity(label string) Severity {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "info":
		return SeverityInfo
	case "low":
		return SeverityLow
	case "moderate", "medium":
		return SeverityModerate
	case "high":
		return SeverityHigh
	case "critical":
		return SeverityCritical
	default:
		return SeverityUnknown
	}
}

// Severities returns all levels from most to least severe.
func Severities() []Severity {
	return []Severity{
		SeverityCritical,
		SeverityHigh,
		SeverityModerate,
		SeverityLow,
		SeverityInfo,
		SeverityUnknown,
	}
}

// MarshalText encodes the severity as its label.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a label produced by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	*s = ParseSeverity(string(text))
	return nil
}
