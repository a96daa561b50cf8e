package model

// Summary counts what happened to the tables seen during one run.
//
// Every emitted Block ends up in exactly one of Malformed, Filtered,
// Duplicates or Emitted.
type Summary struct {
	// Blocks is the number of complete tables seen.
	Blocks int `json:"blocks"`

	// Malformed is the number of tables that could not be read as a record.
	Malformed int `json:"malformed"`

	// Filtered is the number of records dropped because their dependency
	// is not a direct dependency of the project.
	Filtered int `json:"filtered"`

	// Duplicates is the number of records dropped as already reported.
	Duplicates int `json:"duplicates"`

	// Emitted is the number of records written to the report.
	Emitted int `json:"emitted"`

	// BySeverity counts emitted records per severity level.
	BySeverity map[Severity]int `json:"bySeverity"`
}

// NewSummary returns an empty Summary.
func NewSummary() *Summary {
	return &Summary{BySeverity: make(map[Severity]int)}
}

// AddEmitted records v as written to the report.
func (s *Summary) AddEmitted(v Vulnerability) {
	if s.BySeverity == nil {
		s.BySeverity = make(map[Severity]int)
	}
	s.Emitted++
	s.BySeverity[v.Level()]++
}

// Count returns the number of emitted records with the given severity.
func (s *Summary) Count(level Severity) int {
	return s.BySeverity[level]
}

// Worst returns the highest severity among emitted records,
// or SeverityUnknown if nothing was emitted.
func (s *Summary) Worst() Severity {
	for _, level := range Severities() {
		if s.BySeverity[level] > 0 {
			return level
		}
	}
	return SeverityUnknown
}

// Dropped returns the number of tables that did not reach the report.
func (s *Summary) Dropped() int {
	return s.Malformed + s.Filtered + s.Duplicates
}
