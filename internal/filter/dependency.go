package filter

import "github.com/nao1215/auditcsv/internal/model"

// DependencySet is the read-only set of direct dependency names.
type DependencySet interface {
	Has(name string) bool
}

// Dependencies keeps records whose Dependency field is a direct dependency.
type Dependencies struct {
	set DependencySet
}

// NewDependencies returns a filter over set. A nil set rejects everything.
func NewDependencies(set DependencySet) *Dependencies {
	return &Dependencies{set: set}
}

// Keep reports whether v should stay in the report.
func (d *Dependencies) Keep(v model.Vulnerability) bool {
	if d.set == nil {
		return false
	}
	return d.set.Has(v.Dependency)
}
