// Package filter holds the record stages that decide whether a
// vulnerability reaches the report.
//
// Dependencies keeps only records pulled in by a direct dependency of the
// project. UniqueBy suppresses values whose key was already seen; it is
// generic so any stage can deduplicate on its own notion of identity.
package filter
