package model

import "testing"

func TestVulnerabilityDedupKey(t *testing.T) {
	t.Parallel()

	t.Run("ignores severity and patched version", func(t *testing.T) {
		t.Parallel()

		a := Vulnerability{Severity: "high", Reason: "Prototype Pollution", Package: "lodash", PatchedIn: ">=4.17.5"}
		b := Vulnerability{Severity: "low", Reason: "Prototype Pollution", Package: "lodash", PatchedIn: ">=4.17.11"}
		if a.DedupKey() != b.DedupKey() {
			t.Errorf("expected equal keys, got %q and %q", a.DedupKey(), b.DedupKey())
		}
	})

	t.Run("distinguishes shifted field boundaries", func(t *testing.T) {
		t.Parallel()

		a := Vulnerability{Package: "a/b", Reason: "c"}
		b := Vulnerability{Package: "a", Reason: "b/c"}
		if a.DedupKey() == b.DedupKey() {
			t.Errorf("expected different keys, both were %q", a.DedupKey())
		}
	})
}

func TestVulnerabilityLevel(t *testing.T) {
	t.Parallel()

	v := Vulnerability{Severity: "moderate"}
	if v.Level() != SeverityModerate {
		t.Errorf("expected moderate, got %v", v.Level())
	}
}
