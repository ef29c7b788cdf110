package models

// Severity is a coarse ordinal impact ranking: critical > high > medium > low.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists all severities in descending order of impact. Aggregation
// keys its severity histogram off this list so every bucket is always present.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// AttackSignature is one entry in the security pattern catalog.
// Patterns are case-insensitive substrings tested in declared order; the
// first hit settles the match. Exactly one severity per category.
type AttackSignature struct {
	Category    string   `json:"category" yaml:"category"`
	Patterns    []string `json:"patterns" yaml:"patterns"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Context     []string `json:"context,omitempty" yaml:"context,omitempty"`
	Impact      []string `json:"impact,omitempty" yaml:"impact,omitempty"`
	Mitigations []string `json:"mitigations,omitempty" yaml:"mitigations,omitempty"`
}

// Recommendation returns the signature's primary remediation step, used to
// build the snapshot's recommendation set.
func (s *AttackSignature) Recommendation() string {
	if len(s.Mitigations) == 0 {
		return ""
	}
	return s.Mitigations[0]
}
