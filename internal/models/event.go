package models

// SecurityEvent is a log record that matched a signature, enriched for
// reporting. LineNumber is the 1-based position within the record's file.
type SecurityEvent struct {
	LineText   string   `json:"lineText"`
	LineNumber int      `json:"lineNumber"`
	Category   string   `json:"category"`
	Severity   Severity `json:"severity"`
	Timestamp  string   `json:"timestamp"` // "Unknown" when the record carried none
	SourceFile string   `json:"sourceFile,omitempty"`
}

// Recommendation is one advisory returned by the external enrichment service.
type Recommendation struct {
	Category    string   `json:"category"`
	Priority    string   `json:"priority"`
	Frequency   int      `json:"frequency"`
	Context     []string `json:"context,omitempty"`
	Impact      []string `json:"impact,omitempty"`
	Mitigations []string `json:"mitigations,omitempty"`
	Description string   `json:"description,omitempty"`
}
