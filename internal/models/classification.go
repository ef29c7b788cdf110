package models

// ClassificationResult is the outcome of classifying one message.
// Category is "" when no signature matched; Severity then defaults to low.
// When Category is set, Severity equals that category's signature severity.
type ClassificationResult struct {
	Category string   `json:"category,omitempty"`
	Severity Severity `json:"severity"`
}

// Matched reports whether a signature matched the message.
func (c ClassificationResult) Matched() bool {
	return c.Category != ""
}
