// Package models contains domain types for the Security Log Analyzer.
package models

// LogRecord represents a single normalized entry produced by a format parser.
// Raw is always present; Message falls back to Raw when a format carries no
// separate message field. Records are immutable once created.
type LogRecord struct {
	Raw       string            `json:"raw"`
	Message   string            `json:"message,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Host      string            `json:"host,omitempty"`
	Source    string            `json:"source,omitempty"`
	Priority  string            `json:"priority,omitempty"` // syslog PRI value
	Fields    map[string]string `json:"fields,omitempty"`   // format-specific extras (CSV columns, JSON keys)
}

// Text resolves the string used for classification: Message when set,
// otherwise Raw.
func (r *LogRecord) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.Raw
}

// Origin returns the record's origin identifier (host preferred over source),
// or "" when the record carries neither.
func (r *LogRecord) Origin() string {
	if r.Host != "" {
		return r.Host
	}
	return r.Source
}
