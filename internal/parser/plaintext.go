package parser

import "github.com/log-sentinel/backend/internal/models"

// PlainTextParser handles plain text logs: one record per line. It also
// serves EVTX export files, which arrive as line-oriented text rather than
// the binary EVTX container.
type PlainTextParser struct{}

func NewPlainTextParser() *PlainTextParser {
	return &PlainTextParser{}
}

func (p *PlainTextParser) Name() string {
	return "plaintext"
}

func (p *PlainTextParser) Parse(content []byte) ([]models.LogRecord, error) {
	lines := splitLines(string(content))
	records := make([]models.LogRecord, 0, len(lines))
	for _, line := range lines {
		records = append(records, models.LogRecord{
			Raw:       line,
			Message:   line,
			Timestamp: ExtractTimestamp(line),
		})
	}
	return records, nil
}
