package parser

import (
	"strings"

	"github.com/log-sentinel/backend/internal/models"
)

// CSVParser handles comma-separated logs. The first line is the header row;
// each subsequent line's values zip with the headers into a record. Lines
// with fewer values than headers are not an error: the missing columns are
// simply absent from the record.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Name() string {
	return "csv"
}

func (p *CSVParser) Parse(content []byte) ([]models.LogRecord, error) {
	lines := splitLines(string(content))
	if len(lines) == 0 {
		return []models.LogRecord{}, nil
	}

	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	records := make([]models.LogRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		fields := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" || i >= len(values) {
				continue
			}
			fields[h] = strings.TrimSpace(values[i])
		}

		rec := models.LogRecord{
			Raw:       line,
			Message:   fields["message"],
			Timestamp: fields["timestamp"],
			Host:      fields["host"],
			Source:    fields["source"],
			Fields:    fields,
		}
		if rec.Timestamp == "" {
			rec.Timestamp = ExtractTimestamp(line)
		}
		records = append(records, rec)
	}
	return records, nil
}
