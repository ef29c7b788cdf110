package parser

import (
	"regexp"

	"github.com/log-sentinel/backend/internal/models"
)

// SyslogParser handles RFC 3164-like syslog lines:
//
//	<priority>timestamp host message
//
// Lines that do not match fall back to a plain record with Raw == Message.
type SyslogParser struct {
	lineRegex *regexp.Regexp
}

func NewSyslogParser() *SyslogParser {
	return &SyslogParser{
		lineRegex: regexp.MustCompile(`^<(\d{1,3})>([A-Z][a-z]{2} {1,2}\d{1,2} \d{2}:\d{2}:\d{2}) (\S+) (.*)$`),
	}
}

func (p *SyslogParser) Name() string {
	return "syslog"
}

func (p *SyslogParser) Parse(content []byte) ([]models.LogRecord, error) {
	lines := splitLines(string(content))
	records := make([]models.LogRecord, 0, len(lines))
	for _, line := range lines {
		m := p.lineRegex.FindStringSubmatch(line)
		if m == nil {
			records = append(records, models.LogRecord{
				Raw:       line,
				Message:   line,
				Timestamp: ExtractTimestamp(line),
			})
			continue
		}
		records = append(records, models.LogRecord{
			Raw:       line,
			Priority:  m[1],
			Timestamp: m[2],
			Host:      m[3],
			Message:   m[4],
		})
	}
	return records, nil
}
