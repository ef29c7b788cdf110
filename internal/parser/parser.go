// Package parser turns raw log file content into ordered LogRecord sequences.
// Each format parser normalizes its input into the uniform record shape;
// parsers never reorder input lines.
package parser

import (
	"strings"

	"github.com/log-sentinel/backend/internal/models"
)

// Parser defines the interface for log format parsers.
type Parser interface {
	// Name returns the unique name of the parser.
	Name() string
	// Parse converts raw file content into an ordered sequence of records.
	// Malformed input is recovered locally: parsers return an empty or
	// best-effort-partial sequence rather than failing the whole file.
	Parse(content []byte) ([]models.LogRecord, error)
}

// splitLines splits content into lines, tolerating CRLF endings and a UTF-8
// BOM on the first line. A trailing newline does not produce a final empty
// line.
func splitLines(content string) []string {
	content = strings.TrimPrefix(content, "\xEF\xBB\xBF")
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
