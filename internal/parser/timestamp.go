package parser

import "regexp"

// Timestamp shapes are attempted in order; the first match wins. The shapes
// are mutually exclusive in practice, but ordering is still the contract.
var timestampPatterns = []*regexp.Regexp{
	// ISO-like: 2023-05-15 14:23:10 (also tolerates a T separator)
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}`),
	// US slash date + time: 5/15/2023 14:23:10
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4} \d{1,2}:\d{2}:\d{2}`),
	// Bare month/day/time (syslog): Oct 11 22:14:15
	regexp.MustCompile(`[A-Z][a-z]{2} {1,2}\d{1,2} \d{2}:\d{2}:\d{2}`),
}

// ExtractTimestamp returns the first substring of line matching any known
// timestamp shape, or "" when none match.
func ExtractTimestamp(line string) string {
	for _, re := range timestampPatterns {
		if m := re.FindString(line); m != "" {
			return m
		}
	}
	return ""
}
