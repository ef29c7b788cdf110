package parser

import (
	"path/filepath"
	"strings"
)

// Registry maps file extensions to parsers. Selection is pure: an
// unrecognized extension falls back to the plain text parser, never an
// error.
type Registry struct {
	byExtension map[string]Parser
	fallback    Parser
}

// Global registry instance
var globalRegistry = NewRegistry()

func NewRegistry() *Registry {
	plain := NewPlainTextParser()
	return &Registry{
		byExtension: map[string]Parser{
			"csv":    NewCSVParser(),
			"json":   NewJSONParser(),
			"syslog": NewSyslogParser(),
			"bin":    NewBinaryParser(),
			"evtx":   plain,
			"txt":    plain,
			"log":    plain,
		},
		fallback: plain,
	}
}

// GetGlobalRegistry returns the singleton registry.
func GetGlobalRegistry() *Registry {
	return globalRegistry
}

// Register adds or replaces the parser for an extension.
func (r *Registry) Register(ext string, p Parser) {
	r.byExtension[strings.ToLower(strings.TrimPrefix(ext, "."))] = p
}

// ParserFor selects the parser for a filename by its lower-cased extension.
func (r *Registry) ParserFor(filename string) Parser {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if p, ok := r.byExtension[ext]; ok {
		return p
	}
	return r.fallback
}
