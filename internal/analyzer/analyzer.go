package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/log-sentinel/backend/internal/catalog"
	"github.com/log-sentinel/backend/internal/models"
	"github.com/log-sentinel/backend/internal/parser"
)

// ipv4Regex extracts source addresses from message text for the IP
// frequency table.
var ipv4Regex = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

// Engine runs the full ingestion pipeline: format dispatch, parsing,
// classification, and aggregation. It holds no per-run state; every call
// returns a fresh snapshot owned by the caller.
type Engine struct {
	catalog    *catalog.Catalog
	classifier *Classifier
	registry   *parser.Registry
}

// NewEngine creates an Engine over the given catalog.
func NewEngine(cat *catalog.Catalog) *Engine {
	return &Engine{
		catalog:    cat,
		classifier: NewClassifier(cat),
		registry:   parser.GetGlobalRegistry(),
	}
}

// Catalog returns the engine's signature catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// NamedContent is one file's content paired with its name. The name selects
// the parser by extension.
type NamedContent struct {
	Name    string
	Content []byte
}

// AnalyzeContent parses one file's content and aggregates the records into
// a snapshot.
func (e *Engine) AnalyzeContent(filename string, content []byte) (*models.AnalysisSnapshot, error) {
	p := e.registry.ParserFor(filename)
	records, err := p.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing %s with %s parser: %w", filename, p.Name(), err)
	}
	snapshot := e.Aggregate(records)
	for i := range snapshot.Events {
		snapshot.Events[i].SourceFile = filename
	}
	return snapshot, nil
}

// AnalyzeFiles analyzes files sequentially, one file fully before the next.
// Each file is atomic: a file whose parse fails contributes nothing to the
// combined snapshot, and its failure is reported alongside the results of
// the files that succeeded.
func (e *Engine) AnalyzeFiles(files []NamedContent) (*models.AnalysisSnapshot, []models.FileError) {
	combined := models.NewAnalysisSnapshot()
	var failures []models.FileError
	for _, f := range files {
		snapshot, err := e.AnalyzeContent(f.Name, f.Content)
		if err != nil {
			failures = append(failures, models.FileError{FileName: f.Name, Reason: err.Error()})
			continue
		}
		combined.Merge(snapshot)
	}
	return combined, failures
}

// Aggregate folds an ordered record sequence into a snapshot. Records whose
// resolved message is empty or whitespace-only are skipped entirely. Only
// classified records contribute to the category, severity, timeline, and
// source histograms; the IP frequency table covers every counted record.
func (e *Engine) Aggregate(records []models.LogRecord) *models.AnalysisSnapshot {
	snapshot := models.NewAnalysisSnapshot()

	for i := range records {
		record := &records[i]
		message := record.Text()
		if strings.TrimSpace(message) == "" {
			continue
		}

		snapshot.TotalCount++

		if ip := ipv4Regex.FindString(message); ip != "" {
			snapshot.IPCounts[ip]++
		}

		result := e.classifier.Classify(message)
		switch result.Severity {
		case models.SeverityCritical:
			snapshot.CriticalCount++
		case models.SeverityHigh:
			snapshot.WarningCount++
		}

		if !result.Matched() {
			continue
		}

		snapshot.CategoryCounts[result.Category]++
		snapshot.SeverityCounts[result.Severity]++
		snapshot.TimelineCounts[timelineKey(record.Timestamp)]++
		if origin := record.Origin(); origin != "" {
			snapshot.SourceCounts[origin]++
		}

		timestamp := record.Timestamp
		if timestamp == "" {
			timestamp = models.TimelineUnknown
		}
		snapshot.Events = append(snapshot.Events, models.SecurityEvent{
			LineText:   message,
			LineNumber: i + 1,
			Category:   result.Category,
			Severity:   result.Severity,
			Timestamp:  timestamp,
		})
		if sig := e.catalog.Get(result.Category); sig != nil {
			snapshot.AddRecommendation(sig.Recommendation())
		}
	}

	snapshot.UniqueIPCount = len(snapshot.IPCounts)
	return snapshot
}

// timelineKey buckets a timestamp by its date portion: the text before the
// first space or T separator. Records without a timestamp land in the
// "Unknown" bucket.
func timelineKey(timestamp string) string {
	if timestamp == "" {
		return models.TimelineUnknown
	}
	if idx := strings.IndexAny(timestamp, " T"); idx >= 0 {
		return timestamp[:idx]
	}
	return timestamp
}
