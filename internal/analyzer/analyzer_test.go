package analyzer

import (
	"fmt"
	"testing"

	"github.com/log-sentinel/backend/internal/catalog"
	"github.com/log-sentinel/backend/internal/models"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(catalog.Default())
}

// ============ Classifier Tests ============

func TestClassify(t *testing.T) {
	c := NewClassifier(catalog.Default())

	t.Run("failed login classifies as bruteforce", func(t *testing.T) {
		result := c.Classify("Failed login attempt from 10.0.0.1")
		if result.Category != "bruteforce" {
			t.Errorf("Expected bruteforce, got %q", result.Category)
		}
		if result.Severity != models.SeverityHigh {
			t.Errorf("Expected high severity, got %q", result.Severity)
		}
	})

	t.Run("sql injection classifies as injection", func(t *testing.T) {
		result := c.Classify("SQL injection attempt detected: ' OR 1=1 --")
		if result.Category != "injection" {
			t.Errorf("Expected injection, got %q", result.Category)
		}
		if result.Severity != models.SeverityCritical {
			t.Errorf("Expected critical severity, got %q", result.Severity)
		}
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		result := c.Classify("FAILED LOGIN for admin")
		if result.Category != "bruteforce" {
			t.Errorf("Expected bruteforce, got %q", result.Category)
		}
	})

	t.Run("earlier category wins on multi-category match", func(t *testing.T) {
		// Mentions both injection and bruteforce patterns; injection is
		// declared first.
		result := c.Classify("failed login followed by sql injection probe")
		if result.Category != "injection" {
			t.Errorf("Expected injection to win, got %q", result.Category)
		}
	})

	t.Run("unmatched message yields empty category low severity", func(t *testing.T) {
		result := c.Classify("su: failure")
		if result.Matched() {
			t.Errorf("Expected no match, got category %q", result.Category)
		}
		if result.Severity != models.SeverityLow {
			t.Errorf("Expected low severity, got %q", result.Severity)
		}
	})

	t.Run("classification is deterministic", func(t *testing.T) {
		msg := "Failed password for root from 192.168.1.5"
		first := c.Classify(msg)
		second := c.Classify(msg)
		if first != second {
			t.Errorf("Expected identical results, got %v and %v", first, second)
		}
	})
}

// ============ Aggregation Tests ============

func TestAggregate(t *testing.T) {
	engine := testEngine(t)

	t.Run("empty input yields zeroed snapshot", func(t *testing.T) {
		snapshot := engine.Aggregate(nil)
		if snapshot.TotalCount != 0 || len(snapshot.Events) != 0 {
			t.Errorf("Expected empty snapshot, got total=%d events=%d", snapshot.TotalCount, len(snapshot.Events))
		}
		for _, sev := range models.Severities {
			if count, ok := snapshot.SeverityCounts[sev]; !ok || count != 0 {
				t.Errorf("Expected zeroed bucket for %s, got %d (present=%v)", sev, count, ok)
			}
		}
	})

	t.Run("blank messages are skipped entirely", func(t *testing.T) {
		records := []models.LogRecord{
			{Raw: ""},
			{Raw: "   \t"},
			{Raw: "Failed login attempt"},
		}
		snapshot := engine.Aggregate(records)
		if snapshot.TotalCount != 1 {
			t.Errorf("Expected total 1, got %d", snapshot.TotalCount)
		}
	})

	t.Run("severity counts sum to matched events", func(t *testing.T) {
		records := []models.LogRecord{
			{Raw: "Failed login attempt from 10.0.0.1"},
			{Raw: "SQL injection attempt detected"},
			{Raw: "port scan from 10.0.0.2"},
			{Raw: "routine heartbeat"}, // unmatched
		}
		snapshot := engine.Aggregate(records)

		sum := 0
		for _, count := range snapshot.SeverityCounts {
			sum += count
		}
		if sum != len(snapshot.Events) {
			t.Errorf("Severity counts sum %d != matched events %d", sum, len(snapshot.Events))
		}
		if len(snapshot.Events) != 3 {
			t.Errorf("Expected 3 matched events, got %d", len(snapshot.Events))
		}
		if snapshot.TotalCount != 4 {
			t.Errorf("Expected total 4, got %d", snapshot.TotalCount)
		}
		if snapshot.CriticalCount != 1 {
			t.Errorf("Expected 1 critical, got %d", snapshot.CriticalCount)
		}
		if snapshot.WarningCount != 1 {
			t.Errorf("Expected 1 warning (high), got %d", snapshot.WarningCount)
		}
	})

	t.Run("timeline buckets by date portion", func(t *testing.T) {
		records := []models.LogRecord{
			{Raw: "Failed login", Message: "Failed login", Timestamp: "2023-05-15 14:23:10"},
			{Raw: "Failed login", Message: "Failed login", Timestamp: "2023-05-15 16:01:44"},
			{Raw: "Failed login", Message: "Failed login"},
		}
		snapshot := engine.Aggregate(records)
		if snapshot.TimelineCounts["2023-05-15"] != 2 {
			t.Errorf("Expected 2 in 2023-05-15 bucket, got %d", snapshot.TimelineCounts["2023-05-15"])
		}
		if snapshot.TimelineCounts[models.TimelineUnknown] != 1 {
			t.Errorf("Expected 1 in Unknown bucket, got %d", snapshot.TimelineCounts[models.TimelineUnknown])
		}
	})

	t.Run("timeline buckets T-separated timestamps by date", func(t *testing.T) {
		records := []models.LogRecord{
			{Raw: "Failed login", Message: "Failed login", Timestamp: "2023-05-15T14:23:10"},
			{Raw: "Failed login", Message: "Failed login", Timestamp: "2023-05-15T16:01:44"},
			{Raw: "Failed login", Message: "Failed login", Timestamp: "2023-05-15 18:30:00"},
		}
		snapshot := engine.Aggregate(records)
		if len(snapshot.TimelineCounts) != 1 {
			t.Errorf("Expected a single timeline bucket, got %v", snapshot.TimelineCounts)
		}
		if snapshot.TimelineCounts["2023-05-15"] != 3 {
			t.Errorf("Expected 3 in 2023-05-15 bucket, got %d", snapshot.TimelineCounts["2023-05-15"])
		}
	})

	t.Run("eventless records contribute no histograms", func(t *testing.T) {
		records := []models.LogRecord{
			{Raw: "routine heartbeat", Timestamp: "2023-05-15 14:23:10", Host: "web01"},
		}
		snapshot := engine.Aggregate(records)
		if len(snapshot.TimelineCounts) != 0 || len(snapshot.SourceCounts) != 0 || len(snapshot.CategoryCounts) != 0 {
			t.Error("Expected unmatched record to be excluded from histograms")
		}
	})

	t.Run("source counts prefer host over source", func(t *testing.T) {
		records := []models.LogRecord{
			{Raw: "Failed login", Message: "Failed login", Host: "web01", Source: "auth"},
			{Raw: "Failed login", Message: "Failed login", Source: "auth"},
			{Raw: "Failed login", Message: "Failed login"},
		}
		snapshot := engine.Aggregate(records)
		if snapshot.SourceCounts["web01"] != 1 {
			t.Errorf("Expected host preferred, got %v", snapshot.SourceCounts)
		}
		if snapshot.SourceCounts["auth"] != 1 {
			t.Errorf("Expected source fallback, got %v", snapshot.SourceCounts)
		}
		if len(snapshot.SourceCounts) != 2 {
			t.Errorf("Expected originless record excluded, got %v", snapshot.SourceCounts)
		}
	})

	t.Run("ip frequency covers all counted records", func(t *testing.T) {
		records := []models.LogRecord{
			{Raw: "Failed login from 10.0.0.1"},
			{Raw: "heartbeat from 10.0.0.1"}, // unmatched but still counted
			{Raw: "heartbeat from 10.0.0.2"},
		}
		snapshot := engine.Aggregate(records)
		if snapshot.IPCounts["10.0.0.1"] != 2 {
			t.Errorf("Expected 10.0.0.1 twice, got %v", snapshot.IPCounts)
		}
		if snapshot.UniqueIPCount != 2 {
			t.Errorf("Expected 2 unique IPs, got %d", snapshot.UniqueIPCount)
		}
	})

	t.Run("events carry line numbers and recommendations deduplicate", func(t *testing.T) {
		records := []models.LogRecord{
			{Raw: "ok line"},
			{Raw: "Failed login attempt"},
			{Raw: "Failed password for root"},
		}
		snapshot := engine.Aggregate(records)
		if len(snapshot.Events) != 2 {
			t.Fatalf("Expected 2 events, got %d", len(snapshot.Events))
		}
		if snapshot.Events[0].LineNumber != 2 || snapshot.Events[1].LineNumber != 3 {
			t.Errorf("Expected line numbers 2 and 3, got %d and %d",
				snapshot.Events[0].LineNumber, snapshot.Events[1].LineNumber)
		}
		// Both events are bruteforce; one recommendation.
		if len(snapshot.Recommendations) != 1 {
			t.Errorf("Expected 1 deduplicated recommendation, got %d", len(snapshot.Recommendations))
		}
	})

	t.Run("aggregation is repeatable", func(t *testing.T) {
		records := []models.LogRecord{
			{Raw: "Failed login from 10.0.0.1", Timestamp: "2023-05-15 14:23:10"},
			{Raw: "SQL injection attempt"},
		}
		first := engine.Aggregate(records)
		second := engine.Aggregate(records)
		if fmt.Sprintf("%+v", first) != fmt.Sprintf("%+v", second) {
			t.Error("Expected identical snapshots for identical input")
		}
	})
}

// ============ Content / Multi-File Tests ============

func TestAnalyzeContent(t *testing.T) {
	engine := testEngine(t)

	t.Run("dispatches parser by extension", func(t *testing.T) {
		content := []byte("timestamp,message\n2023-05-15 14:23:10,Failed login attempt\n")
		snapshot, err := engine.AnalyzeContent("auth.csv", content)
		if err != nil {
			t.Fatalf("AnalyzeContent failed: %v", err)
		}
		if len(snapshot.Events) != 1 {
			t.Fatalf("Expected 1 event, got %d", len(snapshot.Events))
		}
		if snapshot.Events[0].SourceFile != "auth.csv" {
			t.Errorf("Expected source file stamped, got %q", snapshot.Events[0].SourceFile)
		}
		if snapshot.Events[0].Category != "bruteforce" {
			t.Errorf("Expected bruteforce, got %q", snapshot.Events[0].Category)
		}
	})

	t.Run("invalid JSON content yields empty snapshot", func(t *testing.T) {
		snapshot, err := engine.AnalyzeContent("events.json", []byte("not valid json{"))
		if err != nil {
			t.Fatalf("Expected swallowed parse error, got %v", err)
		}
		if snapshot.TotalCount != 0 {
			t.Errorf("Expected empty snapshot, got total %d", snapshot.TotalCount)
		}
	})
}

func TestAnalyzeFiles(t *testing.T) {
	engine := testEngine(t)

	t.Run("merges snapshots across files", func(t *testing.T) {
		files := []NamedContent{
			{Name: "a.log", Content: []byte("Failed login from 10.0.0.1\n")},
			{Name: "b.log", Content: []byte("SQL injection attempt\nFailed login from 10.0.0.1\n")},
		}
		snapshot, failures := engine.AnalyzeFiles(files)
		if len(failures) != 0 {
			t.Fatalf("Expected no failures, got %v", failures)
		}
		if snapshot.TotalCount != 3 {
			t.Errorf("Expected total 3, got %d", snapshot.TotalCount)
		}
		if snapshot.CategoryCounts["bruteforce"] != 2 {
			t.Errorf("Expected 2 bruteforce, got %v", snapshot.CategoryCounts)
		}
		if snapshot.IPCounts["10.0.0.1"] != 2 {
			t.Errorf("Expected merged IP counts, got %v", snapshot.IPCounts)
		}
		// Line numbers stay per-file.
		if snapshot.Events[1].LineNumber != 1 {
			t.Errorf("Expected per-file line numbering, got %d", snapshot.Events[1].LineNumber)
		}
	})

	t.Run("empty file list", func(t *testing.T) {
		snapshot, failures := engine.AnalyzeFiles(nil)
		if len(failures) != 0 || snapshot.TotalCount != 0 {
			t.Errorf("Expected empty result, got total=%d failures=%v", snapshot.TotalCount, failures)
		}
	})
}
