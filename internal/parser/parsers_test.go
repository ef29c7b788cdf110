// parsers_test.go - Tests for the format parsers and extension registry
package parser

import (
	"testing"
)

// ============ Timestamp Extraction Tests ============

func TestExtractTimestamp(t *testing.T) {
	t.Run("iso date time", func(t *testing.T) {
		ts := ExtractTimestamp("2023-05-15 14:23:10 sshd[123]: Failed password for root")
		if ts != "2023-05-15 14:23:10" {
			t.Errorf("Expected '2023-05-15 14:23:10', got %q", ts)
		}
	})

	t.Run("iso with T separator", func(t *testing.T) {
		ts := ExtractTimestamp(`{"time":"2023-05-15T14:23:10Z"}`)
		if ts != "2023-05-15T14:23:10" {
			t.Errorf("Expected '2023-05-15T14:23:10', got %q", ts)
		}
	})

	t.Run("us slash date", func(t *testing.T) {
		ts := ExtractTimestamp("5/15/2023 14:23:10 EventID=4625")
		if ts != "5/15/2023 14:23:10" {
			t.Errorf("Expected '5/15/2023 14:23:10', got %q", ts)
		}
	})

	t.Run("syslog month day", func(t *testing.T) {
		ts := ExtractTimestamp("Oct 11 22:14:15 mymachine su: failure")
		if ts != "Oct 11 22:14:15" {
			t.Errorf("Expected 'Oct 11 22:14:15', got %q", ts)
		}
	})

	t.Run("syslog single digit day with double space", func(t *testing.T) {
		ts := ExtractTimestamp("Oct  5 03:01:00 host sshd: failed login")
		if ts != "Oct  5 03:01:00" {
			t.Errorf("Expected 'Oct  5 03:01:00', got %q", ts)
		}
	})

	t.Run("no timestamp", func(t *testing.T) {
		if ts := ExtractTimestamp("no time here"); ts != "" {
			t.Errorf("Expected empty string, got %q", ts)
		}
	})
}

// ============ Plain Text Parser Tests ============

func TestPlainTextParser(t *testing.T) {
	parser := NewPlainTextParser()

	t.Run("one record per line", func(t *testing.T) {
		content := "2023-05-15 14:23:10 first line\nsecond line\n"
		records, err := parser.Parse([]byte(content))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(records))
		}
		if records[0].Timestamp != "2023-05-15 14:23:10" {
			t.Errorf("Expected extracted timestamp, got %q", records[0].Timestamp)
		}
		if records[1].Message != "second line" {
			t.Errorf("Expected 'second line', got %q", records[1].Message)
		}
	})

	t.Run("handles UTF-8 BOM and CRLF", func(t *testing.T) {
		content := "\xEF\xBB\xBFline one\r\nline two\r\n"
		records, err := parser.Parse([]byte(content))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(records))
		}
		if records[0].Raw != "line one" {
			t.Errorf("Expected BOM stripped, got %q", records[0].Raw)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		records, err := parser.Parse([]byte(""))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("Expected no records, got %d", len(records))
		}
	})
}

// ============ CSV Parser Tests ============

func TestCSVParser(t *testing.T) {
	parser := NewCSVParser()

	t.Run("header zip", func(t *testing.T) {
		content := "a,b\n1,2\n"
		records, err := parser.Parse([]byte(content))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Expected 1 record, got %d", len(records))
		}
		if records[0].Fields["a"] != "1" || records[0].Fields["b"] != "2" {
			t.Errorf("Expected fields a=1 b=2, got %v", records[0].Fields)
		}
	})

	t.Run("uniform columns", func(t *testing.T) {
		content := "timestamp,host,message\n2023-05-15 14:23:10,web01,Failed login attempt\n"
		records, err := parser.Parse([]byte(content))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		rec := records[0]
		if rec.Timestamp != "2023-05-15 14:23:10" {
			t.Errorf("Expected timestamp column, got %q", rec.Timestamp)
		}
		if rec.Host != "web01" {
			t.Errorf("Expected host column, got %q", rec.Host)
		}
		if rec.Message != "Failed login attempt" {
			t.Errorf("Expected message column, got %q", rec.Message)
		}
	})

	t.Run("short row keeps missing columns absent", func(t *testing.T) {
		content := "a,b,c\n1,2\n"
		records, err := parser.Parse([]byte(content))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if _, ok := records[0].Fields["c"]; ok {
			t.Error("Expected missing column to be absent from fields")
		}
	})

	t.Run("header only", func(t *testing.T) {
		records, err := parser.Parse([]byte("a,b,c\n"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("Expected no records, got %d", len(records))
		}
	})
}

// ============ JSON Parser Tests ============

func TestJSONParser(t *testing.T) {
	parser := NewJSONParser()

	t.Run("array of objects", func(t *testing.T) {
		content := `[{"message":"SQL injection attempt","timestamp":"2023-05-15 14:23:10","host":"db01"},{"msg":"ok"}]`
		records, err := parser.Parse([]byte(content))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(records))
		}
		if records[0].Message != "SQL injection attempt" {
			t.Errorf("Expected message key, got %q", records[0].Message)
		}
		if records[0].Host != "db01" {
			t.Errorf("Expected host key, got %q", records[0].Host)
		}
		if records[1].Message != "ok" {
			t.Errorf("Expected msg fallback key, got %q", records[1].Message)
		}
	})

	t.Run("single object", func(t *testing.T) {
		records, err := parser.Parse([]byte(`{"message":"one entry"}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Expected 1 record, got %d", len(records))
		}
	})

	t.Run("invalid JSON yields empty sequence", func(t *testing.T) {
		records, err := parser.Parse([]byte("not valid json{"))
		if err != nil {
			t.Fatalf("Expected swallowed error, got %v", err)
		}
		if len(records) != 0 {
			t.Errorf("Expected no records, got %d", len(records))
		}
	})

	t.Run("timestamp fallback extraction", func(t *testing.T) {
		records, err := parser.Parse([]byte(`{"message":"event at 2023-05-15 14:23:10"}`))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if records[0].Timestamp != "2023-05-15 14:23:10" {
			t.Errorf("Expected extracted timestamp, got %q", records[0].Timestamp)
		}
	})
}

// ============ Syslog Parser Tests ============

func TestSyslogParser(t *testing.T) {
	parser := NewSyslogParser()

	t.Run("priority line", func(t *testing.T) {
		content := "<34>Oct 11 22:14:15 mymachine su: failure\n"
		records, err := parser.Parse([]byte(content))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Expected 1 record, got %d", len(records))
		}
		rec := records[0]
		if rec.Priority != "34" {
			t.Errorf("Expected priority 34, got %q", rec.Priority)
		}
		if rec.Timestamp != "Oct 11 22:14:15" {
			t.Errorf("Expected syslog timestamp, got %q", rec.Timestamp)
		}
		if rec.Host != "mymachine" {
			t.Errorf("Expected host mymachine, got %q", rec.Host)
		}
		if rec.Message != "su: failure" {
			t.Errorf("Expected message 'su: failure', got %q", rec.Message)
		}
	})

	t.Run("non-matching line falls back to plain record", func(t *testing.T) {
		records, err := parser.Parse([]byte("just some text\n"))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if records[0].Message != "just some text" {
			t.Errorf("Expected raw fallback, got %q", records[0].Message)
		}
		if records[0].Priority != "" {
			t.Errorf("Expected no priority, got %q", records[0].Priority)
		}
	})
}

// ============ Binary Parser Tests ============

func TestBinaryParser(t *testing.T) {
	parser := NewBinaryParser()

	t.Run("chunks of 16 bytes", func(t *testing.T) {
		// 20 bytes -> one full 16-byte chunk plus a 4-byte remainder
		content := []byte("sql injection!!!\x00\x01OK")
		records, err := parser.Parse(content)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("Expected 2 records, got %d", len(records))
		}
		if records[0].Message != "sql injection!!!" {
			t.Errorf("Expected printable text preserved, got %q", records[0].Message)
		}
		// Non-printable bytes become spaces, keeping offsets stable.
		if records[1].Message != "  OK" {
			t.Errorf("Expected non-printables replaced with spaces, got %q", records[1].Message)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		records, err := parser.Parse(nil)
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("Expected no records, got %d", len(records))
		}
	})
}

// ============ Registry Tests ============

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	cases := []struct {
		filename string
		parser   string
	}{
		{"access.csv", "csv"},
		{"events.JSON", "json"},
		{"messages.syslog", "syslog"},
		{"dump.bin", "binary"},
		{"security.evtx", "plaintext"},
		{"app.log", "plaintext"},
		{"notes.txt", "plaintext"},
		{"archive.xyz", "plaintext"}, // unknown extension falls back
		{"noextension", "plaintext"},
	}

	for _, tc := range cases {
		t.Run(tc.filename, func(t *testing.T) {
			p := registry.ParserFor(tc.filename)
			if p.Name() != tc.parser {
				t.Errorf("Expected %s parser for %s, got %s", tc.parser, tc.filename, p.Name())
			}
		})
	}
}
