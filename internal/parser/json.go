package parser

import (
	"encoding/json"
	"fmt"

	"github.com/log-sentinel/backend/internal/models"
)

// JSONParser handles JSON logs: either one array of entry objects or a
// single entry object. A payload that fails to parse yields an empty
// sequence; JSON errors are swallowed, never propagated.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (p *JSONParser) Name() string {
	return "json"
}

func (p *JSONParser) Parse(content []byte) ([]models.LogRecord, error) {
	var value any
	if err := json.Unmarshal(content, &value); err != nil {
		fmt.Printf("[JSONParser] invalid JSON payload, returning no records: %v\n", err)
		return []models.LogRecord{}, nil
	}

	var elements []any
	switch v := value.(type) {
	case []any:
		elements = v
	default:
		elements = []any{v}
	}

	records := make([]models.LogRecord, 0, len(elements))
	for _, elem := range elements {
		records = append(records, recordFromJSON(elem))
	}
	return records, nil
}

// recordFromJSON maps one decoded JSON element onto the uniform record
// shape. Well-known keys populate the uniform fields; everything scalar is
// kept in Fields.
func recordFromJSON(elem any) models.LogRecord {
	raw, err := json.Marshal(elem)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", elem))
	}
	rec := models.LogRecord{Raw: string(raw)}

	obj, ok := elem.(map[string]any)
	if !ok {
		rec.Message = rec.Raw
		return rec
	}

	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		switch val := v.(type) {
		case string:
			fields[k] = val
		case float64, bool, json.Number:
			fields[k] = fmt.Sprintf("%v", val)
		}
	}
	rec.Fields = fields

	rec.Message = firstNonEmpty(fields["message"], fields["msg"], fields["log"])
	rec.Timestamp = firstNonEmpty(fields["timestamp"], fields["time"], fields["@timestamp"])
	rec.Host = fields["host"]
	rec.Source = fields["source"]
	if rec.Timestamp == "" {
		rec.Timestamp = ExtractTimestamp(rec.Raw)
	}
	return rec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
