package parser

import (
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/log-sentinel/backend/internal/models"
)

// hexChunkSize is the fixed window size, in hex characters, that the binary
// parser slices the encoded buffer into. 32 hex chars = 16 raw bytes.
const hexChunkSize = 32

// BinaryParser surfaces readable text embedded in binary data. It is a
// best-effort heuristic, not a structured binary log decoder: the buffer is
// hex-encoded, chunked into fixed windows, and each window is decoded back
// with a lossy UTF-8 pass so pattern matching can run over whatever ASCII
// fragments the data contains.
type BinaryParser struct{}

func NewBinaryParser() *BinaryParser {
	return &BinaryParser{}
}

func (p *BinaryParser) Name() string {
	return "binary"
}

func (p *BinaryParser) Parse(content []byte) ([]models.LogRecord, error) {
	if len(content) == 0 {
		return []models.LogRecord{}, nil
	}

	encoded := hex.EncodeToString(content)
	records := make([]models.LogRecord, 0, len(encoded)/hexChunkSize+1)
	for start := 0; start < len(encoded); start += hexChunkSize {
		end := start + hexChunkSize
		if end > len(encoded) {
			end = len(encoded)
		}
		chunk := encoded[start:end]

		decoded, err := hex.DecodeString(chunk)
		if err != nil {
			// Corrupt window; the whole sequence is abandoned rather than
			// guessing at alignment.
			return []models.LogRecord{}, nil
		}

		records = append(records, models.LogRecord{
			Raw:     chunk,
			Message: printableText(decoded),
		})
	}
	return records, nil
}

// printableText keeps the printable runes of a best-effort UTF-8 decode and
// replaces everything else with spaces, preserving offsets within the chunk.
func printableText(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, r := range strings.ToValidUTF8(string(data), " ") {
		if unicode.IsPrint(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}
