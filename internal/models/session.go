package models

// SessionStatus represents the status of an analysis session.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusAnalyzing SessionStatus = "analyzing"
	SessionStatusComplete  SessionStatus = "complete"
	SessionStatusError     SessionStatus = "error"
)

// AnalysisSession represents one analysis run over one or more files.
type AnalysisSession struct {
	ID               string        `json:"id"`
	FileID           string        `json:"fileId"`
	FileIDs          []string      `json:"fileIds,omitempty"` // all file IDs for multi-file sessions
	Status           SessionStatus `json:"status"`
	Progress         float64       `json:"progress"` // 0-100
	EventCount       int           `json:"eventCount,omitempty"`
	RecordCount      int           `json:"recordCount,omitempty"`
	ProcessingTimeMs int64         `json:"processingTimeMs,omitempty"`
	StartTime        int64         `json:"startTime,omitempty"` // Unix ms
	EndTime          int64         `json:"endTime,omitempty"`   // Unix ms
	Errors           []FileError   `json:"errors,omitempty"`
}

// FileError records a per-file failure during a multi-file analysis. A file
// that fails contributes nothing to the snapshot; the batch continues.
type FileError struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// NewAnalysisSession creates a new AnalysisSession in pending status.
func NewAnalysisSession(id, fileID string) *AnalysisSession {
	return &AnalysisSession{
		ID:       id,
		FileID:   fileID,
		Status:   SessionStatusPending,
		Progress: 0,
		Errors:   make([]FileError, 0),
	}
}
