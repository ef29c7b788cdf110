// Package session manages analysis sessions: background runs of the
// analysis engine over uploaded files, with paged access to results.
package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/log-sentinel/backend/internal/analyzer"
	"github.com/log-sentinel/backend/internal/models"
)

// MaxSessions limits concurrent sessions to prevent memory exhaustion.
const MaxSessions = 10

// SessionMaxAge is how long completed sessions are kept before cleanup.
const SessionMaxAge = 30 * time.Minute

// FileSource provides stored file content and metadata to analysis runs.
type FileSource interface {
	Get(id string) (*models.FileInfo, error)
	ReadFile(id string) ([]byte, error)
}

// SessionState holds session metadata, the finished snapshot, and the
// DuckDB-backed event store for paging.
type SessionState struct {
	Session      *models.AnalysisSession
	Snapshot     *models.AnalysisSnapshot
	Events       *EventStore
	LastAccessed time.Time
}

// Manager handles active analysis sessions.
type Manager struct {
	sessions map[string]*SessionState
	mu       sync.RWMutex
	engine   *analyzer.Engine
	files    FileSource
	tempDir  string

	dbThreads  int
	dbMemLimit string
}

// NewManager creates a session manager. The temp directory holds the
// per-session event stores and defaults to ./data/temp.
func NewManager(engine *analyzer.Engine, files FileSource, tempDir string) *Manager {
	if tempDir == "" {
		tempDir = "./data/temp"
	}
	os.MkdirAll(tempDir, 0755)
	return &Manager{
		sessions: make(map[string]*SessionState),
		engine:   engine,
		files:    files,
		tempDir:  tempDir,
	}
}

// SetEventStoreTuning applies the configured DuckDB thread count and memory
// limit to event stores created for new sessions.
func (m *Manager) SetEventStoreTuning(threads int, memoryLimit string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dbThreads = threads
	m.dbMemLimit = memoryLimit
}

// SetEngine replaces the analysis engine, e.g. after a catalog upload.
// In-flight sessions keep the engine they started with.
func (m *Manager) SetEngine(engine *analyzer.Engine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine = engine
}

// StartAnalysis begins analyzing one or more stored files in the
// background. Files are processed sequentially and atomically: a file that
// fails to read or parse contributes nothing, and the session records the
// failure.
func (m *Manager) StartAnalysis(fileIDs []string) (*models.AnalysisSession, error) {
	if len(fileIDs) == 0 {
		return nil, fmt.Errorf("no files to analyze")
	}
	m.cleanupOldSessionsIfNeeded()

	sessionID := uuid.New().String()
	session := models.NewAnalysisSession(sessionID, fileIDs[0])
	session.FileIDs = fileIDs
	session.Status = models.SessionStatusAnalyzing
	session.StartTime = time.Now().UnixMilli()

	state := &SessionState{
		Session:      session,
		LastAccessed: time.Now(),
	}

	m.mu.Lock()
	m.sessions[sessionID] = state
	m.mu.Unlock()

	go m.runAnalysis(sessionID, fileIDs)

	return session, nil
}

func (m *Manager) runAnalysis(sessionID string, fileIDs []string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[Analyze %s] PANIC recovered: %v\n", sessionID[:8], r)
			m.updateSessionError(sessionID, models.FileError{Reason: fmt.Sprintf("analysis panicked: %v", r)})
		}
	}()

	start := time.Now()
	fmt.Printf("[Analyze %s] Starting analysis of %d file(s)\n", sessionID[:8], len(fileIDs))

	m.mu.RLock()
	engine := m.engine
	dbThreads, dbMemLimit := m.dbThreads, m.dbMemLimit
	m.mu.RUnlock()

	combined := models.NewAnalysisSnapshot()
	var failures []models.FileError
	var recordCount int

	for i, fileID := range fileIDs {
		name := fileID
		if info, err := m.files.Get(fileID); err == nil {
			name = info.Name
		}

		content, err := m.files.ReadFile(fileID)
		if err != nil {
			fmt.Printf("[Analyze %s] ERROR reading %s: %v\n", sessionID[:8], name, err)
			failures = append(failures, models.FileError{FileName: name, Reason: err.Error()})
			continue
		}

		snapshot, err := engine.AnalyzeContent(name, content)
		if err != nil {
			fmt.Printf("[Analyze %s] ERROR analyzing %s: %v\n", sessionID[:8], name, err)
			failures = append(failures, models.FileError{FileName: name, Reason: err.Error()})
			continue
		}

		recordCount += snapshot.TotalCount
		combined.Merge(snapshot)
		m.updateSessionProgress(sessionID, float64(i+1)/float64(len(fileIDs))*90)
	}

	events, err := NewEventStore(m.tempDir, sessionID, dbThreads, dbMemLimit)
	if err != nil {
		fmt.Printf("[Analyze %s] WARNING: event store unavailable, paging disabled: %v\n", sessionID[:8], err)
		events = nil
	} else if err := events.InsertEvents(combined.Events); err != nil {
		fmt.Printf("[Analyze %s] WARNING: failed to spool events: %v\n", sessionID[:8], err)
		events.Close()
		events = nil
	}

	m.mu.Lock()
	state, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		if events != nil {
			events.Close()
		}
		return
	}
	state.Snapshot = combined
	state.Events = events
	state.Session.Status = models.SessionStatusComplete
	state.Session.Progress = 100
	state.Session.EventCount = len(combined.Events)
	state.Session.RecordCount = recordCount
	state.Session.Errors = failures
	state.Session.EndTime = time.Now().UnixMilli()
	state.Session.ProcessingTimeMs = time.Since(start).Milliseconds()
	if len(failures) == len(fileIDs) {
		// Nothing was analyzed at all.
		state.Session.Status = models.SessionStatusError
	}
	m.mu.Unlock()

	fmt.Printf("[Analyze %s] Complete: %d records, %d events, %d file error(s) in %v\n",
		sessionID[:8], recordCount, len(combined.Events), len(failures), time.Since(start))
}

// GetSession returns a copy of the session metadata by ID. Callers can
// serialize it without racing the background analysis run.
func (m *Manager) GetSession(id string) (*models.AnalysisSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	session := *state.Session
	return &session, true
}

// GetSnapshot returns the finished snapshot for a session.
func (m *Manager) GetSnapshot(id string) (*models.AnalysisSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.sessions[id]
	if !ok || state.Snapshot == nil {
		return nil, false
	}
	state.LastAccessed = time.Now()
	return state.Snapshot, true
}

// GetEvents returns one page of a session's events plus the total count.
// Paging is served from the session's event store when available, falling
// back to the in-memory snapshot.
func (m *Manager) GetEvents(ctx context.Context, id string, page, pageSize int) ([]models.SecurityEvent, int, bool) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || state.Snapshot == nil {
		return nil, 0, false
	}

	if state.Events != nil {
		events, err := state.Events.Page(ctx, page, pageSize)
		if err == nil {
			return events, state.Events.Count(), true
		}
		fmt.Printf("[Analyze %s] WARNING: event page query failed: %v\n", id, err)
	}

	all := state.Snapshot.Events
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []models.SecurityEvent{}, len(all), true
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), true
}

// TouchSession refreshes a session's keep-alive timer.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// DeleteSession removes a session and its event store.
func (m *Manager) DeleteSession(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteSessionLocked(id)
}

func (m *Manager) deleteSessionLocked(id string) {
	state, ok := m.sessions[id]
	if !ok {
		return
	}
	if state.Events != nil {
		state.Events.Close()
	}
	delete(m.sessions, id)
}

// CleanupOldSessions removes sessions idle longer than maxAge.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for id, state := range m.sessions {
		if state.LastAccessed.Before(cutoff) && state.Session.Status != models.SessionStatusAnalyzing {
			m.deleteSessionLocked(id)
		}
	}
}

// cleanupOldSessionsIfNeeded evicts the oldest completed sessions when the
// session cap is reached.
func (m *Manager) cleanupOldSessionsIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) < MaxSessions {
		return
	}

	var oldestID string
	var oldest time.Time
	for id, state := range m.sessions {
		if state.Session.Status == models.SessionStatusAnalyzing {
			continue
		}
		if oldestID == "" || state.LastAccessed.Before(oldest) {
			oldestID = id
			oldest = state.LastAccessed
		}
	}
	if oldestID != "" {
		m.deleteSessionLocked(oldestID)
	}
}

func (m *Manager) updateSessionProgress(id string, progress float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.sessions[id]; ok {
		state.Session.Progress = progress
	}
}

func (m *Manager) updateSessionError(id string, fileErr models.FileError) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.sessions[id]; ok {
		state.Session.Status = models.SessionStatusError
		state.Session.Errors = append(state.Session.Errors, fileErr)
		state.Session.EndTime = time.Now().UnixMilli()
	}
}
