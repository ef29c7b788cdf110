package session

import (
	"context"
	"testing"
	"time"

	"github.com/log-sentinel/backend/internal/analyzer"
	"github.com/log-sentinel/backend/internal/catalog"
	"github.com/log-sentinel/backend/internal/models"
	"github.com/log-sentinel/backend/internal/testutil"
)

func newTestManager(t *testing.T) (*Manager, *testutil.MockStorage) {
	t.Helper()
	store := testutil.NewMockStorage()
	engine := analyzer.NewEngine(catalog.Default())
	return NewManager(engine, store, t.TempDir()), store
}

// waitForSession polls until the session leaves the analyzing state.
func waitForSession(t *testing.T, m *Manager, id string) *models.AnalysisSession {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		session, ok := m.GetSession(id)
		if !ok {
			t.Fatalf("session %s disappeared", id)
		}
		if session.Status != models.SessionStatusAnalyzing {
			return session
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("session %s did not finish in time", id)
	return nil
}

func TestStartAnalysis(t *testing.T) {
	t.Run("single file completes with snapshot", func(t *testing.T) {
		m, store := newTestManager(t)
		info := store.AddFile("f1", "auth.log", []byte("2023-05-15 14:23:10 Failed login attempt from 10.0.0.1\nroutine heartbeat\n"))

		session, err := m.StartAnalysis([]string{info.ID})
		if err != nil {
			t.Fatalf("StartAnalysis failed: %v", err)
		}

		done := waitForSession(t, m, session.ID)
		if done.Status != models.SessionStatusComplete {
			t.Fatalf("Expected complete, got %s (errors: %v)", done.Status, done.Errors)
		}
		if done.RecordCount != 2 {
			t.Errorf("Expected 2 records, got %d", done.RecordCount)
		}
		if done.EventCount != 1 {
			t.Errorf("Expected 1 event, got %d", done.EventCount)
		}

		snapshot, ok := m.GetSnapshot(session.ID)
		if !ok {
			t.Fatal("Expected snapshot after completion")
		}
		if snapshot.CategoryCounts["bruteforce"] != 1 {
			t.Errorf("Expected bruteforce event, got %v", snapshot.CategoryCounts)
		}
	})

	t.Run("failed file contributes nothing but session completes", func(t *testing.T) {
		m, store := newTestManager(t)
		good := store.AddFile("good", "a.log", []byte("SQL injection attempt\n"))

		session, err := m.StartAnalysis([]string{good.ID, "missing-file"})
		if err != nil {
			t.Fatalf("StartAnalysis failed: %v", err)
		}

		done := waitForSession(t, m, session.ID)
		if done.Status != models.SessionStatusComplete {
			t.Fatalf("Expected complete, got %s", done.Status)
		}
		if len(done.Errors) != 1 {
			t.Fatalf("Expected 1 file error, got %v", done.Errors)
		}

		snapshot, _ := m.GetSnapshot(session.ID)
		if snapshot.TotalCount != 1 {
			t.Errorf("Expected only the good file counted, got %d", snapshot.TotalCount)
		}
	})

	t.Run("all files failing marks session errored", func(t *testing.T) {
		m, _ := newTestManager(t)

		session, err := m.StartAnalysis([]string{"nope-1", "nope-2"})
		if err != nil {
			t.Fatalf("StartAnalysis failed: %v", err)
		}

		done := waitForSession(t, m, session.ID)
		if done.Status != models.SessionStatusError {
			t.Errorf("Expected error status, got %s", done.Status)
		}
		if len(done.Errors) != 2 {
			t.Errorf("Expected 2 file errors, got %v", done.Errors)
		}
	})

	t.Run("empty file list rejected", func(t *testing.T) {
		m, _ := newTestManager(t)
		if _, err := m.StartAnalysis(nil); err == nil {
			t.Error("Expected error for empty file list")
		}
	})
}

func TestGetEvents(t *testing.T) {
	m, store := newTestManager(t)
	content := "Failed login one\nFailed login two\nFailed login three\n"
	info := store.AddFile("f1", "auth.log", []byte(content))

	session, err := m.StartAnalysis([]string{info.ID})
	if err != nil {
		t.Fatalf("StartAnalysis failed: %v", err)
	}
	waitForSession(t, m, session.ID)

	ctx := context.Background()

	t.Run("first page", func(t *testing.T) {
		events, total, ok := m.GetEvents(ctx, session.ID, 1, 2)
		if !ok {
			t.Fatal("Expected events available")
		}
		if total != 3 {
			t.Errorf("Expected total 3, got %d", total)
		}
		if len(events) != 2 {
			t.Errorf("Expected page of 2, got %d", len(events))
		}
		if events[0].LineNumber != 1 {
			t.Errorf("Expected ordered events, first line %d", events[0].LineNumber)
		}
	})

	t.Run("last partial page", func(t *testing.T) {
		events, _, ok := m.GetEvents(ctx, session.ID, 2, 2)
		if !ok {
			t.Fatal("Expected events available")
		}
		if len(events) != 1 {
			t.Errorf("Expected 1 event on last page, got %d", len(events))
		}
	})

	t.Run("page past the end", func(t *testing.T) {
		events, total, ok := m.GetEvents(ctx, session.ID, 99, 2)
		if !ok {
			t.Fatal("Expected lookup to succeed")
		}
		if total != 3 || len(events) != 0 {
			t.Errorf("Expected empty page with total 3, got %d events total %d", len(events), total)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		if _, _, ok := m.GetEvents(ctx, "missing", 1, 10); ok {
			t.Error("Expected lookup failure for unknown session")
		}
	})
}

func TestSessionLifecycle(t *testing.T) {
	m, store := newTestManager(t)
	info := store.AddFile("f1", "a.log", []byte("Failed login\n"))

	session, _ := m.StartAnalysis([]string{info.ID})
	waitForSession(t, m, session.ID)

	t.Run("touch refreshes keep-alive", func(t *testing.T) {
		if !m.TouchSession(session.ID) {
			t.Error("Expected touch to succeed")
		}
		if m.TouchSession("missing") {
			t.Error("Expected touch to fail for unknown session")
		}
	})

	t.Run("returned session is a copy", func(t *testing.T) {
		first, ok := m.GetSession(session.ID)
		if !ok {
			t.Fatal("Expected session lookup to succeed")
		}
		first.Status = models.SessionStatusError
		first.Progress = 0

		second, _ := m.GetSession(session.ID)
		if second.Status != models.SessionStatusComplete {
			t.Errorf("Expected stored session unchanged, got %s", second.Status)
		}
		if second.Progress != 100 {
			t.Errorf("Expected stored progress unchanged, got %v", second.Progress)
		}
	})

	t.Run("cleanup skips fresh sessions", func(t *testing.T) {
		m.CleanupOldSessions(time.Hour)
		if _, ok := m.GetSession(session.ID); !ok {
			t.Error("Expected fresh session to survive cleanup")
		}
	})

	t.Run("cleanup removes stale sessions", func(t *testing.T) {
		// Sleep briefly so LastAccessed is strictly before the cutoff.
		time.Sleep(5 * time.Millisecond)
		m.CleanupOldSessions(0)
		if _, ok := m.GetSession(session.ID); ok {
			t.Error("Expected stale session to be removed")
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		m.DeleteSession(session.ID)
		m.DeleteSession(session.ID)
	})
}
