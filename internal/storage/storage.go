package storage

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/sitereport/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	// ErrStaleUpload rejects an upload made against an epoch that has since been cleared
	ErrStaleUpload = errors.New("upload was made before the staged images were cleared")
)

// SessionStore keeps the staged images of each report session. Every session
// moves between two states: Empty and Staged. Clearing bumps the session
// epoch, and staging only succeeds for the current epoch, so an upload that
// raced a clear can never repopulate the session.
type SessionStore struct {
	sessions map[string]*models.ReportSession
	mu       sync.RWMutex
	now      func() time.Time
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.ReportSession),
		now:      time.Now,
	}
}

// Create registers a new empty session
func (s *SessionStore) Create() *models.ReportSession {
	now := s.now()
	session := &models.ReportSession{
		ID:        uuid.NewString(),
		State:     models.StateEmpty,
		Images:    []models.SourceImage{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return snapshot(session)
}

// Get returns a copy of the session
func (s *SessionStore) Get(sessionID string) (*models.ReportSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, false
	}
	return snapshot(session), true
}

// Stage appends images to the session: Empty -> Staged, Staged -> Staged.
// epoch must match the session's current epoch.
func (s *SessionStore) Stage(sessionID string, epoch int, images []models.SourceImage) (*models.ReportSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	if epoch != session.Epoch {
		return nil, ErrStaleUpload
	}
	if len(images) == 0 {
		return snapshot(session), nil
	}

	session.Images = append(session.Images, images...)
	session.State = models.StateStaged
	session.UpdatedAt = s.now()
	return snapshot(session), nil
}

// Clear drops every staged image and starts a new epoch: any -> Empty
func (s *SessionStore) Clear(sessionID string) (*models.ReportSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, exists := s.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	session.Images = []models.SourceImage{}
	session.State = models.StateEmpty
	session.Epoch++
	session.UpdatedAt = s.now()
	return snapshot(session), nil
}

func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many were removed
func (s *SessionStore) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunSweeper sweeps idle sessions every interval until ctx is done
func (s *SessionStore) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(maxIdle); n > 0 {
				slog.Info("Expired idle sessions", "count", n, "max_idle", maxIdle)
			}
		}
	}
}

func snapshot(session *models.ReportSession) *models.ReportSession {
	cp := *session
	cp.Images = make([]models.SourceImage, len(session.Images))
	copy(cp.Images, session.Images)
	return &cp
}
