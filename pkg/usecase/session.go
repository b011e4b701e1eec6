package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/logging"
)

// SessionStore holds the authenticated user's profile in memory and mirrors it into a durable slot.
type SessionStore struct {
	slot interfaces.SessionSlot

	mu      sync.RWMutex
	current *model.UserSession
}

// NewSessionStore creates a store over the given slot. Call Hydrate to load a persisted session.
func NewSessionStore(slot interfaces.SessionSlot) *SessionStore {
	return &SessionStore{slot: slot}
}

// Hydrate loads the session from the durable slot. A corrupt slot is cleared and
// treated as no session.
func (s *SessionStore) Hydrate(ctx context.Context) (*model.UserSession, error) {
	data, err := s.slot.Load(ctx, interfaces.SessionKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load stored session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if data == nil {
		s.current = nil
		return nil, nil
	}

	session, err := model.DecodeSession(data)
	if err != nil {
		logger := logging.From(ctx)
		logger.Warn("discarding corrupt stored session", "error", err.Error())
		if delErr := s.slot.Delete(ctx, interfaces.SessionKey); delErr != nil {
			logger.Warn("failed to clear corrupt session", "error", delErr.Error())
		}
		s.current = nil
		return nil, nil
	}

	s.current = session
	return session.Clone(), nil
}

// Commit persists the session and then makes it current. When the write fails the
// previous session stays visible.
func (s *SessionStore) Commit(ctx context.Context, session *model.UserSession) error {
	data, err := model.EncodeSession(session)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slot.Save(ctx, interfaces.SessionKey, data); err != nil {
		return goerr.Wrap(err, "failed to store session", goerr.V(model.PatientIDKey, session.PatientID))
	}
	s.current = session.Clone()
	return nil
}

// Clear removes the session from memory and from the durable slot
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.slot.Delete(ctx, interfaces.SessionKey); err != nil {
		return goerr.Wrap(err, "failed to clear stored session")
	}
	return nil
}

// Current returns a copy of the current session, or nil when nobody is signed in
func (s *SessionStore) Current() *model.UserSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// PatientID returns the signed-in user's patient id
func (s *SessionStore) PatientID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return "", ErrNotAuthenticated
	}
	return s.current.PatientID, nil
}
