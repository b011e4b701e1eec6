package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/logging"
)

// Shell decides which view is mounted. It starts on auth or dashboard depending on the
// stored session and only allows the transitions below:
//
//	auth      -> dashboard  (AuthSucceeded, session present)
//	dashboard -> feature    (Open)
//	feature   -> dashboard  (Back)
//	any authenticated view -> auth (Logout)
type Shell struct {
	session *SessionStore

	mu   sync.Mutex
	view types.View
}

// NewShell creates a shell over the session store. It is on auth until Start is called.
func NewShell(session *SessionStore) *Shell {
	return &Shell{session: session, view: types.ViewAuth}
}

// Start hydrates the session and mounts the first view
func (s *Shell) Start(ctx context.Context) (types.View, error) {
	session, err := s.session.Hydrate(ctx)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session != nil {
		s.view = types.ViewDashboard
	} else {
		s.view = types.ViewAuth
	}
	logging.From(ctx).Debug("shell started", "view", s.view)
	return s.view, nil
}

// Current returns the mounted view
func (s *Shell) Current() types.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// AuthSucceeded moves from auth to the dashboard once a session is stored
func (s *Shell) AuthSucceeded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != types.ViewAuth {
		return s.invalid(types.ViewDashboard)
	}
	if s.session.Current() == nil {
		return goerr.Wrap(ErrNotAuthenticated, "no session after authentication")
	}
	s.view = types.ViewDashboard
	logging.From(ctx).Debug("authenticated", "view", s.view)
	return nil
}

// Open mounts a feature view from the dashboard
func (s *Shell) Open(ctx context.Context, view types.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view != types.ViewDashboard || !view.IsFeature() {
		return s.invalid(view)
	}
	s.view = view
	logging.From(ctx).Debug("view opened", "view", view)
	return nil
}

// Back returns from a feature view to the dashboard
func (s *Shell) Back(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.view.IsFeature() {
		return s.invalid(types.ViewDashboard)
	}
	s.view = types.ViewDashboard
	logging.From(ctx).Debug("back to dashboard")
	return nil
}

// Logout clears the session and returns to auth from any authenticated view.
// The shell moves to auth even when clearing the durable slot fails.
func (s *Shell) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.view == types.ViewAuth {
		return s.invalid(types.ViewAuth)
	}
	s.view = types.ViewAuth
	if err := s.session.Clear(ctx); err != nil {
		return err
	}
	return nil
}

func (s *Shell) invalid(to types.View) error {
	return goerr.Wrap(ErrInvalidTransition, "view transition not allowed",
		goerr.V(FromViewKey, s.view.String()), goerr.V(ViewKey, to.String()))
}
