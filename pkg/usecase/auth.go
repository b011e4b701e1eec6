package usecase

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

// AuthMode selects which form the auth view shows
type AuthMode string

const (
	AuthModeLogin    AuthMode = "login"
	AuthModeRegister AuthMode = "register"
)

// AuthView drives login and registration. A successful submission stores the
// session and moves the shell to the dashboard.
type AuthView struct {
	api     interfaces.HealthAPI
	session *SessionStore
	shell   *Shell

	mu          sync.Mutex
	mode        AuthMode
	credentials model.Credentials
	form        model.RegistrationForm

	sub Submission[*model.UserSession]
}

// NewAuthView creates an auth view in login mode
func NewAuthView(api interfaces.HealthAPI, session *SessionStore, shell *Shell) *AuthView {
	return &AuthView{
		api:     api,
		session: session,
		shell:   shell,
		mode:    AuthModeLogin,
	}
}

// Mode returns the current form mode
func (v *AuthView) Mode() AuthMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// SwitchMode toggles between login and registration, clearing both forms and the error
func (v *AuthView) SwitchMode() AuthMode {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mode == AuthModeLogin {
		v.mode = AuthModeRegister
	} else {
		v.mode = AuthModeLogin
	}
	v.credentials = model.Credentials{}
	v.form = model.RegistrationForm{}
	v.sub.Reset()
	return v.mode
}

// SetCredentials replaces the login form
func (v *AuthView) SetCredentials(creds model.Credentials) {
	v.mu.Lock()
	v.credentials = creds
	v.mu.Unlock()
	v.sub.Edit()
}

// SetRegistration replaces the registration form
func (v *AuthView) SetRegistration(form model.RegistrationForm) {
	v.mu.Lock()
	v.form = form
	v.mu.Unlock()
	v.sub.Edit()
}

// Submit validates the active form and sends it
func (v *AuthView) Submit(ctx context.Context) (*model.UserSession, error) {
	v.mu.Lock()
	mode, creds, form := v.mode, v.credentials, v.form
	v.mu.Unlock()

	var call SubmitFunc[*model.UserSession]
	switch mode {
	case AuthModeRegister:
		req, err := form.ToRequest()
		if err != nil {
			return nil, v.sub.Reject(err)
		}
		call = func(ctx context.Context) (*model.UserSession, error) {
			return v.api.Register(ctx, req)
		}

	default:
		if err := model.ValidateForm(&creds); err != nil {
			return nil, v.sub.Reject(err)
		}
		call = func(ctx context.Context) (*model.UserSession, error) {
			return v.api.Login(ctx, &creds)
		}
	}

	return v.sub.Run(ctx, func(ctx context.Context) (*model.UserSession, error) {
		session, err := call(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "authentication failed", goerr.V(AuthModeKey, string(mode)))
		}
		if err := v.session.Commit(ctx, session); err != nil {
			return nil, err
		}
		if err := v.shell.AuthSucceeded(ctx); err != nil {
			return nil, err
		}
		return session, nil
	})
}

// State returns the submission state of the active form
func (v *AuthView) State() SubmissionSnapshot[*model.UserSession] {
	return v.sub.Snapshot()
}

// Close detaches the view
func (v *AuthView) Close() {
	v.sub.Detach()
}
