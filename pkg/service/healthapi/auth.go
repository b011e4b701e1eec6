package healthapi

import (
	"context"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

// Login authenticates with email and password and returns the user's session
func (c *Client) Login(ctx context.Context, creds *model.Credentials) (*model.UserSession, error) {
	return c.authenticate(ctx, "login", creds)
}

// Register creates an account and returns the new user's session
func (c *Client) Register(ctx context.Context, req *model.RegisterRequest) (*model.UserSession, error) {
	return c.authenticate(ctx, "register", req)
}

func (c *Client) authenticate(ctx context.Context, action string, payload any) (*model.UserSession, error) {
	body, err := jsonBody(payload, MsgAuthFailed)
	if err != nil {
		return nil, err
	}

	raw, err := c.do(ctx, request{
		method:      http.MethodPost,
		url:         c.endpoint("api", "auth", action),
		body:        body,
		contentType: "application/json",
		generic:     MsgAuthFailed,
	})
	if err != nil {
		return nil, err
	}

	var session model.UserSession
	if err := decodeJSON(raw, &session, MsgAuthFailed); err != nil {
		return nil, err
	}
	if err := session.Validate(); err != nil {
		return nil, goerr.Wrap(model.NewTransportFailure(http.StatusOK, MsgAuthFailed), "backend returned session without patient_id")
	}
	return &session, nil
}
