package errutil_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/errutil"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error", err: errors.New("disk full"), want: "disk full"},
		{
			name: "failure",
			err:  model.NewBackendFailure(http.StatusUnauthorized, "Invalid email or password"),
			want: "Invalid email or password",
		},
		{
			name: "wrapped failure keeps the display message",
			err:  goerr.Wrap(model.NewValidationFailure("Top K must be at least 1"), "submission rejected"),
			want: "Top K must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, errutil.Message(tt.err)).Equal(tt.want)
		})
	}
}

func TestHandle(t *testing.T) {
	ctx := context.Background()
	gt.NoError(t, errutil.Handle(ctx, nil, "nothing"))

	err := goerr.Wrap(model.NewTransportFailure(0, "Error contacting backend."), "request failed",
		goerr.V(model.PatientIDKey, "P0001"))
	gt.Error(t, errutil.Handle(ctx, err, "failed")).Is(model.ErrTransport)
}

func TestHandleReportsToSentry(t *testing.T) {
	transport := &sentry.MockTransport{}
	client, err := sentry.NewClient(sentry.ClientOptions{Transport: transport})
	gt.NoError(t, err).Required()
	ctx := sentry.SetHubOnContext(context.Background(), sentry.NewHub(client, sentry.NewScope()))

	t.Run("backend failure carries status and values", func(t *testing.T) {
		err := goerr.Wrap(model.NewBackendFailure(http.StatusInternalServerError, "Internal error"), "request failed",
			goerr.V(model.PatientIDKey, "P0001"))
		_ = errutil.Handle(ctx, err, "dashboard failed")

		events := transport.Events()
		gt.Array(t, events).Length(1).Required()
		ev := events[0]
		gt.Value(t, ev.Tags["message"]).Equal("dashboard failed")
		values, ok := ev.Contexts[errutil.SentryContextKey]
		gt.Bool(t, ok).True()
		gt.Value(t, values[model.StatusKey]).Equal(http.StatusInternalServerError)
		gt.Value(t, values[model.PatientIDKey]).Equal("P0001")
	})

	t.Run("validation failure is not reported", func(t *testing.T) {
		before := len(transport.Events())
		_ = errutil.Handle(ctx, model.NewValidationFailure("Top K must be at least 1"), "rejected")
		gt.Array(t, transport.Events()).Length(before)
	})
}

func TestHandleHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), rec, model.NewValidationFailure("Patient ID mismatch"), http.StatusBadRequest)

	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	gt.Value(t, rec.Header().Get("Content-Type")).Equal("application/json")

	var body map[string]string
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
	gt.Value(t, body["detail"]).Equal("Patient ID mismatch")
}
