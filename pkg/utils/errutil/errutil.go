package errutil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/logging"
)

// SentryContextKey names the Sentry event context that carries error values
const SentryContextKey = "healthdesk"

// Message converts any error into the string a view displays
func Message(err error) string {
	if err == nil {
		return ""
	}
	if f, ok := model.AsFailure(err); ok {
		return f.Message
	}
	return err.Error()
}

// Handle logs the error with a message and reports it to Sentry when a client is configured.
// Validation and permission failures are expected user-side conditions and are not reported.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logger := logging.From(ctx)

	// Extract goerr values for structured logging
	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error(msg,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		logger.Error(msg, "error", err.Error())
	}

	if shouldReport(err) {
		report(ctx, err, msg, ge)
	}

	return err
}

func shouldReport(err error) bool {
	return !errors.Is(err, model.ErrValidation) && !errors.Is(err, model.ErrPermission)
}

func report(ctx context.Context, err error, msg string, ge *goerr.Error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("message", msg)
		values := sentry.Context{}
		if f, ok := model.AsFailure(err); ok {
			scope.SetTag("failure_kind", f.Kind.Error())
			if f.Status != 0 {
				values[model.StatusKey] = f.Status
			}
		}
		if ge != nil {
			for k, v := range ge.Values() {
				values[k] = v
			}
		}
		if len(values) > 0 {
			scope.SetContext(SentryContextKey, values)
		}
		hub.CaptureException(err)
	})
}

// HandleHTTP logs the error and writes a {"detail": ...} error response
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	if err == nil {
		return
	}

	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
			"values", ge.Values(),
		)
	} else {
		logger.Error("HTTP error",
			"status", statusCode,
			"error", err.Error(),
		)
	}

	WriteDetail(w, statusCode, Message(err))
}

// WriteDetail writes the backend's error envelope
func WriteDetail(w http.ResponseWriter, statusCode int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
