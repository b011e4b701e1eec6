package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/smarthealth-ai/healthdesk/pkg/usecase"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrSubmitInProgress", usecase.ErrSubmitInProgress},
		{"ErrInvalidTransition", usecase.ErrInvalidTransition},
		{"ErrNothingToRetry", usecase.ErrNothingToRetry},
		{"ErrViewClosed", usecase.ErrViewClosed},
		{"ErrNotAuthenticated", usecase.ErrNotAuthenticated},
		{"ErrNotConfirmed", usecase.ErrNotConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
		})
	}
}

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	gt.Bool(t, errors.Is(usecase.ErrSubmitInProgress, usecase.ErrInvalidTransition)).False()
	gt.Bool(t, errors.Is(usecase.ErrNotAuthenticated, usecase.ErrNotConfirmed)).False()
}
