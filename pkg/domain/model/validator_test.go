package model_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

type sampleForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	TopK     int    `json:"top_k" validate:"gte=1,lte=50"`
	Gender   string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
}

func TestValidateForm(t *testing.T) {
	valid := sampleForm{Email: "ada@example.com", Password: "engine1", TopK: 3}

	tests := []struct {
		name    string
		mutate  func(f *sampleForm)
		wantMsg string
	}{
		{name: "valid", mutate: func(f *sampleForm) {}},
		{name: "missing email", mutate: func(f *sampleForm) { f.Email = "" }, wantMsg: "email is required"},
		{name: "malformed email", mutate: func(f *sampleForm) { f.Email = "ada" }, wantMsg: "email must be a valid email address"},
		{name: "short password", mutate: func(f *sampleForm) { f.Password = "abc" }, wantMsg: "password must be at least 6 characters"},
		{name: "top k too small", mutate: func(f *sampleForm) { f.TopK = 0 }, wantMsg: "top k must be at least 1"},
		{name: "top k too large", mutate: func(f *sampleForm) { f.TopK = 51 }, wantMsg: "top k must be at most 50"},
		{name: "gender outside choices", mutate: func(f *sampleForm) { f.Gender = "robot" }, wantMsg: "gender must be one of: male, female, other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)

			err := model.ValidateForm(&form)
			if tt.wantMsg == "" {
				gt.NoError(t, err)
				return
			}

			gt.Error(t, err).Is(model.ErrValidation)
			f, ok := model.AsFailure(err)
			gt.Bool(t, ok).True()
			gt.Value(t, f.Message).Equal(tt.wantMsg)
			gt.Value(t, f.Status).Equal(0)
		})
	}
}

func TestParseOptionalInt(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *int
		wantErr bool
	}{
		{name: "blank", raw: "", want: nil},
		{name: "spaces only", raw: "   ", want: nil},
		{name: "number", raw: "42", want: ptr(42)},
		{name: "padded number", raw: " 7 ", want: ptr(7)},
		{name: "negative", raw: "-1", want: ptr(-1)},
		{name: "not a number", raw: "forty", wantErr: true},
		{name: "decimal", raw: "4.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.ParseOptionalInt("age", tt.raw)
			if tt.wantErr {
				gt.Error(t, err).Is(model.ErrValidation)
				f, ok := model.AsFailure(err)
				gt.Bool(t, ok).True()
				gt.Value(t, f.Message).Equal("age must be a whole number")
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestFailureKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    *model.Failure
		kind   error
		status int
	}{
		{name: "validation", err: model.NewValidationFailure("bad input"), kind: model.ErrValidation},
		{name: "transport", err: model.NewTransportFailure(0, "Error contacting backend."), kind: model.ErrTransport},
		{name: "backend", err: model.NewBackendFailure(http.StatusNotFound, "Patient not found"), kind: model.ErrBackend, status: http.StatusNotFound},
		{name: "permission", err: model.NewPermissionFailure("microphone denied"), kind: model.ErrPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Bool(t, errors.Is(tt.err, tt.kind)).True()
			gt.Value(t, tt.err.Status).Equal(tt.status)

			for _, other := range []error{model.ErrValidation, model.ErrTransport, model.ErrBackend, model.ErrPermission} {
				if other != tt.kind {
					gt.Bool(t, errors.Is(tt.err, other)).False()
				}
			}
		})
	}
}

func ptr(n int) *int {
	return &n
}
