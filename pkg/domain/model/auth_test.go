package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

func TestRegistrationFormToRequest(t *testing.T) {
	valid := model.RegistrationForm{
		Email:             "ada@example.com",
		Password:          "secret1",
		FirstName:         " Ada ",
		LastName:          "Lovelace",
		Age:               "36",
		Gender:            "female",
		ChronicConditions: " asthma, , hypertension ,",
	}

	t.Run("coerces and splits fields", func(t *testing.T) {
		req, err := valid.ToRequest()
		gt.NoError(t, err).Required()
		gt.Value(t, req.FirstName).Equal("Ada")
		gt.Value(t, *req.Age).Equal(36)
		gt.Value(t, *req.Gender).Equal("female")
		gt.Value(t, req.Phone).Nil()
		gt.Value(t, req.ChronicConditions).Equal([]string{"asthma", "hypertension"})
	})

	t.Run("empty optional fields are omitted", func(t *testing.T) {
		form := valid
		form.Age = ""
		form.Gender = ""
		form.ChronicConditions = ""
		req, err := form.ToRequest()
		gt.NoError(t, err).Required()
		gt.Value(t, req.Age).Nil()
		gt.Value(t, req.Gender).Nil()
		gt.Array(t, req.ChronicConditions).Length(0)
	})

	tests := []struct {
		name   string
		modify func(f *model.RegistrationForm)
		field  string
	}{
		{name: "short password", modify: func(f *model.RegistrationForm) { f.Password = "12345" }, field: "password"},
		{name: "bad email", modify: func(f *model.RegistrationForm) { f.Email = "not-an-email" }, field: "email"},
		{name: "missing first name", modify: func(f *model.RegistrationForm) { f.FirstName = "  " }, field: "first name"},
		{name: "age out of range", modify: func(f *model.RegistrationForm) { f.Age = "121" }, field: "age"},
		{name: "age not a number", modify: func(f *model.RegistrationForm) { f.Age = "3x" }, field: "age"},
		{name: "unknown gender", modify: func(f *model.RegistrationForm) { f.Gender = "robot" }, field: "gender"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.modify(&form)
			_, err := form.ToRequest()
			gt.Error(t, err).Is(model.ErrValidation)

			f, ok := model.AsFailure(err)
			gt.Bool(t, ok).True()
			gt.String(t, f.Message).Contains(tt.field)
		})
	}
}

func TestCredentialsValidation(t *testing.T) {
	gt.NoError(t, model.ValidateForm(&model.Credentials{Email: "a@example.com", Password: "x"}))
	gt.Error(t, model.ValidateForm(&model.Credentials{Email: "a@example.com"})).Is(model.ErrValidation)
}

func TestSplitList(t *testing.T) {
	gt.Value(t, model.SplitList("")).Equal([]string{})
	gt.Value(t, model.SplitList("a,b")).Equal([]string{"a", "b"})
	gt.Value(t, model.SplitList(" , a ,, ")).Equal([]string{"a"})
}
