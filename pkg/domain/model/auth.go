package model

import "strings"

// Credentials is the login form payload
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required" masq:"secret"`
}

// RegistrationForm holds the raw registration inputs as typed by the user.
// Age stays a string until submission so partial input never blocks editing.
type RegistrationForm struct {
	Email             string
	Password          string `masq:"secret"`
	FirstName         string
	LastName          string
	Phone             string
	Age               string
	Gender            string
	ChronicConditions string
}

// RegisterRequest is the JSON body of POST /api/auth/register
type RegisterRequest struct {
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"required,min=6" masq:"secret"`
	FirstName         string   `json:"first_name" validate:"required"`
	LastName          string   `json:"last_name" validate:"required"`
	Phone             *string  `json:"phone,omitempty"`
	Age               *int     `json:"age,omitempty" validate:"omitempty,gte=0,lte=120"`
	Gender            *string  `json:"gender,omitempty" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	ChronicConditions []string `json:"chronic_conditions"`
}

// ToRequest coerces and validates the form
func (f RegistrationForm) ToRequest() (*RegisterRequest, error) {
	age, err := ParseOptionalInt("age", f.Age)
	if err != nil {
		return nil, err
	}

	req := &RegisterRequest{
		Email:             strings.TrimSpace(f.Email),
		Password:          f.Password,
		FirstName:         strings.TrimSpace(f.FirstName),
		LastName:          strings.TrimSpace(f.LastName),
		Phone:             optionalString(f.Phone),
		Age:               age,
		Gender:            optionalString(f.Gender),
		ChronicConditions: SplitList(f.ChronicConditions),
	}
	if err := ValidateForm(req); err != nil {
		return nil, err
	}
	return req, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
