package model

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// UserSession is the authenticated user's profile as returned by login or registration.
// It is the only artifact kept in durable client storage.
type UserSession struct {
	PatientID         string   `json:"patient_id"`
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	Email             string   `json:"email"`
	Phone             *string  `json:"phone,omitempty"`
	Age               *int     `json:"age,omitempty"`
	Gender            *string  `json:"gender,omitempty"`
	ChronicConditions []string `json:"chronic_conditions"`
	CreatedAt         string   `json:"created_at,omitempty"`
	LastLogin         string   `json:"last_login,omitempty"`
}

// Validate checks the session invariant: patient_id is the join key of every per-user call
func (s *UserSession) Validate() error {
	if strings.TrimSpace(s.PatientID) == "" {
		return goerr.New("session has no patient_id")
	}
	return nil
}

// DisplayName returns the first name used in greetings
func (s *UserSession) DisplayName() string {
	if s == nil || s.FirstName == "" {
		return "User"
	}
	return s.FirstName
}

// FullName returns first and last name separated by a space
func (s *UserSession) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Clone returns a deep copy
func (s *UserSession) Clone() *UserSession {
	if s == nil {
		return nil
	}
	c := *s
	if s.Phone != nil {
		phone := *s.Phone
		c.Phone = &phone
	}
	if s.Age != nil {
		age := *s.Age
		c.Age = &age
	}
	if s.Gender != nil {
		gender := *s.Gender
		c.Gender = &gender
	}
	c.ChronicConditions = slices.Clone(s.ChronicConditions)
	return &c
}

// EncodeSession serializes a session for the durable slot
func EncodeSession(s *UserSession) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, goerr.Wrap(err, "refusing to store invalid session")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode session")
	}
	return data, nil
}

// DecodeSession parses the durable slot content. Anything that is not a valid
// session is reported as ErrCorruptSession.
func DecodeSession(data []byte) (*UserSession, error) {
	var s UserSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, goerr.Wrap(ErrCorruptSession, "stored session is not valid JSON", goerr.V("cause", err.Error()))
	}
	if err := s.Validate(); err != nil {
		return nil, goerr.Wrap(ErrCorruptSession, "stored session is incomplete", goerr.V("cause", err.Error()))
	}
	return &s, nil
}
