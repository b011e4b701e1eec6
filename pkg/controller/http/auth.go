package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/errutil"
	"golang.org/x/crypto/bcrypt"
)

func registerHandler(b *backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.RegisterRequest
		if !decodeBody(w, r, &req) {
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to hash password"), http.StatusInternalServerError)
			return
		}

		b.mu.Lock()
		if _, exists := b.accounts[email]; exists {
			b.mu.Unlock()
			errutil.WriteDetail(w, http.StatusBadRequest, "Email already registered")
			return
		}

		conditions := req.ChronicConditions
		if conditions == nil {
			conditions = []string{}
		}
		acc := &account{
			session: model.UserSession{
				PatientID:         newPatientID(),
				FirstName:         req.FirstName,
				LastName:          req.LastName,
				Email:             email,
				Phone:             req.Phone,
				Age:               req.Age,
				Gender:            req.Gender,
				ChronicConditions: conditions,
				CreatedAt:         b.timestamp(),
			},
			passwordHash: hash,
		}
		b.accounts[email] = acc
		b.patients[acc.session.PatientID] = acc
		session := acc.session.Clone()
		b.mu.Unlock()

		writeJSON(r.Context(), w, http.StatusOK, session)
	}
}

func loginHandler(b *backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds model.Credentials
		if !decodeBody(w, r, &creds) {
			return
		}

		b.mu.Lock()
		acc, ok := b.accounts[strings.ToLower(strings.TrimSpace(creds.Email))]
		if !ok || bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(creds.Password)) != nil {
			b.mu.Unlock()
			errutil.WriteDetail(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		acc.session.LastLogin = b.timestamp()
		session := acc.session.Clone()
		b.mu.Unlock()

		writeJSON(r.Context(), w, http.StatusOK, session)
	}
}

// decodeBody decodes and validates a JSON body, answering 422 like the real backend on failure
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeValidation(r.Context(), w, validationIssue{
			Loc:  []string{"body"},
			Msg:  "Invalid JSON body",
			Type: "json_invalid",
		})
		return false
	}

	if err := model.ValidateForm(v); err != nil {
		loc := []string{"body"}
		var ge *goerr.Error
		if errors.As(err, &ge) {
			if field, ok := ge.Values()[model.FieldKey].(string); ok {
				loc = append(loc, field)
			}
		}
		writeValidation(r.Context(), w, validationIssue{
			Loc:  loc,
			Msg:  errutil.Message(err),
			Type: "value_error",
		})
		return false
	}
	return true
}
