package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/errutil"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/logging"
)

// Server is an in-memory stand-in for the Smart Health backend. It implements the
// same endpoints and error envelopes so the client can be exercised without the real service.
type Server struct {
	router  *chi.Mux
	backend *backend
}

type Options func(*Server)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Options {
	return func(s *Server) {
		s.backend.now = now
	}
}

// WithCases replaces the seeded case library
func WithCases(cases []CaseSeed) Options {
	return func(s *Server) {
		s.backend.cases = seedCases(cases)
	}
}

func New(opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:  r,
		backend: newBackend(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", rootHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", registerHandler(s.backend))
		r.Post("/auth/login", loginHandler(s.backend))
		r.Get("/dashboard/{patient_id}", dashboardHandler(s.backend))
		r.Delete("/documents/{patient_id}/{document_id}", deleteDocumentHandler(s.backend))
		r.Post("/upload/{patient_id}", uploadHandler(s.backend))
		r.Post("/analyze-image", analyzeImageHandler(s.backend))
		r.Post("/speech-to-symptoms", speechHandler(s.backend))
	})

	r.Post("/analyze-symptoms", analyzeSymptomsHandler(s.backend))
	r.Post("/search-cases", searchCasesHandler(s.backend))
	r.Get("/patient-history/{patient_id}", historyHandler(s.backend))
	r.Get("/symptom-categories", categoriesHandler)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"client_request_id", r.Header.Get("X-Request-ID"),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"message": "Smart Health AI - Symptom Checker API",
		"status":  "healthy",
		"version": "1.0.0",
	})
}

// writeJSON writes a JSON response with proper error handling
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = errutil.Handle(ctx, err, "failed to encode JSON response")
	}
}

// validationIssue mirrors one entry of a FastAPI 422 detail list
type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func writeValidation(ctx context.Context, w http.ResponseWriter, issues ...validationIssue) {
	writeJSON(ctx, w, http.StatusUnprocessableEntity, map[string]any{"detail": issues})
}
