package cli_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/smarthealth-ai/healthdesk/pkg/cli"
	"github.com/smarthealth-ai/healthdesk/pkg/cli/config"
	httpctrl "github.com/smarthealth-ai/healthdesk/pkg/controller/http"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/usecase"
)

type harness struct {
	t       *testing.T
	backend string
	session string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := httptest.NewServer(httpctrl.New())
	t.Cleanup(srv.Close)
	return &harness{t: t, backend: srv.URL, session: t.TempDir()}
}

// run executes one CLI invocation. Invocations share the session directory.
func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	full := append([]string{
		"healthdesk",
		"--log-level", "error",
		"--backend-url", h.backend,
		"--session-backend", "file",
		"--session-path", h.session,
	}, args...)

	var out, errOut bytes.Buffer
	err := cli.RunWithIO(context.Background(), full, "test", strings.NewReader(stdin), &out, &errOut)
	return out.String(), err
}

func (h *harness) register() {
	h.t.Helper()
	out, err := h.run("", "register",
		"--email", "ada@example.com",
		"--password", "engine1",
		"--first-name", "Ada",
		"--last-name", "Lovelace",
		"--age", "36",
		"--chronic-conditions", "asthma, migraine",
	)
	gt.NoError(h.t, err).Required()
	gt.String(h.t, out).Contains("Signed in as Ada Lovelace")
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, data, 0o600)).Required()
	return path
}

func TestAuthCommands(t *testing.T) {
	h := newHarness(t)
	h.register()

	out, err := h.run("", "whoami")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Profile Information")
	gt.String(t, out).Contains("ada@example.com")
	gt.String(t, out).Contains("Conditions: asthma, migraine")

	_, err = h.run("", "login", "--email", "ada@example.com", "--password", "engine1")
	gt.Error(t, err).Is(model.ErrValidation)

	out, err = h.run("", "logout")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Signed out.")

	out, err = h.run("", "logout")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Not signed in.")

	_, err = h.run("", "whoami")
	gt.Error(t, err).Is(usecase.ErrNotAuthenticated)

	t.Run("wrong password keeps the user signed out", func(t *testing.T) {
		_, err := h.run("", "login", "--email", "ada@example.com", "--password", "wrong-pass")
		gt.Error(t, err).Is(model.ErrBackend)
		gt.String(t, err.Error()).Contains("Invalid email or password")

		_, err = h.run("", "whoami")
		gt.Error(t, err).Is(usecase.ErrNotAuthenticated)
	})

	t.Run("credentials are prompted when flags are omitted", func(t *testing.T) {
		out, err := h.run("ada@example.com\nengine1\n", "login")
		gt.NoError(t, err).Required()
		gt.String(t, out).Contains("Email: ")
		gt.String(t, out).Contains("Signed in as Ada Lovelace")
	})
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("", "register", "--email", "not-an-email", "--password", "engine1",
		"--first-name", "Ada", "--last-name", "Lovelace")
	gt.Error(t, err).Is(model.ErrValidation)

	_, err = h.run("", "whoami")
	gt.Error(t, err).Is(usecase.ErrNotAuthenticated)
}

func TestFeatureCommands_RequireSession(t *testing.T) {
	h := newHarness(t)

	for _, args := range [][]string{
		{"dashboard"},
		{"history"},
		{"search-cases", "cough"},
		{"check-symptoms", "headache"},
		{"documents", "delete", "doc-1", "--yes"},
	} {
		t.Run(args[0], func(t *testing.T) {
			_, err := h.run("", args...)
			gt.Error(t, err).Is(usecase.ErrNotAuthenticated)
		})
	}
}

var documentLine = regexp.MustCompile(`\[([^\]]+)\] report\.pdf`)

func TestUploadAndDeleteDocument(t *testing.T) {
	h := newHarness(t)
	h.register()

	out, err := h.run("", "dashboard")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Welcome back, Ada!")
	gt.String(t, out).Contains("No documents yet")

	_, err = h.run("", "upload", writeFile(t, "notes.txt", []byte("plain text")))
	gt.Error(t, err).Is(model.ErrValidation)

	report := writeFile(t, "report.pdf", []byte("%PDF-1.4\nHemoglobin 13.5 g/dL\n"))
	out, err = h.run("", "upload", report)
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Uploading report.pdf")
	gt.String(t, out).Contains("Processing Results")

	out, err = h.run("", "dashboard")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Documents Uploaded: 1")
	match := documentLine.FindStringSubmatch(out)
	gt.Array(t, match).Length(2).Required()
	documentID := match[1]

	t.Run("declined confirmation keeps the document", func(t *testing.T) {
		out, err := h.run("n\n", "documents", "delete", documentID)
		gt.NoError(t, err).Required()
		gt.String(t, out).Contains("Are you sure you want to delete this document?")
		gt.String(t, out).Contains("Delete cancelled.")
	})

	t.Run("unknown document fails with the delete alert", func(t *testing.T) {
		_, err := h.run("", "documents", "delete", "missing-doc", "--yes")
		gt.Error(t, err).Is(model.ErrBackend)
		gt.String(t, err.Error()).Contains("Failed to delete document.")
	})

	out, err = h.run("", "documents", "delete", documentID, "--yes")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Document deleted.")

	out, err = h.run("", "dashboard")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Documents Uploaded: 0")
}

func TestSearchCases(t *testing.T) {
	h := newHarness(t)
	h.register()

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{
			name: "default top k",
			args: []string{"search-cases", "dry", "cough", "and", "fever"},
			want: "Viral upper respiratory infection",
		},
		{
			name: "explicit top k",
			args: []string{"search-cases", "--top-k", "1", "headache with nausea"},
			want: "Migraine without aura",
		},
		{
			name:    "top k below one",
			args:    []string{"search-cases", "--top-k", "0", "headache"},
			wantErr: model.ErrValidation,
		},
		{
			name:    "empty query",
			args:    []string{"search-cases"},
			wantErr: model.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.run("", tt.args...)
			if tt.wantErr != nil {
				gt.Error(t, err).Is(tt.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			gt.String(t, out).Contains("Results:")
			gt.String(t, out).Contains(tt.want)
		})
	}
}

func TestCheckSymptoms(t *testing.T) {
	h := newHarness(t)
	h.register()

	out, err := h.run("", "check-symptoms", "--severity", "high", "--age", "36", "throbbing headache with nausea")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("not a substitute for professional medical advice")

	_, err = h.run("", "check-symptoms", "--age", "abc", "headache")
	gt.Error(t, err).Is(model.ErrValidation)

	_, err = h.run("", "check-symptoms")
	gt.Error(t, err).Is(model.ErrValidation)
}

func TestAnalyzeImage(t *testing.T) {
	h := newHarness(t)
	h.register()

	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	image := writeFile(t, "arm.png", png)

	out, err := h.run("", "analyze-image", "--type", "rash", image)
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Analysis Results")

	_, err = h.run("", "analyze-image", "--type", "x-ray", image)
	gt.Error(t, err).Is(model.ErrValidation)

	_, err = h.run("", "analyze-image")
	gt.Error(t, err).Is(model.ErrValidation)
}

func TestSpeech(t *testing.T) {
	h := newHarness(t)
	h.register()

	audio := writeFile(t, "voice.wav", []byte("I have had a severe headache and fever for two days"))
	out, err := h.run("", "speech", "--file", audio, "--duration", "50ms")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Transcribed Text")
	gt.String(t, out).Contains("severe headache")

	_, err = h.run("", "speech")
	gt.Error(t, err).Is(model.ErrValidation)
}

func TestHistoryAndCategories(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("", "categories")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Symptom Categories")

	h.register()
	_, err = h.run("", "history")
	gt.NoError(t, err)
}

func TestShellCommand(t *testing.T) {
	h := newHarness(t)
	h.register()

	out, err := h.run("open cases\nback\nquit\n", "shell")
	gt.NoError(t, err).Required()
	gt.String(t, out).Contains("Welcome back, Ada!")
	gt.String(t, out).Contains("Search Similar Cases")
}

func TestGlobalConfiguration(t *testing.T) {
	h := newHarness(t)

	t.Run("missing config file", func(t *testing.T) {
		_, err := h.run("", "--config", filepath.Join(t.TempDir(), "missing.toml"), "categories")
		gt.Error(t, err).Is(config.ErrConfigNotFound)
	})

	t.Run("config file supplies the backend", func(t *testing.T) {
		path := writeFile(t, "healthdesk.toml", []byte("[backend]\nurl = \"http://127.0.0.1:1\"\n"))
		var out, errOut bytes.Buffer
		err := cli.RunWithIO(context.Background(), []string{
			"healthdesk", "--log-level", "error", "--config", path, "--ephemeral", "categories",
		}, "test", strings.NewReader(""), &out, &errOut)
		gt.Error(t, err).Is(model.ErrTransport)
		gt.String(t, errOut.String()).Contains("Error:")
	})

	t.Run("invalid log level", func(t *testing.T) {
		_, err := h.run("", "--log-level", "loud", "categories")
		gt.Error(t, err).Is(config.ErrInvalidConfig)
	})
}
