package console_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/smarthealth-ai/healthdesk/pkg/controller/console"
	httpctrl "github.com/smarthealth-ai/healthdesk/pkg/controller/http"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
	"github.com/smarthealth-ai/healthdesk/pkg/repository/memory"
	"github.com/smarthealth-ai/healthdesk/pkg/service/healthapi"
	"github.com/smarthealth-ai/healthdesk/pkg/usecase"
)

func runShell(t *testing.T, script ...string) (*usecase.UseCases, string) {
	t.Helper()
	srv := httptest.NewServer(httpctrl.New())
	t.Cleanup(srv.Close)

	client, err := healthapi.New(srv.URL)
	gt.NoError(t, err).Required()

	var out bytes.Buffer
	prompter := console.NewPrompter(strings.NewReader(strings.Join(script, "\n")+"\n"), &out)
	uc := usecase.New(client, memory.New(), usecase.WithConfirmer(prompter))
	shell := console.NewShell(uc, prompter, console.NewRenderer(&out, console.WithoutColor()))

	gt.NoError(t, shell.Run(context.Background())).Required()
	return uc, out.String()
}

func TestShellSession(t *testing.T) {
	uc, out := runShell(t,
		"register",
		"ada@example.com",
		"secret1",
		"Ada",
		"Lovelace",
		"",
		"36",
		"female",
		"asthma",
		"open cases",
		"search",
		"chest pain",
		"2",
		"back",
		"profile",
		"logout",
		"quit",
	)

	gt.String(t, out).Contains("Welcome back, Ada!")
	gt.String(t, out).Contains("No documents yet")
	gt.String(t, out).Contains("Results:")
	gt.String(t, out).Contains("Conditions: asthma")
	gt.String(t, out).Contains("Signed out.")
	gt.Value(t, uc.Shell.Current()).Equal(types.ViewAuth)
	gt.Value(t, uc.Session.Current()).Nil()
}

func TestShellErrors(t *testing.T) {
	t.Run("validation message is shown and the shell continues", func(t *testing.T) {
		uc, out := runShell(t,
			"login",
			"not-an-email",
			"x",
			"dance",
		)
		gt.String(t, out).Contains("Error: email must be a valid email address")
		gt.String(t, out).Contains(`unknown command "dance"`)
		gt.Value(t, uc.Shell.Current()).Equal(types.ViewAuth)
	})

	t.Run("backend detail is shown verbatim", func(t *testing.T) {
		_, out := runShell(t,
			"login",
			"nobody@example.com",
			"secret1",
		)
		gt.String(t, out).Contains("Error: Invalid email or password")
	})

	t.Run("feature views need the dashboard", func(t *testing.T) {
		_, out := runShell(t, "open cases")
		gt.String(t, out).Contains("Error:")
	})
}
