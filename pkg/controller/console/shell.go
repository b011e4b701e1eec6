package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
	"github.com/smarthealth-ai/healthdesk/pkg/usecase"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/errutil"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/logging"
)

// Shell is the interactive front end of the navigation shell. Each line is a command
// for the mounted view.
type Shell struct {
	uc     *usecase.UseCases
	prompt *Prompter
	render *Renderer

	auth      *usecase.AuthView
	dashboard *usecase.DashboardView

	symptoms *usecase.SymptomCheckerView
	upload   *usecase.UploadView
	image    *usecase.ImageAnalysisView
	cases    *usecase.SimilarCasesView
	speech   *usecase.SpeechView
	history  *usecase.HistoryView
}

func NewShell(uc *usecase.UseCases, prompt *Prompter, render *Renderer) *Shell {
	return &Shell{uc: uc, prompt: prompt, render: render}
}

var viewAliases = map[string]types.View{
	"symptoms": types.ViewSymptomChecker,
	"check":    types.ViewSymptomChecker,
	"upload":   types.ViewUpload,
	"image":    types.ViewImageAnalysis,
	"cases":    types.ViewSimilarCases,
	"search":   types.ViewSimilarCases,
	"speech":   types.ViewSpeech,
	"voice":    types.ViewSpeech,
	"history":  types.ViewHistory,
}

// Run reads commands until quit or end of input
func (s *Shell) Run(ctx context.Context) error {
	view, err := s.uc.Shell.Start(ctx)
	if err != nil {
		return err
	}
	defer s.closeFeature(ctx)

	s.enter(ctx, view)

	for {
		line, err := s.prompt.Ask(ctx, fmt.Sprintf("healthdesk:%s> ", s.uc.Shell.Current()))
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit":
			return nil
		case "help", "?":
			s.help()
			continue
		}

		if err := s.dispatch(ctx, args); err != nil {
			logging.From(ctx).Debug("command failed", "command", args[0], "error", err)
			s.render.Error(errutil.Message(err))
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, args []string) error {
	current := s.uc.Shell.Current()
	switch current {
	case types.ViewAuth:
		return s.authCommand(ctx, args)
	case types.ViewDashboard:
		return s.dashboardCommand(ctx, args)
	}

	if args[0] == "back" {
		if err := s.uc.Shell.Back(ctx); err != nil {
			return err
		}
		s.closeFeature(ctx)
		s.enter(ctx, types.ViewDashboard)
		return nil
	}
	if args[0] == "logout" {
		return s.logout(ctx)
	}

	switch current {
	case types.ViewSymptomChecker:
		return s.symptomCommand(ctx, args)
	case types.ViewUpload:
		return s.uploadCommand(ctx, args)
	case types.ViewImageAnalysis:
		return s.imageCommand(ctx, args)
	case types.ViewSimilarCases:
		return s.casesCommand(ctx, args)
	case types.ViewSpeech:
		return s.speechCommand(ctx, args)
	case types.ViewHistory:
		return s.historyCommand(ctx, args)
	}
	return unknownCommand(args[0])
}

func unknownCommand(name string) error {
	return model.NewValidationFailure(fmt.Sprintf("unknown command %q, type help for a list", name))
}

// enter mounts the view objects for the shell's current view
func (s *Shell) enter(ctx context.Context, view types.View) {
	switch view {
	case types.ViewAuth:
		s.auth = s.uc.NewAuthView()
		s.render.Notice("Sign in with 'login' or create an account with 'register'.")

	case types.ViewDashboard:
		s.dashboard = s.uc.NewDashboardView()
		s.showDashboard(ctx, func() (*model.Dashboard, error) { return s.dashboard.Load(ctx) })

	case types.ViewSymptomChecker:
		s.symptoms = s.uc.NewSymptomCheckerView()
		s.render.Notice("Symptom Checker: 'check' to describe your symptoms, 'back' to return.")

	case types.ViewUpload:
		s.upload = s.uc.NewUploadView()
		s.render.Notice("Upload Medical Records: 'upload <file>' (PDF, JPG, PNG, BMP, TIFF), 'back' to return.")

	case types.ViewImageAnalysis:
		s.image = s.uc.NewImageAnalysisView()
		s.render.Notice("AI Image Analysis: 'type <skin|rash|wound|dermatological>', 'analyze <image>', 'back' to return.")

	case types.ViewSimilarCases:
		s.cases = s.uc.NewSimilarCasesView()
		s.render.Notice("Search Similar Cases: 'search', 'back' to return.")

	case types.ViewSpeech:
		view, err := s.uc.NewSpeechView()
		if err != nil {
			s.render.Error(errutil.Message(err))
			return
		}
		s.speech = view
		s.render.Notice("Voice Symptom Recorder: 'record', 'stop', 'process', 'clear', 'status', 'back' to return.")

	case types.ViewHistory:
		s.history = s.uc.NewHistoryView()
		if h, err := s.history.Load(ctx); err != nil {
			s.render.Error(errutil.Message(err))
		} else {
			s.render.History(h)
		}
	}
}

func (s *Shell) closeFeature(ctx context.Context) {
	if s.speech != nil {
		s.speech.Close(ctx)
		s.speech = nil
	}
	if s.symptoms != nil {
		s.symptoms.Close()
		s.symptoms = nil
	}
	if s.upload != nil {
		s.upload.Close()
		s.upload = nil
	}
	if s.image != nil {
		s.image.Close()
		s.image = nil
	}
	if s.cases != nil {
		s.cases.Close()
		s.cases = nil
	}
	if s.history != nil {
		s.history.Close()
		s.history = nil
	}
}

func (s *Shell) help() {
	commands := map[types.View]string{
		types.ViewAuth:           "login, register",
		types.ViewDashboard:      "refresh, delete <document id>, profile, open <symptoms|upload|image|cases|speech|history>, logout",
		types.ViewSymptomChecker: "check, retry, back, logout",
		types.ViewUpload:         "upload <file>, retry, back, logout",
		types.ViewImageAnalysis:  "type <image type>, analyze <image>, retry, back, logout",
		types.ViewSimilarCases:   "search, retry, back, logout",
		types.ViewSpeech:         "record, stop, status, process, clear, back, logout",
		types.ViewHistory:        "refresh, back, logout",
	}
	s.render.Notice("Commands: " + commands[s.uc.Shell.Current()] + ", help, quit")
}

func (s *Shell) authCommand(ctx context.Context, args []string) error {
	switch args[0] {
	case "login":
		if s.auth.Mode() != usecase.AuthModeLogin {
			s.auth.SwitchMode()
		}
		email, err := s.prompt.Ask(ctx, "Email: ")
		if err != nil {
			return err
		}
		password, err := s.prompt.Ask(ctx, "Password: ")
		if err != nil {
			return err
		}
		s.auth.SetCredentials(model.Credentials{Email: email, Password: password})

	case "register":
		if s.auth.Mode() != usecase.AuthModeRegister {
			s.auth.SwitchMode()
		}
		form, err := s.askRegistration(ctx)
		if err != nil {
			return err
		}
		s.auth.SetRegistration(*form)

	default:
		return unknownCommand(args[0])
	}

	if _, err := s.auth.Submit(ctx); err != nil {
		return err
	}
	s.auth.Close()
	s.enter(ctx, types.ViewDashboard)
	return nil
}

func (s *Shell) askRegistration(ctx context.Context) (*model.RegistrationForm, error) {
	var form model.RegistrationForm
	fields := []struct {
		label string
		dst   *string
	}{
		{"Email: ", &form.Email},
		{"Password (min 6 characters): ", &form.Password},
		{"First name: ", &form.FirstName},
		{"Last name: ", &form.LastName},
		{"Phone (optional): ", &form.Phone},
		{"Age (optional): ", &form.Age},
		{"Gender (male/female/other/prefer_not_to_say, optional): ", &form.Gender},
		{"Chronic conditions (comma separated, optional): ", &form.ChronicConditions},
	}
	for _, f := range fields {
		answer, err := s.prompt.Ask(ctx, f.label)
		if err != nil {
			return nil, err
		}
		*f.dst = answer
	}
	return &form, nil
}

func (s *Shell) showDashboard(ctx context.Context, load func() (*model.Dashboard, error)) {
	d, err := load()
	if err != nil {
		s.render.Error("Error loading dashboard: " + errutil.Message(err))
		s.render.Notice("Type 'refresh' to try again.")
		return
	}
	s.render.Dashboard(s.uc.Session.Current(), d, s.dashboard.Deleting())
}

func (s *Shell) dashboardCommand(ctx context.Context, args []string) error {
	switch args[0] {
	case "refresh", "retry":
		s.showDashboard(ctx, func() (*model.Dashboard, error) {
			if s.dashboard.State().State == types.SubmitFailed {
				return s.dashboard.Retry(ctx)
			}
			return s.dashboard.Load(ctx)
		})
		return nil

	case "delete":
		if len(args) < 2 {
			return model.NewValidationFailure("usage: delete <document id>")
		}
		if err := s.dashboard.Delete(ctx, args[1]); err != nil {
			if errors.Is(err, usecase.ErrNotConfirmed) {
				s.render.Notice("Delete cancelled.")
				return nil
			}
			return err
		}
		s.render.Notice("Document deleted.")
		if snap := s.dashboard.State(); snap.HasResult {
			s.render.Dashboard(s.uc.Session.Current(), snap.Result, "")
		}
		return nil

	case "profile", "whoami":
		s.render.Session(s.uc.Session.Current())
		return nil

	case "logout":
		return s.logout(ctx)

	case "open":
		if len(args) < 2 {
			return model.NewValidationFailure("usage: open <view>")
		}
		return s.open(ctx, args[1])
	}

	if _, ok := viewAliases[args[0]]; ok {
		return s.open(ctx, args[0])
	}
	return unknownCommand(args[0])
}

func (s *Shell) open(ctx context.Context, name string) error {
	view, ok := viewAliases[name]
	if !ok {
		parsed, err := types.ParseView(name)
		if err != nil {
			return model.NewValidationFailure(fmt.Sprintf("unknown view %q", name))
		}
		view = parsed
	}
	if err := s.uc.Shell.Open(ctx, view); err != nil {
		return err
	}
	s.dashboard.Close()
	s.enter(ctx, view)
	return nil
}

func (s *Shell) logout(ctx context.Context) error {
	err := s.uc.Shell.Logout(ctx)
	s.closeFeature(ctx)
	if s.dashboard != nil {
		s.dashboard.Close()
	}
	if s.uc.Shell.Current() == types.ViewAuth {
		s.render.Notice("Signed out.")
		s.enter(ctx, types.ViewAuth)
	}
	return err
}

func (s *Shell) symptomCommand(ctx context.Context, args []string) error {
	switch args[0] {
	case "check":
		form := s.symptoms.Form()
		answers := []struct {
			label string
			def   string
			dst   *string
		}{
			{"Symptoms", "", &form.Symptoms},
			{"Patient ID", form.PatientID, &form.PatientID},
			{"Severity Level (low/medium/high/critical)", string(form.SeverityLevel), nil},
			{"Additional Context", "", &form.AdditionalContext},
			{"Age", "", &form.Age},
			{"Gender", "", &form.Gender},
		}
		for _, a := range answers {
			var answer string
			var err error
			if a.def != "" {
				answer, err = s.prompt.AskDefault(ctx, a.label, a.def)
			} else {
				answer, err = s.prompt.Ask(ctx, a.label+": ")
			}
			if err != nil {
				return err
			}
			if a.dst != nil {
				*a.dst = answer
			} else {
				form.SeverityLevel = types.SeverityLevel(answer)
			}
		}
		s.symptoms.SetForm(form)

		d, err := s.symptoms.Submit(ctx)
		if err != nil {
			return err
		}
		s.render.Diagnosis(d)
		return nil

	case "retry":
		d, err := s.symptoms.Retry(ctx)
		if err != nil {
			return err
		}
		s.render.Diagnosis(d)
		return nil
	}
	return unknownCommand(args[0])
}

func (s *Shell) uploadCommand(ctx context.Context, args []string) error {
	switch args[0] {
	case "upload":
		if len(args) < 2 {
			return model.NewValidationFailure("usage: upload <file>")
		}
		file, err := s.upload.Select(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		s.render.Notice(fmt.Sprintf("Uploading %s (%s)...", file.Name, model.FormatFileSize(file.Size)))

		res, err := s.upload.Submit(ctx)
		if err != nil {
			return err
		}
		s.render.UploadResult(res)
		return nil

	case "retry":
		res, err := s.upload.Retry(ctx)
		if err != nil {
			return err
		}
		s.render.UploadResult(res)
		return nil
	}
	return unknownCommand(args[0])
}

func (s *Shell) imageCommand(ctx context.Context, args []string) error {
	switch args[0] {
	case "type":
		if len(args) < 2 {
			return model.NewValidationFailure("usage: type <skin|rash|wound|dermatological>")
		}
		if err := s.image.SetImageType(types.ImageType(args[1])); err != nil {
			return err
		}
		s.render.Notice("Image type: " + s.image.ImageType().Label())
		return nil

	case "analyze":
		if len(args) < 2 {
			return model.NewValidationFailure("usage: analyze <image>")
		}
		if _, err := s.image.Select(strings.Join(args[1:], " ")); err != nil {
			return err
		}
		a, err := s.image.Submit(ctx)
		if err != nil {
			return err
		}
		s.render.ImageAnalysis(a)
		return nil

	case "retry":
		a, err := s.image.Retry(ctx)
		if err != nil {
			return err
		}
		s.render.ImageAnalysis(a)
		return nil
	}
	return unknownCommand(args[0])
}

func (s *Shell) casesCommand(ctx context.Context, args []string) error {
	switch args[0] {
	case "search":
		_, topK := s.cases.Inputs()
		query, err := s.prompt.Ask(ctx, "Symptom Query: ")
		if err != nil {
			return err
		}
		topK, err = s.prompt.AskDefault(ctx, "Top K", topK)
		if err != nil {
			return err
		}
		s.cases.SetQuery(query)
		s.cases.SetTopK(topK)

		res, err := s.cases.Submit(ctx)
		if err != nil {
			return err
		}
		s.render.Cases(res)
		return nil

	case "retry":
		res, err := s.cases.Retry(ctx)
		if err != nil {
			return err
		}
		s.render.Cases(res)
		return nil
	}
	return unknownCommand(args[0])
}

func (s *Shell) speechCommand(ctx context.Context, args []string) error {
	if s.speech == nil {
		return model.NewValidationFailure("no microphone configured, use --recorder or --recording-file")
	}

	switch args[0] {
	case "record":
		if err := s.speech.StartRecording(ctx); err != nil {
			return err
		}
		s.render.Notice("Recording... type 'stop' when you are done.")
		return nil

	case "stop":
		if _, err := s.speech.StopRecording(ctx); err != nil {
			return err
		}
		s.render.Capture(s.speech.Capture())
		return nil

	case "status":
		s.render.Capture(s.speech.Capture())
		return nil

	case "clear":
		s.speech.ClearRecording(ctx)
		s.render.Notice("Recording cleared.")
		return nil

	case "process":
		res, err := s.speech.Process(ctx)
		if err != nil {
			return err
		}
		s.render.Speech(res)
		return nil
	}
	return unknownCommand(args[0])
}

func (s *Shell) historyCommand(ctx context.Context, args []string) error {
	switch args[0] {
	case "refresh", "retry":
		h, err := s.history.Load(ctx)
		if err != nil {
			return err
		}
		s.render.History(h)
		return nil
	}
	return unknownCommand(args[0])
}
