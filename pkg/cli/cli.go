package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/cli/config"
	"github.com/smarthealth-ai/healthdesk/pkg/controller/console"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
	"github.com/smarthealth-ai/healthdesk/pkg/service/media"
	"github.com/smarthealth-ai/healthdesk/pkg/usecase"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/errutil"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// stdio is the terminal the commands talk to
type stdio struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// app carries the global configuration shared by every command
type app struct {
	version string
	io      stdio

	logger   config.Logger
	sentry   config.Sentry
	file     config.File
	backend  config.Backend
	repo     config.Repository
	recorder config.Recorder

	closers []func()
}

func Run(ctx context.Context, args []string, version string) error {
	return run(ctx, args, version, stdio{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(ctx context.Context, args []string, version string, std stdio) error {
	if err := loadDotEnv(); err != nil {
		return err
	}

	a := &app{version: version, io: std}

	var flags []cli.Flag
	flags = append(flags, a.logger.Flags()...)
	flags = append(flags, a.sentry.Flags()...)
	flags = append(flags, a.file.Flags()...)
	flags = append(flags, a.backend.Flags()...)
	flags = append(flags, a.repo.Flags()...)
	flags = append(flags, a.recorder.Flags()...)

	cmd := &cli.Command{
		Name:      "healthdesk",
		Usage:     "Terminal client for the Smart Health medical assistant",
		Version:   version,
		Flags:     flags,
		Reader:    std.in,
		Writer:    std.out,
		ErrWriter: std.err,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			closer, err := a.logger.Configure()
			if err != nil {
				return ctx, err
			}
			a.onClose(closer)

			flush, err := a.sentry.Configure(version)
			if err != nil {
				return ctx, err
			}
			a.onClose(flush)

			logging.Default().Debug("Starting healthdesk", "version", version, "sentry", a.sentry.Enabled())
			return logging.With(ctx, logging.Default()), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			a.close()
			return nil
		},
		Commands: []*cli.Command{
			cmdLogin(a),
			cmdRegister(a),
			cmdLogout(a),
			cmdWhoami(a),
			cmdDashboard(a),
			cmdDocuments(a),
			cmdUpload(a),
			cmdAnalyzeImage(a),
			cmdCheckSymptoms(a),
			cmdSearchCases(a),
			cmdSpeech(a),
			cmdHistory(a),
			cmdCategories(a),
			cmdShell(a),
			cmdDevServer(a),
		},
	}

	if err := cmd.Run(ctx, args); err != nil {
		logging.Default().Debug("failed to run app", "error", err)
		console.NewRenderer(std.err, console.WithoutColor()).Error(errutil.Message(err))
		return err
	}

	return nil
}

// loadDotEnv reads .env from the working directory when present
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to load .env file")
	}
	return nil
}

// onClose registers a cleanup to run after the command finishes, in reverse order
func (a *app) onClose(f func()) {
	if f != nil {
		a.closers = append(a.closers, f)
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// useCases wires the API client and the session slot from the resolved configuration
func (a *app) useCases(ctx context.Context, opts ...usecase.Option) (*usecase.UseCases, error) {
	fc, err := a.file.Configure()
	if err != nil {
		return nil, err
	}

	client, err := a.backend.Configure(fc, a.version)
	if err != nil {
		return nil, err
	}

	slot, closer, err := a.repo.Configure(ctx, fc)
	if err != nil {
		return nil, err
	}
	a.onClose(closer)

	logging.From(ctx).Debug("Configured healthdesk",
		slog.GroupAttrs("backend", a.backend.LogAttrs(fc)...),
		"session_backend", a.repo.Backend(fc),
	)

	return usecase.New(client, slot, opts...), nil
}

// withCapture builds the microphone and hands out capture controllers sharing one
// playback store, which is emptied when the command ends.
func (a *app) withCapture(ctx context.Context) (usecase.Option, error) {
	fc, err := a.file.Configure()
	if err != nil {
		return nil, err
	}
	mic, err := a.recorder.Configure(fc)
	if err != nil {
		return nil, err
	}

	playback := media.NewTempPlayback("")
	a.onClose(func() { playback.ReleaseAll(ctx) })

	return usecase.WithCapture(func() usecase.CaptureController {
		return media.NewController(mic, playback)
	}), nil
}

// signedIn hydrates the session and fails unless someone is signed in
func (a *app) signedIn(ctx context.Context, opts ...usecase.Option) (*usecase.UseCases, error) {
	uc, err := a.useCases(ctx, opts...)
	if err != nil {
		return nil, err
	}

	view, err := uc.Shell.Start(ctx)
	if err != nil {
		return nil, err
	}
	if view != types.ViewDashboard {
		return nil, goerr.Wrap(usecase.ErrNotAuthenticated, "not signed in, run 'healthdesk login' first")
	}
	return uc, nil
}

func (a *app) renderer() *console.Renderer {
	if f, ok := a.io.out.(*os.File); ok && f == os.Stdout && !color.NoColor {
		return console.NewRenderer(a.io.out)
	}
	return console.NewRenderer(a.io.out, console.WithoutColor())
}

func (a *app) prompter() *console.Prompter {
	return console.NewPrompter(a.io.in, a.io.out)
}
