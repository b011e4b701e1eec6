package cli

import (
	"context"

	"github.com/smarthealth-ai/healthdesk/pkg/controller/console"
	"github.com/smarthealth-ai/healthdesk/pkg/usecase"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdShell(a *app) *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Aliases: []string{"sh"},
		Usage:   "Start the interactive navigation shell",
		Action: func(ctx context.Context, c *cli.Command) error {
			prompt := a.prompter()
			opts := []usecase.Option{usecase.WithConfirmer(prompt)}

			// voice input stays unavailable when no recorder can be configured
			if capture, err := a.withCapture(ctx); err != nil {
				logging.From(ctx).Debug("speech disabled", "error", err)
			} else {
				opts = append(opts, capture)
			}

			uc, err := a.useCases(ctx, opts...)
			if err != nil {
				return err
			}

			return console.NewShell(uc, prompt, a.renderer()).Run(ctx)
		},
	}
}
