package cli

import (
	"context"
	"errors"

	"github.com/smarthealth-ai/healthdesk/pkg/controller/console"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdDashboard(a *app) *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Show the health summary and recent documents",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := a.signedIn(ctx)
			if err != nil {
				return err
			}

			view := uc.NewDashboardView()
			defer view.Close()

			d, err := view.Load(ctx)
			if err != nil {
				return err
			}
			a.renderer().Dashboard(uc.Session.Current(), d, "")
			return nil
		},
	}
}

func cmdDocuments(a *app) *cli.Command {
	var yes bool

	return &cli.Command{
		Name:  "documents",
		Usage: "Manage uploaded medical documents",
		Commands: []*cli.Command{
			{
				Name:      "delete",
				Usage:     "Delete an uploaded document",
				ArgsUsage: "<document id>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "yes",
						Aliases:     []string{"y"},
						Usage:       "Skip the confirmation prompt",
						Destination: &yes,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					documentID := c.Args().First()
					if documentID == "" {
						return model.NewValidationFailure("usage: healthdesk documents delete <document id>")
					}

					var confirmer interfaces.Confirmer = a.prompter()
					if yes {
						confirmer = console.AutoConfirm(true)
					}

					uc, err := a.signedIn(ctx, usecase.WithConfirmer(confirmer))
					if err != nil {
						return err
					}

					view := uc.NewDashboardView()
					defer view.Close()

					if err := view.Delete(ctx, documentID); err != nil {
						if errors.Is(err, usecase.ErrNotConfirmed) {
							a.renderer().Notice("Delete cancelled.")
							return nil
						}
						return err
					}
					a.renderer().Notice("Document deleted.")
					return nil
				},
			},
		},
	}
}
