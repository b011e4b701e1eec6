package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
	"github.com/smarthealth-ai/healthdesk/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// alreadySignedIn is returned when login or register runs over an existing session
func alreadySignedIn(uc *usecase.UseCases) error {
	email := ""
	if s := uc.Session.Current(); s != nil {
		email = s.Email
	}
	return model.NewValidationFailure("Already signed in as " + email + ", run 'healthdesk logout' first")
}

// authenticate submits the auth view and reports who signed in
func (a *app) authenticate(ctx context.Context, view *usecase.AuthView) error {
	defer view.Close()

	session, err := view.Submit(ctx)
	if err != nil {
		return err
	}

	a.renderer().Notice("Signed in as " + session.FullName() + " (" + session.PatientID + ")")
	return nil
}

func cmdLogin(a *app) *cli.Command {
	var creds model.Credentials

	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and store the session locally",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Usage:       "Account email (prompted when omitted)",
				Sources:     cli.EnvVars("HEALTHDESK_EMAIL"),
				Destination: &creds.Email,
			},
			&cli.StringFlag{
				Name:        "password",
				Usage:       "Account password (prompted when omitted)",
				Sources:     cli.EnvVars("HEALTHDESK_PASSWORD"),
				Destination: &creds.Password,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := a.useCases(ctx)
			if err != nil {
				return err
			}
			if view, err := uc.Shell.Start(ctx); err != nil {
				return err
			} else if view != types.ViewAuth {
				return alreadySignedIn(uc)
			}

			prompt := a.prompter()
			if creds.Email == "" {
				if creds.Email, err = prompt.Ask(ctx, "Email: "); err != nil {
					return goerr.Wrap(err, "failed to read email")
				}
			}
			if creds.Password == "" {
				if creds.Password, err = prompt.Ask(ctx, "Password: "); err != nil {
					return goerr.Wrap(err, "failed to read password")
				}
			}

			view := uc.NewAuthView()
			view.SetCredentials(creds)
			return a.authenticate(ctx, view)
		},
	}
}

func cmdRegister(a *app) *cli.Command {
	var form model.RegistrationForm

	text := func(name, usage string, dst *string) cli.Flag {
		return &cli.StringFlag{Name: name, Usage: usage, Destination: dst}
	}

	return &cli.Command{
		Name:  "register",
		Usage: "Create an account and sign in",
		Flags: []cli.Flag{
			text("email", "Account email", &form.Email),
			text("password", "Password, at least 6 characters", &form.Password),
			text("first-name", "First name", &form.FirstName),
			text("last-name", "Last name", &form.LastName),
			text("phone", "Phone number", &form.Phone),
			text("age", "Age in years", &form.Age),
			text("gender", "male, female, other or prefer_not_to_say", &form.Gender),
			text("chronic-conditions", "Comma separated list of chronic conditions", &form.ChronicConditions),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := a.useCases(ctx)
			if err != nil {
				return err
			}
			if view, err := uc.Shell.Start(ctx); err != nil {
				return err
			} else if view != types.ViewAuth {
				return alreadySignedIn(uc)
			}

			view := uc.NewAuthView()
			view.SwitchMode()
			view.SetRegistration(form)
			return a.authenticate(ctx, view)
		},
	}
}

func cmdLogout(a *app) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the stored session",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := a.useCases(ctx)
			if err != nil {
				return err
			}
			view, err := uc.Shell.Start(ctx)
			if err != nil {
				return err
			}
			if view == types.ViewAuth {
				a.renderer().Notice("Not signed in.")
				return nil
			}
			if err := uc.Shell.Logout(ctx); err != nil {
				return err
			}
			a.renderer().Notice("Signed out.")
			return nil
		},
	}
}

func cmdWhoami(a *app) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the signed-in profile",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := a.signedIn(ctx)
			if err != nil {
				return err
			}
			a.renderer().Session(uc.Session.Current())
			return nil
		},
	}
}
