package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
	"github.com/smarthealth-ai/healthdesk/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdUpload(a *app) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload a medical record (PDF or image) for text extraction",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := a.signedIn(ctx)
			if err != nil {
				return err
			}

			view := uc.NewUploadView()
			defer view.Close()

			r := a.renderer()
			if path := c.Args().First(); path != "" {
				file, err := view.Select(path)
				if err != nil {
					return err
				}
				r.Notice(fmt.Sprintf("Uploading %s (%s)...", file.Name, model.FormatFileSize(file.Size)))
			}

			res, err := view.Submit(ctx)
			if err != nil {
				return err
			}
			r.UploadResult(res)
			return nil
		},
	}
}

func cmdAnalyzeImage(a *app) *cli.Command {
	var imageType string

	return &cli.Command{
		Name:      "analyze-image",
		Usage:     "Analyze a photo of a skin condition, rash or wound",
		ArgsUsage: "<image>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "type",
				Aliases:     []string{"t"},
				Usage:       "Image type (skin, rash, wound, dermatological)",
				Value:       string(types.DefaultImageType),
				Destination: &imageType,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := a.signedIn(ctx)
			if err != nil {
				return err
			}

			view := uc.NewImageAnalysisView()
			defer view.Close()

			if err := view.SetImageType(types.ImageType(imageType)); err != nil {
				return err
			}
			if path := c.Args().First(); path != "" {
				if _, err := view.Select(path); err != nil {
					return err
				}
			}

			res, err := view.Submit(ctx)
			if err != nil {
				return err
			}
			a.renderer().ImageAnalysis(res)
			return nil
		},
	}
}

func cmdCheckSymptoms(a *app) *cli.Command {
	var form model.SymptomForm
	var severity string

	return &cli.Command{
		Name:      "check-symptoms",
		Usage:     "Describe symptoms and get an AI assessment",
		ArgsUsage: "<symptoms>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "patient-id",
				Usage:       "Patient ID (defaults to the signed-in patient)",
				Destination: &form.PatientID,
			},
			&cli.StringFlag{
				Name:        "severity",
				Usage:       "Severity level (low, medium, high, critical)",
				Destination: &severity,
			},
			&cli.StringFlag{
				Name:        "context",
				Usage:       "Additional context such as recent travel or medication",
				Destination: &form.AdditionalContext,
			},
			&cli.StringFlag{
				Name:        "age",
				Usage:       "Age in years",
				Destination: &form.Age,
			},
			&cli.StringFlag{
				Name:        "gender",
				Usage:       "Gender",
				Destination: &form.Gender,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := a.signedIn(ctx)
			if err != nil {
				return err
			}

			view := uc.NewSymptomCheckerView()
			defer view.Close()

			// unset flags keep the prefilled values
			prefilled := view.Form()
			form.Symptoms = strings.Join(c.Args().Slice(), " ")
			if form.PatientID == "" {
				form.PatientID = prefilled.PatientID
			}
			form.SeverityLevel = prefilled.SeverityLevel
			if severity != "" {
				form.SeverityLevel = types.SeverityLevel(severity)
			}
			view.SetForm(form)

			d, err := view.Submit(ctx)
			if err != nil {
				return err
			}
			a.renderer().Diagnosis(d)
			return nil
		},
	}
}

func cmdSearchCases(a *app) *cli.Command {
	var topK string

	return &cli.Command{
		Name:      "search-cases",
		Usage:     "Find similar cases in the medical knowledge base",
		ArgsUsage: "<symptom query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "top-k",
				Aliases:     []string{"k"},
				Usage:       "Number of cases to return",
				Value:       usecase.DefaultTopK,
				Destination: &topK,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := a.signedIn(ctx)
			if err != nil {
				return err
			}

			view := uc.NewSimilarCasesView()
			defer view.Close()

			view.SetQuery(strings.Join(c.Args().Slice(), " "))
			view.SetTopK(topK)

			res, err := view.Submit(ctx)
			if err != nil {
				return err
			}
			a.renderer().Cases(res)
			return nil
		},
	}
}

func cmdHistory(a *app) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show the stored patient history",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := a.signedIn(ctx)
			if err != nil {
				return err
			}

			view := uc.NewHistoryView()
			defer view.Close()

			h, err := view.Load(ctx)
			if err != nil {
				return err
			}
			a.renderer().History(h)
			return nil
		},
	}
}

func cmdCategories(a *app) *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List the symptom categories known to the backend",
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := a.useCases(ctx)
			if err != nil {
				return err
			}

			categories, err := uc.SymptomCategories(ctx)
			if err != nil {
				return err
			}
			a.renderer().Categories(categories)
			return nil
		},
	}
}
