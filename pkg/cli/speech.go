package cli

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

const defaultRecordDuration = 5 * time.Second

func cmdSpeech(a *app) *cli.Command {
	var audioFile string
	var record bool
	var duration time.Duration

	return &cli.Command{
		Name:  "speech",
		Usage: "Record or replay spoken symptoms and get a transcript with an assessment",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "Prerecorded audio file to send",
				Destination: &audioFile,
			},
			&cli.BoolFlag{
				Name:        "record",
				Usage:       "Record from the microphone",
				Destination: &record,
			},
			&cli.DurationFlag{
				Name:        "duration",
				Aliases:     []string{"d"},
				Usage:       "How long to record (Ctrl-C stops early)",
				Value:       defaultRecordDuration,
				Destination: &duration,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if audioFile == "" && !record {
				return model.NewValidationFailure("either --file or --record is required")
			}
			if audioFile != "" {
				a.recorder.SetFile(audioFile)
			}

			capture, err := a.withCapture(ctx)
			if err != nil {
				return err
			}
			uc, err := a.signedIn(ctx, capture)
			if err != nil {
				return err
			}

			view, err := uc.NewSpeechView()
			if err != nil {
				return err
			}
			defer view.Close(ctx)

			r := a.renderer()
			if err := view.StartRecording(ctx); err != nil {
				return err
			}
			if record {
				r.Notice("Recording... press Ctrl-C to stop early.")
			}
			waitRecording(ctx, duration)

			if _, err := view.StopRecording(ctx); err != nil {
				return err
			}
			r.Capture(view.Capture())

			res, err := view.Process(ctx)
			if err != nil {
				return err
			}
			r.Speech(res)
			return nil
		},
	}
}

// waitRecording blocks for d, or until an interrupt or ctx ends the recording
func waitRecording(ctx context.Context, d time.Duration) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
