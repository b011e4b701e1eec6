package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/service/media"
	"github.com/urfave/cli/v3"
)

// Recorder holds configuration for audio capture
type Recorder struct {
	command  string
	mimeType string
	file     string
}

// Flags returns CLI flags for audio capture
func (r *Recorder) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "recorder",
			Usage:       "Command that records audio to stdout (default: " + media.DefaultRecorder + ")",
			Sources:     cli.EnvVars("HEALTHDESK_RECORDER"),
			Destination: &r.command,
		},
		&cli.StringFlag{
			Name:        "recorder-mime",
			Usage:       "MIME type of the recorder output",
			Sources:     cli.EnvVars("HEALTHDESK_RECORDER_MIME"),
			Destination: &r.mimeType,
		},
		&cli.StringFlag{
			Name:        "recording-file",
			Usage:       "Use a prerecorded audio file instead of the recorder command",
			Sources:     cli.EnvVars("HEALTHDESK_RECORDING_FILE"),
			Destination: &r.file,
		},
	}
}

// SetFile makes the microphone stream a prerecorded file
func (r *Recorder) SetFile(path string) {
	r.file = path
}

// Configure builds the microphone. A recording file wins over the recorder command.
func (r *Recorder) Configure(fc *FileConfig) (interfaces.Microphone, error) {
	if r.file != "" {
		return media.NewFileMicrophone(r.file), nil
	}

	command := firstNonEmpty(r.command, fc.Recorder.Command, media.DefaultRecorder)
	mimeType := firstNonEmpty(r.mimeType, fc.Recorder.MIMEType)
	mic, err := media.NewCommandMicrophone(command, mimeType)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure recorder", goerr.V("command", command))
	}
	return mic, nil
}
