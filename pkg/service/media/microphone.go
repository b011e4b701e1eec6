package media

import (
	"context"
	"errors"
	"io"
	"mime"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

// DefaultRecorder captures 16kHz mono WAV from the default ALSA device to stdout
const DefaultRecorder = "arecord -q -f S16_LE -r 16000 -c 1 -t wav -"

// CommandMicrophone records by running an external program that writes audio to stdout
type CommandMicrophone struct {
	args     []string
	mimeType string
}

var _ interfaces.Microphone = &CommandMicrophone{}

// NewCommandMicrophone parses a recorder command line such as DefaultRecorder
func NewCommandMicrophone(command, mimeType string) (*CommandMicrophone, error) {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil, goerr.New("recorder command is empty")
	}
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	return &CommandMicrophone{args: args, mimeType: mimeType}, nil
}

// Open starts the recorder. The process is not bound to ctx: it lives until the stream is closed.
func (m *CommandMicrophone) Open(ctx context.Context) (interfaces.AudioStream, error) {
	cmd := exec.Command(m.args[0], m.args[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to attach recorder output", goerr.V("command", m.args[0]))
	}
	if err := cmd.Start(); err != nil {
		return nil, goerr.Wrap(err, "failed to start recorder", goerr.V("command", m.args[0]))
	}
	return &commandStream{cmd: cmd, stdout: stdout, mimeType: m.mimeType}, nil
}

type commandStream struct {
	cmd      *exec.Cmd
	stdout   io.ReadCloser
	mimeType string
	killOnce sync.Once
	waitOnce sync.Once
}

var _ interfaces.AudioFinisher = &commandStream{}

func (s *commandStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

func (s *commandStream) MIMEType() string {
	return s.mimeType
}

// Finish kills the recorder. Output already written stays readable until EOF.
func (s *commandStream) Finish() error {
	var err error
	s.killOnce.Do(func() {
		if s.cmd.Process == nil {
			return
		}
		if kerr := s.cmd.Process.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
			err = goerr.Wrap(kerr, "failed to stop recorder", goerr.V("command", s.cmd.Path))
		}
	})
	return err
}

// Close stops the recorder and reaps the process. Wait closes stdout, so reads must be done.
func (s *commandStream) Close() error {
	_ = s.Finish()
	s.waitOnce.Do(func() {
		// a killed recorder exits non-zero, which is expected
		_ = s.cmd.Wait()
	})
	return nil
}

// FileMicrophone replays a prerecorded file as if it were captured live
type FileMicrophone struct {
	path string
}

var _ interfaces.Microphone = &FileMicrophone{}

func NewFileMicrophone(path string) *FileMicrophone {
	return &FileMicrophone{path: path}
}

func (m *FileMicrophone) Open(ctx context.Context) (interfaces.AudioStream, error) {
	f, err := os.Open(m.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open audio file", goerr.V(model.PathKey, m.path))
	}
	return &fileStream{File: f, mimeType: audioMIMEType(m.path)}, nil
}

type fileStream struct {
	*os.File
	mimeType string
}

var _ interfaces.AudioFinisher = &fileStream{}

func (s *fileStream) MIMEType() string {
	return s.mimeType
}

// Finish is a no-op: a file always reaches EOF on its own
func (s *fileStream) Finish() error {
	return nil
}

var audioTypes = map[string]string{
	".wav":  "audio/wav",
	".webm": "audio/webm",
	".ogg":  "audio/ogg",
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
}

// audioMIMEType resolves the type from the extension first and sniffs the content otherwise
func audioMIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); strings.HasPrefix(t, "audio/") {
		t, _, _ = strings.Cut(t, ";")
		return t
	}
	if mt, err := mimetype.DetectFile(path); err == nil {
		for m := mt; m != nil; m = m.Parent() {
			if strings.HasPrefix(m.String(), "audio/") {
				return m.String()
			}
		}
		if mt.Is("video/webm") {
			return "audio/webm"
		}
	}
	return "audio/webm"
}
