package model

import (
	"strings"
	"time"

	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
)

// AudioBlob is a finished recording held in memory
type AudioBlob struct {
	Data     []byte
	MIMEType string
}

var audioExtensions = map[string]string{
	"audio/webm": "webm",
	"audio/ogg":  "ogg",
	"audio/wav":  "wav",
	"audio/wave": "wav",
	"audio/mpeg": "mp3",
	"audio/mp4":  "m4a",
}

// Filename is the multipart filename used when submitting the recording
func (b *AudioBlob) Filename() string {
	mimeType, _, _ := strings.Cut(b.MIMEType, ";")
	if ext, ok := audioExtensions[strings.TrimSpace(mimeType)]; ok {
		return "recording." + ext
	}
	return "recording.webm"
}

// Size returns the byte length of the recording
func (b *AudioBlob) Size() int {
	return len(b.Data)
}

// AudioCapture is a snapshot of the capture controller
type AudioCapture struct {
	State   types.CaptureState
	Elapsed time.Duration
	Blob    *AudioBlob
	// PlaybackURL is set while a finished recording is available for playback
	PlaybackURL string
}
