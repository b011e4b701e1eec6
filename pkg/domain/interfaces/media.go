package interfaces

import (
	"context"
	"io"
)

// AudioStream is an open capture device. Closing it releases the device.
type AudioStream interface {
	io.ReadCloser
	MIMEType() string
}

// AudioFinisher is implemented by streams that can end capture at the source.
// After Finish the stream yields the remaining captured audio and then io.EOF.
type AudioFinisher interface {
	Finish() error
}

// Microphone opens audio capture devices
type Microphone interface {
	Open(ctx context.Context) (AudioStream, error)
}

// PlaybackStore hands out playback URLs for finished recordings
type PlaybackStore interface {
	// Create materializes data and returns a URL referring to it
	Create(data []byte, mimeType string) (string, error)

	// Release frees the resource behind url. Releasing an unknown url is a no-op.
	Release(url string) error
}

// Confirmer asks the user to approve a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}
