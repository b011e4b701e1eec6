package media

import (
	"bytes"
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/types"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/logging"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/safe"
	"golang.org/x/sync/errgroup"
)

const defaultTickInterval = time.Second

// Controller owns one microphone recording at a time together with its playback URL.
// States: idle -> recording -> stopped -> processing -> stopped, and back to idle on Clear.
type Controller struct {
	mic      interfaces.Microphone
	playback interfaces.PlaybackStore
	tick     time.Duration

	mu     sync.Mutex
	state  types.CaptureState
	stream interfaces.AudioStream
	chunks *bytes.Buffer
	stopCh chan struct{}
	group  *errgroup.Group
	blob   *model.AudioBlob
	url    string

	// seconds is written by the ticker goroutine without holding mu
	seconds atomic.Int64
}

type Option func(*Controller)

// WithTickInterval changes how often the elapsed counter advances by one second
func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.tick = d
	}
}

func NewController(mic interfaces.Microphone, playback interfaces.PlaybackStore, opts ...Option) *Controller {
	c := &Controller{
		mic:      mic,
		playback: playback,
		tick:     defaultTickInterval,
		state:    types.CaptureIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start opens the microphone and begins buffering audio
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case types.CaptureRecording:
		return ErrAlreadyRecording
	case types.CaptureStopped, types.CaptureProcessing:
		return ErrRecordingPresent
	}

	stream, err := c.mic.Open(ctx)
	if err != nil {
		c.state = types.CaptureIdle
		return goerr.Wrap(model.NewPermissionFailure(PermissionMessage), "failed to open microphone",
			goerr.V("cause", err.Error()))
	}

	chunks := &bytes.Buffer{}
	stopCh := make(chan struct{})
	group := new(errgroup.Group)

	group.Go(func() error {
		_, err := io.Copy(chunks, stream)
		select {
		case <-stopCh:
			// errors after Stop come from closing the device
			return nil
		default:
		}
		if err != nil {
			return goerr.Wrap(err, "audio stream failed")
		}
		return nil
	})

	group.Go(func() error {
		ticker := time.NewTicker(c.tick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.seconds.Add(1)
			case <-stopCh:
				return nil
			}
		}
	})

	c.seconds.Store(0)
	c.stream = stream
	c.chunks = chunks
	c.stopCh = stopCh
	c.group = group
	c.state = types.CaptureRecording

	logging.From(ctx).Debug("recording started", "mime_type", stream.MIMEType())
	return nil
}

// halt stops the goroutines and releases the device. mu must be held.
// A stream that can be finished is read to EOF before it is closed so no captured audio is lost.
func (c *Controller) halt(ctx context.Context) {
	close(c.stopCh)
	finisher, finite := c.stream.(interfaces.AudioFinisher)
	if finite {
		if err := finisher.Finish(); err != nil {
			logging.From(ctx).Warn("failed to finish audio stream", "error", err)
		}
	} else {
		safe.Close(ctx, c.stream)
	}
	if err := c.group.Wait(); err != nil {
		logging.From(ctx).Warn("recording ended with error", "error", err)
	}
	if finite {
		safe.Close(ctx, c.stream)
	}
	c.stopCh = nil
	c.group = nil
}

// Stop finalizes the recording into a blob and creates its playback URL.
// It is a no-op unless recording.
func (c *Controller) Stop(ctx context.Context) (*model.AudioBlob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != types.CaptureRecording {
		return nil, nil
	}

	c.halt(ctx)

	blob := &model.AudioBlob{
		Data:     bytes.Clone(c.chunks.Bytes()),
		MIMEType: c.stream.MIMEType(),
	}
	c.stream = nil
	c.chunks = nil
	c.blob = blob
	c.state = types.CaptureStopped

	c.releaseURL(ctx)
	url, err := c.playback.Create(blob.Data, blob.MIMEType)
	if err != nil {
		return blob, goerr.Wrap(err, "failed to create playback", goerr.V("size", blob.Size()))
	}
	c.url = url

	logging.From(ctx).Debug("recording stopped", "size", blob.Size(), "seconds", c.seconds.Load())
	return blob, nil
}

func (c *Controller) releaseURL(ctx context.Context) {
	if c.url == "" {
		return
	}
	if err := c.playback.Release(c.url); err != nil {
		logging.From(ctx).Warn("failed to release playback", "url", c.url, "error", err)
	}
	c.url = ""
}

// Clear releases the playback URL (and the device when still recording) and returns to idle
func (c *Controller) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == types.CaptureRecording {
		c.halt(ctx)
		c.stream = nil
		c.chunks = nil
	}
	c.releaseURL(ctx)
	c.blob = nil
	c.seconds.Store(0)
	c.state = types.CaptureIdle
}

// Close tears the controller down. It is safe to call more than once.
func (c *Controller) Close(ctx context.Context) {
	c.Clear(ctx)
}

// BeginProcessing hands out the finished recording for submission
func (c *Controller) BeginProcessing() (*model.AudioBlob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != types.CaptureStopped || c.blob == nil {
		return nil, ErrNotStopped
	}
	c.state = types.CaptureProcessing
	return c.blob, nil
}

// EndProcessing returns to stopped so the recording can be resubmitted or cleared
func (c *Controller) EndProcessing() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == types.CaptureProcessing {
		c.state = types.CaptureStopped
	}
}

// Snapshot returns the current capture state
func (c *Controller) Snapshot() model.AudioCapture {
	c.mu.Lock()
	defer c.mu.Unlock()

	return model.AudioCapture{
		State:       c.state,
		Elapsed:     time.Duration(c.seconds.Load()) * time.Second,
		Blob:        c.blob,
		PlaybackURL: c.url,
	}
}
