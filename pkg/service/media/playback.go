package media

import (
	"context"
	"net/url"
	"os"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/safe"
)

// TempPlayback materializes recordings as temp files and hands out file:// URLs
type TempPlayback struct {
	dir string

	mu   sync.Mutex
	live map[string]string // url -> path
}

var _ interfaces.PlaybackStore = &TempPlayback{}

// NewTempPlayback stores files in dir, or the system temp dir when dir is empty
func NewTempPlayback(dir string) *TempPlayback {
	return &TempPlayback{
		dir:  dir,
		live: make(map[string]string),
	}
}

func (p *TempPlayback) Create(data []byte, mimeType string) (string, error) {
	name := (&model.AudioBlob{MIMEType: mimeType}).Filename()
	f, err := os.CreateTemp(p.dir, "healthdesk-*-"+name)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create playback file")
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", goerr.Wrap(err, "failed to write playback file", goerr.V(model.PathKey, f.Name()))
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", goerr.Wrap(err, "failed to close playback file", goerr.V(model.PathKey, f.Name()))
	}

	u := (&url.URL{Scheme: "file", Path: f.Name()}).String()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.live[u] = f.Name()
	return u, nil
}

func (p *TempPlayback) Release(u string) error {
	p.mu.Lock()
	path, ok := p.live[u]
	delete(p.live, u)
	p.mu.Unlock()

	if !ok {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return goerr.Wrap(err, "failed to remove playback file", goerr.V(model.PathKey, path))
	}
	return nil
}

// Live reports how many URLs are outstanding
func (p *TempPlayback) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.live)
}

// Path returns the file behind a live URL
func (p *TempPlayback) Path(u string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	path, ok := p.live[u]
	return path, ok
}

// ReleaseAll removes every outstanding file
func (p *TempPlayback) ReleaseAll(ctx context.Context) {
	p.mu.Lock()
	paths := make([]string, 0, len(p.live))
	for u, path := range p.live {
		paths = append(paths, path)
		delete(p.live, u)
	}
	p.mu.Unlock()

	for _, path := range paths {
		safe.Remove(ctx, path)
	}
}
