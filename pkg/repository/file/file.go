package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/safe"
)

// Slot stores each key as <dir>/<key>.json, readable only by the owner
type Slot struct {
	dir string
}

var _ interfaces.SessionSlot = &Slot{}

func New(dir string) *Slot {
	return &Slot{dir: dir}
}

// DefaultDir returns the per-user config directory for healthdesk
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve user config dir")
	}
	return filepath.Join(base, "healthdesk"), nil
}

func (s *Slot) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Slot) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read session slot", goerr.V(model.PathKey, s.path(key)))
	}
	return data, nil
}

// Save writes to a temp file in the same directory and renames it over the slot,
// so a reader never observes a partial write.
func (s *Slot) Save(ctx context.Context, key string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return goerr.Wrap(err, "failed to create session dir", goerr.V(model.PathKey, s.dir))
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp file", goerr.V(model.PathKey, s.dir))
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		safe.Close(ctx, tmp)
		return goerr.Wrap(err, "failed to write session", goerr.V(model.PathKey, tmpName))
	}
	if err := tmp.Chmod(0o600); err != nil {
		safe.Close(ctx, tmp)
		return goerr.Wrap(err, "failed to restrict session file mode", goerr.V(model.PathKey, tmpName))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close session file", goerr.V(model.PathKey, tmpName))
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return goerr.Wrap(err, "failed to replace session file", goerr.V(model.PathKey, s.path(key)))
	}
	committed = true
	return nil
}

func (s *Slot) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return goerr.Wrap(err, "failed to delete session slot", goerr.V(model.PathKey, s.path(key)))
	}
	return nil
}
