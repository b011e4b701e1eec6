package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/repository/file"
	"github.com/smarthealth-ai/healthdesk/pkg/repository/memory"
	"github.com/smarthealth-ai/healthdesk/pkg/repository/sqlite"
	"github.com/smarthealth-ai/healthdesk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const (
	defaultSessionBackend = "file"
	sqliteFileName        = "healthdesk.db"
)

// Repository holds CLI flags for the session slot backend
type Repository struct {
	backend   string
	path      string
	ephemeral bool
}

// Flags returns CLI flags for session storage configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "session-backend",
			Usage:       "Session storage backend (file, sqlite or memory)",
			Sources:     cli.EnvVars("HEALTHDESK_SESSION_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "session-path",
			Usage:       "Directory (file backend) or database file (sqlite backend) for the session",
			Sources:     cli.EnvVars("HEALTHDESK_SESSION_PATH"),
			Destination: &r.path,
		},
		&cli.BoolFlag{
			Name:        "ephemeral",
			Usage:       "Keep the session in memory only",
			Sources:     cli.EnvVars("HEALTHDESK_EPHEMERAL"),
			Destination: &r.ephemeral,
		},
	}
}

// Backend returns the resolved backend name
func (r *Repository) Backend(fc *FileConfig) string {
	if r.ephemeral {
		return "memory"
	}
	return firstNonEmpty(r.backend, fc.Session.Backend, defaultSessionBackend)
}

// Configure opens the session slot. The returned closer must be called when done.
func (r *Repository) Configure(ctx context.Context, fc *FileConfig) (interfaces.SessionSlot, func(), error) {
	backend := r.Backend(fc)
	path := firstNonEmpty(r.path, fc.Session.Path)

	switch backend {
	case "file":
		if path == "" {
			dir, err := file.DefaultDir()
			if err != nil {
				return nil, nil, goerr.Wrap(err, "failed to resolve session directory")
			}
			path = dir
		}
		logging.From(ctx).Debug("Using file session storage", "dir", path)
		return file.New(path), func() {}, nil

	case "sqlite":
		if path == "" {
			dir, err := file.DefaultDir()
			if err != nil {
				return nil, nil, goerr.Wrap(err, "failed to resolve session directory")
			}
			path = filepath.Join(dir, sqliteFileName)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create session directory", goerr.V(ConfigPathKey, path))
		}
		slot, err := sqlite.New(ctx, path)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to open sqlite session storage", goerr.V(ConfigPathKey, path))
		}
		logging.From(ctx).Debug("Using sqlite session storage", "path", path)
		closer := func() {
			if err := slot.Close(); err != nil {
				logging.From(ctx).Warn("failed to close sqlite session storage", "error", err)
			}
		}
		return slot, closer, nil

	case "memory":
		logging.From(ctx).Debug("Using in-memory session storage")
		return memory.New(), func() {}, nil

	default:
		return nil, nil, goerr.Wrap(ErrInvalidConfig, "invalid session backend", goerr.V(SessionBackendKey, backend))
	}
}
