package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// FileConfig is the optional TOML configuration. Values set by flags or environment
// variables take precedence over it.
type FileConfig struct {
	Backend  BackendSection  `toml:"backend"`
	Session  SessionSection  `toml:"session"`
	Recorder RecorderSection `toml:"recorder"`
}

// BackendSection configures the remote API
type BackendSection struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
}

// SessionSection configures the durable session slot
type SessionSection struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// RecorderSection configures audio capture
type RecorderSection struct {
	Command  string `toml:"command"`
	MIMEType string `toml:"mime_type"`
}

// TimeoutValue parses the backend timeout. Zero means not configured.
func (b BackendSection) TimeoutValue() (time.Duration, error) {
	if b.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(b.Timeout)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidConfig, "invalid backend timeout", goerr.V(TimeoutKey, b.Timeout))
	}
	if d <= 0 {
		return 0, goerr.Wrap(ErrInvalidConfig, "backend timeout must be positive", goerr.V(TimeoutKey, b.Timeout))
	}
	return d, nil
}

// Validate checks if the FileConfig is valid
func (c *FileConfig) Validate() error {
	if _, err := c.Backend.TimeoutValue(); err != nil {
		return err
	}
	switch c.Session.Backend {
	case "", "file", "sqlite", "memory":
	default:
		return goerr.Wrap(ErrInvalidConfig, "invalid session backend", goerr.V(SessionBackendKey, c.Session.Backend))
	}
	return nil
}

// LoadFileConfig loads the configuration from a TOML file
func LoadFileConfig(path string) (*FileConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "config file does not exist", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	var config FileConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return &config, nil
}

// File holds the --config flag
type File struct {
	path   string
	loaded *FileConfig
}

// Flags returns CLI flags for the configuration file
func (f *File) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML configuration file",
			Sources:     cli.EnvVars("HEALTHDESK_CONFIG"),
			Destination: &f.path,
		},
	}
}

// Configure loads the file once. Without --config an empty configuration is returned.
func (f *File) Configure() (*FileConfig, error) {
	if f.loaded != nil {
		return f.loaded, nil
	}
	if f.path == "" {
		f.loaded = &FileConfig{}
		return f.loaded, nil
	}

	loaded, err := LoadFileConfig(f.path)
	if err != nil {
		return nil, err
	}
	f.loaded = loaded
	return loaded, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
