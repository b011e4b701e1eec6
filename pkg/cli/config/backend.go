package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/service/healthapi"
	"github.com/urfave/cli/v3"
)

// Backend holds configuration for the remote health API
type Backend struct {
	url     string
	timeout time.Duration
}

// Flags returns CLI flags for backend configuration
func (b *Backend) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "backend-url",
			Usage:       "Base URL of the health API (default: " + healthapi.DefaultBaseURL + ")",
			Sources:     cli.EnvVars("HEALTHDESK_BACKEND_URL"),
			Destination: &b.url,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "Request timeout for the health API (default: 60s)",
			Sources:     cli.EnvVars("HEALTHDESK_TIMEOUT"),
			Destination: &b.timeout,
		},
	}
}

// URL returns the resolved base URL
func (b *Backend) URL(fc *FileConfig) string {
	return firstNonEmpty(b.url, fc.Backend.URL, healthapi.DefaultBaseURL)
}

// Timeout returns the resolved request timeout
func (b *Backend) Timeout(fc *FileConfig) (time.Duration, error) {
	if b.timeout < 0 {
		return 0, goerr.Wrap(ErrInvalidConfig, "timeout must be positive", goerr.V(TimeoutKey, b.timeout.String()))
	}
	if b.timeout > 0 {
		return b.timeout, nil
	}
	fromFile, err := fc.Backend.TimeoutValue()
	if err != nil {
		return 0, err
	}
	if fromFile > 0 {
		return fromFile, nil
	}
	return healthapi.DefaultTimeout, nil
}

// LogAttrs returns log attributes for the backend configuration
func (b *Backend) LogAttrs(fc *FileConfig) []slog.Attr {
	timeout, _ := b.Timeout(fc)
	return []slog.Attr{
		slog.String("url", b.URL(fc)),
		slog.Duration("timeout", timeout),
	}
}

// Configure creates the API client
func (b *Backend) Configure(fc *FileConfig, version string) (*healthapi.Client, error) {
	timeout, err := b.Timeout(fc)
	if err != nil {
		return nil, err
	}

	client, err := healthapi.New(b.URL(fc),
		healthapi.WithTimeout(timeout),
		healthapi.WithUserAgent("healthdesk/"+version),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create health API client", goerr.V(BackendURLKey, b.URL(fc)))
	}
	return client, nil
}
