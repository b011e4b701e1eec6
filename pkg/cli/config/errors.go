package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound = goerr.New("configuration file not found")
	ErrInvalidConfig  = goerr.New("invalid configuration")
)

// Context keys for error values
const (
	ConfigPathKey     = "config_path"
	SessionBackendKey = "session_backend"
	LogLevelKey       = "log_level"
	LogFormatKey      = "log_format"
	BackendURLKey     = "backend_url"
	TimeoutKey        = "timeout"
)
