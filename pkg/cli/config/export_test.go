package config

import "time"

// NewBackendForTest creates a Backend config for testing purposes
func NewBackendForTest(url string, timeout time.Duration) *Backend {
	return &Backend{url: url, timeout: timeout}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, path string, ephemeral bool) *Repository {
	return &Repository{backend: backend, path: path, ephemeral: ephemeral}
}

// NewRecorderForTest creates a Recorder config for testing purposes
func NewRecorderForTest(command, mimeType, file string) *Recorder {
	return &Recorder{command: command, mimeType: mimeType, file: file}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{level: level, format: format, output: output}
}

// NewFileForTest creates a File config for testing purposes
func NewFileForTest(path string) *File {
	return &File{path: path}
}

var Redactor = redactor
