// Package config handles application configuration loading and validation.
package config

import "time"

// Default configuration values.
const (
	DefaultAppName    = "iMessageWrapped"
	DefaultSystemRoot = "/"

	DefaultBackendExecutable  = "MessagesWrapped"
	DefaultBackendScript      = "MessagesWrapped.py"
	DefaultBackendInterpreter = "python3"
	DefaultBackendMaxWorkers  = 4

	DefaultServerAddress        = "127.0.0.1:39213"
	DefaultServerReadBufferSize = 8192

	DefaultRetryMaxAttempts  = 3
	DefaultRetryInitialDelay = 1 * time.Second
	DefaultRetryMaxDelay     = 5 * time.Second

	DefaultLogLevel     = "info"
	DefaultLogMaxSizeMB = 10
)

// minReadBufferSize leaves room for a request line with a long exports path.
const minReadBufferSize = 512
