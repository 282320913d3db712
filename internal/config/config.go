package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	AppName    string        `mapstructure:"app_name"`
	SystemRoot string        `mapstructure:"system_root"`
	Backend    BackendConfig `mapstructure:"backend"`
	Server     ServerConfig  `mapstructure:"server"`
	Retry      RetryConfig   `mapstructure:"retry"`
	Log        LogConfig     `mapstructure:"log"`
}

// BackendConfig describes the external data-processing backend.
type BackendConfig struct {
	Executable  string `mapstructure:"executable"`
	Script      string `mapstructure:"script"`
	Interpreter string `mapstructure:"interpreter"`
	MaxWorkers  int    `mapstructure:"max_workers"`
	// WorkDir is the base for artifact probing; empty means the process cwd.
	WorkDir string `mapstructure:"work_dir"`
}

// ServerConfig holds the local run server settings.
type ServerConfig struct {
	Address        string `mapstructure:"address"`
	ReadBufferSize int    `mapstructure:"read_buffer_size"`
}

// RetryConfig holds run client retry configuration.
type RetryConfig struct {
	MaxAttempts  int           `mapstructure:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Output    string `mapstructure:"output"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configPath string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// WithConfigPath sets a specific config file path.
func (l *Loader) WithConfigPath(path string) *Loader {
	l.configPath = path
	return l
}

// Load reads configuration from all sources and returns the merged config.
// Precedence (highest to lowest): CLI flags > environment > config file > defaults.
func (l *Loader) Load() (*Config, error) {
	l.setDefaults()
	l.setupEnvBindings()

	if err := l.loadConfigFile(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (l *Loader) setDefaults() {
	l.v.SetDefault("app_name", DefaultAppName)
	l.v.SetDefault("system_root", DefaultSystemRoot)

	l.v.SetDefault("backend.executable", DefaultBackendExecutable)
	l.v.SetDefault("backend.script", DefaultBackendScript)
	l.v.SetDefault("backend.interpreter", DefaultBackendInterpreter)
	l.v.SetDefault("backend.max_workers", DefaultBackendMaxWorkers)
	l.v.SetDefault("backend.work_dir", "")

	l.v.SetDefault("server.address", DefaultServerAddress)
	l.v.SetDefault("server.read_buffer_size", DefaultServerReadBufferSize)

	l.v.SetDefault("retry.max_attempts", DefaultRetryMaxAttempts)
	l.v.SetDefault("retry.initial_delay", DefaultRetryInitialDelay)
	l.v.SetDefault("retry.max_delay", DefaultRetryMaxDelay)

	l.v.SetDefault("log.level", DefaultLogLevel)
	l.v.SetDefault("log.output", "")
	l.v.SetDefault("log.max_size_mb", DefaultLogMaxSizeMB)
}

func (l *Loader) setupEnvBindings() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()
}

// loadConfigFile loads configuration from a file.
func (l *Loader) loadConfigFile() error {
	if l.configPath != "" {
		l.v.SetConfigFile(l.configPath)
	} else {
		configDir, err := DefaultConfigDir()
		if err != nil {
			// Can't determine config dir, proceed without file config
			return nil
		}

		l.v.SetConfigName("config")
		l.v.SetConfigType("toml")
		l.v.AddConfigPath(configDir)
		l.v.AddConfigPath(".")
	}

	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// Set sets a configuration value (for CLI flag overrides).
func (l *Loader) Set(key string, value interface{}) {
	l.v.Set(key, value)
}

// ConfigFileUsed returns the path of the config file used, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.AppName == "" {
		return fmt.Errorf("app_name is required")
	}
	if strings.ContainsAny(c.AppName, `/\`) {
		return fmt.Errorf("app_name must not contain path separators")
	}

	if c.SystemRoot == "" {
		return fmt.Errorf("system_root is required")
	}

	if c.Backend.Executable == "" {
		return fmt.Errorf("backend.executable is required")
	}
	if c.Backend.Script == "" {
		return fmt.Errorf("backend.script is required")
	}
	if c.Backend.Interpreter == "" {
		return fmt.Errorf("backend.interpreter is required")
	}
	if c.Backend.MaxWorkers < 1 {
		return fmt.Errorf("backend.max_workers must be at least 1")
	}
	if c.Backend.WorkDir != "" {
		info, err := os.Stat(c.Backend.WorkDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("backend.work_dir is not a directory: %s", c.Backend.WorkDir)
		}
	}

	host, _, err := net.SplitHostPort(c.Server.Address)
	if err != nil {
		return fmt.Errorf("server.address is invalid: %w", err)
	}
	if ip := net.ParseIP(host); host != "localhost" && (ip == nil || !ip.IsLoopback()) {
		return fmt.Errorf("server.address must be a loopback address, got %s", c.Server.Address)
	}
	if c.Server.ReadBufferSize < minReadBufferSize {
		return fmt.Errorf("server.read_buffer_size must be at least %d", minReadBufferSize)
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Retry.InitialDelay < 0 {
		return fmt.Errorf("retry.initial_delay cannot be negative")
	}
	if c.Retry.MaxDelay < c.Retry.InitialDelay {
		return fmt.Errorf("retry.max_delay must be >= retry.initial_delay")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	if c.Log.MaxSizeMB < 1 {
		return fmt.Errorf("log.max_size_mb must be at least 1")
	}

	return nil
}

// WriteExampleConfig writes an example config file to the given path.
func WriteExampleConfig(path string) error {
	content := `# Wrapped Runner Configuration

# Name of the Application Support folder
app_name = "iMessageWrapped"

# Root of the system-wide Application Support tree
system_root = "/"

[backend]
# Packaged executable, probed under src-tauri/binaries and binaries
executable = "MessagesWrapped"
# Fallback script, probed under ../Backend and Backend
script = "MessagesWrapped.py"
interpreter = "python3"
max_workers = 4
# Base directory for probing (defaults to the current directory)
# work_dir = ""

[server]
address = "127.0.0.1:39213"
read_buffer_size = 8192

# Retries used by the trigger command
[retry]
max_attempts = 3
initial_delay = "1s"
max_delay = "5s"

[log]
# Level: debug, info, warn, error
level = "info"
# Output file path (stderr when empty)
# output = ""
max_size_mb = 10
`
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(content), 0600)
}
