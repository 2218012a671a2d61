package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. LINKCFG_SERVER_ADDRESS.
const EnvPrefix = "linkcfg"

// Config holds the application configuration.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	DB       DBConfig       `yaml:"db"`
	Server   ServerConfig   `yaml:"server"`
	Device   DeviceConfig   `yaml:"device"`
	Registry RegistryConfig `yaml:"registry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds remote API settings.
type ServerConfig struct {
	Address         string   `yaml:"address"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" split_words:"true"`
}

// DeviceConfig describes the hardware the daemon manages.
type DeviceConfig struct {
	BoardFile     string   `yaml:"board_file" split_words:"true"`
	CraftNamePoll Duration `yaml:"craft_name_poll" split_words:"true"`
}

// RegistryConfig tunes the settings registry.
type RegistryConfig struct {
	ListenerCapacity int `yaml:"listener_capacity" split_words:"true"`
	// CommandTimeout discards unanswered command confirmations; 0 disables it.
	CommandTimeout Duration `yaml:"command_timeout" split_words:"true"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path: "./data/linkcfg.db",
		},
		Server: ServerConfig{
			Address:         "localhost:1980",
			ShutdownTimeout: Duration(5 * time.Second),
		},
		Device: DeviceConfig{
			BoardFile:     "./board.toml",
			CraftNamePoll: Duration(10 * time.Second),
		},
		Registry: RegistryConfig{
			ListenerCapacity: 6,
			CommandTimeout:   0,
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it creates it with default values.
// If the file exists, it merges defaults with existing values but does NOT
// save back to disk. Environment overrides are applied last and never saved.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if err := Save(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to save config file: %w", err)
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with LINKCFG_* environment variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}

// Validate rejects values the daemon cannot start with.
func (c *Config) Validate() error {
	if c.Registry.ListenerCapacity < 1 {
		return fmt.Errorf("registry.listener_capacity must be positive, got %d", c.Registry.ListenerCapacity)
	}
	if c.Registry.CommandTimeout < 0 {
		return fmt.Errorf("registry.command_timeout must not be negative")
	}
	if c.Server.Address == "" {
		return fmt.Errorf("server.address must be set")
	}
	return nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# linkcfg Configuration
# ---------------------
# Supported Units:
#   Duration: ns, us (or µs), ms, s, m, h, d (day), w (week)
# Every value can be overridden with LINKCFG_<SECTION>_<FIELD>, e.g. LINKCFG_SERVER_ADDRESS.

`)
	data = append(header, data...)

	reLevel := regexp.MustCompile(`(?m)^(\s+)level:`)
	data = reLevel.ReplaceAll(data, []byte("${1}# Options: DEBUG, INFO, WARN, ERROR\n${1}level:"))

	reTimeout := regexp.MustCompile(`(?m)^(\s+)command_timeout:`)
	data = reTimeout.ReplaceAll(data, []byte("${1}# Unanswered confirmations are discarded after this long; 0s keeps them\n${1}command_timeout:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateDefault creates a default config file at the given path.
// Returns nil if the file already exists.
func GenerateDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return Save(path, DefaultConfig())
}
