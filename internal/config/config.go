package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// File names looked up by Load, in order
const (
	YAMLFile = "nodeditor.yaml"
	JSONFile = "nodeditor.json"
)

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

// Config represents the nodeditor configuration
type Config struct {
	// HTTP server configuration
	Server *ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Example node configuration
	Editor *EditorConfig `json:"editor,omitempty" yaml:"editor,omitempty"`

	// Logging configuration
	Log *LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// File watching configuration
	Watch *WatchConfig `json:"watch,omitempty" yaml:"watch,omitempty"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	// Server host
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Server port
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Origins accepted on WebSocket upgrade; empty means same host
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`

	// Page title
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// EditorConfig configures the example node
type EditorConfig struct {
	NodeLabel    string  `json:"nodeLabel,omitempty" yaml:"nodeLabel,omitempty"`
	ButtonLabel  string  `json:"buttonLabel,omitempty" yaml:"buttonLabel,omitempty"`
	InitialValue float64 `json:"initialValue,omitempty" yaml:"initialValue,omitempty"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	// debug, info, warn or error
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// text or json
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// WatchConfig contains file watching configuration
type WatchConfig struct {
	// Whether to watch for changes
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Paths to watch; a change reloads every connected page
	Paths []string `json:"paths,omitempty" yaml:"paths,omitempty"`
}

// Load loads configuration from nodeditor.yaml or nodeditor.json in dir
func Load(dir string) (*Config, error) {
	for _, name := range []string{YAMLFile, JSONFile} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		return LoadFile(path)
	}

	// Return default config if no file exists
	return DefaultConfig(), nil
}

// LoadFile loads configuration from path. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	case ".json":
		err = json.Unmarshal(data, &config)
	default:
		return nil, fmt.Errorf("%s: unsupported config format", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Apply defaults for missing values
	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &config, nil
}

// Save saves configuration to path. The format follows the extension.
func Save(config *Config, path string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
	default:
		return fmt.Errorf("%s: unsupported config format", path)
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerConfig{
			Host:  "localhost",
			Port:  8080,
			Title: "Node Editor",
		},
		Editor: &EditorConfig{
			NodeLabel:   "A",
			ButtonLabel: "Randomize",
		},
		Log: &LogConfig{
			Level:  "info",
			Format: "text",
		},
		Watch: &WatchConfig{
			Enabled: false,
			Paths:   []string{"."},
		},
	}
}

// applyDefaults applies default values to missing configuration
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Server == nil {
		config.Server = defaults.Server
	} else {
		if config.Server.Host == "" {
			config.Server.Host = defaults.Server.Host
		}
		if config.Server.Port == 0 {
			config.Server.Port = defaults.Server.Port
		}
		if config.Server.Title == "" {
			config.Server.Title = defaults.Server.Title
		}
	}

	if config.Editor == nil {
		config.Editor = defaults.Editor
	} else {
		if config.Editor.NodeLabel == "" {
			config.Editor.NodeLabel = defaults.Editor.NodeLabel
		}
		if config.Editor.ButtonLabel == "" {
			config.Editor.ButtonLabel = defaults.Editor.ButtonLabel
		}
	}

	if config.Log == nil {
		config.Log = defaults.Log
	} else {
		if config.Log.Level == "" {
			config.Log.Level = defaults.Log.Level
		}
		if config.Log.Format == "" {
			config.Log.Format = defaults.Log.Format
		}
	}

	if config.Watch == nil {
		config.Watch = defaults.Watch
	} else if len(config.Watch.Paths) == 0 {
		config.Watch.Paths = defaults.Watch.Paths
	}
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.Server != nil && (c.Server.Port < 0 || c.Server.Port > 65535) {
		return fmt.Errorf("server.port %d: %w", c.Server.Port, ErrInvalid)
	}
	if c.Log != nil {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("log.level %q: %w", c.Log.Level, ErrInvalid)
		}
		switch strings.ToLower(c.Log.Format) {
		case "text", "json":
		default:
			return fmt.Errorf("log.format %q: %w", c.Log.Format, ErrInvalid)
		}
	}
	return nil
}

// Addr returns the server's listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
