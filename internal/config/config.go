// Package config loads and writes the burrow configuration file.
//
// The file is TOML at $XDG_CONFIG_HOME/burrow/config.toml (falling
// back to ~/.config). A missing file is not an error: defaults apply
// and a commented template is written on first run so the user has
// something to edit.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults.
const (
	DefaultSearch      = "google"
	DefaultPort        = 8000
	DefaultAddress     = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultMaxEntries  = 1000
	DefaultExecTimeout = 5 * time.Second
)

// Config is the full configuration surface.
type Config struct {
	// DefaultSearch selects the fallback provider: google, ddg or
	// bing.
	DefaultSearch string `toml:"default_search"`

	// Aliases map an entire input line to a replacement line.
	Aliases map[string]string `toml:"aliases"`

	Plugins PluginsConfig `toml:"plugins"`
	History HistoryConfig `toml:"history"`
	Server  ServerConfig  `toml:"server"`
}

// PluginsConfig controls script discovery and execution.
type PluginsConfig struct {
	// ExtraDirs are additional vendor directories scanned for
	// command scripts.
	ExtraDirs []string `toml:"extra_dirs"`

	// ExecTimeout bounds one script execution, as a duration string.
	// "0" disables the deadline.
	ExecTimeout string `toml:"exec_timeout"`
}

// HistoryConfig controls resolution history recording.
type HistoryConfig struct {
	Enabled    bool `toml:"enabled"`
	MaxEntries int  `toml:"max_entries"`
}

// ServerConfig controls the HTTP front end.
type ServerConfig struct {
	Port     int    `toml:"port"`
	Address  string `toml:"address"`
	LogLevel string `toml:"log_level"`

	// DisplayURL is shown on the landing page as the address to
	// configure in a browser. Defaults to host:port.
	DisplayURL string `toml:"display_url"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		DefaultSearch: DefaultSearch,
		Aliases:       map[string]string{},
		Plugins: PluginsConfig{
			ExecTimeout: DefaultExecTimeout.String(),
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: DefaultMaxEntries,
		},
		Server: ServerConfig{
			Port:     DefaultPort,
			Address:  DefaultAddress,
			LogLevel: DefaultLogLevel,
		},
	}
}

// Path returns the canonical config file location.
func Path() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "burrow", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return filepath.Join(home, ".config", "burrow", "config.toml"), nil
}

// Load reads the canonical config file, writing a default template
// first if none exists.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Best effort; resolution works fine without a file on disk.
		_ = WriteTemplate(path)
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a specific config file, applying defaults for any
// key the file omits.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Default(), fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("default_search") {
		cfg.DefaultSearch = strings.TrimSpace(raw.DefaultSearch)
	}
	if meta.IsDefined("aliases") {
		cfg.Aliases = raw.Aliases
	}
	if meta.IsDefined("plugins", "extra_dirs") {
		cfg.Plugins.ExtraDirs = raw.Plugins.ExtraDirs
	}
	if meta.IsDefined("plugins", "exec_timeout") {
		if _, err := time.ParseDuration(raw.Plugins.ExecTimeout); err != nil {
			return Default(), fmt.Errorf("parse plugins.exec_timeout: %w", err)
		}
		cfg.Plugins.ExecTimeout = raw.Plugins.ExecTimeout
	}
	if meta.IsDefined("history", "enabled") {
		cfg.History.Enabled = raw.History.Enabled
	}
	if meta.IsDefined("history", "max_entries") && raw.History.MaxEntries > 0 {
		cfg.History.MaxEntries = raw.History.MaxEntries
	}
	if meta.IsDefined("server", "port") && raw.Server.Port > 0 {
		cfg.Server.Port = raw.Server.Port
	}
	if meta.IsDefined("server", "address") && strings.TrimSpace(raw.Server.Address) != "" {
		cfg.Server.Address = strings.TrimSpace(raw.Server.Address)
	}
	if meta.IsDefined("server", "log_level") {
		cfg.Server.LogLevel = strings.TrimSpace(raw.Server.LogLevel)
	}
	if meta.IsDefined("server", "display_url") {
		cfg.Server.DisplayURL = strings.TrimSpace(raw.Server.DisplayURL)
	}

	return cfg, nil
}

// ExecTimeout returns the parsed script execution deadline.
func (c Config) ExecTimeout() time.Duration {
	d, err := time.ParseDuration(c.Plugins.ExecTimeout)
	if err != nil || d < 0 {
		return DefaultExecTimeout
	}
	return d
}

// EffectiveDisplayURL returns the address shown on the landing page.
func (c ServerConfig) EffectiveDisplayURL() string {
	if c.DisplayURL != "" {
		return c.DisplayURL
	}
	return fmt.Sprintf("http://%s:%d", c.Address, c.Port)
}
