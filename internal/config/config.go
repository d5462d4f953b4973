// Package config loads the redkv configuration: embedded defaults merged with
// an optional user file in YAML or TOML.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/oakwood-commons/redkv/internal/store"
)

// ErrInvalid marks configuration values that fail validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full configuration file.
type Config struct {
	Connection ConnectionConfig `yaml:"connection" toml:"connection"`
	UI         UIConfig         `yaml:"ui" toml:"ui"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
}

// ConnectionConfig describes how to reach the server and list its keys.
type ConnectionConfig struct {
	Host      string `yaml:"host" toml:"host"`
	Port      int    `yaml:"port" toml:"port"`
	Username  string `yaml:"username" toml:"username"`
	Password  string `yaml:"password" toml:"password"`
	DB        int    `yaml:"db" toml:"db"`
	URL       string `yaml:"url" toml:"url"`
	Timeout   string `yaml:"timeout" toml:"timeout"`
	Match     string `yaml:"match" toml:"match"`
	ScanCount int64  `yaml:"scan_count" toml:"scan_count"`
	MaxKeys   int    `yaml:"max_keys" toml:"max_keys"`
}

// UIConfig holds the terminal UI settings.
type UIConfig struct {
	Theme        string                 `yaml:"theme" toml:"theme"`
	KeyMap       string                 `yaml:"keymap" toml:"keymap"`
	AutoLoad     bool                   `yaml:"auto_load" toml:"auto_load"`
	NoColor      bool                   `yaml:"no_color" toml:"no_color"`
	KeyPaneWidth int                    `yaml:"key_pane_width" toml:"key_pane_width"`
	Themes       map[string]ThemeConfig `yaml:"themes" toml:"themes"`
}

// ThemeConfig is a palette of terminal colors. Values are ANSI numbers or
// hex strings; an empty value leaves the terminal default.
type ThemeConfig struct {
	Accent     string `yaml:"accent" toml:"accent"`
	Muted      string `yaml:"muted" toml:"muted"`
	Key        string `yaml:"key" toml:"key"`
	Value      string `yaml:"value" toml:"value"`
	SelectedFG string `yaml:"selected_fg" toml:"selected_fg"`
	SelectedBG string `yaml:"selected_bg" toml:"selected_bg"`
	Border     string `yaml:"border" toml:"border"`
	Error      string `yaml:"error" toml:"error"`
	Success    string `yaml:"success" toml:"success"`
	FooterFG   string `yaml:"footer_fg" toml:"footer_fg"`
	FooterBG   string `yaml:"footer_bg" toml:"footer_bg"`
}

// LoggingConfig configures the JSON log sink.
type LoggingConfig struct {
	File  string `yaml:"file" toml:"file"`
	Debug bool   `yaml:"debug" toml:"debug"`
}

// KeyMaps lists the accepted ui.keymap values.
var KeyMaps = []string{"vim", "emacs", "function"}

// TimeoutDuration parses the configured timeout.
func (c ConnectionConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(c.Timeout))
	if err != nil {
		return 0, fmt.Errorf("%w: connection.timeout %q: %v", ErrInvalid, c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: connection.timeout must be positive, got %s", ErrInvalid, d)
	}
	return d, nil
}

// StoreOptions converts the connection section to store options.
func (c ConnectionConfig) StoreOptions() (store.Options, error) {
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return store.Options{}, err
	}
	return store.Options{
		Host:      c.Host,
		Port:      c.Port,
		Username:  c.Username,
		Password:  c.Password,
		DB:        c.DB,
		URL:       c.URL,
		Timeout:   timeout,
		Match:     c.Match,
		ScanCount: c.ScanCount,
		MaxKeys:   c.MaxKeys,
	}, nil
}

// Validate checks every section and returns the first problem found,
// wrapped with ErrInvalid.
func (c Config) Validate() error {
	conn := c.Connection
	if conn.URL == "" {
		if strings.TrimSpace(conn.Host) == "" {
			return fmt.Errorf("%w: connection.host is empty", ErrInvalid)
		}
		if conn.Port < 1 || conn.Port > 65535 {
			return fmt.Errorf("%w: connection.port %d out of range", ErrInvalid, conn.Port)
		}
		if conn.DB < 0 {
			return fmt.Errorf("%w: connection.db must not be negative", ErrInvalid)
		}
	} else if _, err := url.Parse(conn.URL); err != nil {
		return fmt.Errorf("%w: connection.url: %v", ErrInvalid, err)
	}
	if _, err := conn.TimeoutDuration(); err != nil {
		return err
	}
	if conn.ScanCount <= 0 {
		return fmt.Errorf("%w: connection.scan_count must be positive", ErrInvalid)
	}
	if conn.MaxKeys < 0 {
		return fmt.Errorf("%w: connection.max_keys must not be negative", ErrInvalid)
	}

	if !validKeyMap(c.UI.KeyMap) {
		return fmt.Errorf("%w: ui.keymap %q (expected %s)", ErrInvalid, c.UI.KeyMap, strings.Join(KeyMaps, ", "))
	}
	if _, ok := c.UI.Themes[c.UI.Theme]; !ok {
		return fmt.Errorf("%w: unknown theme %q (available: %s)", ErrInvalid, c.UI.Theme, strings.Join(c.ThemeNames(), ", "))
	}
	if c.UI.KeyPaneWidth < 0 {
		return fmt.Errorf("%w: ui.key_pane_width must not be negative", ErrInvalid)
	}
	return nil
}

// ActiveTheme returns the palette selected by ui.theme.
func (c Config) ActiveTheme() ThemeConfig {
	return c.UI.Themes[c.UI.Theme]
}

// ThemeNames returns the configured theme names in order.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.UI.Themes))
	for name := range c.UI.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Redacted returns a copy safe to print: the password and any URL
// credentials are masked.
func (c Config) Redacted() Config {
	out := c
	if out.Connection.Password != "" {
		out.Connection.Password = "xxxxx"
	}
	if out.Connection.URL != "" {
		if u, err := url.Parse(out.Connection.URL); err == nil {
			out.Connection.URL = u.Redacted()
		}
	}
	return out
}

func validKeyMap(s string) bool {
	for _, k := range KeyMaps {
		if k == s {
			return true
		}
	}
	return false
}
