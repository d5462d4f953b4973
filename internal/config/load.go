package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// AppName is the directory name used under the XDG config home.
const AppName = "redkv"

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// DefaultYAML returns a copy of the embedded default configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default parses the embedded default configuration.
func Default() (Config, error) {
	var cfg Config
	if len(embeddedDefaultConfig) == 0 {
		return cfg, fmt.Errorf("embedded default config is empty")
	}
	if err := yaml.Unmarshal(embeddedDefaultConfig, &cfg); err != nil {
		return cfg, fmt.Errorf("decode embedded default config: %w", err)
	}
	if cfg.UI.Theme == "" || len(cfg.UI.Themes) == 0 {
		return cfg, fmt.Errorf("default config is missing required theme defaults")
	}
	return cfg, nil
}

// Load returns the defaults merged with the file at path. An empty path
// yields the defaults. Fields absent from the file keep their default; a
// theme defined in the file replaces the default theme of the same name.
// Files ending in .toml are read as TOML, anything else as YAML. Unknown
// keys are rejected.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decodeInto(&cfg, data, isTOML(path)); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return cfg, nil
}

func decodeInto(cfg *Config, data []byte, asTOML bool) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if asTOML {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(cfg)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// ResolvePath returns explicit if set, otherwise the first existing file of
// $XDG_CONFIG_HOME/redkv/config.{yaml,yml,toml} (or ~/.config/redkv when
// XDG_CONFIG_HOME is unset). It returns "" when nothing is found.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	dir := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dir = filepath.Join(xdg, AppName)
	} else if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".config", AppName)
	}
	if dir == "" {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		candidate := filepath.Join(dir, name)
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// MarshalYAML renders cfg the way the config subcommand prints it.
func MarshalYAML(cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalTOML renders cfg as TOML.
func MarshalTOML(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
