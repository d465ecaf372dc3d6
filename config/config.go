// Package config holds the YAML configuration of the chart display tools.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Backends understood by the Backend field.
const (
	BackendSoftware = "software"
	BackendHAL      = "hal"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds the application configuration.
type Config struct {
	SettingsPath   string         `yaml:"settings_path"`
	ChartsPath     string         `yaml:"charts_path"`
	Viewport       ViewportConfig `yaml:"viewport"`
	RedrawInterval Duration       `yaml:"redraw_interval"`
	Background     string         `yaml:"background"`
	ColorScheme    string         `yaml:"color_scheme"`
	TextPass       bool           `yaml:"text_pass"`
	Backend        string         `yaml:"backend"`
	Log            LogConfig      `yaml:"log"`
}

// ViewportConfig sets the target size and the initial pose.
type ViewportConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	Radius  float64 `yaml:"radius"`
	Angle   float64 `yaml:"angle"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Duration wraps time.Duration so it reads and writes as "1s" in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("config: duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() *Config {
	return &Config{
		SettingsPath: filepath.Join("res", "chart_display_settings.xml"),
		ChartsPath:   "charts",
		Viewport: ViewportConfig{
			Width:  1024,
			Height: 1024,
			Radius: 10,
		},
		RedrawInterval: Duration(time.Second),
		Background:     "#7f7f7f",
		ColorScheme:    "DAY_BRIGHT",
		Backend:        BackendSoftware,
		Log:            LogConfig{Level: "info"},
	}
}

// Load loads the configuration from path. A missing file is created with
// the default values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("config: create directory: %w", err)
		}
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	header := []byte("# RLIDisplay chart display configuration\n# backend: software | hal\n\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalid, c.Viewport.Width, c.Viewport.Height)
	}
	if c.RedrawInterval < 0 {
		return fmt.Errorf("%w: negative redraw_interval", ErrInvalid)
	}
	switch c.Backend {
	case BackendSoftware, BackendHAL:
	default:
		return fmt.Errorf("%w: backend %q", ErrInvalid, c.Backend)
	}
	if _, err := ParseColor(c.Background); err != nil {
		return fmt.Errorf("%w: background: %v", ErrInvalid, err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return nil
}

// BackgroundColor returns the parsed background colour.
func (c *Config) BackgroundColor() color.RGBA {
	rgba, _ := ParseColor(c.Background)
	return rgba
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() slog.Level {
	l, _ := ParseLevel(c.Log.Level)
	return l
}

// ParseColor reads "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("colour %q: want #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// ParseLevel maps debug, info, warn and error to slog levels. An empty
// string means info.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, err
	}
	return l, nil
}
