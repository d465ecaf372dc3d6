package config

import (
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "rli.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "redraw_interval: 1s")
	assert.Contains(t, string(content), "backend: software")
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rli.yaml")
	data := "viewport:\n  width: 640\n  height: 480\nredraw_interval: 250ms\nbackend: hal\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 640, cfg.Viewport.Width)
	assert.Equal(t, 480, cfg.Viewport.Height)
	assert.Equal(t, 10.0, cfg.Viewport.Radius, "default kept")
	assert.Equal(t, Duration(250*time.Millisecond), cfg.RedrawInterval)
	assert.Equal(t, BackendHAL, cfg.Backend)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.Equal(t, "DAY_BRIGHT", cfg.ColorScheme)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Viewport", "viewport:\n  width: 0\n"},
		{"Backend", "backend: vulkan\n"},
		{"Background", "background: grey\n"},
		{"Level", "log:\n  level: loud\n"},
		{"Duration", "redraw_interval: soon\n"},
		{"Negative", "redraw_interval: -1s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rli.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.data), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rli.yaml")
	cfg := DefaultConfig()
	cfg.ColorScheme = "NIGHT"
	cfg.TextPass = true
	cfg.RedrawInterval = Duration(2 * time.Second)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDurationYAML(t *testing.T) {
	var v struct {
		D Duration `yaml:"d"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("d: 1m30s"), &v))
	assert.Equal(t, Duration(90*time.Second), v.D)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, "d: 1m30s\n", string(out))
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#7f7f7f")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{127, 127, 127, 255}, c)

	c, err = ParseColor("10203040")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x10, 0x20, 0x30, 0x40}, c)

	_, err = ParseColor("#12345")
	assert.Error(t, err)
	_, err = ParseColor("#zzzzzz")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
