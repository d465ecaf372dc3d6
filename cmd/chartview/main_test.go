package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappa672/RLIDisplay/config"
	"github.com/zappa672/RLIDisplay/settings"
)

const settingsXML = `<Settings>
  <DisplaySoundings>False</DisplaySoundings>
  <Depths><Shallow>2</Shallow><Safety>10</Safety><Deep>30</Deep></Depths>
  <Layers>
    <Layer><Id>1</Id><Name>LNDARE</Name><Description>Land area</Description><Display>True</Display><Order>1</Order></Layer>
    <Layer><Id>2</Id><Name>DEPARE</Name><Description>Depth area</Description><Display>True</Display><Order>2</Order></Layer>
    <Layer><Id>3</Id><Name>COALNE</Name><Description>Coastline</Description><Display>False</Display><Order>3</Order></Layer>
  </Layers>
</Settings>
`

const chartJSON = `{"type":"FeatureCollection","features":[
  {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[4,0],[4,4],[0,4],[0,0]]]},"properties":{"LAYER":"LNDARE"}},
  {"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[4,4]]},"properties":{"LAYER":"COALNE"}}
]}`

type workspace struct {
	dir      string
	config   string
	settings string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	w := workspace{
		dir:      dir,
		config:   filepath.Join(dir, "rli.yaml"),
		settings: filepath.Join(dir, "settings.xml"),
	}
	require.NoError(t, os.WriteFile(w.settings, []byte(settingsXML), 0o644))

	cfg := config.DefaultConfig()
	cfg.SettingsPath = w.settings
	cfg.ChartsPath = dir
	cfg.Viewport.Width = 32
	cfg.Viewport.Height = 24
	cfg.Log.Level = "error"
	require.NoError(t, config.Save(w.config, cfg))
	return w
}

func (w workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"chartview", "--config", w.config}, args...))
	return out.String(), err
}

func TestLayers(t *testing.T) {
	w := newWorkspace(t)
	out, err := w.run(t, "layers")
	require.NoError(t, err)

	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "LNDARE")
	assert.Contains(t, out, "[x]")
	assert.Regexp(t, `soundings\s+false`, out)
}

func TestToggle(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.run(t, "toggle", "COALNE", "LNDARE")
	require.NoError(t, err)

	s := settings.Open(w.settings)
	assert.True(t, s.IsLayerVisible("COALNE"))
	assert.False(t, s.IsLayerVisible("LNDARE"))

	_, err = w.run(t, "toggle", "NOSUCH")
	assert.Error(t, err)
	_, err = w.run(t, "toggle")
	assert.Error(t, err)
}

func TestMove(t *testing.T) {
	w := newWorkspace(t)

	_, err := w.run(t, "move", "COALNE", "top")
	require.NoError(t, err)
	assert.Equal(t, []string{"COALNE", "LNDARE", "DEPARE"}, settings.Open(w.settings).LayersDisplayOrder())

	_, err = w.run(t, "move", "1", "down")
	require.NoError(t, err)
	assert.Equal(t, []string{"LNDARE", "COALNE", "DEPARE"}, settings.Open(w.settings).LayersDisplayOrder())

	_, err = w.run(t, "move", "9", "up")
	assert.Error(t, err)
	_, err = w.run(t, "move", "LNDARE", "sideways")
	assert.Error(t, err)
}

func TestSoundings(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.run(t, "soundings", "on")
	require.NoError(t, err)
	assert.True(t, settings.Open(w.settings).SoundingsVisible())

	_, err = w.run(t, "soundings", "maybe")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	for _, backend := range []string{config.BackendSoftware, config.BackendHAL} {
		t.Run(backend, func(t *testing.T) {
			w := newWorkspace(t)
			chart := filepath.Join(w.dir, "harbour.geojson")
			require.NoError(t, os.WriteFile(chart, []byte(chartJSON), 0o644))
			out := filepath.Join(w.dir, "harbour.png")

			_, err := w.run(t, "render", "--backend", backend, "--fit", "--out", out, chart)
			require.NoError(t, err)

			f, err := os.Open(out)
			require.NoError(t, err)
			defer f.Close()
			img, err := png.Decode(f)
			require.NoError(t, err)
			assert.Equal(t, 32, img.Bounds().Dx())
			assert.Equal(t, 24, img.Bounds().Dy())
		})
	}
}

func TestRenderReportsSettingsSaveFailure(t *testing.T) {
	w := newWorkspace(t)
	cfg, err := config.Load(w.config)
	require.NoError(t, err)
	// The parent of the settings file is a regular file, so the save on
	// close cannot create it.
	cfg.SettingsPath = filepath.Join(w.config, "settings.xml")
	require.NoError(t, config.Save(w.config, cfg))

	chart := filepath.Join(w.dir, "harbour.geojson")
	require.NoError(t, os.WriteFile(chart, []byte(chartJSON), 0o644))
	out := filepath.Join(w.dir, "harbour.png")

	_, err = w.run(t, "render", "--out", out, chart)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings")
	assert.NoFileExists(t, out)
}

func TestRenderRequiresChart(t *testing.T) {
	w := newWorkspace(t)
	_, err := w.run(t, "render")
	assert.Error(t, err)

	_, err = w.run(t, "render", "--backend", "vulkan", filepath.Join(w.dir, "x.geojson"))
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestCharts(t *testing.T) {
	w := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(w.dir, "harbour.geojson"), []byte(chartJSON), 0o644))

	out, err := w.run(t, "charts")
	require.NoError(t, err)
	assert.Contains(t, out, "harbour\tareas=1 lines=1")
}
