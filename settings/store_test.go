package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<Settings>
  <DisplaySoundings>True</DisplaySoundings>
  <Depths>
    <Shallow>2</Shallow>
    <Safety>10.5</Safety>
    <Deep>30</Deep>
  </Depths>
  <Layers>
    <Layer><Id>1</Id><Name>DEPARE</Name><Description>Depth area</Description><Display>True</Display><Order>2</Order></Layer>
    <Layer><Id>2</Id><Name>COALNE</Name><Description>Coastline</Description><Display>False</Display><Order>1</Order></Layer>
  </Layers>
</Settings>
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSortsByOrder(t *testing.T) {
	s := Open(writeFile(t, "chart.xml", exampleXML))

	assert.Equal(t, []string{"COALNE", "DEPARE"}, s.LayersDisplayOrder())
	assert.True(t, s.IsLayerVisible("DEPARE"))
	assert.False(t, s.IsLayerVisible("COALNE"))
	assert.True(t, s.SoundingsVisible())
	assert.Equal(t, DepthThresholds{Shallow: 2, Safety: 10.5, Deep: 30}, s.Depths())

	l, ok := s.Layer("DEPARE")
	require.True(t, ok)
	assert.Equal(t, LayerSetting{ID: 1, Name: "DEPARE", Description: "Depth area", Visible: true, Order: 2}, l)
}

func TestLoadMissingFile(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "absent.xml"))

	assert.Empty(t, s.LayersDisplayOrder())
	assert.Equal(t, DepthThresholds{}, s.Depths())
	assert.False(t, s.SoundingsVisible())
}

func TestLoadMalformedDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"truncated xml", "s.xml", exampleXML[:len(exampleXML)/2]},
		{"not xml", "s.xml", "this is not a settings document"},
		{"wrong root", "s.xml", "<Config><DisplaySoundings>True</DisplaySoundings></Config>"},
		{"broken yaml", "s.yaml", "layers: [\n  - {name: DEPARE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Open(writeFile(t, tt.file, tt.content))
			assert.Empty(t, s.LayersDisplayOrder())
			assert.Equal(t, DepthThresholds{}, s.Depths())
			assert.False(t, s.SoundingsVisible())
		})
	}
}

func TestLoadBadFieldsDefaultToZero(t *testing.T) {
	s := Open(writeFile(t, "s.xml", `<Settings>
  <DisplaySoundings>yes</DisplaySoundings>
  <Depths><Shallow>shallow</Shallow><Safety> 4 </Safety></Depths>
  <Layers><Layer><Id>x</Id><Name>LNDARE</Name><Display> true </Display><Order>?</Order></Layer></Layers>
</Settings>`))

	assert.False(t, s.SoundingsVisible())
	assert.Equal(t, DepthThresholds{Safety: 4}, s.Depths())
	l, ok := s.Layer("LNDARE")
	require.True(t, ok)
	assert.Equal(t, 0, l.ID)
	assert.Equal(t, 0, l.Order)
	assert.True(t, l.Visible)
	assert.Empty(t, l.Description)
}

func TestLoadLegacyDescriptionTag(t *testing.T) {
	s := Open(writeFile(t, "s.xml", `<Settings><Layers>
<Layer><Id>7</Id><Name>SOUNDG</Name><Descrption>Soundings</Descrption><Display>True</Display><Order>1</Order></Layer>
</Layers></Settings>`))

	l, ok := s.Layer("SOUNDG")
	require.True(t, ok)
	assert.Equal(t, "Soundings", l.Description)
}

func TestLoadEqualOrdersKeepDocumentPosition(t *testing.T) {
	s := Open(writeFile(t, "s.xml", `<Settings><Layers>
<Layer><Name>C</Name><Order>1</Order></Layer>
<Layer><Name>A</Name><Order>1</Order></Layer>
<Layer><Name>B</Name><Order>0</Order></Layer>
<Layer><Name>D</Name><Order>1</Order></Layer>
</Layers></Settings>`))

	assert.Equal(t, []string{"B", "C", "A", "D"}, s.LayersDisplayOrder())
}

func TestLoadDuplicateNameLastWins(t *testing.T) {
	s := Open(writeFile(t, "s.xml", `<Settings><Layers>
<Layer><Id>1</Id><Name>A</Name><Order>1</Order></Layer>
<Layer><Id>2</Id><Name>B</Name><Order>1</Order></Layer>
<Layer><Id>3</Id><Name>A</Name><Order>1</Order></Layer>
</Layers></Settings>`))

	assert.Equal(t, []string{"B", "A"}, s.LayersDisplayOrder())
	l, _ := s.Layer("A")
	assert.Equal(t, 3, l.ID)
}

func TestSaveRoundTripDensifiesOrder(t *testing.T) {
	path := writeFile(t, "s.xml", `<Settings>
<DisplaySoundings>False</DisplaySoundings>
<Depths><Shallow>3</Shallow><Safety>6</Safety><Deep>12.25</Deep></Depths>
<Layers>
<Layer><Id>10</Id><Name>DEPARE</Name><Description>Depth area</Description><Display>True</Display><Order>5</Order></Layer>
<Layer><Id>11</Id><Name>LNDARE</Name><Description>Land area</Description><Display>True</Display><Order>40</Order></Layer>
<Layer><Id>12</Id><Name>COALNE</Name><Description>Coastline</Description><Display>False</Display><Order>17</Order></Layer>
</Layers></Settings>`)

	s := Open(path)
	s.SwapOrders(0, 2)
	before := s.LayersDisplayOrder()
	require.Equal(t, []string{"LNDARE", "COALNE", "DEPARE"}, before)
	require.NoError(t, s.Save())

	reloaded := Open(path)
	assert.Equal(t, before, reloaded.LayersDisplayOrder())
	for i, name := range before {
		l, ok := reloaded.Layer(name)
		require.True(t, ok)
		assert.Equal(t, i+1, l.Order, name)
	}
	l, _ := reloaded.Layer("DEPARE")
	assert.Equal(t, 10, l.ID)
	assert.Equal(t, "Depth area", l.Description)
	assert.Equal(t, DepthThresholds{Shallow: 3, Safety: 6, Deep: 12.25}, reloaded.Depths())
	assert.False(t, reloaded.SoundingsVisible())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<Description>Depth area</Description>")
	assert.NotContains(t, string(raw), "Descrption")
	assert.Contains(t, string(raw), "<Display>False</Display>")
}

func TestSaveYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "display.yaml")
	s := Open(path)
	s.SetSoundingsVisible(true)
	s.SetShallowDepth(2)
	s.SetSafetyDepth(8)
	s.SetDeepDepth(20)
	s.SetLayerVisibility("DEPARE", true)
	s.SetLayerVisibility("COALNE", false)
	require.NoError(t, s.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "display_soundings: true"))

	reloaded := Open(path)
	assert.True(t, reloaded.SoundingsVisible())
	assert.Equal(t, DepthThresholds{Shallow: 2, Safety: 8, Deep: 20}, reloaded.Depths())
	assert.Equal(t, []string{"COALNE", "DEPARE"}, reloaded.LayersDisplayOrder())
	assert.True(t, reloaded.IsLayerVisible("DEPARE"))
}

func TestWithFormatOverridesExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.conf")
	s := Open(path, WithFormat(FormatYAML))
	s.SetSoundingsVisible(true)
	require.NoError(t, s.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "display_soundings: true")
	assert.True(t, Open(path, WithFormat(FormatYAML)).SoundingsVisible())
	assert.False(t, Open(path).SoundingsVisible())
}

func TestSetLayerVisibilityUnknownNameDoesNotJoinOrder(t *testing.T) {
	path := writeFile(t, "s.xml", exampleXML)
	s := Open(path)

	s.SetLayerVisibility("WRECKS", true)

	assert.True(t, s.IsLayerVisible("WRECKS"))
	assert.Equal(t, []string{"COALNE", "DEPARE"}, s.LayersDisplayOrder())
	l, ok := s.Layer("WRECKS")
	require.True(t, ok)
	assert.Equal(t, LayerSetting{Name: "WRECKS", Visible: true}, l)

	require.NoError(t, s.Save())
	s.Load()
	assert.Equal(t, []string{"COALNE", "DEPARE", "WRECKS"}, s.LayersDisplayOrder())
}

func TestSetLayerVisibilityKnownNameKeepsRecord(t *testing.T) {
	s := Open(writeFile(t, "s.xml", exampleXML))
	s.SetLayerVisibility("COALNE", true)

	l, _ := s.Layer("COALNE")
	assert.Equal(t, LayerSetting{ID: 2, Name: "COALNE", Description: "Coastline", Visible: true, Order: 1}, l)
}

func TestIsLayerVisibleUnknown(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "none.xml"))
	assert.False(t, s.IsLayerVisible("DEPARE"))
}

func TestSwapOrders(t *testing.T) {
	s := Open(writeFile(t, "s.xml", `<Settings><Layers>
<Layer><Name>A</Name><Order>1</Order></Layer>
<Layer><Name>B</Name><Order>2</Order></Layer>
<Layer><Name>C</Name><Order>3</Order></Layer>
<Layer><Name>D</Name><Order>4</Order></Layer>
</Layers></Settings>`))

	var events []LayoutEvent
	s.Subscribe(func(e LayoutEvent) { events = append(events, e) })

	s.SwapOrders(0, 2)
	assert.Equal(t, []string{"C", "B", "A", "D"}, s.LayersDisplayOrder())
	assert.Equal(t, []LayoutEvent{LayoutAboutToChange, LayoutChanged}, events)

	for _, idx := range [][2]int{{-1, 0}, {0, 4}, {4, 0}, {2, -3}, {10, 11}} {
		s.SwapOrders(idx[0], idx[1])
		assert.Equal(t, []string{"C", "B", "A", "D"}, s.LayersDisplayOrder(), "swap %v", idx)
	}

	s.SwapOrders(1, 1)
	assert.Equal(t, []string{"C", "B", "A", "D"}, s.LayersDisplayOrder())
}

func TestLayersDisplayOrderIsACopy(t *testing.T) {
	s := Open(writeFile(t, "s.xml", exampleXML))
	order := s.LayersDisplayOrder()
	order[0] = "mutated"
	assert.Equal(t, []string{"COALNE", "DEPARE"}, s.LayersDisplayOrder())
}

func TestCloseSavesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.xml")
	s := Open(path)
	s.SetSoundingsVisible(true)
	require.NoError(t, s.Close())
	assert.True(t, Open(path).SoundingsVisible())

	s.SetSoundingsVisible(false)
	require.NoError(t, s.Close())
	assert.True(t, Open(path).SoundingsVisible())
}

func TestLoadDiscardsUnsavedChanges(t *testing.T) {
	s := Open(writeFile(t, "s.xml", exampleXML))
	s.SwapOrders(0, 1)
	s.SetSoundingsVisible(false)
	s.Load()

	assert.Equal(t, []string{"COALNE", "DEPARE"}, s.LayersDisplayOrder())
	assert.True(t, s.SoundingsVisible())
}

func TestDepthAccessors(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "absent.xml"))
	s.SetShallowDepth(2)
	s.SetSafetyDepth(5.5)
	s.SetDeepDepth(20)

	assert.Equal(t, 2.0, s.ShallowDepth())
	assert.Equal(t, 5.5, s.SafetyDepth())
	assert.Equal(t, 20.0, s.DeepDepth())
	assert.Equal(t, DepthThresholds{Shallow: 2, Safety: 5.5, Deep: 20}, s.Depths())
}
