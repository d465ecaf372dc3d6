package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappa672/RLIDisplay/s52"
)

const harbourJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature",
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]},
     "properties": {"LAYER": "LNDARE"}},
    {"type": "Feature",
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[5,0],[5,5],[0,0]]]},
     "properties": {"LAYER": "DEPARE", "DRVAL1": 5}},
    {"type": "Feature",
     "geometry": {"type": "LineString", "coordinates": [[0,0],[10,10]]},
     "properties": {"LAYER": "DEPCNT", "STYLE": "DASH", "WIDTH": 2}},
    {"type": "Feature",
     "geometry": {"type": "Point", "coordinates": [3,4]},
     "properties": {"LAYER": "BOYLAT", "SYMBOL": "BOYLAT13", "ORIENT": 45}},
    {"type": "Feature",
     "geometry": {"type": "Point", "coordinates": [6,7]},
     "properties": {"LAYER": "SEAARE", "OBJNAM": "Gulf"}},
    {"type": "Feature",
     "geometry": {"type": "MultiPoint", "coordinates": [[1,1],[2,2]]},
     "properties": {"LAYER": "SOUNDG", "DEPTH": 12.5}},
    {"type": "Feature",
     "geometry": {"type": "Point", "coordinates": [1,1]},
     "properties": {"LAYER": "SOUNDG"}}
  ]
}`

func TestDecodeGeoJSON(t *testing.T) {
	chart, err := DecodeGeoJSON("harbour", []byte(harbourJSON))
	require.NoError(t, err)

	assert.Equal(t, "harbour", chart.Name())
	assert.Equal(t, []string{"LNDARE", "DEPARE"}, chart.AreaLayerNames())
	assert.Equal(t, []string{"DEPCNT"}, chart.LineLayerNames())
	assert.Equal(t, []string{"BOYLAT"}, chart.MarkLayerNames())
	assert.Equal(t, []string{"SEAARE"}, chart.TextLayerNames())

	assert.Equal(t, "LANDA", chart.AreaLayer("LNDARE").Areas[0].Color)
	assert.Equal(t, "DEPMS", chart.AreaLayer("DEPARE").Areas[0].Color)

	line := chart.LineLayer("DEPCNT").Lines[0]
	assert.Equal(t, "DEPCN", line.Color)
	assert.Equal(t, "DASH", line.Style)
	assert.Equal(t, 2.0, line.Width)

	mark := chart.MarkLayer("BOYLAT").Marks[0]
	assert.Equal(t, "BOYLAT13", mark.Symbol)
	assert.Equal(t, 45.0, mark.Rotation)
	assert.Equal(t, orb.Point{3, 4}, mark.At)

	label := chart.TextLayer("SEAARE").Labels[0]
	assert.Equal(t, "Gulf", label.Text)
	assert.Equal(t, DefaultTextColor, label.Color)
	assert.Equal(t, float64(DefaultLabelSize), label.Size)

	require.NotNil(t, chart.SoundingLayer())
	require.Len(t, chart.SoundingLayer().Soundings, 2, "sounding without depth is skipped")
	assert.Equal(t, 12.5, chart.SoundingLayer().Soundings[1].Depth)
}

func TestDecodeGeoJSONFallbackLayer(t *testing.T) {
	data := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]},"properties":{}}]}`
	chart, err := DecodeGeoJSON("plain", []byte(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"PLAIN"}, chart.MarkLayerNames())
	assert.Equal(t, DefaultSymbol, chart.MarkLayer("PLAIN").Marks[0].Symbol)
	assert.Nil(t, chart.SoundingLayer())
}

func TestDecodeGeoJSONMalformed(t *testing.T) {
	_, err := DecodeGeoJSON("bad", []byte("{not json"))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestPropertiesLookup(t *testing.T) {
	p := Properties{"colour": "CHRED", "Width": "3.5 ", "NAME": "x\x00\x00", "n": 7.0}

	assert.Equal(t, "CHRED", p.String(PropColor))
	assert.Equal(t, "x", p.String("name"))
	assert.Equal(t, "7", p.String("N"))

	w, ok := p.Float(PropWidth)
	assert.True(t, ok)
	assert.Equal(t, 3.5, w)

	_, ok = p.Float("missing")
	assert.False(t, ok)
	_, ok = p.Float("NAME")
	assert.False(t, ok)
}

func TestDepthColor(t *testing.T) {
	tests := []struct {
		depth float64
		want  string
	}{
		{-1, "DEPIT"},
		{0, "DEPVS"},
		{1.9, "DEPVS"},
		{2, "DEPMS"},
		{10, "DEPMD"},
		{29, "DEPMD"},
		{30, "DEPDW"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DepthColor(tt.depth), "depth %v", tt.depth)
	}
}

func TestPolygonGroupsHoles(t *testing.T) {
	pts := []shp.Point{
		// outer, clockwise
		{X: 0, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 0}, {X: 0, Y: 0},
		// hole, counter-clockwise
		{X: 2, Y: 2}, {X: 4, Y: 2}, {X: 4, Y: 4}, {X: 2, Y: 4}, {X: 2, Y: 2},
		// second outer
		{X: 20, Y: 20}, {X: 20, Y: 30}, {X: 30, Y: 30}, {X: 20, Y: 20},
	}
	g := polygon([]int32{0, 5, 10}, pts)

	mp, ok := g.(orb.MultiPolygon)
	require.True(t, ok, "got %T", g)
	require.Len(t, mp, 2)
	assert.Len(t, mp[0], 2)
	assert.Len(t, mp[1], 1)
}

func TestPolyLineParts(t *testing.T) {
	pts := []shp.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 5, Y: 5}, {X: 6, Y: 6}}

	_, single := polyLine([]int32{0}, pts).(orb.LineString)
	assert.True(t, single)

	mls, ok := polyLine([]int32{0, 2}, pts).(orb.MultiLineString)
	require.True(t, ok)
	assert.Len(t, mls, 2)
	assert.Equal(t, orb.Point{5, 5}, mls[1][0])
}

// fixDBFName moves the attribute table go-shp writes as "<base>dbf" to
// "<base>.dbf", where its reader looks for it.
func fixDBFName(t *testing.T, path string) {
	t.Helper()
	base := strings.TrimSuffix(path, ".shp")
	if _, err := os.Stat(base + "dbf"); err == nil {
		require.NoError(t, os.Rename(base+"dbf", base+".dbf"))
	}
	require.FileExists(t, base+".dbf")
}

func writeLineShapefile(t *testing.T, path string) {
	t.Helper()
	w, err := shp.Create(path, shp.POLYLINE)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("COLOUR", 8),
		shp.FloatField("WIDTH", 8, 2),
	}))
	n := w.Write(shp.NewPolyLine([][]shp.Point{{{X: 0, Y: 0}, {X: 3, Y: 4}}}))
	w.WriteAttribute(int(n), 0, "CHRED")
	w.WriteAttribute(int(n), 1, 2.5)
	w.Close()
	fixDBFName(t, path)
}

func writePointShapefile(t *testing.T, path string) {
	t.Helper()
	w, err := shp.Create(path, shp.POINT)
	require.NoError(t, err)
	require.NoError(t, w.SetFields([]shp.Field{
		shp.StringField("LAYER", 8),
		shp.FloatField("DEPTH", 8, 2),
		shp.StringField("SYMBOL", 10),
	}))
	n := w.Write(&shp.Point{X: 1, Y: 2})
	w.WriteAttribute(int(n), 0, "SOUNDG")
	w.WriteAttribute(int(n), 1, 7.25)
	n = w.Write(&shp.Point{X: 3, Y: 4})
	w.WriteAttribute(int(n), 0, "LIGHTS")
	w.WriteAttribute(int(n), 2, "LIGHTS11")
	w.Close()
	fixDBFName(t, path)
}

func TestLoadShapefileDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "approach")
	require.NoError(t, os.Mkdir(dir, 0o755))
	writeLineShapefile(t, filepath.Join(dir, "navlne.shp"))
	writePointShapefile(t, filepath.Join(dir, "points.shp"))

	chart, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "approach", chart.Name())
	assert.Equal(t, []string{"NAVLNE"}, chart.LineLayerNames())
	require.NotNil(t, chart.LineLayer("NAVLNE"))
	require.Len(t, chart.LineLayer("NAVLNE").Lines, 1)
	line := chart.LineLayer("NAVLNE").Lines[0]
	assert.Equal(t, "CHRED", line.Color)
	assert.InDelta(t, 2.5, line.Width, 1e-9)
	assert.Equal(t, orb.LineString{{0, 0}, {3, 4}}, line.Path)

	assert.Equal(t, []string{"LIGHTS"}, chart.MarkLayerNames())
	require.NotNil(t, chart.MarkLayer("LIGHTS"))
	require.Len(t, chart.MarkLayer("LIGHTS").Marks, 1)
	assert.Equal(t, "LIGHTS11", chart.MarkLayer("LIGHTS").Marks[0].Symbol)

	require.NotNil(t, chart.SoundingLayer())
	require.Len(t, chart.SoundingLayer().Soundings, 1)
	assert.InDelta(t, 7.25, chart.SoundingLayer().Soundings[0].Depth, 1e-9)
	assert.Equal(t, orb.Point{1, 2}, chart.SoundingLayer().Soundings[0].At)
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrNoCharts)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err = Load(txt)
	assert.ErrorIs(t, err, ErrNoCharts)

	_, err = Load(filepath.Join(dir, "missing.geojson"))
	assert.Error(t, err)
}

func chartTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "harbour.geojson"), []byte(harbourJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.json"), []byte("{"), 0o644))
	sub := filepath.Join(root, "approach")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeLineShapefile(t, filepath.Join(sub, "navlne.shp"))
	return root
}

func TestDiscover(t *testing.T) {
	root := chartTree(t)
	paths, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "approach"),
		filepath.Join(root, "broken.json"),
		filepath.Join(root, "harbour.geojson"),
	}, paths)
}

func TestManager(t *testing.T) {
	root := chartTree(t)
	m := NewManager(nil, WithWorkers(1))
	require.NotNil(t, m.Refs())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, m.Start(ctx, root))

	var got []string
	for name := range m.Available() {
		got = append(got, name)
	}
	require.NoError(t, m.Wait(ctx))

	assert.Equal(t, []string{"approach", "harbour"}, got)
	assert.Equal(t, []string{"approach", "harbour"}, m.Names())
	require.Len(t, m.Errors(), 1)
	assert.ErrorIs(t, m.Errors()[0], ErrMalformed)

	c, err := m.Chart("harbour")
	require.NoError(t, err)
	var _ s52.Chart = c

	_, err = m.Chart("nowhere")
	assert.ErrorIs(t, err, ErrUnknownChart)

	assert.Error(t, m.Start(ctx, root), "second start")
}

func TestManagerParallel(t *testing.T) {
	root := chartTree(t)
	m := NewManager(nil, WithWorkers(4))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, m.Start(ctx, root))

	var got []string
	for name := range m.Available() {
		got = append(got, name)
	}
	assert.ElementsMatch(t, []string{"approach", "harbour"}, got)
	assert.Len(t, m.Errors(), 1)
}

func TestManagerCancel(t *testing.T) {
	root := chartTree(t)
	m := NewManager(nil, WithWorkers(1))
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, m.Start(ctx, root))
	cancel()

	require.NoError(t, m.Wait(context.Background()))
	for range m.Available() {
	}
	assert.LessOrEqual(t, len(m.Names()), 2)
}

func TestManagerEmptyRoot(t *testing.T) {
	m := NewManager(s52.DefaultPalette())
	err := m.Start(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNoCharts)

	_, open := <-m.Available()
	assert.False(t, open)
	assert.NoError(t, m.Wait(context.Background()))
}

func TestManagerAdd(t *testing.T) {
	m := NewManager(nil)
	m.Add(s52.NewDataset("manual"))
	assert.Equal(t, []string{"manual"}, m.Names())
}
