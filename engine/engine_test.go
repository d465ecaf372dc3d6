package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappa672/RLIDisplay/assets"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/shader"
)

type fakeEngine struct {
	name      string
	inits     int
	clears    int
	destroys  int
	draws     int
	data      *s52.LineLayer
	atlas     *assets.Atlas
	initErr   error
	drawErr   error
	lastView  View
	lastFrame render.Frame
}

func (f *fakeEngine) Init(render.DeviceHandle) error {
	f.inits++
	return f.initErr
}

func (f *fakeEngine) SetData(l *s52.LineLayer, a *assets.Atlas) error {
	f.data, f.atlas = l, a
	return nil
}

func (f *fakeEngine) ClearData() {
	f.clears++
	f.data = nil
}

func (f *fakeEngine) Draw(frame render.Frame, _ shader.Program, v View) error {
	if f.drawErr != nil {
		return f.drawErr
	}
	f.draws++
	f.lastView, f.lastFrame = v, frame
	return nil
}

func (f *fakeEngine) Destroy() { f.destroys++ }

type fakeFactory struct {
	created []*fakeEngine
	initErr error
}

func (ff *fakeFactory) new() Engine[s52.LineLayer] {
	e := &fakeEngine{initErr: ff.initErr}
	ff.created = append(ff.created, e)
	return e
}

func newTestRegistry() (*Registry[s52.LineLayer], *fakeFactory) {
	ff := &fakeFactory{}
	return NewRegistry[s52.LineLayer](s52.ClassLine, render.NullDeviceHandle{}, ff.new), ff
}

func TestRegistryEnsureCreatesOnce(t *testing.T) {
	r, ff := newTestRegistry()

	e1, err := r.Ensure("COALNE")
	require.NoError(t, err)
	e2, err := r.Ensure("COALNE")
	require.NoError(t, err)

	assert.Same(t, e1, e2)
	assert.Len(t, ff.created, 1)
	assert.Equal(t, 1, ff.created[0].inits)
	assert.Equal(t, s52.ClassLine, r.Class())
}

func TestRegistryEnsureInitFailure(t *testing.T) {
	ff := &fakeFactory{initErr: errors.New("no device")}
	r := NewRegistry[s52.LineLayer](s52.ClassLine, nil, ff.new)

	_, err := r.Ensure("DEPCNT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no device")
	assert.Zero(t, r.Len())
}

func TestRegistrySetLayerDataOverwrites(t *testing.T) {
	r, ff := newTestRegistry()
	a := &s52.LineLayer{}
	b := &s52.LineLayer{}
	atlas := &assets.Atlas{Kind: assets.KindLine}

	require.NoError(t, r.SetLayerData("DEPCNT", a, atlas))
	require.NoError(t, r.SetLayerData("DEPCNT", b, atlas))

	require.Len(t, ff.created, 1)
	assert.Same(t, b, ff.created[0].data)
	assert.Same(t, atlas, ff.created[0].atlas)
}

func TestRegistryClearAllKeepsEngines(t *testing.T) {
	r, ff := newTestRegistry()
	for _, n := range []string{"A", "B", "C"} {
		require.NoError(t, r.SetLayerData(n, &s52.LineLayer{}, nil))
	}

	r.ClearAll()

	assert.Equal(t, 3, r.Len())
	for _, e := range ff.created {
		assert.Equal(t, 1, e.clears)
		assert.Nil(t, e.data)
		assert.Zero(t, e.destroys)
	}
	assert.Equal(t, []string{"A", "B", "C"}, r.Names())
}

func TestRegistryDrawVisibleSkipsUnknown(t *testing.T) {
	r, _ := newTestRegistry()
	require.NoError(t, r.SetLayerData("B", &s52.LineLayer{}, nil))
	require.NoError(t, r.SetLayerData("A", &s52.LineLayer{}, nil))

	var order []string
	for _, n := range []string{"A", "B"} {
		e, _ := r.Lookup(n)
		fe := e.(*fakeEngine)
		fe.name = n
	}
	frame := render.NewPixmapFramebuffer()
	view := View{Center: orb.Point{1, 2}, Radius: 5, Angle: 30}

	drawn, err := r.DrawVisible(frame, []string{"MISSING", "A", "B", "ALSO_MISSING"}, nil, view)
	require.NoError(t, err)
	assert.Equal(t, 2, drawn)

	for _, n := range []string{"A", "B"} {
		e, _ := r.Lookup(n)
		fe := e.(*fakeEngine)
		assert.Equal(t, 1, fe.draws)
		assert.Equal(t, view, fe.lastView)
		assert.Same(t, frame, fe.lastFrame)
		order = append(order, fe.name)
	}
	assert.Equal(t, []string{"A", "B"}, order)

	drawn, err = r.DrawVisible(frame, nil, nil, view)
	require.NoError(t, err)
	assert.Zero(t, drawn)
}

func TestRegistryDrawVisibleContinuesAfterError(t *testing.T) {
	r, ff := newTestRegistry()
	require.NoError(t, r.SetLayerData("A", &s52.LineLayer{}, nil))
	require.NoError(t, r.SetLayerData("B", &s52.LineLayer{}, nil))
	boom := errors.New("boom")
	ff.created[0].drawErr = boom

	drawn, err := r.DrawVisible(nil, []string{"A", "B"}, nil, DefaultView())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, drawn)
	assert.Equal(t, 1, ff.created[1].draws)
}

func TestRegistryDestroyAll(t *testing.T) {
	r, ff := newTestRegistry()
	require.NoError(t, r.SetLayerData("A", &s52.LineLayer{}, nil))
	require.NoError(t, r.SetLayerData("B", &s52.LineLayer{}, nil))

	r.DestroyAll()

	assert.Zero(t, r.Len())
	assert.Empty(t, r.Names())
	for _, e := range ff.created {
		assert.Equal(t, 1, e.destroys)
	}
}

func TestSlotLazyCreation(t *testing.T) {
	ff := &fakeFactory{}
	s := NewSlot[s52.LineLayer](s52.ClassSounding, nil, ff.new)

	drawn, err := s.Draw(nil, nil, DefaultView())
	require.NoError(t, err)
	assert.False(t, drawn)
	assert.Nil(t, s.Engine())
	s.Clear()
	assert.Empty(t, ff.created)

	layer := &s52.LineLayer{}
	require.NoError(t, s.SetData(layer, nil))
	require.NoError(t, s.SetData(layer, nil))
	require.Len(t, ff.created, 1)

	drawn, err = s.Draw(nil, nil, DefaultView())
	require.NoError(t, err)
	assert.True(t, drawn)

	s.Clear()
	assert.Equal(t, 1, ff.created[0].clears)

	s.Destroy()
	s.Destroy()
	assert.Equal(t, 1, ff.created[0].destroys)
	assert.Nil(t, s.Engine())
}

func TestViewProjectRoundTrip(t *testing.T) {
	views := []View{
		DefaultView(),
		{Center: orb.Point{30.5, 59.9}, Radius: 0.25, Angle: 0},
		{Center: orb.Point{-10, 4}, Radius: 3, Angle: 45},
		{Center: orb.Point{100, -20}, Radius: 50, Angle: 270},
	}
	pts := []orb.Point{{0, 0}, {1, 1}, {-3, 7.5}, {30.6, 59.8}}

	for _, v := range views {
		for _, p := range pts {
			x, y := v.Project(p, 640, 480)
			back := v.Unproject(x, y, 640, 480)
			assert.InDelta(t, p[0], back[0], 1e-9)
			assert.InDelta(t, p[1], back[1], 1e-9)
		}
	}
}

func TestViewProjectOrientation(t *testing.T) {
	v := View{Center: orb.Point{0, 0}, Radius: 10}

	x, y := v.Project(orb.Point{0, 0}, 200, 100)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 50, y, 1e-9)

	// North is up and the radius reaches the shorter edge.
	x, y = v.Project(orb.Point{0, 10}, 200, 100)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)

	// Rotating clockwise by 90 degrees puts east at the bottom.
	v.Angle = 90
	x, y = v.Project(orb.Point{10, 0}, 200, 100)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 100, y, 1e-9)
}

func TestViewBound(t *testing.T) {
	v := View{Center: orb.Point{5, 5}, Radius: 1}
	b := v.Bound(100, 100)
	assert.InDelta(t, 4, b.Min[0], 1e-9)
	assert.InDelta(t, 6, b.Max[1], 1e-9)

	v.Angle = 45
	rb := v.Bound(100, 100)
	assert.InDelta(t, 5-math.Sqrt2, rb.Min[0], 1e-9)
	assert.InDelta(t, 5+math.Sqrt2, rb.Max[0], 1e-9)

	assert.Zero(t, View{}.Scale(100, 100))
}
