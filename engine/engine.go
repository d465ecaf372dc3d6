package engine

import (
	"github.com/zappa672/RLIDisplay/assets"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/shader"
)

// Engine draws one chart layer of geometry type L.
//
// Init allocates backend resources against the host device and runs once.
// SetData replaces the uploaded layer; ClearData drops it but keeps the
// resources for the next chart. Draw renders the current data into a bound
// frame with the class program already bound by the caller.
type Engine[L any] interface {
	Init(device render.DeviceHandle) error
	SetData(layer *L, atlas *assets.Atlas) error
	ClearData()
	Draw(frame render.Frame, program shader.Program, view View) error
	Destroy()
}

// Factory creates an uninitialized engine.
type Factory[L any] func() Engine[L]

// Factories builds the engines of every geometry class for one backend.
type Factories struct {
	Area     Factory[s52.AreaLayer]
	Line     Factory[s52.LineLayer]
	Mark     Factory[s52.MarkLayer]
	Text     Factory[s52.TextLayer]
	Sounding Factory[s52.SoundingLayer]
}
