package compositor

import (
	"image/color"

	"github.com/zappa672/RLIDisplay/assets"
	"github.com/zappa672/RLIDisplay/engine"
	"github.com/zappa672/RLIDisplay/engine/soft"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/shader"
)

// EngineFactories builds the engine factories of a backend. refs resolves
// against the reference of the latest Init or SetChart; safety returns the
// store's current safety depth.
type EngineFactories func(refs s52.References, safety func() float64) engine.Factories

// Backend bundles the pieces a Compositor allocates against.
type Backend struct {
	// Device is handed to every engine's Init.
	Device render.DeviceHandle

	// Framebuffer backs the render target.
	Framebuffer render.Framebuffer

	// Programs creates the shader library during Init.
	Programs func() (shader.Library, error)

	// Uploader turns atlas images into textures.
	Uploader assets.Uploader

	// Engines builds the per-class engine factories.
	Engines EngineFactories
}

// SoftwareBackend returns a CPU backend: a pixmap framebuffer, counting
// shader programs and the software engines.
func SoftwareBackend() Backend {
	return Backend{
		Device:      render.NullDeviceHandle{},
		Framebuffer: render.NewPixmapFramebuffer(),
		Programs:    func() (shader.Library, error) { return shader.NewCPULibrary(), nil },
		Uploader:    assets.NewCPUUploader(),
		Engines:     SoftwareEngines,
	}
}

// SoftwareEngines builds the software engines of every class.
func SoftwareEngines(refs s52.References, safety func() float64) engine.Factories {
	return soft.Factories(refs, safety)
}

// liveRefs delegates to whichever reference the compositor holds now, so
// engines created for one chart resolve colours of the next.
type liveRefs struct {
	c *Compositor
}

func (l liveRefs) Color(ref string) (color.RGBA, bool) {
	if l.c.refs == nil {
		return color.RGBA{}, false
	}
	return l.c.refs.Color(ref)
}

func (l liveRefs) ColorScheme() string {
	if l.c.refs == nil {
		return ""
	}
	return l.c.refs.ColorScheme()
}

func (l liveRefs) ColorSchemes() []string {
	if l.c.refs == nil {
		return nil
	}
	return l.c.refs.ColorSchemes()
}

func (l liveRefs) Atlas(kind s52.AtlasKind, scheme string) *s52.AtlasImage {
	if l.c.refs == nil {
		return nil
	}
	return l.c.refs.Atlas(kind, scheme)
}

var _ s52.References = liveRefs{}
