package engine

import (
	"errors"
	"fmt"

	rlidisplay "github.com/zappa672/RLIDisplay"
	"github.com/zappa672/RLIDisplay/assets"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/shader"
)

// Registry maps layer names of one geometry class to their engines.
// Entries are never removed before DestroyAll.
type Registry[L any] struct {
	class   s52.Class
	device  render.DeviceHandle
	factory Factory[L]
	engines map[string]Engine[L]
	names   []string
}

// NewRegistry creates an empty registry whose engines are built by factory
// and initialized against device.
func NewRegistry[L any](class s52.Class, device render.DeviceHandle, factory Factory[L]) *Registry[L] {
	return &Registry[L]{
		class:   class,
		device:  device,
		factory: factory,
		engines: make(map[string]Engine[L]),
	}
}

// Class returns the registry's geometry class.
func (r *Registry[L]) Class() s52.Class {
	return r.class
}

// Ensure returns the engine registered under name, creating and
// initializing it first if needed. A failed Init registers nothing.
func (r *Registry[L]) Ensure(name string) (Engine[L], error) {
	if e, ok := r.engines[name]; ok {
		return e, nil
	}
	e := r.factory()
	if err := e.Init(r.device); err != nil {
		return nil, fmt.Errorf("engine: init %s layer %q: %w", r.class, name, err)
	}
	r.engines[name] = e
	r.names = append(r.names, name)
	rlidisplay.Logger().Debug("engine: created", "class", r.class, "layer", name)
	return e, nil
}

// SetLayerData uploads layer into the engine for name, creating the engine
// if needed. Prior content is replaced.
func (r *Registry[L]) SetLayerData(name string, layer *L, atlas *assets.Atlas) error {
	e, err := r.Ensure(name)
	if err != nil {
		return err
	}
	if err := e.SetData(layer, atlas); err != nil {
		return fmt.Errorf("engine: set %s layer %q: %w", r.class, name, err)
	}
	return nil
}

// ClearAll clears the data of every engine, keeping their resources.
func (r *Registry[L]) ClearAll() {
	for _, name := range r.names {
		r.engines[name].ClearData()
	}
}

// DrawVisible draws the engines of names in sequence. Names without an
// engine are skipped. It returns the number of engines drawn; a failing
// engine does not stop the others.
func (r *Registry[L]) DrawVisible(frame render.Frame, names []string, program shader.Program, view View) (int, error) {
	var errs []error
	drawn := 0
	for _, name := range names {
		e, ok := r.engines[name]
		if !ok {
			continue
		}
		if err := e.Draw(frame, program, view); err != nil {
			errs = append(errs, fmt.Errorf("engine: draw %s layer %q: %w", r.class, name, err))
			continue
		}
		drawn++
	}
	return drawn, errors.Join(errs...)
}

// DestroyAll destroys every engine and empties the registry.
func (r *Registry[L]) DestroyAll() {
	for _, name := range r.names {
		r.engines[name].Destroy()
	}
	r.engines = make(map[string]Engine[L])
	r.names = nil
}

// Lookup returns the engine registered under name.
func (r *Registry[L]) Lookup(name string) (Engine[L], bool) {
	e, ok := r.engines[name]
	return e, ok
}

// Len returns the number of registered engines.
func (r *Registry[L]) Len() int {
	return len(r.engines)
}

// Names returns the registered layer names in creation order.
func (r *Registry[L]) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}
