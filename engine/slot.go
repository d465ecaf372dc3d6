package engine

import (
	"fmt"

	"github.com/zappa672/RLIDisplay/assets"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/shader"
)

// Slot holds the single engine of a class that has one layer per chart,
// such as soundings. The engine is created on first use.
type Slot[L any] struct {
	class   s52.Class
	device  render.DeviceHandle
	factory Factory[L]
	engine  Engine[L]
}

// NewSlot creates an empty slot.
func NewSlot[L any](class s52.Class, device render.DeviceHandle, factory Factory[L]) *Slot[L] {
	return &Slot[L]{class: class, device: device, factory: factory}
}

// Ensure returns the engine, creating and initializing it if needed.
func (s *Slot[L]) Ensure() (Engine[L], error) {
	if s.engine != nil {
		return s.engine, nil
	}
	e := s.factory()
	if err := e.Init(s.device); err != nil {
		return nil, fmt.Errorf("engine: init %s: %w", s.class, err)
	}
	s.engine = e
	return e, nil
}

// SetData uploads layer, creating the engine if needed.
func (s *Slot[L]) SetData(layer *L, atlas *assets.Atlas) error {
	e, err := s.Ensure()
	if err != nil {
		return err
	}
	if err := e.SetData(layer, atlas); err != nil {
		return fmt.Errorf("engine: set %s: %w", s.class, err)
	}
	return nil
}

// Clear clears the engine's data if it exists.
func (s *Slot[L]) Clear() {
	if s.engine != nil {
		s.engine.ClearData()
	}
}

// Draw draws the engine if it exists and reports whether it did.
func (s *Slot[L]) Draw(frame render.Frame, program shader.Program, view View) (bool, error) {
	if s.engine == nil {
		return false, nil
	}
	if err := s.engine.Draw(frame, program, view); err != nil {
		return false, fmt.Errorf("engine: draw %s: %w", s.class, err)
	}
	return true, nil
}

// Engine returns the engine, nil before first use.
func (s *Slot[L]) Engine() Engine[L] {
	return s.engine
}

// Destroy destroys the engine and empties the slot.
func (s *Slot[L]) Destroy() {
	if s.engine != nil {
		s.engine.Destroy()
		s.engine = nil
	}
}
