// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image/color"

	rlidisplay "github.com/zappa672/RLIDisplay"
)

// Framebuffer is a backend colour texture bound as an offscreen render
// target. Implementations are driven exclusively through a Target.
type Framebuffer interface {
	// Allocate (re)creates the colour texture at the given size. Any
	// previous texture is released first.
	Allocate(width, height int) error

	// Texture returns the ID of the current colour texture.
	Texture() TextureID

	// Begin binds the texture as the render destination and clears it.
	Begin(clear color.RGBA) (Frame, error)

	// End finishes the frame started by Begin and flushes its work.
	End(frame Frame) error

	// Release frees the texture. The framebuffer is unusable afterwards.
	Release()
}

type targetState int

const (
	targetUninitialized targetState = iota
	targetReady
	targetDestroyed
)

// Target is the render target manager. It owns a Framebuffer and exposes
// the composited image to the host through TextureID.
//
// Target is not safe for concurrent use; it belongs to the thread that owns
// the graphics context.
type Target struct {
	fb     Framebuffer
	state  targetState
	width  int
	height int
	bound  Frame
}

// NewTarget creates an uninitialized target over fb. A nil fb is accepted;
// Init then reports ErrNilFramebuffer.
func NewTarget(fb Framebuffer) *Target {
	return &Target{fb: fb}
}

// Init allocates the colour texture. It may succeed only once.
func (t *Target) Init(width, height int) error {
	switch {
	case t.state == targetDestroyed:
		return ErrDestroyed
	case t.state == targetReady:
		return ErrAlreadyInitialized
	case t.fb == nil:
		return ErrNilFramebuffer
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if err := t.fb.Allocate(width, height); err != nil {
		return fmt.Errorf("render: allocate %dx%d: %w", width, height, err)
	}
	t.width, t.height = width, height
	t.state = targetReady
	rlidisplay.Logger().Info("render: target initialized", "width", width, "height", height, "texture", t.fb.Texture())
	return nil
}

// Initialized reports whether Init has succeeded and Destroy has not run.
func (t *Target) Initialized() bool {
	return t.state == targetReady
}

// Size returns the current texture size.
func (t *Target) Size() (width, height int) {
	return t.width, t.height
}

// Resize reallocates the colour texture at the new size. The TextureID
// changes; resizing to the current size keeps the texture.
func (t *Target) Resize(width, height int) error {
	if err := t.usable(); err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width == t.width && height == t.height {
		return nil
	}
	if t.bound != nil {
		return fmt.Errorf("render: resize while bound")
	}
	if err := t.fb.Allocate(width, height); err != nil {
		return fmt.Errorf("render: reallocate %dx%d: %w", width, height, err)
	}
	t.width, t.height = width, height
	rlidisplay.Logger().Debug("render: target resized", "width", width, "height", height, "texture", t.fb.Texture())
	return nil
}

// TextureID returns the current colour texture, or NoTexture before Init
// and after Destroy.
func (t *Target) TextureID() TextureID {
	if t.state != targetReady {
		return NoTexture
	}
	return t.fb.Texture()
}

// Framebuffer returns the backing framebuffer.
func (t *Target) Framebuffer() Framebuffer {
	return t.fb
}

// Bind makes the target the current destination, cleared to the given
// colour. Each Bind must be paired with Unbind.
func (t *Target) Bind(clear color.RGBA) (Frame, error) {
	if err := t.usable(); err != nil {
		return nil, err
	}
	if t.bound != nil {
		return nil, fmt.Errorf("render: target already bound")
	}
	frame, err := t.fb.Begin(clear)
	if err != nil {
		return nil, fmt.Errorf("render: begin frame: %w", err)
	}
	t.bound = frame
	return frame, nil
}

// Unbind finishes the frame opened by Bind.
func (t *Target) Unbind() error {
	if t.bound == nil {
		return ErrNotBound
	}
	frame := t.bound
	t.bound = nil
	if err := t.fb.End(frame); err != nil {
		return fmt.Errorf("render: end frame: %w", err)
	}
	return nil
}

// Destroy releases the texture. Only the first call has an effect.
func (t *Target) Destroy() {
	if t.state == targetDestroyed {
		return
	}
	if t.fb != nil {
		t.fb.Release()
	}
	t.state = targetDestroyed
	t.bound = nil
	rlidisplay.Logger().Debug("render: target destroyed")
}

func (t *Target) usable() error {
	switch t.state {
	case targetUninitialized:
		return ErrNotInitialized
	case targetDestroyed:
		return ErrDestroyed
	}
	return nil
}
