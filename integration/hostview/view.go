// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hostview

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"

	rlidisplay "github.com/zappa672/RLIDisplay"
	"github.com/zappa672/RLIDisplay/render"
)

// Common errors returned by View operations.
var (
	// ErrClosed is returned when operations are attempted on a closed view.
	ErrClosed = errors.New("hostview: view is closed")

	// ErrNilSource is returned when New gets a nil source or pixel buffer.
	ErrNilSource = errors.New("hostview: nil source")

	// ErrNoFrame is returned before the compositor has a texture.
	ErrNoFrame = errors.New("hostview: no composited frame")

	// ErrInvalidDrawContext is returned when the host cannot draw the texture.
	ErrInvalidDrawContext = errors.New("hostview: host cannot draw texture")

	// ErrInvalidRenderer is returned when the host offers no texture creator.
	ErrInvalidRenderer = errors.New("hostview: host has no texture creator")
)

// Source is the compositor as seen by a View.
type Source interface {
	// TextureID changes whenever the target is reallocated.
	TextureID() render.TextureID

	// Composites counts completed composites.
	Composites() int
}

// Pixels exposes the composited pixels, such as a render.PixmapFramebuffer
// or the staging image of a GPU framebuffer.
type Pixels interface {
	Image() *image.RGBA
}

// Host creates and draws host textures.
type Host interface {
	NewTextureFromRGBA(width, height int, data []byte) (any, error)
	DrawTexture(tex any, x, y float32) error
}

type textureUpdater interface {
	UpdateData(data []byte) error
}

type textureDestroyer interface {
	Destroy()
}

// View mirrors the compositor's output into a host texture.
type View struct {
	src Source
	px  Pixels

	texture    any
	oldTexture any

	frame      render.TextureID
	composites int
	dirty      bool
	closed     bool
}

// New creates a View over src whose pixels are read from px.
func New(src Source, px Pixels) (*View, error) {
	if src == nil || px == nil {
		return nil, ErrNilSource
	}
	return &View{src: src, px: px, dirty: true}, nil
}

// MarkDirty forces an upload on the next Flush.
func (v *View) MarkDirty() {
	v.dirty = true
}

// IsDirty reports whether the next Flush uploads pixels.
func (v *View) IsDirty() bool {
	return v.dirty || v.texture == nil || v.src.Composites() != v.composites || v.src.TextureID() != v.frame
}

// Texture returns the current host texture without flushing.
func (v *View) Texture() any {
	return v.texture
}

// Flush uploads the composited pixels to the host texture if they changed
// and returns the texture.
func (v *View) Flush(host Host) (any, error) {
	if v.closed {
		return nil, ErrClosed
	}
	id := v.src.TextureID()
	if id == render.NoTexture {
		return nil, ErrNoFrame
	}

	// Resized: keep the old texture alive until the new upload is done.
	if id != v.frame && v.texture != nil {
		if v.oldTexture != nil {
			destroy(v.oldTexture)
		}
		v.oldTexture = v.texture
		v.texture = nil
	}

	if !v.IsDirty() {
		return v.texture, nil
	}

	img := v.px.Image()
	if img == nil {
		return nil, ErrNoFrame
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	data := img.Pix[:w*h*4]

	if v.texture == nil {
		tex, err := host.NewTextureFromRGBA(w, h, data)
		if err != nil {
			return nil, fmt.Errorf("hostview: NewTextureFromRGBA failed: %w", err)
		}
		v.texture = tex
		if v.oldTexture != nil {
			destroy(v.oldTexture)
			v.oldTexture = nil
		}
		rlidisplay.Logger().Debug("hostview: host texture created", "width", w, "height", h, "frame", id)
	} else if updater, ok := v.texture.(textureUpdater); ok {
		if err := updater.UpdateData(data); err != nil {
			return nil, fmt.Errorf("hostview: texture update failed: %w", err)
		}
	}

	v.frame = id
	v.composites = v.src.Composites()
	v.dirty = false
	return v.texture, nil
}

// Close destroys the host textures. Close is idempotent.
func (v *View) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	if v.oldTexture != nil {
		destroy(v.oldTexture)
		v.oldTexture = nil
	}
	if v.texture != nil {
		destroy(v.texture)
		v.texture = nil
	}
	return nil
}

func destroy(tex any) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}

// textureDrawerHost adapts a gpucontext.TextureDrawer to Host.
type textureDrawerHost struct {
	dc gpucontext.TextureDrawer
}

// FromTextureDrawer adapts a gogpu draw context to Host.
func FromTextureDrawer(dc gpucontext.TextureDrawer) Host {
	return textureDrawerHost{dc: dc}
}

func (h textureDrawerHost) NewTextureFromRGBA(width, height int, data []byte) (any, error) {
	creator := h.dc.TextureCreator()
	if creator == nil {
		return nil, ErrInvalidRenderer
	}
	tex, err := creator.NewTextureFromRGBA(width, height, data)
	if err != nil {
		return nil, err
	}
	return tex, nil
}

func (h textureDrawerHost) DrawTexture(tex any, x, y float32) error {
	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return ErrInvalidDrawContext
	}
	return h.dc.DrawTexture(gpuTex, x, y)
}
