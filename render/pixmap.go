// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// PixmapFramebuffer is a CPU-backed Framebuffer using *image.RGBA.
//
// It is its own Frame: layer engines draw straight into Image while the
// target is bound. It is the framebuffer for headless rendering and for
// hosts that upload the composited pixels themselves.
type PixmapFramebuffer struct {
	img *image.RGBA
	id  TextureID
}

// NewPixmapFramebuffer creates an unallocated CPU framebuffer.
func NewPixmapFramebuffer() *PixmapFramebuffer {
	return &PixmapFramebuffer{}
}

// Allocate replaces the image with a new one of the given size.
// The contents are not preserved.
func (p *PixmapFramebuffer) Allocate(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	p.img = image.NewRGBA(image.Rect(0, 0, width, height))
	p.id = NextTextureID()
	return nil
}

// Texture returns the ID of the current image.
func (p *PixmapFramebuffer) Texture() TextureID {
	return p.id
}

// Begin clears the image and returns the framebuffer as the frame.
func (p *PixmapFramebuffer) Begin(clear color.RGBA) (Frame, error) {
	if p.img == nil {
		return nil, ErrNotInitialized
	}
	p.Clear(clear)
	return p, nil
}

// End is a no-op for CPU frames.
func (p *PixmapFramebuffer) End(Frame) error {
	return nil
}

// Release drops the image.
func (p *PixmapFramebuffer) Release() {
	p.img = nil
	p.id = NoTexture
}

// Width returns the image width in pixels.
func (p *PixmapFramebuffer) Width() int {
	if p.img == nil {
		return 0
	}
	return p.img.Bounds().Dx()
}

// Height returns the image height in pixels.
func (p *PixmapFramebuffer) Height() int {
	if p.img == nil {
		return 0
	}
	return p.img.Bounds().Dy()
}

// Format returns the pixel format (RGBA8).
func (p *PixmapFramebuffer) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Image returns the underlying *image.RGBA, nil before Allocate.
// The returned image shares memory with the framebuffer.
func (p *PixmapFramebuffer) Image() *image.RGBA {
	return p.img
}

// Pixels returns direct access to the pixel data.
func (p *PixmapFramebuffer) Pixels() []byte {
	if p.img == nil {
		return nil
	}
	return p.img.Pix
}

// Stride returns the number of bytes per row.
func (p *PixmapFramebuffer) Stride() int {
	if p.img == nil {
		return 0
	}
	return p.img.Stride
}

// Clear fills the entire image with c.
func (p *PixmapFramebuffer) Clear(c color.RGBA) {
	if p.img == nil {
		return
	}
	draw.Draw(p.img, p.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

var (
	_ Framebuffer = (*PixmapFramebuffer)(nil)
	_ PixelFrame  = (*PixmapFramebuffer)(nil)
)
