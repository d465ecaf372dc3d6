// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"
	"sync/atomic"

	"github.com/gogpu/gputypes"
)

// TextureID identifies one allocation of a colour texture. Every
// (re)allocation gets a fresh ID; zero means no texture.
type TextureID uint64

// NoTexture is the ID reported before the first allocation.
const NoTexture TextureID = 0

var textureSeq atomic.Uint64

// NextTextureID returns a process-unique texture ID.
func NextTextureID() TextureID {
	return TextureID(textureSeq.Add(1))
}

// Frame is the drawing destination handed to layer engines while the target
// is bound. Backends extend it with their own access: CPU frames implement
// PixelFrame, GPU frames expose their render pass.
type Frame interface {
	// Width returns the frame width in pixels.
	Width() int

	// Height returns the frame height in pixels.
	Height() int

	// Format returns the pixel format of the colour attachment.
	Format() gputypes.TextureFormat
}

// PixelFrame is a Frame with direct CPU access to its pixels.
type PixelFrame interface {
	Frame

	// Image returns the backing image. It shares memory with the frame.
	Image() *image.RGBA
}
