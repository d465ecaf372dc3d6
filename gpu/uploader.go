// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/zappa672/RLIDisplay/assets"
	"github.com/zappa672/RLIDisplay/render"
)

type uploadedTexture struct {
	tex  hal.Texture
	view hal.TextureView
}

// HALUploader creates sampled textures for atlas images.
type HALUploader struct {
	dev      Device
	textures map[render.TextureID]uploadedTexture
}

// NewHALUploader creates an uploader on dev.
func NewHALUploader(dev Device) *HALUploader {
	return &HALUploader{dev: dev, textures: make(map[render.TextureID]uploadedTexture)}
}

// Upload creates a texture of the image size and writes the pixels.
func (u *HALUploader) Upload(name string, img *image.RGBA) (render.TextureID, error) {
	b := img.Bounds()
	if b.Empty() {
		return render.NoTexture, fmt.Errorf("gpu: upload %s: %w", name, render.ErrInvalidDimensions)
	}
	w, h := uint32(b.Dx()), uint32(b.Dy())
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	tex, err := u.dev.Device.CreateTexture(&hal.TextureDescriptor{
		Label:         label(name),
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return render.NoTexture, fmt.Errorf("gpu: create texture %s: %w", name, err)
	}
	view, err := u.dev.Device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label(name + "_view"),
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		u.dev.Device.DestroyTexture(tex)
		return render.NoTexture, fmt.Errorf("gpu: create texture view %s: %w", name, err)
	}

	if err := u.dev.Queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		packed(img),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: w * 4, RowsPerImage: h},
		&size,
	); err != nil {
		u.dev.Device.DestroyTextureView(view)
		u.dev.Device.DestroyTexture(tex)
		return render.NoTexture, fmt.Errorf("gpu: write texture %s: %w", name, err)
	}

	id := render.NextTextureID()
	u.textures[id] = uploadedTexture{tex: tex, view: view}
	return id, nil
}

// Free destroys the texture. Unknown IDs are ignored.
func (u *HALUploader) Free(id render.TextureID) {
	t, ok := u.textures[id]
	if !ok {
		return
	}
	u.dev.Device.DestroyTextureView(t.view)
	u.dev.Device.DestroyTexture(t.tex)
	delete(u.textures, id)
}

// View returns the sampled view of an uploaded texture.
func (u *HALUploader) View(id render.TextureID) (hal.TextureView, bool) {
	t, ok := u.textures[id]
	return t.view, ok
}

// Len returns the number of live textures.
func (u *HALUploader) Len() int {
	return len(u.textures)
}

// packed returns the pixels of img without row padding.
func packed(img *image.RGBA) []byte {
	b := img.Bounds()
	row := b.Dx() * 4
	if img.Stride == row && img.Rect.Min == (image.Point{}) {
		return img.Pix[:row*b.Dy()]
	}
	out := make([]byte, 0, row*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		out = append(out, img.Pix[off:off+row]...)
	}
	return out
}

var _ assets.Uploader = (*HALUploader)(nil)
