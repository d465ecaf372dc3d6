// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/draw"

	rlidisplay "github.com/zappa672/RLIDisplay"
	"github.com/zappa672/RLIDisplay/render"
)

// TextureFormat is the pixel format of the offscreen colour texture.
const TextureFormat = gputypes.TextureFormatRGBA8Unorm

// HALFramebuffer is a render.Framebuffer backed by a GPU colour texture.
//
// Begin clears the texture with a render pass. Engines that rasterise on
// the CPU draw into the frame's staging image, which End uploads into the
// texture. The texture is sampled by the host.
type HALFramebuffer struct {
	dev Device

	tex  hal.Texture
	view hal.TextureView
	id   render.TextureID

	staging *image.RGBA
	width   uint32
	height  uint32
}

// NewHALFramebuffer creates an unallocated framebuffer on dev.
func NewHALFramebuffer(dev Device) *HALFramebuffer {
	return &HALFramebuffer{dev: dev}
}

// Allocate destroys any previous texture and creates a new one.
func (f *HALFramebuffer) Allocate(width, height int) error {
	if width <= 0 || height <= 0 {
		return render.ErrInvalidDimensions
	}
	f.destroyTexture()

	tex, err := f.dev.Device.CreateTexture(&hal.TextureDescriptor{
		Label:         label("chart_color"),
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        TextureFormat,
		Usage: gputypes.TextureUsageRenderAttachment |
			gputypes.TextureUsageTextureBinding |
			gputypes.TextureUsageCopyDst |
			gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create colour texture: %w", err)
	}
	view, err := f.dev.Device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label("chart_color_view"),
		Format:        TextureFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		f.dev.Device.DestroyTexture(tex)
		return fmt.Errorf("create colour texture view: %w", err)
	}

	f.tex, f.view = tex, view
	f.width, f.height = uint32(width), uint32(height)
	f.staging = image.NewRGBA(image.Rect(0, 0, width, height))
	f.id = render.NextTextureID()
	rlidisplay.Logger().Debug("gpu: colour texture allocated", "width", width, "height", height, "texture", f.id)
	return nil
}

// Texture returns the ID of the current colour texture.
func (f *HALFramebuffer) Texture() render.TextureID {
	return f.id
}

// HALTexture returns the colour texture, nil before Allocate.
func (f *HALFramebuffer) HALTexture() hal.Texture {
	return f.tex
}

// View returns the colour texture view, nil before Allocate.
func (f *HALFramebuffer) View() hal.TextureView {
	return f.view
}

// Image returns the staging image holding the last composited frame.
func (f *HALFramebuffer) Image() *image.RGBA {
	return f.staging
}

// Begin clears the colour texture and the staging image.
func (f *HALFramebuffer) Begin(clear color.RGBA) (render.Frame, error) {
	if f.tex == nil {
		return nil, render.ErrNotInitialized
	}
	encoder, err := f.dev.Device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "chart_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("chart_clear"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "chart_clear_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       f.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearValue(clear),
		}},
	})
	rp.End()
	if err := f.dev.submit(encoder); err != nil {
		return nil, err
	}

	draw.Draw(f.staging, f.staging.Bounds(), image.NewUniform(clear), image.Point{}, draw.Src)
	return &Frame{fb: f}, nil
}

// End uploads the staging image into the colour texture.
func (f *HALFramebuffer) End(frame render.Frame) error {
	fr, ok := frame.(*Frame)
	if !ok || fr.fb != f {
		return fmt.Errorf("gpu: frame does not belong to this framebuffer")
	}
	if f.tex == nil {
		return render.ErrNotInitialized
	}
	err := f.dev.Queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: f.tex, MipLevel: 0},
		f.staging.Pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  f.width * 4,
			RowsPerImage: f.height,
		},
		&hal.Extent3D{Width: f.width, Height: f.height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("gpu: upload frame: %w", err)
	}
	return nil
}

// Release destroys the texture and its view.
func (f *HALFramebuffer) Release() {
	f.destroyTexture()
	f.staging = nil
	f.id = render.NoTexture
}

func (f *HALFramebuffer) destroyTexture() {
	if f.view != nil {
		f.dev.Device.DestroyTextureView(f.view)
		f.view = nil
	}
	if f.tex != nil {
		f.dev.Device.DestroyTexture(f.tex)
		f.tex = nil
	}
	f.width, f.height = 0, 0
}

// Frame is a bound HALFramebuffer. It is a render.PixelFrame over the
// staging image and also exposes the colour attachment.
type Frame struct {
	fb *HALFramebuffer
}

func (fr *Frame) Width() int                     { return int(fr.fb.width) }
func (fr *Frame) Height() int                    { return int(fr.fb.height) }
func (fr *Frame) Format() gputypes.TextureFormat { return TextureFormat }

// Image returns the staging image.
func (fr *Frame) Image() *image.RGBA { return fr.fb.staging }

// View returns the colour attachment.
func (fr *Frame) View() hal.TextureView { return fr.fb.view }

func clearValue(c color.RGBA) gputypes.Color {
	return gputypes.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

var (
	_ render.Framebuffer = (*HALFramebuffer)(nil)
	_ render.PixelFrame  = (*Frame)(nil)
)
