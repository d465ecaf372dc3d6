// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hostview

import "github.com/gogpu/gpucontext"

// RenderOptions controls where the chart is drawn in the host window.
type RenderOptions struct {
	// X, Y is the position of the texture's top-left corner.
	X, Y float32
}

// DefaultRenderOptions draws at the window origin.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{}
}

// RenderTo flushes and draws the chart at (0, 0) of a gogpu window.
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    view.RenderTo(dc.AsTextureDrawer())
//	})
func (v *View) RenderTo(dc gpucontext.TextureDrawer) error {
	return v.RenderToHost(FromTextureDrawer(dc), DefaultRenderOptions())
}

// RenderToHost flushes and draws the chart with options.
func (v *View) RenderToHost(host Host, opts RenderOptions) error {
	if v.closed {
		return ErrClosed
	}
	tex, err := v.Flush(host)
	if err != nil {
		return err
	}
	return host.DrawTexture(tex, opts.X, opts.Y)
}

// RenderToPosition is RenderToHost at (x, y).
func (v *View) RenderToPosition(host Host, x, y float32) error {
	return v.RenderToHost(host, RenderOptions{X: x, Y: y})
}
