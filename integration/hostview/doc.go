// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package hostview presents the composited chart in a host window.
//
// The compositor renders into its own target. A View copies the composited
// pixels into a texture owned by the host (a gogpu window, or any
// gpucontext.TextureDrawer) and draws it:
//
//	Compositor (draw) -> target pixels -> host texture -> window
//
// # Usage
//
//	view, err := hostview.New(comp, fb)
//	if err != nil { ... }
//	defer view.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    comp.Update(center, radius, angle)
//	    view.RenderTo(dc.AsTextureDrawer())
//	})
//
// # Texture lifetime
//
// The host texture is created lazily on the first render and updated in
// place when the compositor produces a new frame. After a resize the
// compositor's texture ID changes; the View then creates a new host texture
// and destroys the old one only once the new upload has completed, since
// in-flight command buffers may still sample it.
//
// # Thread Safety
//
// A View is NOT safe for concurrent use. Use it on the thread that owns the
// compositor.
package hostview
