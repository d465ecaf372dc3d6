// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render manages the offscreen surface the chart is composited into.
//
// The surface is exposed to the host as a single texture. A Target owns one
// Framebuffer, the backend object that actually holds the colour texture, and
// enforces its lifecycle: allocate once, reallocate on resize, bind and clear
// for every composite, release once at teardown.
//
// # Key Principle
//
// The package RECEIVES a GPU device from the host application, it does NOT
// create its own. GPU framebuffers are built in package gpu from a
// DeviceHandle; PixmapFramebuffer is the CPU implementation used for headless
// rendering and tests.
//
// # Usage
//
//	target := render.NewTarget(render.NewPixmapFramebuffer())
//	if err := target.Init(800, 600); err != nil {
//	    return err
//	}
//	frame, err := target.Bind(background)
//	// ... draw into frame ...
//	err = target.Unbind()
//	id := target.TextureID() // re-query after every Resize
//
// Texture identity changes when the surface is reallocated, so hosts must
// read TextureID each frame instead of caching it.
package render
