// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

// Package gpu is the wgpu/hal backend of the chart compositor.
//
// It provides a render.Framebuffer backed by an offscreen colour texture
// (HALFramebuffer), a shader.Library that compiles one shader module per
// geometry class (HALLibrary) and an assets.Uploader that moves atlas images
// into sampled textures (HALUploader).
//
// All three borrow the device and queue of the host. The host's
// render.DeviceHandle must also expose the HAL objects:
//
//	type halProvider interface {
//	    HalDevice() any // hal.Device
//	    HalQueue() any  // hal.Queue
//	}
//
// Build with the nogpu tag to exclude the package.
package gpu
