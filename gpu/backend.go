// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"github.com/zappa672/RLIDisplay/compositor"
	"github.com/zappa672/RLIDisplay/render"
	"github.com/zappa672/RLIDisplay/shader"
)

// NewBackend returns a compositor backend allocating against the host's HAL
// device: the colour texture, the shader modules and the atlas textures
// live on the GPU, while layers rasterise through the software engines into
// the frame's staging image.
func NewBackend(h render.DeviceHandle, opts ...LibraryOption) (compositor.Backend, error) {
	dev, err := FromHandle(h)
	if err != nil {
		return compositor.Backend{}, err
	}
	return compositor.Backend{
		Device:      h,
		Framebuffer: NewHALFramebuffer(dev),
		Programs: func() (shader.Library, error) {
			return NewHALLibrary(dev, opts...)
		},
		Uploader: NewHALUploader(dev),
		Engines:  compositor.SoftwareEngines,
	}, nil
}
