// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// Headless is a device handle over the noop HAL adapter. It records and
// submits real command buffers without a window or driver, so the GPU
// backend can run in tools and tests.
type Headless struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
}

// OpenHeadless opens the first noop adapter.
func OpenHeadless() (*Headless, error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no adapter", ErrNoDevice)
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open adapter: %w", err)
	}
	return &Headless{instance: instance, device: open.Device, queue: open.Queue}, nil
}

// Close destroys the device and the instance.
func (h *Headless) Close() {
	if h.device != nil {
		h.device.Destroy()
		h.device = nil
	}
	if h.instance != nil {
		h.instance.Destroy()
		h.instance = nil
	}
}

func (h *Headless) Device() gpucontext.Device {
	if h.device == nil {
		return nil
	}
	return headlessDevice{h}
}

func (h *Headless) Queue() gpucontext.Queue               { return nil }
func (h *Headless) Adapter() gpucontext.Adapter           { return nil }
func (h *Headless) SurfaceFormat() gputypes.TextureFormat { return TextureFormat }
func (h *Headless) HalDevice() any                        { return h.device }
func (h *Headless) HalQueue() any                         { return h.queue }

// AdapterInfo names the noop adapter as a software device.
func (h *Headless) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "noop", Type: gpucontext.AdapterTypeSoftware}
}

// headlessDevice satisfies gpucontext.Device; the HAL device is owned by
// Headless and destroyed by Close.
type headlessDevice struct{ h *Headless }

func (headlessDevice) Poll(bool) {}
func (headlessDevice) Destroy()  {}
