// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"
	"github.com/google/uuid"

	"github.com/zappa672/RLIDisplay/render"
)

// ErrNoDevice is returned when the device handle carries no HAL device.
var ErrNoDevice = errors.New("gpu: GPU context absent")

type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// Device is a borrowed HAL device and queue.
type Device struct {
	Device hal.Device
	Queue  hal.Queue
}

// FromHandle extracts the HAL device and queue from a host device handle.
func FromHandle(h render.DeviceHandle) (Device, error) {
	if !render.HasDevice(h) {
		return Device{}, ErrNoDevice
	}
	hp, ok := h.(halProvider)
	if !ok {
		return Device{}, fmt.Errorf("%w: provider does not expose HAL types", ErrNoDevice)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return Device{}, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return Device{}, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoDevice)
	}
	return Device{Device: device, Queue: queue}, nil
}

// label returns a unique resource label with the given prefix.
func label(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// submit ends encoding, submits the command buffer and waits for it.
func (d Device) submit(encoder hal.CommandEncoder) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.Device.FreeCommandBuffer(cmdBuf)

	if _, err := d.Queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := d.Device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	return nil
}
