// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

var (
	// ErrNilFramebuffer is returned by Init when no backend surface exists,
	// typically because the host has no GPU context.
	ErrNilFramebuffer = errors.New("render: no framebuffer")

	// ErrAlreadyInitialized is returned by a second Init.
	ErrAlreadyInitialized = errors.New("render: target already initialized")

	// ErrNotInitialized is returned by operations that need Init first.
	ErrNotInitialized = errors.New("render: target not initialized")

	// ErrInvalidDimensions is returned for non-positive sizes.
	ErrInvalidDimensions = errors.New("render: invalid dimensions")

	// ErrDestroyed is returned by any operation after Destroy.
	ErrDestroyed = errors.New("render: target destroyed")

	// ErrNotBound is returned by Unbind without a matching Bind.
	ErrNotBound = errors.New("render: target not bound")
)
