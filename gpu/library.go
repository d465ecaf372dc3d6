// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	rlidisplay "github.com/zappa672/RLIDisplay"
	"github.com/zappa672/RLIDisplay/s52"
	"github.com/zappa672/RLIDisplay/shader"
)

// LibraryOption configures a HALLibrary.
type LibraryOption func(*HALLibrary)

// WithSPIRV makes the library compile WGSL to SPIR-V with naga before
// creating shader modules, for backends that do not accept WGSL.
func WithSPIRV() LibraryOption {
	return func(l *HALLibrary) { l.spirv = true }
}

// HALLibrary holds one shader module per geometry class.
type HALLibrary struct {
	dev      Device
	spirv    bool
	programs map[s52.Class]*HALProgram
	closed   bool
}

// NewHALLibrary creates the shader modules of every class. Modules created
// before a failure are destroyed.
func NewHALLibrary(dev Device, opts ...LibraryOption) (*HALLibrary, error) {
	l := &HALLibrary{dev: dev, programs: make(map[s52.Class]*HALProgram, len(s52.Classes))}
	for _, opt := range opts {
		opt(l)
	}
	for _, c := range s52.Classes {
		module, err := l.createModule(c)
		if err != nil {
			l.Close()
			return nil, err
		}
		l.programs[c] = &HALProgram{class: c, module: module}
	}
	rlidisplay.Logger().Debug("gpu: shader library ready", "programs", len(l.programs), "spirv", l.spirv)
	return l, nil
}

func (l *HALLibrary) createModule(c s52.Class) (hal.ShaderModule, error) {
	src, err := shader.Source(c)
	if err != nil {
		return nil, err
	}
	var source hal.ShaderSource
	if l.spirv {
		code, err := shader.CompileSPIRV(src)
		if err != nil {
			return nil, fmt.Errorf("gpu: %s program: %w", c, err)
		}
		source = hal.ShaderSource{SPIRV: code}
	} else {
		source = hal.ShaderSource{WGSL: src}
	}
	module, err := l.dev.Device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label(c.String() + "_shader"),
		Source: source,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s shader module: %w", c, err)
	}
	return module, nil
}

// Program returns the program of class.
func (l *HALLibrary) Program(class s52.Class) (shader.Program, error) {
	if l.closed {
		return nil, shader.ErrClosed
	}
	p, ok := l.programs[class]
	if !ok {
		return nil, fmt.Errorf("%w %s", shader.ErrUnknownClass, class)
	}
	return p, nil
}

// Close destroys every shader module.
func (l *HALLibrary) Close() {
	if l.closed {
		return
	}
	for c, p := range l.programs {
		if p.module != nil {
			l.dev.Device.DestroyShaderModule(p.module)
			p.module = nil
		}
		delete(l.programs, c)
	}
	l.closed = true
}

// HALProgram is the shader module of one class.
type HALProgram struct {
	class  s52.Class
	module hal.ShaderModule
	bound  bool
}

func (p *HALProgram) Class() s52.Class { return p.class }

// Module returns the shader module, nil after the library is closed.
func (p *HALProgram) Module() hal.ShaderModule { return p.module }

// Bind marks the program current for the draws that follow.
func (p *HALProgram) Bind() error {
	if p.module == nil {
		return shader.ErrClosed
	}
	if p.bound {
		return fmt.Errorf("gpu: %s program already bound", p.class)
	}
	p.bound = true
	return nil
}

func (p *HALProgram) Release() { p.bound = false }

// Bound reports whether the program is current.
func (p *HALProgram) Bound() bool { return p.bound }

var (
	_ shader.Library = (*HALLibrary)(nil)
	_ shader.Program = (*HALProgram)(nil)
)
