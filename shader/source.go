package shader

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"

	"github.com/zappa672/RLIDisplay/s52"
)

// Embedded WGSL sources, one per geometry class.

//go:embed wgsl/area.wgsl
var areaSource string

//go:embed wgsl/line.wgsl
var lineSource string

//go:embed wgsl/mark.wgsl
var markSource string

//go:embed wgsl/text.wgsl
var textSource string

//go:embed wgsl/sounding.wgsl
var soundingSource string

// Entry points shared by every class program.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Source returns the WGSL source of the class program.
func Source(class s52.Class) (string, error) {
	switch class {
	case s52.ClassArea:
		return areaSource, nil
	case s52.ClassLine:
		return lineSource, nil
	case s52.ClassMark:
		return markSource, nil
	case s52.ClassText:
		return textSource, nil
	case s52.ClassSounding:
		return soundingSource, nil
	default:
		return "", unknownClass(class)
	}
}

// CompileSPIRV compiles WGSL source to SPIR-V words.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	spirv, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}
	if len(spirv)%4 != 0 {
		return nil, fmt.Errorf("shader: compile: SPIR-V length %d is not word aligned", len(spirv))
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirv)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return code, nil
}
