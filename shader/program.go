package shader

import (
	"errors"
	"fmt"

	"github.com/zappa672/RLIDisplay/s52"
)

// ErrUnknownClass is returned for a class without a program.
var ErrUnknownClass = errors.New("shader: no program for class")

// ErrClosed is returned by a library after Close.
var ErrClosed = errors.New("shader: library closed")

// Program is a compiled shader program for one geometry class.
type Program interface {
	// Class returns the geometry class the program draws.
	Class() s52.Class

	// Bind makes the program current.
	Bind() error

	// Release unbinds the program.
	Release()
}

// Library owns the programs of every class.
type Library interface {
	// Program returns the program for class.
	Program(class s52.Class) (Program, error)

	// Close destroys every program. Programs must not be used afterwards.
	Close()
}

func unknownClass(c s52.Class) error {
	return fmt.Errorf("%w %s", ErrUnknownClass, c)
}
