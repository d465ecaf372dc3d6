package shader

import (
	"fmt"

	"github.com/zappa672/RLIDisplay/s52"
)

// CPUProgram is the software stand-in for a class program. It tracks the
// bind state so misuse shows up in tests.
type CPUProgram struct {
	class    s52.Class
	bound    bool
	binds    int
	releases int
}

// Class returns the program's class.
func (p *CPUProgram) Class() s52.Class { return p.class }

// Bind marks the program current. Binding a bound program fails.
func (p *CPUProgram) Bind() error {
	if p.bound {
		return fmt.Errorf("shader: %s program already bound", p.class)
	}
	p.bound = true
	p.binds++
	return nil
}

// Release clears the bound mark.
func (p *CPUProgram) Release() {
	if p.bound {
		p.bound = false
		p.releases++
	}
}

// Bound reports whether the program is current.
func (p *CPUProgram) Bound() bool { return p.bound }

// Binds returns how many times the program was bound.
func (p *CPUProgram) Binds() int { return p.binds }

// Releases returns how many times the program was released.
func (p *CPUProgram) Releases() int { return p.releases }

// CPULibrary serves CPUPrograms for every class.
type CPULibrary struct {
	programs map[s52.Class]*CPUProgram
	closed   bool
}

// NewCPULibrary creates programs for all classes in s52.Classes.
func NewCPULibrary() *CPULibrary {
	l := &CPULibrary{programs: make(map[s52.Class]*CPUProgram, len(s52.Classes))}
	for _, c := range s52.Classes {
		l.programs[c] = &CPUProgram{class: c}
	}
	return l
}

// Program returns the program for class.
func (l *CPULibrary) Program(class s52.Class) (Program, error) {
	if l.closed {
		return nil, ErrClosed
	}
	p, ok := l.programs[class]
	if !ok {
		return nil, unknownClass(class)
	}
	return p, nil
}

// CPUProgram returns the concrete program for class, nil if unknown.
func (l *CPULibrary) CPUProgram(class s52.Class) *CPUProgram {
	return l.programs[class]
}

// Close marks the library closed.
func (l *CPULibrary) Close() {
	l.closed = true
}

var _ Library = (*CPULibrary)(nil)
