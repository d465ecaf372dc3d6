package s52

import "fmt"

// Class is a rendering category. Each class has its own shader program and
// its own per-layer engine registry.
type Class int

const (
	ClassArea Class = iota
	ClassLine
	ClassMark
	ClassText
	ClassSounding
)

// Classes lists every class in macro (composite) order.
var Classes = []Class{ClassArea, ClassLine, ClassMark, ClassText, ClassSounding}

// String returns the lower-case class name.
func (c Class) String() string {
	switch c {
	case ClassArea:
		return "area"
	case ClassLine:
		return "line"
	case ClassMark:
		return "mark"
	case ClassText:
		return "text"
	case ClassSounding:
		return "sounding"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// ParseClass is the inverse of String.
func ParseClass(s string) (Class, error) {
	for _, c := range Classes {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("s52: unknown geometry class %q", s)
}
