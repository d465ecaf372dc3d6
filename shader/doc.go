// Package shader holds the per-class shader programs of the chart compositor.
//
// Every geometry class draws with its own program. The compositor binds a
// class's program once per pass and releases it after the last layer of the
// class. Programs come from a Library: package gpu builds one from HAL shader
// modules, CPULibrary serves the software backend.
package shader
