// Package s52 defines the chart and symbology collaborators consumed by the
// compositor: geometry classes, per-class layer data, the Chart contract, the
// References (colour tables and texture atlases) contract, and simple
// in-memory implementations of both.
//
// Geometry is expressed with github.com/paulmach/orb in chart coordinates
// (longitude, latitude). Colour references are S-52 colour tokens such as
// "DEPDW" or "NODTA".
package s52
