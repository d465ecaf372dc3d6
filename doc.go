// Package rlidisplay renders nautical chart layers into a single offscreen
// texture for a marine navigation display.
//
// # Overview
//
// A chart is a set of named layers split into five geometry classes: area,
// line, mark, text and soundings. The compositor keeps one draw engine per
// (class, layer name), fed from whatever chart is active, and draws them into
// a render target whose colour texture the host samples every frame.
//
// The per-layer display configuration (visibility, order, depth thresholds)
// is persisted by the settings store and survives chart reloads.
//
// # Packages
//
//   - s52: chart and symbology collaborator contracts, in-memory chart
//   - s52/loader: shapefile and GeoJSON chart loaders, background manager
//   - settings: persisted layer display settings and UI grid contract
//   - render: offscreen render target management
//   - shader: per-class shader programs (WGSL, compiled with naga)
//   - assets: shared texture atlases keyed by colour scheme
//   - engine: per-class draw engine contract and name-keyed registries
//   - engine/soft: CPU reference engines
//   - gpu: wgpu/hal backed render target and shader library
//   - compositor: the draw orchestrator
//   - integration/hostview: presents the composited texture on a host surface
//   - config: YAML configuration of the tools
//   - cmd/chartview: headless renderer and settings editor
//
// # Threading
//
// Everything except the chart loader runs on the goroutine that owns the GPU
// context and is not safe for concurrent use. The loader's Manager and the
// shared label layout cache are.
//
// # Logging
//
// Logging is silent by default. Call [SetLogger] to enable it.
package rlidisplay
