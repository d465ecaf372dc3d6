// Package compositor turns a chart into a composited raster image.
//
// A Compositor owns the render target, the layer settings store, the shared
// shader programs and atlases, and one engine registry per geometry class.
// Classes composite in a fixed macro order: areas, lines, marks, text (off
// unless WithTextPass is given) and soundings. Within a class, layers draw in
// the store's display order, skipping hidden layers and layers the loaded
// charts never populated.
//
// The Compositor is single-threaded: every method must be called on the
// thread that owns the graphics context. A chart swap runs to completion
// before any other call returns control, and Draw is a no-op while a swap is
// in progress.
//
// Typical use:
//
//	store := settings.Open("res/chart_display_settings.xml")
//	c := compositor.New(store, compositor.SoftwareBackend())
//	if err := c.Init(800, 600, refs); err != nil { ... }
//	if err := c.SetChart(chart, refs); err != nil { ... }
//	c.Update(center, radius, angle) // per frame
//	tex := c.TextureID()
//	defer c.Close()
package compositor
