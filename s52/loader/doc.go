// Package loader reads charts from disk into s52.Dataset values and keeps
// them available to the compositor.
//
// Two vector formats are understood: ESRI shapefiles (one .shp per layer,
// or a LAYER attribute per record) and GeoJSON feature collections (a
// LAYER property per feature). Features are sorted into geometry classes
// by their geometry and properties:
//
//   - polygons become areas (COLOUR, PATTERN; depth areas are coloured by
//     DRVAL1 when no colour is given)
//   - lines become line work (COLOUR, STYLE, WIDTH)
//   - points of the SOUNDG layer become soundings (DEPTH, VALSOU or Z)
//   - other points become marks when they carry a SYMBOL and labels when
//     they carry TEXT or OBJNAM; a point with neither gets a placeholder
//     symbol
//
// A Manager loads every chart below a directory in the background and
// announces each one on a channel, leaving the compositor to pick it up on
// its own thread.
package loader
