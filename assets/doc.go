// Package assets builds the texture atlases shared by every layer engine.
//
// One pattern, line-style and symbol atlas exists per colour scheme of the
// symbology reference; the glyph atlas is scheme independent. Atlases are
// converted to RGBA once and uploaded through an Uploader, so the same Set
// serves the software and the GPU backends.
package assets
