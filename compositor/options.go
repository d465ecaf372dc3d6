package compositor

import (
	"image/color"
	"time"
)

// DefaultRedrawInterval is the minimum time between composites triggered by
// Update.
const DefaultRedrawInterval = time.Second

// DefaultBackground is the clear colour before a chart provides one.
var DefaultBackground = color.RGBA{R: 127, G: 127, B: 127, A: 255}

// Option configures a Compositor.
type Option func(*Compositor)

// WithClock replaces time.Now as the throttle clock.
func WithClock(now func() time.Time) Option {
	return func(c *Compositor) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRedrawInterval sets the Update throttle interval.
func WithRedrawInterval(d time.Duration) Option {
	return func(c *Compositor) {
		if d >= 0 {
			c.interval = d
		}
	}
}

// WithTextPass enables or disables the text pass.
func WithTextPass(enabled bool) Option {
	return func(c *Compositor) { c.textPass = enabled }
}

// WithBackground sets the clear colour used until a chart is set.
func WithBackground(bg color.RGBA) Option {
	return func(c *Compositor) {
		c.defaultBackground = bg
		c.background = bg
	}
}
