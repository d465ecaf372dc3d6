package settings

// LayerSetting is the display configuration of one named layer.
type LayerSetting struct {
	ID          int
	Name        string
	Description string
	Visible     bool

	// Order defines the render sequence within a geometry class. It is
	// rewritten densely (1..N) on every save.
	Order int
}

// DepthThresholds are the shallow, safety and deep contours in metres.
// Shallow < Safety < Deep is the caller's responsibility.
type DepthThresholds struct {
	Shallow float64
	Safety  float64
	Deep    float64
}

// document is the format-neutral content of a settings file.
type document struct {
	SoundingsVisible bool
	Depths           DepthThresholds
	Layers           []LayerSetting
}
