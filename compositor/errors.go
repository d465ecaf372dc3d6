package compositor

import "errors"

var (
	// ErrNotInitialized is returned by SetChart before Init.
	ErrNotInitialized = errors.New("compositor: not initialized")

	// ErrAlreadyInitialized is returned by a second Init.
	ErrAlreadyInitialized = errors.New("compositor: already initialized")

	// ErrSwapInProgress is returned by SetChart called during a chart swap.
	ErrSwapInProgress = errors.New("compositor: chart swap in progress")

	// ErrNilChart is returned by SetChart for a nil chart.
	ErrNilChart = errors.New("compositor: nil chart")

	// ErrNilReferences is returned when no symbology reference is available.
	ErrNilReferences = errors.New("compositor: nil symbology reference")

	// ErrClosed is returned by Init after Close.
	ErrClosed = errors.New("compositor: closed")
)
