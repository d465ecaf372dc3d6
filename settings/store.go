package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"

	rlidisplay "github.com/zappa672/RLIDisplay"
)

// Store owns the table of per-layer display settings plus the depth
// thresholds and the soundings flag, backed by one file.
//
// Store is not safe for concurrent use; it is mutated from the UI thread that
// also drives the compositor.
type Store struct {
	path  string
	codec codec

	layers map[string]*LayerSetting
	order  []string

	depths    DepthThresholds
	soundings bool

	observers []func(LayoutEvent)
	closed    bool
}

// Option configures a Store.
type Option func(*Store)

// WithFormat overrides the format picked from the file extension.
func WithFormat(f Format) Option {
	return func(s *Store) {
		s.codec = codecFor(f)
	}
}

// Open creates a Store backed by path and loads it immediately. Open never
// fails: an unreadable or malformed file gives an empty store.
func Open(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		codec:  codecFor(FormatForPath(path)),
		layers: make(map[string]*LayerSetting),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory state with the content of the backing file and
// rebuilds the render order by sorting the layers on Order. Equal orders keep
// their document position. When a name appears twice the later record wins,
// at the later position.
func (s *Store) Load() {
	s.reset()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			rlidisplay.Logger().Info("settings: no settings file, using defaults", "path", s.path)
		} else {
			rlidisplay.Logger().Warn("settings: cannot read settings file", "path", s.path, "err", err)
		}
		return
	}

	doc, err := s.codec.decode(data)
	if err != nil {
		rlidisplay.Logger().Warn("settings: malformed settings file, using defaults", "path", s.path, "err", err)
		return
	}

	s.soundings = doc.SoundingsVisible
	s.depths = doc.Depths

	records := make([]LayerSetting, 0, len(doc.Layers))
	position := make(map[string]int, len(doc.Layers))
	for _, l := range doc.Layers {
		if i, dup := position[l.Name]; dup {
			records = slices.Delete(records, i, i+1)
			for name, p := range position {
				if p > i {
					position[name] = p - 1
				}
			}
		}
		position[l.Name] = len(records)
		records = append(records, l)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Order < records[j].Order
	})

	s.order = make([]string, 0, len(records))
	for i := range records {
		l := records[i]
		s.layers[l.Name] = &l
		s.order = append(s.order, l.Name)
	}

	rlidisplay.Logger().Debug("settings: loaded", "path", s.path, "layers", len(s.order))
}

func (s *Store) reset() {
	s.layers = make(map[string]*LayerSetting)
	s.order = nil
	s.depths = DepthThresholds{}
	s.soundings = false
}

// Save writes the store to its backing file. Order is rewritten as the 1-based
// position in the render order. Layers known only through SetLayerVisibility
// are appended after the ordered ones, sorted by name, so that they join the
// render order on the next load.
func (s *Store) Save() error {
	doc := document{
		SoundingsVisible: s.soundings,
		Depths:           s.depths,
		Layers:           make([]LayerSetting, 0, len(s.layers)),
	}

	inOrder := make(map[string]struct{}, len(s.order))
	for _, name := range s.order {
		inOrder[name] = struct{}{}
		l := *s.layers[name]
		l.Order = len(doc.Layers) + 1
		doc.Layers = append(doc.Layers, l)
	}

	var extra []string
	for name := range s.layers {
		if _, ok := inOrder[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		l := *s.layers[name]
		l.Order = len(doc.Layers) + 1
		doc.Layers = append(doc.Layers, l)
	}

	data, err := s.codec.encode(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("settings: create directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", s.path, err)
	}
	return nil
}

// Close saves the store. Only the first call writes; later calls return nil.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.Save(); err != nil {
		rlidisplay.Logger().Warn("settings: save on close failed", "path", s.path, "err", err)
		return err
	}
	return nil
}

// LayersDisplayOrder returns a copy of the full render order. Visibility is
// not filtered here.
func (s *Store) LayersDisplayOrder() []string {
	return slices.Clone(s.order)
}

// Layer returns a copy of the named layer's settings.
func (s *Store) Layer(name string) (LayerSetting, bool) {
	l, ok := s.layers[name]
	if !ok {
		return LayerSetting{}, false
	}
	return *l, true
}

// Len returns the number of layers in the render order.
func (s *Store) Len() int {
	return len(s.order)
}

// IsLayerVisible reports the visibility of a layer; unknown names are hidden.
func (s *Store) IsLayerVisible(name string) bool {
	if l, ok := s.layers[name]; ok {
		return l.Visible
	}
	return false
}

// SetLayerVisibility sets the visibility of a layer, creating a default record
// for names the store has not seen. New records do not enter the render order
// until the store is saved and loaded again.
func (s *Store) SetLayerVisibility(name string, visible bool) {
	l, ok := s.layers[name]
	if !ok {
		l = &LayerSetting{Name: name}
		s.layers[name] = l
	}
	l.Visible = visible
}

// SwapOrders exchanges two positions of the render order. Out-of-range
// indices leave the order untouched. Subscribers are notified either way.
func (s *Store) SwapOrders(i, j int) {
	s.notify(LayoutAboutToChange)
	if i >= 0 && j >= 0 && i < len(s.order) && j < len(s.order) {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}
	s.notify(LayoutChanged)
}

// Depths returns the depth thresholds.
func (s *Store) Depths() DepthThresholds { return s.depths }

// SetDepths replaces all three depth thresholds.
func (s *Store) SetDepths(d DepthThresholds) { s.depths = d }

// ShallowDepth returns the shallow contour depth, in metres.
func (s *Store) ShallowDepth() float64 { return s.depths.Shallow }

// SafetyDepth returns the safety depth soundings are coloured against.
func (s *Store) SafetyDepth() float64 { return s.depths.Safety }

// DeepDepth returns the deep contour depth, in metres.
func (s *Store) DeepDepth() float64 { return s.depths.Deep }

// SetShallowDepth sets the shallow contour depth.
func (s *Store) SetShallowDepth(v float64) { s.depths.Shallow = v }

// SetSafetyDepth sets the safety depth.
func (s *Store) SetSafetyDepth(v float64) { s.depths.Safety = v }

// SetDeepDepth sets the deep contour depth.
func (s *Store) SetDeepDepth(v float64) { s.depths.Deep = v }

// SoundingsVisible reports whether the soundings pass is drawn.
func (s *Store) SoundingsVisible() bool { return s.soundings }

// SetSoundingsVisible toggles the soundings pass.
func (s *Store) SetSoundingsVisible(v bool) { s.soundings = v }
