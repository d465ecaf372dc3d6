package loader

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zappa672/RLIDisplay/internal/parallel"
	"github.com/zappa672/RLIDisplay/s52"
)

// Manager loads the charts under a directory in the background and keeps
// them by name. Charts are immutable once published, so a chart returned by
// Chart may be handed to the compositor from any goroutine.
type Manager struct {
	refs    s52.References
	workers int

	mu     sync.RWMutex
	charts map[string]*s52.Dataset
	errs   []error

	available chan string
	done      chan struct{}
	started   bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithWorkers sets how many charts load at once. With one worker charts
// are announced in path order. The default is GOMAXPROCS.
func WithWorkers(n int) ManagerOption {
	return func(m *Manager) { m.workers = n }
}

// NewManager returns a manager sharing refs with every chart it loads.
// A nil refs selects s52.DefaultPalette.
func NewManager(refs s52.References, opts ...ManagerOption) *Manager {
	if refs == nil {
		refs = s52.DefaultPalette()
	}
	m := &Manager{
		refs:      refs,
		charts:    make(map[string]*s52.Dataset),
		available: make(chan string, 16),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start scans root and loads each chart on a background goroutine. Names
// are sent on Available as charts finish and the caller must drain it; the
// channel is closed when the scan is complete or ctx is cancelled. Start may
// be called once.
func (m *Manager) Start(ctx context.Context, root string) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return fmt.Errorf("loader: manager already started")
	}
	m.started = true
	m.mu.Unlock()

	paths, err := Discover(root)
	if err != nil {
		close(m.available)
		close(m.done)
		return err
	}
	if len(paths) == 0 {
		close(m.available)
		close(m.done)
		return fmt.Errorf("%w: %s", ErrNoCharts, root)
	}

	go m.run(ctx, paths)
	return nil
}

type loaded struct {
	path  string
	chart *s52.Dataset
	err   error
}

func (m *Manager) run(ctx context.Context, paths []string) {
	defer close(m.done)
	defer close(m.available)

	results := make(chan loaded)
	pool := parallel.NewWorkerPool(m.workers)
	go func() {
		defer close(results)
		defer pool.Close()
		for _, p := range paths {
			err := pool.Submit(ctx, func() {
				chart, err := Load(p)
				select {
				case results <- loaded{path: p, chart: chart, err: err}:
				case <-ctx.Done():
				}
			})
			if err != nil {
				return
			}
		}
	}()

	for r := range results {
		if r.err != nil {
			logger().Warn("loader: chart load failed", "path", r.path, "err", r.err)
			m.mu.Lock()
			m.errs = append(m.errs, r.err)
			m.mu.Unlock()
			continue
		}

		m.Add(r.chart)
		logger().Info("loader: chart available", "chart", r.chart.Name(), "path", r.path)

		select {
		case m.available <- r.chart.Name():
		case <-ctx.Done():
			return
		}
	}
}

// Available announces chart names as they finish loading.
func (m *Manager) Available() <-chan string { return m.available }

// Wait blocks until the background load ends or ctx is done.
func (m *Manager) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Add publishes an already built chart under its name.
func (m *Manager) Add(chart *s52.Dataset) {
	m.mu.Lock()
	m.charts[chart.Name()] = chart
	m.mu.Unlock()
}

// Chart returns a loaded chart.
func (m *Manager) Chart(name string) (*s52.Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.charts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChart, name)
	}
	return c, nil
}

// Names returns the loaded chart names in sorted order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.charts))
	for n := range m.charts {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Errors returns the load failures seen so far.
func (m *Manager) Errors() []error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]error, len(m.errs))
	copy(out, m.errs)
	return out
}

// Refs returns the symbology references shared by all charts.
func (m *Manager) Refs() s52.References { return m.refs }
