// Package parallel runs independent tasks on a fixed set of goroutines.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("parallel: pool closed")

// WorkerPool executes submitted functions on a fixed number of workers.
// Tasks are started in submission order.
//
// WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queue   chan func()
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool starts a pool. If workers is 0 or negative, GOMAXPROCS is
// used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{workers: workers, queue: make(chan func(), workers*2)}
	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for fn := range p.queue {
		fn()
	}
}

// Submit queues fn, blocking while the queue is full. It fails when ctx is
// done first or the pool is closed.
func (p *WorkerPool) Submit(ctx context.Context, fn func()) error {
	if fn == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.queue <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ExecuteAll runs every task and waits for them.
func (p *WorkerPool) ExecuteAll(ctx context.Context, work []func()) error {
	var done sync.WaitGroup
	for _, fn := range work {
		done.Add(1)
		if err := p.Submit(ctx, func() {
			defer done.Done()
			fn()
		}); err != nil {
			done.Done()
			done.Wait()
			return err
		}
	}
	done.Wait()
	return nil
}

// Close stops accepting work and waits for queued tasks to finish. It is
// safe to call more than once.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int { return p.workers }
