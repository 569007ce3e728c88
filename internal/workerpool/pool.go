// Package workerpool runs bounded batches of independent tasks.
package workerpool

import (
	"context"
	"errors"
	"sync"

	"campusmess/internal/logger"
)

// Task is one unit of work run by the pool.
type Task func(ctx context.Context) error

// Pool fans tasks out to a fixed number of workers.
type Pool struct {
	workers int
	queue   chan Task
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc

	closeMu sync.RWMutex
	closed  bool

	errMu sync.Mutex
	errs  []error
}

// New creates a pool bound to ctx. Workers start immediately.
func New(ctx context.Context, workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	poolCtx, cancel := context.WithCancel(ctx)
	p := &Pool{
		workers: workers,
		queue:   make(chan Task, workers*2),
		ctx:     poolCtx,
		cancel:  cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
	return p
}

// Submit queues a task. It returns false once the pool is cancelled or closed;
// a refused task is not run and not counted by Wait.
func (p *Pool) Submit(task Task) bool {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed || p.ctx.Err() != nil {
		return false
	}
	select {
	case p.queue <- task:
		return true
	case <-p.ctx.Done():
		return false
	}
}

// Wait closes the queue, waits for the workers and returns every task error joined.
func (p *Pool) Wait() error {
	p.closeMu.Lock()
	if !p.closed {
		close(p.queue)
		p.closed = true
	}
	p.closeMu.Unlock()

	p.wg.Wait()
	p.cancel()

	p.errMu.Lock()
	defer p.errMu.Unlock()
	return errors.Join(p.errs...)
}

// Shutdown cancels pending work and waits.
func (p *Pool) Shutdown() error {
	p.cancel()
	return p.Wait()
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	log := logger.FromContext(p.ctx)

	for task := range p.queue {
		// a cancelled pool keeps draining so Submit never blocks,
		// and every skipped task is reported with the context error
		if err := p.ctx.Err(); err != nil {
			p.record(err)
			continue
		}
		if err := task(p.ctx); err != nil {
			log.Debug().Err(err).Int("worker", id).Msg("task failed")
			p.record(err)
		}
	}
}

func (p *Pool) record(err error) {
	p.errMu.Lock()
	p.errs = append(p.errs, err)
	p.errMu.Unlock()
}
