package workerpool

import (
	"context"
	"errors"
	"sync"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// Pool is a bounded worker pool for blocking store calls. Every submitted
// task produces exactly one completion signal, delivered back to the
// submitting goroutine; the original single-use-worker-per-call scheme is
// replaced by a fixed set of workers.
type Pool struct {
	tasks chan task

	closeOnce sync.Once
	closed    chan struct{}
	wg        sync.WaitGroup
}

type task struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error // buffered, single completion signal
}

// New starts a pool with the given number of workers. Size below 1 is
// clamped to 1.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{
		tasks:  make(chan task),
		closed: make(chan struct{}),
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.closed:
			return
		case t := <-p.tasks:
			// The task context may already be done while the task waited
			// in the queue; do not start the call in that case.
			if err := t.ctx.Err(); err != nil {
				t.done <- err
				continue
			}
			t.done <- t.fn(t.ctx)
		}
	}
}

// Do submits fn to the pool and blocks until it completes or ctx is done.
// When ctx expires first, the in-flight fn is abandoned to the worker (it
// still observes the cancelled context through its own ctx argument) and
// ctx.Err() is returned.
func (p *Pool) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	t := task{
		ctx:  ctx,
		fn:   fn,
		done: make(chan error, 1),
	}

	select {
	case p.tasks <- t:
	case <-ctx.Done():
		return ctx.Err()
	case <-p.closed:
		return ErrPoolClosed
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for the workers to stop. Tasks
// already picked up by a worker run to completion.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.closed)
	})
	p.wg.Wait()
}
