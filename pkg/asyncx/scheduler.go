package asyncx

import (
	"sync"

	"github.com/eapache/queue"
)

// Scheduler runs submitted tasks asynchronously. Implementations must run
// every submitted task exactly once.
type Scheduler interface {
	Submit(task func())
}

// GoScheduler runs each task on its own goroutine.
type GoScheduler struct{}

// Submit starts task in a new goroutine.
func (GoScheduler) Submit(task func()) {
	go task()
}

// ─── Worker Pool ──────────────────────────────────────────────────────────────

// Pool runs tasks on a fixed number of worker goroutines. Tasks that arrive
// while all workers are busy wait in an unbounded FIFO backlog, so Submit
// never blocks.
//
// Use this instead of GoScheduler when the number of in-flight calls must not
// overwhelm downstream resources such as connection limits or rate-limited APIs.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	backlog *queue.Queue
	closed  bool
	wg      sync.WaitGroup
}

// NewPool starts a pool with the given number of workers (at least one).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	p := &Pool{backlog: queue.New()}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

// Submit enqueues task. After Close, tasks run on their own goroutine
// instead of being dropped.
func (p *Pool) Submit(task func()) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		go task()
		return
	}
	p.backlog.Add(task)
	p.mu.Unlock()
	p.cond.Signal()
}

// Pending returns the number of tasks waiting for a worker.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backlog.Length()
}

// Close stops accepting work into the backlog and waits for the workers to
// drain it.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for p.backlog.Length() == 0 && !p.closed {
			p.cond.Wait()
		}
		if p.backlog.Length() == 0 {
			p.mu.Unlock()
			return
		}
		task := p.backlog.Remove().(func())
		p.mu.Unlock()

		task()
	}
}
