// Package work runs background computations for the frame loop: a fixed set
// of workers executes submitted closures, and each submission is observed
// through a handle the loop polls without ever blocking a frame.
package work

import "sync"

// DefaultWorkers is the pool size used when the caller does not choose one.
const DefaultWorkers = 4

// Pool feeds a fixed set of worker goroutines from an unbounded queue, so
// submission never blocks no matter how busy the workers are. Close stops
// intake and waits for every accepted task, queued or running, to finish;
// nothing is leaked across shutdown.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	pending int // accepted but not yet finished
	closed  bool
	workers sync.WaitGroup
}

// NewPool starts a pool with the given number of workers (minimum one).
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < workers; i++ {
		p.workers.Add(1)
		go p.run()
	}
	return p
}

func (p *Pool) run() {
	defer p.workers.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			// Closed and drained.
			p.mu.Unlock()
			return
		}
		job := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		job()

		p.mu.Lock()
		p.pending--
		p.mu.Unlock()
	}
}

// submit enqueues a job, reporting false once the pool is closed.
func (p *Pool) submit(job func()) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.pending++
	p.queue = append(p.queue, job)
	p.cond.Signal()
	return true
}

// Outstanding reports how many accepted tasks have not finished yet.
func (p *Pool) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Close refuses further submissions and blocks until all accepted work has
// run to completion. Safe to call once at shutdown.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	p.workers.Wait()
}
