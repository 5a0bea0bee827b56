// Package mainloop serializes work onto a single goroutine.
//
// Host object models are not safe to touch from network goroutines, so
// every decoded command is posted here and executed by whichever
// goroutine drains the loop. Network code only ever calls Post.
package mainloop

import "context"

// Loop is a FIFO queue of zero-argument tasks drained by one goroutine.
// Posting is safe from any goroutine; tasks never run concurrently.
type Loop struct {
	tasks chan func()
}

// New creates a loop with a bounded task queue.
func New() *Loop {
	return &Loop{tasks: make(chan func(), 64)}
}

// Post enqueues fn for execution on the loop. It blocks if the queue is
// full, which back-pressures readers instead of dropping commands.
func (l *Loop) Post(fn func()) {
	l.tasks <- fn
}

// Run drains tasks until ctx is canceled. It is the host's main thread:
// callers run it on the goroutine that owns the host state.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// Tick runs all currently queued tasks and returns. Hosts that own their
// own frame loop call this once per frame instead of Run.
func (l *Loop) Tick() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		default:
			return
		}
	}
}
