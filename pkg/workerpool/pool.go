// Package workerpool runs arbitrary zero-argument tasks on a fixed set of
// worker goroutines and hands back a Future for each result.
//
// The pool has no knowledge of the UI or of domain types. Tasks are never
// cancelled once submitted; callers that lose interest in a result simply
// ignore it when it arrives.
package workerpool

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	pdebug "github.com/vanderheijden86/panes/pkg/debug"
)

// ErrClosed is returned by futures submitted after Close.
var ErrClosed = errors.New("worker pool closed")

// TaskError wraps a panic recovered at the worker boundary.
type TaskError struct {
	Value any
	Stack []byte
	Time  time.Time
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Stats is a point-in-time view of pool activity.
type Stats struct {
	Workers   int
	Queued    int
	Running   int
	Completed uint64
	Panicked  uint64
}

type task struct {
	run func()
}

// Pool is a fixed-size set of worker goroutines sharing one FIFO queue.
type Pool struct {
	size int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []task
	closed  bool
	running int

	completed uint64
	panicked  uint64

	wg sync.WaitGroup
}

// New starts a pool with size workers. A size of zero or less uses the
// PANES_WORKERS environment variable when set, otherwise runtime.NumCPU().
func New(size int) *Pool {
	if size <= 0 {
		size = envPositiveIntOr("PANES_WORKERS", runtime.NumCPU())
	}
	p := &Pool{size: size}
	p.cond = sync.NewCond(&p.mu)

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}
	pdebug.Log("workerpool: started %d workers", size)
	return p
}

// Size returns the number of worker goroutines.
func (p *Pool) Size() int {
	return p.size
}

func (p *Pool) enqueue(t task) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.queue = append(p.queue, t)
	p.cond.Signal()
	return true
}

func (p *Pool) worker() {
	defer p.wg.Done()
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
		t := p.queue[0]
		p.queue[0] = task{}
		p.queue = p.queue[1:]
		p.running++
		p.mu.Unlock()

		t.run()

		p.mu.Lock()
		p.running--
		p.completed++
		p.mu.Unlock()
	}
}

func (p *Pool) notePanic() {
	p.mu.Lock()
	p.panicked++
	p.mu.Unlock()
}

// Stats returns current queue and completion counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Workers:   p.size,
		Queued:    len(p.queue),
		Running:   p.running,
		Completed: p.completed,
		Panicked:  p.panicked,
	}
}

// Close stops accepting new tasks, lets queued tasks finish and waits for
// every worker to exit. Close is idempotent.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()

	p.wg.Wait()
	pdebug.Log("workerpool: stopped")
}

// Submit queues fn and returns immediately with a Future for its result.
//
// done, when non-nil, is invoked on the worker goroutine after the Future
// has been resolved, so anyone told about completion by done always finds
// a ready Future. A panic in fn resolves the Future with a *TaskError and
// the zero value; done still runs.
//
// Submitting to a closed pool resolves the Future with ErrClosed and runs
// done on the calling goroutine.
func Submit[T any](p *Pool, fn func() T, done func()) *Future[T] {
	f := newFuture[T]()
	t := task{run: func() {
		value, err := safeCall(fn)
		if err != nil {
			p.notePanic()
			pdebug.Log("workerpool: %v\n%s", err, err.(*TaskError).Stack)
		}
		f.resolve(value, err)
		runDone(done)
	}}

	if !p.enqueue(t) {
		var zero T
		f.resolve(zero, ErrClosed)
		runDone(done)
	}
	return f
}

// safeCall executes fn and recovers from any panic.
func safeCall[T any](fn func() T) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			err = &TaskError{Value: r, Stack: debug.Stack(), Time: time.Now()}
		}
	}()
	return fn(), nil
}

func runDone(done func()) {
	if done == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			pdebug.Log("workerpool: completion callback panicked: %v\n%s", r, debug.Stack())
		}
	}()
	done()
}

func envPositiveIntOr(name string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
