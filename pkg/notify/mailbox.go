// Package notify carries completion notifications from worker goroutines to
// the UI loop.
//
// A Mailbox is an unbounded FIFO with any number of producers and a single
// consumer. Post never blocks and never drops: every notification that is
// lost would leave a pending entry behind in some result table.
package notify

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrClosed is returned by consumers that find the mailbox closed.
var ErrClosed = errors.New("mailbox closed")

// Mailbox is an unbounded multi-producer, single-consumer message queue.
type Mailbox struct {
	mu     sync.Mutex
	queue  []tea.Msg
	wake   chan struct{}
	closed bool
	done   chan struct{}
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post appends msg. It is safe to call from any goroutine. Messages posted
// after Close are discarded.
func (m *Mailbox) Post(msg tea.Msg) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, msg)
	m.mu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// TryNext removes and returns the oldest message without blocking.
func (m *Mailbox) TryNext() (tea.Msg, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) == 0 {
		return nil, false
	}
	msg := m.queue[0]
	m.queue[0] = nil
	m.queue = m.queue[1:]
	return msg, true
}

// Next blocks until a message is available, ctx is done or the mailbox is
// closed. ok is false in the latter two cases.
func (m *Mailbox) Next(ctx context.Context) (tea.Msg, bool) {
	for {
		if msg, ok := m.TryNext(); ok {
			return msg, true
		}
		select {
		case <-m.wake:
		case <-m.done:
			// Drain whatever raced in before Close.
			return m.TryNext()
		case <-ctx.Done():
			return nil, false
		}
	}
}

// Drain removes and returns every queued message.
func (m *Mailbox) Drain() []tea.Msg {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.queue
	m.queue = nil
	return out
}

// Len returns the number of queued messages.
func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Close stops accepting messages and wakes any blocked Next.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.done)
}

// Done is closed once Close has been called.
func (m *Mailbox) Done() <-chan struct{} {
	return m.done
}

// WaitCmd returns a command that waits for the next mailbox message.
// Re-issue it from Update after every message to keep draining.
func WaitCmd(m *Mailbox) tea.Cmd {
	return func() tea.Msg {
		if m == nil {
			return nil
		}
		msg, ok := m.Next(context.Background())
		if !ok {
			return nil
		}
		return msg
	}
}
