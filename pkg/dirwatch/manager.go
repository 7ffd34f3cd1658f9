package dirwatch

import (
	"sync"

	"github.com/vanderheijden86/panes/pkg/results"
)

// Manager issues watch ids and owns the running watches.
type Manager struct {
	mu      sync.Mutex
	ids     results.Counter
	watches map[ID]*Watcher
}

// NewManager returns a manager with no watches.
func NewManager() *Manager {
	return &Manager{watches: make(map[ID]*Watcher)}
}

// Watch starts watching dir. post receives each change from the watch
// goroutine. On error no watch is registered.
func (m *Manager) Watch(dir string, opts Options, post func(Event)) (ID, error) {
	m.mu.Lock()
	id := m.ids.Next()
	m.mu.Unlock()

	w, err := NewWatcher(id, dir, opts, post)
	if err != nil {
		return 0, err
	}
	if err := w.Start(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	m.watches[id] = w
	m.mu.Unlock()
	return id, nil
}

// Stop ends watch id and waits for its goroutine. It reports whether the
// id was active.
func (m *Manager) Stop(id ID) bool {
	m.mu.Lock()
	w, ok := m.watches[id]
	delete(m.watches, id)
	m.mu.Unlock()
	if !ok {
		return false
	}
	w.Stop()
	return true
}

// StopAll ends every watch.
func (m *Manager) StopAll() {
	m.mu.Lock()
	all := make([]*Watcher, 0, len(m.watches))
	for id, w := range m.watches {
		all = append(all, w)
		delete(m.watches, id)
	}
	m.mu.Unlock()
	for _, w := range all {
		w.Stop()
	}
}

// Active reports whether id is a running watch.
func (m *Manager) Active(id ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.watches[id]
	return ok
}

// Len returns the number of running watches.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.watches)
}

// Polling reports whether watch id fell back to polling.
func (m *Manager) Polling(id ID) bool {
	m.mu.Lock()
	w, ok := m.watches[id]
	m.mu.Unlock()
	return ok && w.IsPolling()
}
