package cart

import "sync"

// Manager keeps one cart per session. Carts live in process memory;
// abandoning the browser tab just leaves an empty-able cart behind
// until the session's selection holds lapse.
type Manager struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewManager() *Manager {
	return &Manager{carts: make(map[string]*Cart)}
}

// GetOrCreate returns the session's cart, creating it on first use.
func (m *Manager) GetOrCreate(sessionID string) *Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.carts[sessionID]; ok {
		return c
	}
	c := New()
	m.carts[sessionID] = c
	return c
}

// Get returns the session's cart or nil.
func (m *Manager) Get(sessionID string) *Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.carts[sessionID]
}

// Delete removes the session's cart entirely.
func (m *Manager) Delete(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
}

// Update runs fn against the session's cart under the manager lock, so
// two requests for the same session cannot interleave mutations.
func (m *Manager) Update(sessionID string, fn func(*Cart) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[sessionID]
	if !ok {
		c = New()
		m.carts[sessionID] = c
	}
	return fn(c)
}

// Snapshot returns a copy of the session's cart safe to serialize
// without holding the lock.
func (m *Manager) Snapshot(sessionID string) Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.carts[sessionID]
	if !ok {
		return *New()
	}
	out := *c
	out.Items = append([]Item(nil), c.Items...)
	return out
}
