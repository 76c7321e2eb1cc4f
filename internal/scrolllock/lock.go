// Package scrolllock suppresses background scrolling while overlays are open.
//
// A single Manager owns the overflow mode of two surfaces (the scrollable body
// and the root frame). Overlays acquire on open and release on close; the
// surfaces return to their pre-lock values only when the last holder leaves.
package scrolllock

import (
	"sync"

	"go.uber.org/zap"
)

// Hidden is the overflow value forced onto both surfaces while locked.
const Hidden = "hidden"

// Surface is a scrollable region whose overflow mode the Manager controls.
// Callers other than the Manager must not write to it.
type Surface interface {
	Overflow() string
	SetOverflow(string)
}

// Manager is a reference-counted scroll lock.
type Manager struct {
	mu        sync.Mutex
	body      Surface
	root      Surface
	count     int
	savedBody string
	savedRoot string
	log       *zap.Logger
}

// New returns an unlocked manager for the given surfaces.
func New(body, root Surface, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{body: body, root: root, log: log}
}

// Acquire adds a holder. The first holder captures the surfaces' current
// overflow values; every holder forces them to Hidden.
func (m *Manager) Acquire() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count == 0 {
		m.savedBody = m.body.Overflow()
		m.savedRoot = m.root.Overflow()
	}
	m.count++
	m.body.SetOverflow(Hidden)
	m.root.SetOverflow(Hidden)
	m.log.Debug("scroll lock acquired", zap.Int("count", m.count))
}

// Release drops a holder. Unmatched calls are ignored; the count never goes
// below zero.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count == 0 {
		m.log.Debug("scroll lock release ignored: not held")
		return
	}
	m.count--
	if m.count == 0 {
		m.body.SetOverflow(m.savedBody)
		m.root.SetOverflow(m.savedRoot)
	}
	m.log.Debug("scroll lock released", zap.Int("count", m.count))
}

// ForceReset unlocks unconditionally and clears both surfaces to the empty
// overflow value. Saved values are not restored.
func (m *Manager) ForceReset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.count
	m.count = 0
	m.body.SetOverflow("")
	m.root.SetOverflow("")
	m.log.Info("scroll lock force reset", zap.Int("dropped_holders", prev))
}

// Hold acquires the lock and returns a function that releases it. The
// returned function releases at most once no matter how often it is called.
func (m *Manager) Hold() (release func()) {
	m.Acquire()
	var once sync.Once
	return func() { once.Do(m.Release) }
}

// With runs fn while holding the lock. The lock is released even if fn panics.
func (m *Manager) With(fn func()) {
	release := m.Hold()
	defer release()
	fn()
}

// Count reports the number of active holders.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Locked reports whether any holder is active.
func (m *Manager) Locked() bool {
	return m.Count() > 0
}
