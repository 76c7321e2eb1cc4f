package scrolllock

import "sync"

// Style is an in-memory Surface. The TUI embeds one per scrollable region.
// It is safe for concurrent use, so a release running on a command goroutine
// does not race with the render loop reading it.
type Style struct {
	mu       sync.Mutex
	overflow string
}

// NewStyle returns a Style with the given initial overflow value.
func NewStyle(overflow string) *Style {
	return &Style{overflow: overflow}
}

func (s *Style) Overflow() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overflow
}

func (s *Style) SetOverflow(v string) {
	s.mu.Lock()
	s.overflow = v
	s.mu.Unlock()
}

// Scrollable reports whether the region may scroll.
func (s *Style) Scrollable() bool { return s.Overflow() != Hidden }
