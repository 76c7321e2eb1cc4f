package scrolllock

import "go.uber.org/zap"

// Watchdog repairs a lock left held with no overlay on screen, which happens
// when an overlay is torn down without running its release.
type Watchdog struct {
	Lock    *Manager
	Visible func() int
	Log     *zap.Logger
}

// Check force-resets the lock if it is held while no overlay is visible.
// It reports whether a reset happened.
func (w *Watchdog) Check() bool {
	if w.Lock == nil || !w.Lock.Locked() {
		return false
	}
	visible := 0
	if w.Visible != nil {
		visible = w.Visible()
	}
	if visible > 0 {
		return false
	}
	if w.Log != nil {
		w.Log.Warn("scroll lock stuck with no visible overlay",
			zap.Int("count", w.Lock.Count()))
	}
	w.Lock.ForceReset()
	return true
}
