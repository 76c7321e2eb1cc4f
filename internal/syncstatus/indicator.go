// Package syncstatus drives the "syncing" banner shown while data loads.
//
// The banner has two states, idle and visible. Start shows it and arms a
// safety timeout; Done arms a short debounced hide. Every event bumps a
// generation number and timer messages carrying an older generation are
// dropped, so the latest event always decides when the banner goes away.
package syncstatus

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State of the banner.
type State int

const (
	Idle State = iota
	Visible
)

func (s State) String() string {
	if s == Visible {
		return "visible"
	}
	return "idle"
}

var lastID int64

type hideMsg struct {
	id      int64
	gen     int
	timeout bool
}

// Indicator is the banner state machine. Use it from a bubbletea Update loop.
type Indicator struct {
	id        int64
	state     State
	pending   int
	gen       int
	timedOut  bool
	hideDelay time.Duration
	timeout   time.Duration
	spinner   spinner.Model
	style     lipgloss.Style
}

// New returns an idle indicator. hideDelay debounces the hide after the last
// Done; timeout hides the banner if Done never arrives.
func New(hideDelay, timeout time.Duration) *Indicator {
	return &Indicator{
		id:        atomic.AddInt64(&lastID, 1),
		hideDelay: hideDelay,
		timeout:   timeout,
		spinner:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
		style:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// Start records that a sync began.
func (i *Indicator) Start() tea.Cmd {
	i.pending++
	i.gen++
	i.timedOut = false
	cmds := []tea.Cmd{i.after(i.timeout, true)}
	if i.state == Idle {
		i.state = Visible
		cmds = append(cmds, i.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Done records that a sync finished. The banner hides after the debounce
// delay once every started sync is done.
func (i *Indicator) Done() tea.Cmd {
	if i.pending > 0 {
		i.pending--
	}
	if i.state == Idle {
		return nil
	}
	i.gen++
	if i.pending > 0 {
		return i.after(i.timeout, true)
	}
	return i.after(i.hideDelay, false)
}

func (i *Indicator) after(d time.Duration, timeout bool) tea.Cmd {
	msg := hideMsg{id: i.id, gen: i.gen, timeout: timeout}
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Update applies timer and spinner messages. Messages for other indicators
// and stale timers are ignored.
func (i *Indicator) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case hideMsg:
		if m.id != i.id || m.gen != i.gen {
			return nil
		}
		i.state = Idle
		if m.timeout {
			i.pending = 0
			i.timedOut = true
		}
	case spinner.TickMsg:
		if i.state == Idle {
			return nil
		}
		var cmd tea.Cmd
		i.spinner, cmd = i.spinner.Update(m)
		return cmd
	}
	return nil
}

// State reports the banner state.
func (i *Indicator) State() State { return i.state }

// Pending reports syncs started but not done.
func (i *Indicator) Pending() int { return i.pending }

// TimedOut reports whether the last hide came from the safety timeout.
func (i *Indicator) TimedOut() bool { return i.timedOut }

// View renders the banner, or nothing when idle.
func (i *Indicator) View() string {
	if i.state == Idle {
		return ""
	}
	label := "synced"
	if i.pending > 0 {
		label = "syncing…"
	}
	return i.style.Render(i.spinner.View() + " " + label)
}
