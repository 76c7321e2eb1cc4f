// Package tui is the terminal client dashboard.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/fitcoach/internal/config"
	"github.com/jask/fitcoach/internal/database/repository"
	"github.com/jask/fitcoach/internal/scrolllock"
	"github.com/jask/fitcoach/internal/service"
	"github.com/jask/fitcoach/internal/syncstatus"
)

// initial overflow of both surfaces before any overlay opens
const overflowAuto = "auto"

// Deps are the services the dashboard reads and writes through.
type Deps struct {
	Dashboard *service.DashboardService
	Exercises *service.ExerciseService
	Log       *zap.Logger
}

type itemKind int

const (
	itemPlan itemKind = iota
	itemExercise
	itemRecipe
)

// item is a selectable row of the background pane.
type item struct {
	kind  itemKind
	index int // into the matching Dashboard slice
	line  int // content line, for keeping the cursor in view
}

type dashboardMsg struct {
	dash service.Dashboard
	err  error
}

type exerciseMsg struct {
	ex  repository.Exercise
	err error
}

type exerciseDeletedMsg struct {
	id  string
	err error
}

// App is the bubbletea model.
type App struct {
	ctx        context.Context
	deps       Deps
	log        *zap.Logger
	clientID   string
	coachID    string
	day        time.Time
	dateFormat string

	// body gates keyboard scrolling, root gates the mouse wheel
	body     *scrolllock.Style
	root     *scrolllock.Style
	lock     *scrolllock.Manager
	watchdog *scrolllock.Watchdog
	sync     *syncstatus.Indicator

	keys   keyMap
	vp     viewport.Model
	width  int
	height int
	ready  bool

	dash      service.Dashboard
	seen      map[string]repository.MealPlan
	items     []item
	cursor    int
	overlays  []overlay
	status    string
	statusErr bool
}

// New builds the dashboard for one client. The scroll lock is created here,
// once, and shared by every overlay the app opens.
func New(ctx context.Context, cfg config.Config, deps Deps, clientID, coachID string) *App {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("tui")
	hideDelay, timeout := cfg.UI.SyncHideDelay, cfg.UI.SyncTimeout
	if hideDelay <= 0 {
		hideDelay = 600 * time.Millisecond
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	dateFormat := cfg.UI.DateFormat
	if dateFormat == "" {
		dateFormat = "Mon 02 Jan"
	}

	a := &App{
		ctx:        ctx,
		deps:       deps,
		log:        log,
		clientID:   clientID,
		coachID:    coachID,
		day:        time.Now(),
		dateFormat: dateFormat,
		body:       scrolllock.NewStyle(overflowAuto),
		root:       scrolllock.NewStyle(overflowAuto),
		sync:       syncstatus.New(hideDelay, timeout),
		keys:       defaultKeys(),
		seen:       map[string]repository.MealPlan{},
	}
	a.lock = scrolllock.New(a.body, a.root, log)
	a.watchdog = &scrolllock.Watchdog{
		Lock:    a.lock,
		Visible: func() int { return len(a.overlays) },
		Log:     log,
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return a.reload()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil
	case tea.FocusMsg:
		if a.watchdog.Check() {
			a.setStatus("scroll lock recovered", false)
		}
		return a, nil
	case tea.MouseMsg:
		if !a.root.Scrollable() {
			return a, nil
		}
		var cmd tea.Cmd
		a.vp, cmd = a.vp.Update(msg)
		return a, cmd
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case dashboardMsg:
		done := a.sync.Done()
		a.applyDashboard(msg)
		return a, done
	case exerciseMsg:
		done := a.sync.Done()
		a.applyExercise(msg)
		return a, done
	case exerciseDeletedMsg:
		done := a.sync.Done()
		a.applyDeleted(msg)
		return a, done
	}
	return a, a.sync.Update(msg)
}

func (a *App) resize(w, h int) {
	a.width, a.height = w, h
	vpHeight := h - 2 // header and footer
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !a.ready {
		a.vp = viewport.New(w, vpHeight)
		a.ready = true
	} else {
		a.vp.Width, a.vp.Height = w, vpHeight
	}
	a.refreshContent()
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" || (len(a.overlays) == 0 && key.Matches(msg, a.keys.Quit)) {
		a.closeOverlays()
		return tea.Quit
	}
	if len(a.overlays) > 0 {
		return a.handleOverlayKey(msg)
	}
	switch {
	case a.keys.scrolls(msg):
		a.scroll(msg)
	case key.Matches(msg, a.keys.Open):
		a.openDetail()
	case key.Matches(msg, a.keys.Help):
		a.openHelp()
	case key.Matches(msg, a.keys.Reload):
		return a.reload()
	case key.Matches(msg, a.keys.Toggle):
		return a.toggleSelected()
	case key.Matches(msg, a.keys.Delete):
		a.confirmDelete()
	case key.Matches(msg, a.keys.PrevDay):
		a.day = a.day.AddDate(0, 0, -1)
		return a.reload()
	case key.Matches(msg, a.keys.NextDay):
		a.day = a.day.AddDate(0, 0, 1)
		return a.reload()
	}
	return nil
}

// handleOverlayKey serves the top card. Scroll keys fall through to the
// background, which drops them while the lock holds the body hidden.
func (a *App) handleOverlayKey(msg tea.KeyMsg) tea.Cmd {
	top := a.overlays[len(a.overlays)-1]
	switch {
	case key.Matches(msg, a.keys.Back):
		a.popOverlay()
	case key.Matches(msg, a.keys.Help):
		if top.kind != overlayHelp {
			a.openHelp()
		}
	case top.kind == overlayConfirm && key.Matches(msg, a.keys.Confirm):
		a.popOverlay()
		if top.onConfirm != nil {
			return top.onConfirm()
		}
	case top.kind == overlayConfirm && key.Matches(msg, a.keys.Cancel):
		a.popOverlay()
	case a.keys.scrolls(msg):
		a.scroll(msg)
	}
	return nil
}

func (a *App) scroll(msg tea.KeyMsg) {
	if !a.body.Scrollable() {
		return
	}
	switch {
	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.vp.SetYOffset(a.vp.YOffset - a.vp.Height/2)
	case key.Matches(msg, a.keys.PageDown):
		a.vp.SetYOffset(a.vp.YOffset + a.vp.Height/2)
	}
}

func (a *App) moveCursor(delta int) {
	if len(a.items) == 0 {
		return
	}
	a.cursor += delta
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.cursor >= len(a.items) {
		a.cursor = len(a.items) - 1
	}
	a.refreshContent()
	line := a.items[a.cursor].line
	switch {
	case line < a.vp.YOffset:
		a.vp.SetYOffset(line)
	case line >= a.vp.YOffset+a.vp.Height:
		a.vp.SetYOffset(line - a.vp.Height + 1)
	}
}

func (a *App) selected() (item, bool) {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return item{}, false
	}
	return a.items[a.cursor], true
}

func (a *App) pushOverlay(o overlay) {
	o.release = a.lock.Hold()
	a.overlays = append(a.overlays, o)
	a.log.Debug("overlay opened", zap.String("title", o.title), zap.Int("depth", len(a.overlays)))
}

func (a *App) popOverlay() {
	if len(a.overlays) == 0 {
		return
	}
	top := a.overlays[len(a.overlays)-1]
	a.overlays = a.overlays[:len(a.overlays)-1]
	top.release()
	a.log.Debug("overlay closed", zap.String("title", top.title), zap.Int("depth", len(a.overlays)))
}

func (a *App) closeOverlays() {
	for len(a.overlays) > 0 {
		a.popOverlay()
	}
}

func (a *App) openDetail() {
	it, ok := a.selected()
	if !ok {
		return
	}
	switch it.kind {
	case itemPlan:
		p := a.dash.Plans[it.index]
		a.pushOverlay(overlay{kind: overlayDetail, title: p.Title, body: planDetail(p, a.cardWidth())})
	case itemExercise:
		e := a.dash.Exercises[it.index]
		a.pushOverlay(overlay{kind: overlayDetail, title: e.Name, body: exerciseDetail(e)})
	case itemRecipe:
		r := a.dash.Recipes[it.index]
		a.pushOverlay(overlay{kind: overlayDetail, title: r.Name, body: recipeDetail(r)})
	}
}

func (a *App) openHelp() {
	a.pushOverlay(overlay{kind: overlayHelp, title: "Keys", body: helpBody(a.keys)})
}

func (a *App) confirmDelete() {
	it, ok := a.selected()
	if !ok || it.kind != itemExercise {
		return
	}
	e := a.dash.Exercises[it.index]
	a.pushOverlay(overlay{
		kind:      overlayConfirm,
		title:     "Remove exercise",
		body:      fmt.Sprintf("Remove %s from this day?\n\ny confirm · n cancel", e.Name),
		onConfirm: func() tea.Cmd { return a.deleteExercise(e.ID) },
	})
}

func (a *App) setStatus(s string, isErr bool) {
	a.status, a.statusErr = s, isErr
}

func (a *App) reload() tea.Cmd {
	start := a.sync.Start()
	ctx, svc := a.ctx, a.deps.Dashboard
	client, coach, day := a.clientID, a.coachID, service.Day(a.day)
	return tea.Batch(start, func() tea.Msg {
		d, err := svc.Load(ctx, client, coach, day)
		return dashboardMsg{dash: d, err: err}
	})
}

func (a *App) toggleSelected() tea.Cmd {
	it, ok := a.selected()
	if !ok || it.kind != itemExercise {
		return nil
	}
	e := a.dash.Exercises[it.index]
	start := a.sync.Start()
	ctx, svc := a.ctx, a.deps.Exercises
	return tea.Batch(start, func() tea.Msg {
		updated, err := svc.Complete(ctx, e.ID, !e.Completed)
		return exerciseMsg{ex: updated, err: err}
	})
}

func (a *App) deleteExercise(id string) tea.Cmd {
	start := a.sync.Start()
	ctx, svc := a.ctx, a.deps.Exercises
	return tea.Batch(start, func() tea.Msg {
		return exerciseDeletedMsg{id: id, err: svc.Delete(ctx, id)}
	})
}

func (a *App) applyDashboard(msg dashboardMsg) {
	if msg.err != nil {
		a.log.Error("load dashboard", zap.Error(msg.err))
		a.setStatus("load failed: "+msg.err.Error(), true)
		return
	}
	a.dash = msg.dash
	seen := make(map[string]repository.MealPlan, len(msg.dash.Plans))
	for _, p := range msg.dash.Plans {
		if prev, ok := a.seen[p.ID]; ok {
			if changes := service.DiffPlans(prev, p); !changes.Empty() {
				a.pushOverlay(overlay{kind: overlayChanges, title: p.Title + " was updated", body: changesBody(changes)})
			}
		}
		seen[p.ID] = p
	}
	a.seen = seen
	a.cursor = 0
	a.setStatus("", false)
	a.refreshContent()
	a.vp.SetYOffset(0)
}

func (a *App) applyExercise(msg exerciseMsg) {
	if msg.err != nil {
		a.log.Error("update exercise", zap.Error(msg.err))
		a.setStatus("update failed: "+msg.err.Error(), true)
		return
	}
	for i := range a.dash.Exercises {
		if a.dash.Exercises[i].ID == msg.ex.ID {
			a.dash.Exercises[i] = msg.ex
		}
	}
	a.refreshContent()
}

func (a *App) applyDeleted(msg exerciseDeletedMsg) {
	if msg.err != nil {
		a.log.Error("delete exercise", zap.Error(msg.err))
		a.setStatus("delete failed: "+msg.err.Error(), true)
		return
	}
	kept := a.dash.Exercises[:0]
	for _, e := range a.dash.Exercises {
		if e.ID != msg.id {
			kept = append(kept, e)
		}
	}
	a.dash.Exercises = kept
	a.setStatus("exercise removed", false)
	a.refreshContent()
	if a.cursor >= len(a.items) {
		a.cursor = len(a.items) - 1
		if a.cursor < 0 {
			a.cursor = 0
		}
		a.refreshContent()
	}
}
