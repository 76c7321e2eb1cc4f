package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jask/fitcoach/internal/config"
	"github.com/jask/fitcoach/internal/database"
	"github.com/jask/fitcoach/internal/database/repository"
	"github.com/jask/fitcoach/internal/scrolllock"
	"github.com/jask/fitcoach/internal/service"
)

type fixture struct {
	app       *App
	plans     *service.MealPlanService
	exercises *service.ExerciseService
	recipes   *service.RecipeService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	planRepo := repository.NewMealPlanRepo(db)
	exRepo := repository.NewExerciseRepo(db)
	recipeRepo := repository.NewRecipeRepo(db)
	f := &fixture{
		plans:     &service.MealPlanService{Plans: planRepo},
		exercises: &service.ExerciseService{Exercises: exRepo},
		recipes:   &service.RecipeService{Recipes: recipeRepo},
	}
	cfg := config.Config{UI: config.UIConfig{SyncHideDelay: time.Millisecond, SyncTimeout: 5 * time.Millisecond}}
	f.app = New(context.Background(), cfg, Deps{
		Dashboard: &service.DashboardService{
			Plans:     planRepo,
			Exercises: exRepo,
			Photos:    repository.NewProgressPhotoRepo(db),
			Recipes:   recipeRepo,
		},
		Exercises: f.exercises,
		Log:       zaptest.NewLogger(t),
	}, "c1", "k1")
	f.app.Update(tea.WindowSizeMsg{Width: 80, Height: 12})
	return f
}

func (f *fixture) today() string { return service.Day(f.app.day) }

func (f *fixture) seed(t *testing.T, exercises int) repository.MealPlan {
	t.Helper()
	ctx := context.Background()
	plan, err := f.plans.Create(ctx, repository.MealPlan{
		ClientID: "c1", CoachID: "k1", Title: "Cut week", Day: f.today(),
		Notes: "eat more greens",
		Meals: []repository.Meal{{Name: "Oats", Calories: 350}},
	})
	require.NoError(t, err)
	for i := 0; i < exercises; i++ {
		_, err := f.exercises.Create(ctx, repository.Exercise{
			ClientID: "c1", Name: fmt.Sprintf("Exercise %02d", i), Sets: 3, Reps: 10, Day: f.today(),
		})
		require.NoError(t, err)
	}
	_, err = f.recipes.Create(ctx, repository.Recipe{CoachID: "k1", Name: "Turkey Chili", Ingredients: []string{"turkey", "beans"}})
	require.NoError(t, err)
	return plan
}

func (f *fixture) load(t *testing.T) {
	t.Helper()
	d, err := f.app.deps.Dashboard.Load(context.Background(), "c1", "k1", f.today())
	require.NoError(t, err)
	f.app.Update(dashboardMsg{dash: d})
}

func press(a *App, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := a.Update(msg)
	return cmd
}

// collect runs cmd and any batched commands it expands to.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func TestNestedOverlaysHoldScrollLock(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seed(t, 1)
	f.load(t)
	a := f.app
	require.Len(t, a.items, 3)
	require.Equal(t, "auto", a.body.Overflow())

	press(a, "enter")
	require.Len(t, a.overlays, 1)
	require.Equal(t, 1, a.lock.Count())
	require.Equal(t, scrolllock.Hidden, a.body.Overflow())
	require.Equal(t, scrolllock.Hidden, a.root.Overflow())
	require.Contains(t, a.View(), "Cut week")

	// scroll keys reach the background but the lock drops them
	press(a, "down")
	require.Zero(t, a.cursor)

	press(a, "?")
	require.Len(t, a.overlays, 2)
	require.Equal(t, 2, a.lock.Count())

	press(a, "esc")
	require.Len(t, a.overlays, 1)
	require.Equal(t, scrolllock.Hidden, a.body.Overflow())

	press(a, "esc")
	require.Empty(t, a.overlays)
	require.Zero(t, a.lock.Count())
	require.Equal(t, "auto", a.body.Overflow())
	require.Equal(t, "auto", a.root.Overflow())

	press(a, "down")
	require.Equal(t, 1, a.cursor)

	// esc with nothing open is harmless
	press(a, "esc")
	require.Zero(t, a.lock.Count())
}

func TestMouseWheelIgnoredWhileLocked(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seed(t, 30)
	f.load(t)
	a := f.app
	wheel := tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress}

	press(a, "?")
	a.Update(wheel)
	require.Zero(t, a.vp.YOffset)

	press(a, "esc")
	a.Update(wheel)
	require.Positive(t, a.vp.YOffset)
}

func TestFocusRunsWatchdog(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seed(t, 1)
	f.load(t)
	a := f.app

	press(a, "?")
	a.Update(tea.FocusMsg{})
	require.Equal(t, 1, a.lock.Count(), "a visible overlay keeps the lock")

	press(a, "esc")
	a.lock.Acquire() // leaked holder
	require.Equal(t, scrolllock.Hidden, a.body.Overflow())

	a.Update(tea.FocusMsg{})
	require.Zero(t, a.lock.Count())
	require.Empty(t, a.body.Overflow())
	require.True(t, a.body.Scrollable())
	require.Contains(t, a.status, "recovered")
}

func TestToggleExercise(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seed(t, 1)
	f.load(t)
	a := f.app

	press(a, "down")
	msgs := collect(press(a, "x"))
	msg, ok := find[exerciseMsg](msgs)
	require.True(t, ok)
	require.NoError(t, msg.err)
	require.True(t, msg.ex.Completed)

	a.Update(msg)
	require.True(t, a.dash.Exercises[0].Completed)
	require.Contains(t, a.vp.View(), "[x]")
}

func TestConfirmDeleteExercise(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seed(t, 1)
	f.load(t)
	a := f.app

	press(a, "down")
	press(a, "d")
	require.Len(t, a.overlays, 1)
	require.Equal(t, overlayConfirm, a.overlays[0].kind)
	press(a, "n")
	require.Empty(t, a.overlays)
	require.Len(t, a.dash.Exercises, 1)

	press(a, "d")
	cmd := press(a, "y")
	require.Empty(t, a.overlays)
	require.Zero(t, a.lock.Count())

	msg, ok := find[exerciseDeletedMsg](collect(cmd))
	require.True(t, ok)
	require.NoError(t, msg.err)
	a.Update(msg)
	require.Empty(t, a.dash.Exercises)
	require.Len(t, a.items, 2)
}

func TestPlanUpdateOpensChangeView(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	plan := f.seed(t, 0)
	f.load(t)
	a := f.app
	require.Empty(t, a.overlays)

	plan.Meals = append(plan.Meals, repository.Meal{Name: "Salmon salad", Calories: 500})
	_, _, err := f.plans.Update(context.Background(), plan)
	require.NoError(t, err)

	f.load(t)
	require.Len(t, a.overlays, 1)
	require.Equal(t, overlayChanges, a.overlays[0].kind)
	require.Equal(t, 1, a.lock.Count())
	require.Contains(t, a.View(), "Salmon salad")

	// reloading without changes opens nothing new
	press(a, "esc")
	f.load(t)
	require.Empty(t, a.overlays)
	require.Zero(t, a.lock.Count())
}

func TestReloadRunsSyncIndicator(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.seed(t, 1)
	a := f.app

	msgs := collect(press(a, "r"))
	require.Equal(t, 1, a.sync.Pending())
	msg, ok := find[dashboardMsg](msgs)
	require.True(t, ok)
	require.NoError(t, msg.err)

	_, done := a.Update(msg)
	require.Zero(t, a.sync.Pending())
	require.NotNil(t, done)
	require.Len(t, a.dash.Exercises, 1)
}

func TestQuitReleasesOverlays(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	a := f.app
	press(a, "?")
	require.Equal(t, 1, a.lock.Count())

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.Zero(t, a.lock.Count())
	require.Equal(t, "auto", a.body.Overflow())
}

func TestOverlayAt(t *testing.T) {
	t.Parallel()

	base := "aaaaaa\nbbbbbb\ncccccc"
	got := overlayAt(base, "XX\nYY", 2, 1, 6, 3)
	require.Equal(t, "aaaaaa\nbbXXbb\nccYYcc", got)

	// cards clipped at the bottom edge
	got = overlayAt(base, "XX\nYY", 0, 2, 6, 3)
	require.Equal(t, "aaaaaa\nbbbbbb\nXXcccc", got)
}

func TestPlanDetailRendersNotes(t *testing.T) {
	t.Parallel()

	out := ansi.Strip(planDetail(repository.MealPlan{
		Day:   "2026-10-19",
		Notes: "Eat more **greens**",
		Meals: []repository.Meal{{Name: "Oats", Calories: 350}},
	}, 40))
	require.Contains(t, out, "Oats")
	require.Contains(t, out, "Total: 350 kcal")
	require.Contains(t, out, "greens")
	require.NotContains(t, out, "**")
}
