package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/jask/fitcoach/internal/database"
	"github.com/jask/fitcoach/internal/database/repository"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var ignoreTimes = cmpopts.IgnoreFields(repository.MealPlan{}, "CreatedAt", "UpdatedAt")

func TestMealPlanCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMealPlanRepo(openDB(t))

	plan := repository.MealPlan{
		ID: "p1", ClientID: "c1", CoachID: "k1", Title: "Cut week 1", Notes: "no sugar", Day: "2026-10-19",
		Meals: []repository.Meal{{Name: "Oats", Calories: 350, ProteinG: 12}, {Name: "Chicken rice", Calories: 600, ProteinG: 45}},
	}
	require.NoError(t, repo.Insert(ctx, plan))
	require.NoError(t, repo.Insert(ctx, repository.MealPlan{ID: "p2", ClientID: "c2", CoachID: "k1", Title: "Bulk"}))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	if diff := cmp.Diff(plan, got, ignoreTimes); diff != "" {
		t.Fatalf("plan mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 950, got.TotalCalories())

	byClient, err := repo.List(ctx, repository.MealPlanFilters{ClientID: "c1"})
	require.NoError(t, err)
	require.Len(t, byClient, 1)

	byCoach, err := repo.List(ctx, repository.MealPlanFilters{CoachID: "k1"})
	require.NoError(t, err)
	require.Len(t, byCoach, 2)

	plan.Title = "Cut week 2"
	plan.Meals = nil
	require.NoError(t, repo.Update(ctx, plan))
	got, err = repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Cut week 2", got.Title)
	require.Empty(t, got.Meals)

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err = repo.Get(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "p1"), repository.ErrNotFound)
	require.ErrorIs(t, repo.Update(ctx, plan), repository.ErrNotFound)
}

func TestMealPlanDuplicateIDConflicts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMealPlanRepo(openDB(t))
	p := repository.MealPlan{ID: "dup", ClientID: "c1", Title: "A"}
	require.NoError(t, repo.Insert(ctx, p))
	require.ErrorIs(t, repo.Insert(ctx, p), repository.ErrConflict)
}

func TestExercises(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewExerciseRepo(openDB(t))
	require.NoError(t, repo.Insert(ctx, repository.Exercise{ID: "e1", ClientID: "c1", Name: "Squat", Sets: 5, Reps: 5, WeightKg: 100, Day: "2026-10-19"}))
	require.NoError(t, repo.Insert(ctx, repository.Exercise{ID: "e2", ClientID: "c1", Name: "Plank", Sets: 3, Reps: 1, Day: "2026-10-20"}))

	day, err := repo.List(ctx, repository.ExerciseFilters{ClientID: "c1", Day: "2026-10-19"})
	require.NoError(t, err)
	require.Len(t, day, 1)
	require.Equal(t, "Squat", day[0].Name)
	require.False(t, day[0].Completed)

	require.NoError(t, repo.SetCompleted(ctx, "e1", true))
	e, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	require.True(t, e.Completed)

	e.Reps = 3
	require.NoError(t, repo.Update(ctx, e))
	e, err = repo.Get(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, 3, e.Reps)

	require.ErrorIs(t, repo.SetCompleted(ctx, "missing", true), repository.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "e2"))
	all, err := repo.List(ctx, repository.ExerciseFilters{ClientID: "c1"})
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestProgressPhotos(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewProgressPhotoRepo(openDB(t))
	older := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 1, 0)
	require.NoError(t, repo.Insert(ctx, repository.ProgressPhoto{ID: "a", ClientID: "c1", MediaKey: "m/a", ContentType: "image/jpeg", TakenAt: older}))
	require.NoError(t, repo.Insert(ctx, repository.ProgressPhoto{ID: "b", ClientID: "c1", MediaKey: "m/b", ContentType: "image/png", Caption: "week 4", TakenAt: newer}))
	require.ErrorIs(t, repo.Insert(ctx, repository.ProgressPhoto{ID: "c", ClientID: "c1", MediaKey: "m/b", ContentType: "image/png", TakenAt: newer}), repository.ErrConflict)

	list, err := repo.List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "b", list[0].ID)
	require.True(t, list[0].TakenAt.Equal(newer))

	p, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "m/a", p.MediaKey)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Get(ctx, "a")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecipes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewRecipeRepo(openDB(t))
	rec := repository.Recipe{ID: "r1", CoachID: "k1", Name: "Protein pancakes", Ingredients: []string{"oats", "eggs", "whey"}, Calories: 420}
	require.NoError(t, repo.Insert(ctx, rec))
	require.ErrorIs(t, repo.Insert(ctx, repository.Recipe{ID: "r2", CoachID: "k1", Name: "Protein pancakes"}), repository.ErrConflict)
	require.NoError(t, repo.Insert(ctx, repository.Recipe{ID: "r3", CoachID: "k2", Name: "Chili"}))

	got, err := repo.Get(ctx, "r1")
	require.NoError(t, err)
	require.Equal(t, []string{"oats", "eggs", "whey"}, got.Ingredients)

	mine, err := repo.List(ctx, "k1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Chili", all[0].Name)

	require.NoError(t, repo.Delete(ctx, "r1"))
	require.ErrorIs(t, repo.Delete(ctx, "r1"), repository.ErrNotFound)
}

func TestStoryViewsAreIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewStoryViewRepo(openDB(t))
	require.NoError(t, repo.Record(ctx, "s1", "alice"))
	require.NoError(t, repo.Record(ctx, "s1", "alice"))
	require.NoError(t, repo.Record(ctx, "s1", "bob"))
	require.NoError(t, repo.Record(ctx, "s2", "alice"))

	n, err := repo.Count(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	views, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.Equal(t, "alice", views[0].ViewerID)
}
