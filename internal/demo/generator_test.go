package demo

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/fitcoach/internal/database"
	"github.com/jask/fitcoach/internal/database/repository"
	"github.com/jask/fitcoach/internal/service"
)

func TestSeedWeek(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "demo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(ctx, db))

	svc := Services{
		Plans:     &service.MealPlanService{Plans: repository.NewMealPlanRepo(db)},
		Exercises: &service.ExerciseService{Exercises: repository.NewExerciseRepo(db)},
		Recipes:   &service.RecipeService{Recipes: repository.NewRecipeRepo(db)},
		Templates: repository.NewExerciseTemplateRepo(db),
	}
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	opts := Options{ClientID: "c1", CoachID: "k1", Start: start, Days: 3, Seed: 1}
	require.NoError(t, Seed(ctx, svc, opts))

	plans, err := svc.Plans.List(ctx, repository.MealPlanFilters{ClientID: "c1"})
	require.NoError(t, err)
	require.Len(t, plans, 3)
	for _, p := range plans {
		require.Len(t, p.Meals, 3)
		require.Positive(t, p.TotalCalories())
	}

	day, err := svc.Exercises.List(ctx, repository.ExerciseFilters{ClientID: "c1", Day: "2026-10-21"})
	require.NoError(t, err)
	require.Len(t, day, 3)

	// a second run adds days but not duplicate recipes
	require.NoError(t, Seed(ctx, svc, opts))
	list, err := svc.Recipes.List(ctx, "k1")
	require.NoError(t, err)
	require.Len(t, list, 3)
}
