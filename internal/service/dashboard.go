package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jask/fitcoach/internal/database/repository"
)

// DashboardService gathers a client's day for the terminal UI.
type DashboardService struct {
	Plans     *repository.MealPlanRepo
	Exercises *repository.ExerciseRepo
	Photos    *repository.ProgressPhotoRepo
	Recipes   *repository.RecipeRepo
}

// Dashboard is one client's view of a day.
type Dashboard struct {
	ClientID  string
	Day       string
	Plans     []repository.MealPlan
	Exercises []repository.Exercise
	Photos    []repository.ProgressPhoto
	Recipes   []repository.Recipe
}

// Load fetches the sections in parallel. coachID scopes the recipe list and may be empty.
func (s *DashboardService) Load(ctx context.Context, clientID, coachID, day string) (Dashboard, error) {
	v := &validator{}
	v.check(clientID != "", "client_id is required")
	v.check(validDay(day), "day must be YYYY-MM-DD")
	if err := v.err(); err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{ClientID: clientID, Day: day}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Plans, err = s.Plans.List(gctx, repository.MealPlanFilters{ClientID: clientID, Day: day})
		return err
	})
	g.Go(func() error {
		var err error
		d.Exercises, err = s.Exercises.List(gctx, repository.ExerciseFilters{ClientID: clientID, Day: day})
		return err
	})
	g.Go(func() error {
		var err error
		d.Photos, err = s.Photos.List(gctx, clientID)
		return err
	})
	g.Go(func() error {
		var err error
		d.Recipes, err = s.Recipes.List(gctx, coachID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
