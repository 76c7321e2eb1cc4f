// Package demo fills an empty database with a week of sample coaching data.
package demo

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jask/fitcoach/internal/database/repository"
	"github.com/jask/fitcoach/internal/service"
)

// Services bundles the services used by Seed.
type Services struct {
	Plans     *service.MealPlanService
	Exercises *service.ExerciseService
	Recipes   *service.RecipeService
	Templates *repository.ExerciseTemplateRepo
}

// Options selects who the data belongs to.
type Options struct {
	ClientID string
	CoachID  string
	Start    time.Time // first day of the week
	Days     int
	Seed     int64
}

var meals = []repository.Meal{
	{Name: "Overnight oats", Calories: 380, ProteinG: 18, CarbsG: 55, FatG: 9},
	{Name: "Greek yoghurt and berries", Calories: 220, ProteinG: 20, CarbsG: 24, FatG: 4},
	{Name: "Chicken rice bowl", Calories: 610, ProteinG: 48, CarbsG: 70, FatG: 12},
	{Name: "Salmon salad", Calories: 520, ProteinG: 36, CarbsG: 14, FatG: 32},
	{Name: "Turkey chili", Calories: 540, ProteinG: 42, CarbsG: 46, FatG: 16},
	{Name: "Tofu stir fry", Calories: 480, ProteinG: 28, CarbsG: 52, FatG: 18},
	{Name: "Protein shake", Calories: 180, ProteinG: 30, CarbsG: 8, FatG: 3},
}

var recipes = []repository.Recipe{
	{Name: "Protein Pancakes", Calories: 420, Ingredients: []string{"oats", "eggs", "whey", "banana"},
		Instructions: "Blend everything, rest five minutes, cook on a hot pan."},
	{Name: "Turkey Chili", Calories: 540, Ingredients: []string{"turkey mince", "kidney beans", "tomatoes", "chili"},
		Instructions: "Brown the mince, add the rest, simmer for forty minutes."},
	{Name: "Overnight Oats", Calories: 380, Ingredients: []string{"oats", "milk", "chia", "berries"},
		Instructions: "Mix and leave in the fridge overnight."},
}

// Seed creates Days of meal plans and exercises for the client, plus the
// coach's recipes. Recipes that already exist are skipped.
func Seed(ctx context.Context, svc Services, opts Options) error {
	if opts.Days <= 0 {
		opts.Days = 7
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now()
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	templates, err := svc.Templates.List(ctx)
	if err != nil {
		return err
	}
	for d := 0; d < opts.Days; d++ {
		day := service.Day(opts.Start.AddDate(0, 0, d))
		picked := make([]repository.Meal, 0, 3)
		for _, i := range rng.Perm(len(meals))[:3] {
			picked = append(picked, meals[i])
		}
		if _, err := svc.Plans.Create(ctx, repository.MealPlan{
			ClientID: opts.ClientID,
			CoachID:  opts.CoachID,
			Title:    fmt.Sprintf("Day %d", d+1),
			Day:      day,
			Notes:    "Drink at least 3L of water.",
			Meals:    picked,
		}); err != nil {
			return fmt.Errorf("plan for %s: %w", day, err)
		}
		if len(templates) == 0 {
			continue
		}
		for _, i := range rng.Perm(len(templates))[:min(3, len(templates))] {
			t := templates[i]
			if _, err := svc.Exercises.Create(ctx, repository.Exercise{
				ClientID: opts.ClientID,
				CoachID:  opts.CoachID,
				Name:     t.Name,
				Sets:     3 + rng.Intn(3),
				Reps:     5 + rng.Intn(8),
				WeightKg: float64(rng.Intn(16)) * 5,
				Day:      day,
			}); err != nil {
				return fmt.Errorf("exercise for %s: %w", day, err)
			}
		}
	}
	for _, r := range recipes {
		r.CoachID = opts.CoachID
		if _, err := svc.Recipes.Create(ctx, r); err != nil && !errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("recipe %s: %w", r.Name, err)
		}
	}
	return nil
}
