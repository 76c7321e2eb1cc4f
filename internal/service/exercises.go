package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/fitcoach/internal/database/repository"
)

// ExerciseService manages exercises assigned to clients.
type ExerciseService struct {
	Exercises *repository.ExerciseRepo
}

func validateExercise(e repository.Exercise) error {
	v := &validator{}
	v.check(strings.TrimSpace(e.ClientID) != "", "client_id is required")
	v.check(strings.TrimSpace(e.Name) != "", "name is required")
	v.check(e.Sets > 0, "sets must be positive")
	v.check(e.Reps > 0, "reps must be positive")
	v.check(e.WeightKg >= 0, "weight_kg must not be negative")
	v.check(strings.TrimSpace(e.Day) != "", "day is required")
	v.check(validDay(e.Day), "day must be YYYY-MM-DD")
	return v.err()
}

func (s *ExerciseService) Create(ctx context.Context, e repository.Exercise) (repository.Exercise, error) {
	e.Name = strings.TrimSpace(e.Name)
	if err := validateExercise(e); err != nil {
		return repository.Exercise{}, err
	}
	e.ID = uuid.NewString()
	if err := s.Exercises.Insert(ctx, e); err != nil {
		return repository.Exercise{}, fmt.Errorf("insert exercise: %w", err)
	}
	return s.Exercises.Get(ctx, e.ID)
}

func (s *ExerciseService) List(ctx context.Context, f repository.ExerciseFilters) ([]repository.Exercise, error) {
	v := &validator{}
	v.check(f.ClientID != "", "client_id is required")
	v.check(validDay(f.Day), "day must be YYYY-MM-DD")
	if err := v.err(); err != nil {
		return nil, err
	}
	return s.Exercises.List(ctx, f)
}

func (s *ExerciseService) Update(ctx context.Context, e repository.Exercise) (repository.Exercise, error) {
	prev, err := s.Exercises.Get(ctx, e.ID)
	if err != nil {
		return repository.Exercise{}, err
	}
	e.ClientID, e.CoachID = prev.ClientID, prev.CoachID
	e.Name = strings.TrimSpace(e.Name)
	if err := validateExercise(e); err != nil {
		return repository.Exercise{}, err
	}
	if err := s.Exercises.Update(ctx, e); err != nil {
		return repository.Exercise{}, fmt.Errorf("update exercise: %w", err)
	}
	return s.Exercises.Get(ctx, e.ID)
}

// Complete sets the completion flag and returns the updated exercise.
func (s *ExerciseService) Complete(ctx context.Context, id string, done bool) (repository.Exercise, error) {
	if err := s.Exercises.SetCompleted(ctx, id, done); err != nil {
		return repository.Exercise{}, err
	}
	return s.Exercises.Get(ctx, id)
}

func (s *ExerciseService) Delete(ctx context.Context, id string) error {
	return s.Exercises.Delete(ctx, id)
}
