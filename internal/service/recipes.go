package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/jask/fitcoach/internal/database/repository"
)

// RecipeService manages a coach's recipe book.
type RecipeService struct {
	Recipes *repository.RecipeRepo
}

func (s *RecipeService) Create(ctx context.Context, r repository.Recipe) (repository.Recipe, error) {
	r.Name = strings.TrimSpace(r.Name)
	v := &validator{}
	v.check(strings.TrimSpace(r.CoachID) != "", "coach_id is required")
	v.check(r.Name != "", "name is required")
	v.check(r.Calories >= 0, "calories must not be negative")
	if err := v.err(); err != nil {
		return repository.Recipe{}, err
	}
	cleaned := r.Ingredients[:0]
	for _, ing := range r.Ingredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			cleaned = append(cleaned, ing)
		}
	}
	r.Ingredients = cleaned
	r.ID = uuid.NewString()
	if err := s.Recipes.Insert(ctx, r); err != nil {
		return repository.Recipe{}, fmt.Errorf("insert recipe: %w", err)
	}
	return s.Recipes.Get(ctx, r.ID)
}

func (s *RecipeService) Get(ctx context.Context, id string) (repository.Recipe, error) {
	return s.Recipes.Get(ctx, id)
}

func (s *RecipeService) List(ctx context.Context, coachID string) ([]repository.Recipe, error) {
	v := &validator{}
	v.check(strings.TrimSpace(coachID) != "", "coach_id is required")
	if err := v.err(); err != nil {
		return nil, err
	}
	return s.Recipes.List(ctx, coachID)
}

func (s *RecipeService) Delete(ctx context.Context, id string) error {
	return s.Recipes.Delete(ctx, id)
}

// Search ranks a coach's recipes against query. Names containing the query
// come first; the rest match when a word of the name is within a small edit
// distance of a query word, so "pancake" finds "Protein Pancakes".
func (s *RecipeService) Search(ctx context.Context, coachID, query string) ([]repository.Recipe, error) {
	all, err := s.List(ctx, coachID)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}

	type scored struct {
		r     repository.Recipe
		score int
	}
	var hits []scored
	for _, r := range all {
		if score, ok := matchScore(query, strings.ToLower(r.Name)); ok {
			hits = append(hits, scored{r, score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score < hits[j].score })
	out := make([]repository.Recipe, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.r)
	}
	return out, nil
}

func matchScore(query, name string) (int, bool) {
	if strings.Contains(name, query) {
		return 0, true
	}
	total := 0
	for _, qw := range strings.Fields(query) {
		best := -1
		for _, nw := range strings.Fields(name) {
			d := levenshtein.ComputeDistance(qw, nw)
			if best < 0 || d < best {
				best = d
			}
		}
		if best < 0 || best > len(qw)/3+1 {
			return 0, false
		}
		total += best
	}
	return total + 1, true
}
