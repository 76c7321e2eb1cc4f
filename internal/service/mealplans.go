package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/jask/fitcoach/internal/database/repository"
)

// MealPlanService validates and stores meal plans.
type MealPlanService struct {
	Plans *repository.MealPlanRepo
}

// Change is one run of a text diff.
type Change struct {
	Op   string `json:"op"` // "equal", "insert" or "delete"
	Text string `json:"text"`
}

// PlanChanges describes what an update changed, for the client's "what's new" view.
type PlanChanges struct {
	Notes        []Change `json:"notes,omitempty"`
	MealsAdded   []string `json:"meals_added,omitempty"`
	MealsRemoved []string `json:"meals_removed,omitempty"`
	Summary      string   `json:"summary"`
}

// Empty reports whether nothing visible changed.
func (c PlanChanges) Empty() bool {
	return len(c.Notes) == 0 && len(c.MealsAdded) == 0 && len(c.MealsRemoved) == 0
}

func validatePlan(p repository.MealPlan) error {
	v := &validator{}
	v.check(strings.TrimSpace(p.ClientID) != "", "client_id is required")
	v.check(strings.TrimSpace(p.Title) != "", "title is required")
	v.check(strings.TrimSpace(p.Day) != "", "day is required")
	v.check(validDay(p.Day), "day must be YYYY-MM-DD")
	for i, m := range p.Meals {
		v.check(strings.TrimSpace(m.Name) != "", "meal %d: name is required", i+1)
		v.check(m.Calories >= 0 && m.ProteinG >= 0 && m.CarbsG >= 0 && m.FatG >= 0, "meal %d: macros must not be negative", i+1)
	}
	return v.err()
}

func (s *MealPlanService) Create(ctx context.Context, p repository.MealPlan) (repository.MealPlan, error) {
	p.Title = strings.TrimSpace(p.Title)
	if err := validatePlan(p); err != nil {
		return repository.MealPlan{}, err
	}
	p.ID = uuid.NewString()
	if err := s.Plans.Insert(ctx, p); err != nil {
		return repository.MealPlan{}, fmt.Errorf("insert meal plan: %w", err)
	}
	return s.Plans.Get(ctx, p.ID)
}

func (s *MealPlanService) Get(ctx context.Context, id string) (repository.MealPlan, error) {
	return s.Plans.Get(ctx, id)
}

// List requires a client or coach so a request never dumps every plan.
func (s *MealPlanService) List(ctx context.Context, f repository.MealPlanFilters) ([]repository.MealPlan, error) {
	v := &validator{}
	v.check(f.ClientID != "" || f.CoachID != "", "client_id or coach_id is required")
	v.check(validDay(f.Day), "day must be YYYY-MM-DD")
	if err := v.err(); err != nil {
		return nil, err
	}
	return s.Plans.List(ctx, f)
}

// Update replaces the editable fields of a plan and reports what changed.
// Owner fields (client, coach) are kept from the stored row.
func (s *MealPlanService) Update(ctx context.Context, p repository.MealPlan) (repository.MealPlan, PlanChanges, error) {
	prev, err := s.Plans.Get(ctx, p.ID)
	if err != nil {
		return repository.MealPlan{}, PlanChanges{}, err
	}
	p.ClientID, p.CoachID = prev.ClientID, prev.CoachID
	p.Title = strings.TrimSpace(p.Title)
	if err := validatePlan(p); err != nil {
		return repository.MealPlan{}, PlanChanges{}, err
	}
	if err := s.Plans.Update(ctx, p); err != nil {
		return repository.MealPlan{}, PlanChanges{}, fmt.Errorf("update meal plan: %w", err)
	}
	next, err := s.Plans.Get(ctx, p.ID)
	if err != nil {
		return repository.MealPlan{}, PlanChanges{}, err
	}
	return next, DiffPlans(prev, next), nil
}

func (s *MealPlanService) Delete(ctx context.Context, id string) error {
	return s.Plans.Delete(ctx, id)
}

// DiffPlans compares two versions of a plan.
func DiffPlans(prev, next repository.MealPlan) PlanChanges {
	dmp := diffmatchpatch.New()
	var out PlanChanges

	if prev.Notes != next.Notes {
		diffs := dmp.DiffMain(prev.Notes, next.Notes, false)
		diffs = dmp.DiffCleanupSemantic(diffs)
		for _, d := range diffs {
			out.Notes = append(out.Notes, Change{Op: opName(d.Type), Text: d.Text})
		}
	}

	// line mode keeps meal names whole
	a, b, lines := dmp.DiffLinesToChars(mealLines(prev.Meals), mealLines(next.Meals))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	for _, d := range diffs {
		for _, name := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			if name == "" {
				continue
			}
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				out.MealsAdded = append(out.MealsAdded, name)
			case diffmatchpatch.DiffDelete:
				out.MealsRemoved = append(out.MealsRemoved, name)
			}
		}
	}

	var parts []string
	if n := len(out.MealsAdded); n > 0 {
		parts = append(parts, plural(n, "meal")+" added")
	}
	if n := len(out.MealsRemoved); n > 0 {
		parts = append(parts, plural(n, "meal")+" removed")
	}
	if len(out.Notes) > 0 {
		parts = append(parts, "notes changed")
	}
	if len(parts) == 0 {
		out.Summary = "no changes"
	} else {
		out.Summary = strings.Join(parts, ", ")
	}
	return out
}

func mealLines(meals []repository.Meal) string {
	var b strings.Builder
	for _, m := range meals {
		b.WriteString(m.Name)
		b.WriteByte('\n')
	}
	return b.String()
}

func opName(t diffmatchpatch.Operation) string {
	switch t {
	case diffmatchpatch.DiffInsert:
		return "insert"
	case diffmatchpatch.DiffDelete:
		return "delete"
	default:
		return "equal"
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
