package api

import (
	"net/http"

	"github.com/jask/fitcoach/internal/database/repository"
	"github.com/jask/fitcoach/internal/featureflag"
)

func (s *Server) listPlans(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	plans, err := s.deps.Plans.List(r.Context(), repository.MealPlanFilters{
		ClientID: q.Get("client_id"),
		CoachID:  q.Get("coach_id"),
		Day:      q.Get("day"),
	})
	if err != nil {
		return err
	}
	if plans == nil {
		plans = []repository.MealPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
	return nil
}

func (s *Server) createPlan(w http.ResponseWriter, r *http.Request) error {
	var p repository.MealPlan
	if err := s.decode(w, r, &p, false); err != nil {
		return err
	}
	created, err := s.deps.Plans.Create(r.Context(), p)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, created)
	return nil
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) error {
	p, err := s.deps.Plans.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, p)
	return nil
}

func (s *Server) updatePlan(w http.ResponseWriter, r *http.Request) error {
	var p repository.MealPlan
	if err := s.decode(w, r, &p, false); err != nil {
		return err
	}
	p.ID = r.PathValue("id")
	next, changes, err := s.deps.Plans.Update(r.Context(), p)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{"plan": next, "changes": changes})
	return nil
}

func (s *Server) deletePlan(w http.ResponseWriter, r *http.Request) error {
	if err := s.deps.Plans.Delete(r.Context(), r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) listExercises(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	list, err := s.deps.Exercises.List(r.Context(), repository.ExerciseFilters{
		ClientID: q.Get("client_id"),
		Day:      q.Get("day"),
	})
	if err != nil {
		return err
	}
	if list == nil {
		list = []repository.Exercise{}
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

func (s *Server) createExercise(w http.ResponseWriter, r *http.Request) error {
	var e repository.Exercise
	if err := s.decode(w, r, &e, false); err != nil {
		return err
	}
	created, err := s.deps.Exercises.Create(r.Context(), e)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, created)
	return nil
}

func (s *Server) updateExercise(w http.ResponseWriter, r *http.Request) error {
	var e repository.Exercise
	if err := s.decode(w, r, &e, false); err != nil {
		return err
	}
	e.ID = r.PathValue("id")
	updated, err := s.deps.Exercises.Update(r.Context(), e)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, updated)
	return nil
}

func (s *Server) deleteExercise(w http.ResponseWriter, r *http.Request) error {
	if err := s.deps.Exercises.Delete(r.Context(), r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// completeExercise marks an exercise done. A body of {"completed": false}
// clears the mark.
func (s *Server) completeExercise(w http.ResponseWriter, r *http.Request) error {
	body := struct {
		Completed *bool `json:"completed"`
	}{}
	if err := s.decode(w, r, &body, true); err != nil {
		return err
	}
	done := body.Completed == nil || *body.Completed
	e, err := s.deps.Exercises.Complete(r.Context(), r.PathValue("id"), done)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, e)
	return nil
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	list, err := s.deps.Recipes.Search(r.Context(), q.Get("coach_id"), q.Get("q"))
	if err != nil {
		return err
	}
	if list == nil {
		list = []repository.Recipe{}
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) error {
	var rec repository.Recipe
	if err := s.decode(w, r, &rec, false); err != nil {
		return err
	}
	created, err := s.deps.Recipes.Create(r.Context(), rec)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, created)
	return nil
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) error {
	rec, err := s.deps.Recipes.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, rec)
	return nil
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) error {
	if err := s.deps.Recipes.Delete(r.Context(), r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) recordView(w http.ResponseWriter, r *http.Request) error {
	var body struct {
		StoryID  string `json:"story_id"`
		ViewerID string `json:"viewer_id"`
	}
	if err := s.decode(w, r, &body, false); err != nil {
		return err
	}
	if err := s.deps.Stories.RecordView(r.Context(), body.StoryID, body.ViewerID); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) storyViewers(w http.ResponseWriter, r *http.Request) error {
	sv, err := s.deps.Stories.Viewers(r.Context(), r.URL.Query().Get("story_id"))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, sv)
	return nil
}

func (s *Server) featureFlag(w http.ResponseWriter, r *http.Request) error {
	name := r.PathValue("name")
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "enabled": featureflag.Enabled(name)})
	return nil
}
