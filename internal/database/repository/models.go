package repository

import "time"

// Meal is one entry of a meal plan. Stored as JSON inside the plan row.
type Meal struct {
	Name     string  `json:"name"`
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// MealPlan represents a meal_plans row.
type MealPlan struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	CoachID   string    `json:"coach_id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	Day       string    `json:"day"` // YYYY-MM-DD, empty for undated plans
	Meals     []Meal    `json:"meals"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalCalories sums the plan's meals.
func (p MealPlan) TotalCalories() int {
	total := 0
	for _, m := range p.Meals {
		total += m.Calories
	}
	return total
}

// Exercise represents an exercises row.
type Exercise struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	CoachID   string    `json:"coach_id"`
	Name      string    `json:"name"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	WeightKg  float64   `json:"weight_kg"`
	Day       string    `json:"day"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// ProgressPhoto represents a progress_photos row. The image bytes live in the
// media store under MediaKey.
type ProgressPhoto struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"client_id"`
	MediaKey    string    `json:"media_key"`
	ContentType string    `json:"content_type"`
	Caption     string    `json:"caption"`
	TakenAt     time.Time `json:"taken_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Recipe represents a recipes row.
type Recipe struct {
	ID           string    `json:"id"`
	CoachID      string    `json:"coach_id"`
	Name         string    `json:"name"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	Calories     int       `json:"calories"`
	CreatedAt    time.Time `json:"created_at"`
}

// StoryView records that a viewer opened a story.
type StoryView struct {
	StoryID  string    `json:"story_id"`
	ViewerID string    `json:"viewer_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

// ExerciseTemplate is an entry of the exercise library.
type ExerciseTemplate struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
	Equipment   string `json:"equipment"`
}
