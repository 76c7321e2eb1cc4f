package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// MealPlanFilters defines list filters. Empty fields are not filtered on.
type MealPlanFilters struct {
	ClientID string
	CoachID  string
	Day      string
}

// MealPlanRepo handles meal plans.
type MealPlanRepo struct {
	db *sql.DB
}

func NewMealPlanRepo(db *sql.DB) *MealPlanRepo { return &MealPlanRepo{db: db} }

const mealPlanColumns = "id, client_id, coach_id, title, notes, day, meals, created_at, updated_at"

func (r *MealPlanRepo) Insert(ctx context.Context, p MealPlan) error {
	meals, err := encodeMeals(p.Meals)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO meal_plans(id, client_id, coach_id, title, notes, day, meals, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, p.ID, p.ClientID, p.CoachID, p.Title, p.Notes, p.Day, meals)
	return mapErr(err)
}

func (r *MealPlanRepo) Update(ctx context.Context, p MealPlan) error {
	meals, err := encodeMeals(p.Meals)
	if err != nil {
		return err
	}
	return requireAffected(r.db.ExecContext(ctx, `
	UPDATE meal_plans SET title = ?, notes = ?, day = ?, meals = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`, p.Title, p.Notes, p.Day, meals, p.ID))
}

func (r *MealPlanRepo) Delete(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM meal_plans WHERE id = ?`, id))
}

func (r *MealPlanRepo) Get(ctx context.Context, id string) (MealPlan, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+mealPlanColumns+" FROM meal_plans WHERE id = ?", id)
	p, err := scanMealPlan(row)
	if err != nil {
		return MealPlan{}, mapErr(err)
	}
	return p, nil
}

func (r *MealPlanRepo) List(ctx context.Context, f MealPlanFilters) ([]MealPlan, error) {
	var where []string
	var args []interface{}
	if f.ClientID != "" {
		where = append(where, "client_id = ?")
		args = append(args, f.ClientID)
	}
	if f.CoachID != "" {
		where = append(where, "coach_id = ?")
		args = append(args, f.CoachID)
	}
	if f.Day != "" {
		where = append(where, "day = ?")
		args = append(args, f.Day)
	}

	query := "SELECT " + mealPlanColumns + " FROM meal_plans"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY day DESC, created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []MealPlan
	for rows.Next() {
		p, err := scanMealPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanMealPlan(row scanner) (MealPlan, error) {
	var p MealPlan
	var meals string
	if err := row.Scan(&p.ID, &p.ClientID, &p.CoachID, &p.Title, &p.Notes, &p.Day, &meals, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return MealPlan{}, err
	}
	if err := json.Unmarshal([]byte(meals), &p.Meals); err != nil {
		return MealPlan{}, fmt.Errorf("decode meals for plan %s: %w", p.ID, err)
	}
	return p, nil
}

func encodeMeals(meals []Meal) (string, error) {
	if meals == nil {
		meals = []Meal{}
	}
	b, err := json.Marshal(meals)
	if err != nil {
		return "", fmt.Errorf("encode meals: %w", err)
	}
	return string(b), nil
}
