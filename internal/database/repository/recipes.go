package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// RecipeRepo handles coach recipes.
type RecipeRepo struct {
	db *sql.DB
}

func NewRecipeRepo(db *sql.DB) *RecipeRepo { return &RecipeRepo{db: db} }

const recipeColumns = "id, coach_id, name, ingredients, instructions, calories, created_at"

func (r *RecipeRepo) Insert(ctx context.Context, rec Recipe) error {
	ingredients := rec.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	raw, err := json.Marshal(ingredients)
	if err != nil {
		return fmt.Errorf("encode ingredients: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
	INSERT INTO recipes(id, coach_id, name, ingredients, instructions, calories, created_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, rec.ID, rec.CoachID, rec.Name, string(raw), rec.Instructions, rec.Calories)
	return mapErr(err)
}

func (r *RecipeRepo) Get(ctx context.Context, id string) (Recipe, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+recipeColumns+" FROM recipes WHERE id = ?", id)
	rec, err := scanRecipe(row)
	if err != nil {
		return Recipe{}, mapErr(err)
	}
	return rec, nil
}

// List returns a coach's recipes by name. An empty coachID lists all recipes.
func (r *RecipeRepo) List(ctx context.Context, coachID string) ([]Recipe, error) {
	query := "SELECT " + recipeColumns + " FROM recipes"
	var args []interface{}
	if coachID != "" {
		query += " WHERE coach_id = ?"
		args = append(args, coachID)
	}
	query += " ORDER BY name"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *RecipeRepo) Delete(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = ?`, id))
}

func scanRecipe(row scanner) (Recipe, error) {
	var rec Recipe
	var ingredients string
	if err := row.Scan(&rec.ID, &rec.CoachID, &rec.Name, &ingredients, &rec.Instructions, &rec.Calories, &rec.CreatedAt); err != nil {
		return Recipe{}, err
	}
	if err := json.Unmarshal([]byte(ingredients), &rec.Ingredients); err != nil {
		return Recipe{}, fmt.Errorf("decode ingredients for recipe %s: %w", rec.ID, err)
	}
	return rec, nil
}
