package repository

import (
	"context"
	"database/sql"
	"strings"
)

// ExerciseFilters defines list filters.
type ExerciseFilters struct {
	ClientID string
	Day      string
}

// ExerciseRepo handles assigned exercises.
type ExerciseRepo struct {
	db *sql.DB
}

func NewExerciseRepo(db *sql.DB) *ExerciseRepo { return &ExerciseRepo{db: db} }

const exerciseColumns = "id, client_id, coach_id, name, sets, reps, weight_kg, day, completed, created_at"

func (r *ExerciseRepo) Insert(ctx context.Context, e Exercise) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO exercises(id, client_id, coach_id, name, sets, reps, weight_kg, day, completed, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, e.ID, e.ClientID, e.CoachID, e.Name, e.Sets, e.Reps, e.WeightKg, e.Day, e.Completed)
	return mapErr(err)
}

func (r *ExerciseRepo) Update(ctx context.Context, e Exercise) error {
	return requireAffected(r.db.ExecContext(ctx, `
	UPDATE exercises SET name = ?, sets = ?, reps = ?, weight_kg = ?, day = ?, completed = ?
	WHERE id = ?`, e.Name, e.Sets, e.Reps, e.WeightKg, e.Day, e.Completed, e.ID))
}

func (r *ExerciseRepo) SetCompleted(ctx context.Context, id string, completed bool) error {
	return requireAffected(r.db.ExecContext(ctx, `UPDATE exercises SET completed = ? WHERE id = ?`, completed, id))
}

func (r *ExerciseRepo) Delete(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id))
}

func (r *ExerciseRepo) Get(ctx context.Context, id string) (Exercise, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+exerciseColumns+" FROM exercises WHERE id = ?", id)
	e, err := scanExercise(row)
	if err != nil {
		return Exercise{}, mapErr(err)
	}
	return e, nil
}

func (r *ExerciseRepo) List(ctx context.Context, f ExerciseFilters) ([]Exercise, error) {
	var where []string
	var args []interface{}
	if f.ClientID != "" {
		where = append(where, "client_id = ?")
		args = append(args, f.ClientID)
	}
	if f.Day != "" {
		where = append(where, "day = ?")
		args = append(args, f.Day)
	}
	query := "SELECT " + exerciseColumns + " FROM exercises"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY day, created_at"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanExercise(row scanner) (Exercise, error) {
	var e Exercise
	err := row.Scan(&e.ID, &e.ClientID, &e.CoachID, &e.Name, &e.Sets, &e.Reps, &e.WeightKg, &e.Day, &e.Completed, &e.CreatedAt)
	return e, err
}
