package repository

import (
	"context"
	"database/sql"
)

// ExerciseTemplateRepo handles the exercise library.
type ExerciseTemplateRepo struct {
	db *sql.DB
}

func NewExerciseTemplateRepo(db *sql.DB) *ExerciseTemplateRepo {
	return &ExerciseTemplateRepo{db: db}
}

func (r *ExerciseTemplateRepo) Upsert(ctx context.Context, t ExerciseTemplate) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO exercise_templates(id, name, muscle_group, equipment)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 muscle_group=excluded.muscle_group,
	 equipment=excluded.equipment;
	`, t.ID, t.Name, t.MuscleGroup, t.Equipment)
	return mapErr(err)
}

func (r *ExerciseTemplateRepo) List(ctx context.Context) ([]ExerciseTemplate, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, muscle_group, equipment FROM exercise_templates ORDER BY muscle_group, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ExerciseTemplate
	for rows.Next() {
		var t ExerciseTemplate
		if err := rows.Scan(&t.ID, &t.Name, &t.MuscleGroup, &t.Equipment); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
