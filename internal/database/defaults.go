package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jask/fitcoach/internal/database/repository"
)

//go:embed seed/exercises.yaml
var exerciseLibrary []byte

type seedFile struct {
	Exercises []struct {
		Name        string `yaml:"name"`
		MuscleGroup string `yaml:"muscle_group"`
		Equipment   string `yaml:"equipment"`
	} `yaml:"exercises"`
}

// SeedDefaults ensures the exercise library exists.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	var sf seedFile
	if err := yaml.Unmarshal(exerciseLibrary, &sf); err != nil {
		return fmt.Errorf("parse exercise library: %w", err)
	}
	repo := repository.NewExerciseTemplateRepo(db)
	for _, e := range sf.Exercises {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		t := repository.ExerciseTemplate{
			ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte("exercise:"+strings.ToLower(name))).String(),
			Name:        name,
			MuscleGroup: e.MuscleGroup,
			Equipment:   e.Equipment,
		}
		if err := repo.Upsert(ctx, t); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	return nil
}
