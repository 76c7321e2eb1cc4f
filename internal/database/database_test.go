package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/fitcoach/internal/database/repository"
)

func TestMigrateAndSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenMigrated(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// second run sees no change
	require.NoError(t, RunMigrations(dbPath))

	require.NoError(t, SeedDefaults(ctx, db))
	require.NoError(t, SeedDefaults(ctx, db))

	list, err := repository.NewExerciseTemplateRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 10)

	names := map[string]bool{}
	for _, e := range list {
		names[e.Name] = true
	}
	require.True(t, names["Back Squat"])
	require.True(t, names["Plank"])
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := OpenMigrated(filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	err = WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO story_views(story_id, viewer_id) VALUES ('s1', 'v1')`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO story_views(story_id, viewer_id) VALUES ('s1', 'v1')`)
		return err
	})
	require.Error(t, err)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM story_views`).Scan(&n))
	require.Zero(t, n)
}
