package repository

import (
	"context"
	"database/sql"
)

// StoryViewRepo tracks who has seen a coach's story.
type StoryViewRepo struct {
	db *sql.DB
}

func NewStoryViewRepo(db *sql.DB) *StoryViewRepo { return &StoryViewRepo{db: db} }

// Record marks the story as viewed. Repeat views keep the first timestamp.
func (r *StoryViewRepo) Record(ctx context.Context, storyID, viewerID string) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO story_views(story_id, viewer_id, viewed_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(story_id, viewer_id) DO NOTHING;
	`, storyID, viewerID)
	return mapErr(err)
}

func (r *StoryViewRepo) List(ctx context.Context, storyID string) ([]StoryView, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT story_id, viewer_id, viewed_at FROM story_views WHERE story_id = ? ORDER BY viewed_at, viewer_id`, storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StoryView
	for rows.Next() {
		var v StoryView
		if err := rows.Scan(&v.StoryID, &v.ViewerID, &v.ViewedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *StoryViewRepo) Count(ctx context.Context, storyID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM story_views WHERE story_id = ?`, storyID).Scan(&n)
	return n, err
}
