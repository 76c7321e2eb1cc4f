package repository

import (
	"context"
	"database/sql"
)

// ProgressPhotoRepo handles progress photo metadata.
type ProgressPhotoRepo struct {
	db *sql.DB
}

func NewProgressPhotoRepo(db *sql.DB) *ProgressPhotoRepo { return &ProgressPhotoRepo{db: db} }

const photoColumns = "id, client_id, media_key, content_type, caption, taken_at, created_at"

func (r *ProgressPhotoRepo) Insert(ctx context.Context, p ProgressPhoto) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO progress_photos(id, client_id, media_key, content_type, caption, taken_at, created_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`, p.ID, p.ClientID, p.MediaKey, p.ContentType, p.Caption, p.TakenAt)
	return mapErr(err)
}

func (r *ProgressPhotoRepo) Get(ctx context.Context, id string) (ProgressPhoto, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+photoColumns+" FROM progress_photos WHERE id = ?", id)
	var p ProgressPhoto
	if err := row.Scan(&p.ID, &p.ClientID, &p.MediaKey, &p.ContentType, &p.Caption, &p.TakenAt, &p.CreatedAt); err != nil {
		return ProgressPhoto{}, mapErr(err)
	}
	return p, nil
}

// List returns a client's photos, newest first.
func (r *ProgressPhotoRepo) List(ctx context.Context, clientID string) ([]ProgressPhoto, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+photoColumns+" FROM progress_photos WHERE client_id = ? ORDER BY taken_at DESC", clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ProgressPhoto
	for rows.Next() {
		var p ProgressPhoto
		if err := rows.Scan(&p.ID, &p.ClientID, &p.MediaKey, &p.ContentType, &p.Caption, &p.TakenAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProgressPhotoRepo) Delete(ctx context.Context, id string) error {
	return requireAffected(r.db.ExecContext(ctx, `DELETE FROM progress_photos WHERE id = ?`, id))
}
