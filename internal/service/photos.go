package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/fitcoach/internal/database"
	"github.com/jask/fitcoach/internal/database/repository"
	"github.com/jask/fitcoach/internal/media"
)

// PhotoService stores progress photos: bytes in the media store, metadata in sqlite.
type PhotoService struct {
	Photos *repository.ProgressPhotoRepo
	Media  *media.Store
}

// PhotoUpload is an incoming progress photo.
type PhotoUpload struct {
	ClientID    string
	ContentType string
	Caption     string
	TakenAt     time.Time
	Body        io.Reader
}

func (s *PhotoService) Upload(ctx context.Context, in PhotoUpload) (repository.ProgressPhoto, error) {
	mediaType, _, err := mime.ParseMediaType(in.ContentType)
	v := &validator{}
	v.check(strings.TrimSpace(in.ClientID) != "", "client_id is required")
	v.check(err == nil && strings.HasPrefix(mediaType, "image/"), "content type must be an image")
	v.check(in.Body != nil, "body is required")
	if err := v.err(); err != nil {
		return repository.ProgressPhoto{}, err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return repository.ProgressPhoto{}, fmt.Errorf("read photo: %w", err)
	}
	if len(data) == 0 {
		return repository.ProgressPhoto{}, &ValidationError{Problems: []string{"photo is empty"}}
	}

	taken := in.TakenAt
	if taken.IsZero() {
		taken = database.Now()
	}
	id := uuid.NewString()
	p := repository.ProgressPhoto{
		ID:          id,
		ClientID:    in.ClientID,
		MediaKey:    "photos/" + in.ClientID + "/" + id,
		ContentType: mediaType,
		Caption:     strings.TrimSpace(in.Caption),
		TakenAt:     taken.UTC(),
	}
	if err := s.Media.Put(p.MediaKey, mediaType, data); err != nil {
		return repository.ProgressPhoto{}, fmt.Errorf("store photo: %w", err)
	}
	if err := s.Photos.Insert(ctx, p); err != nil {
		_ = s.Media.Delete(p.MediaKey)
		return repository.ProgressPhoto{}, fmt.Errorf("insert photo: %w", err)
	}
	return s.Photos.Get(ctx, id)
}

func (s *PhotoService) List(ctx context.Context, clientID string) ([]repository.ProgressPhoto, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, &ValidationError{Problems: []string{"client_id is required"}}
	}
	return s.Photos.List(ctx, clientID)
}

// Delete removes the metadata row first so a failed blob delete leaves only an orphan blob.
func (s *PhotoService) Delete(ctx context.Context, id string) error {
	p, err := s.Photos.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Photos.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Media.Delete(p.MediaKey); err != nil {
		return fmt.Errorf("delete photo blob: %w", err)
	}
	return nil
}
