package service

import (
	"context"
	"strings"

	"github.com/jask/fitcoach/internal/database/repository"
)

// StoryService records story views.
type StoryService struct {
	Views *repository.StoryViewRepo
}

// StoryViewers is the view summary for one story.
type StoryViewers struct {
	StoryID string                 `json:"story_id"`
	Count   int                    `json:"count"`
	Viewers []repository.StoryView `json:"viewers"`
}

func (s *StoryService) RecordView(ctx context.Context, storyID, viewerID string) error {
	v := &validator{}
	v.check(strings.TrimSpace(storyID) != "", "story_id is required")
	v.check(strings.TrimSpace(viewerID) != "", "viewer_id is required")
	if err := v.err(); err != nil {
		return err
	}
	return s.Views.Record(ctx, storyID, viewerID)
}

func (s *StoryService) Viewers(ctx context.Context, storyID string) (StoryViewers, error) {
	if strings.TrimSpace(storyID) == "" {
		return StoryViewers{}, &ValidationError{Problems: []string{"story_id is required"}}
	}
	views, err := s.Views.List(ctx, storyID)
	if err != nil {
		return StoryViewers{}, err
	}
	if views == nil {
		views = []repository.StoryView{}
	}
	return StoryViewers{StoryID: storyID, Count: len(views), Viewers: views}, nil
}
