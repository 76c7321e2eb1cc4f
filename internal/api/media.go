package api

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jask/fitcoach/internal/database/repository"
	"github.com/jask/fitcoach/internal/service"
)

const maxURLTTL = 24 * time.Hour

type photoView struct {
	repository.ProgressPhoto
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Server) viewPhoto(p repository.ProgressPhoto) photoView {
	url, exp := s.deps.Signer.Sign(p.MediaKey, s.urlTTL)
	return photoView{ProgressPhoto: p, URL: url, ExpiresAt: exp}
}

func (s *Server) listPhotos(w http.ResponseWriter, r *http.Request) error {
	photos, err := s.deps.Photos.List(r.Context(), r.URL.Query().Get("client_id"))
	if err != nil {
		return err
	}
	out := make([]photoView, 0, len(photos))
	for _, p := range photos {
		out = append(out, s.viewPhoto(p))
	}
	writeJSON(w, http.StatusOK, out)
	return nil
}

func (s *Server) uploadPhoto(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	var taken time.Time
	if v := q.Get("taken_at"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return invalid("taken_at must be RFC 3339")
		}
		taken = t
	}
	data, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	p, err := s.deps.Photos.Upload(r.Context(), service.PhotoUpload{
		ClientID:    q.Get("client_id"),
		ContentType: r.Header.Get("Content-Type"),
		Caption:     q.Get("caption"),
		TakenAt:     taken,
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, s.viewPhoto(p))
	return nil
}

func (s *Server) deletePhoto(w http.ResponseWriter, r *http.Request) error {
	if err := s.deps.Photos.Delete(r.Context(), r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) signMedia(w http.ResponseWriter, r *http.Request) error {
	var body struct {
		Key        string `json:"key"`
		TTLSeconds int    `json:"ttl_seconds"`
	}
	if err := s.decode(w, r, &body, false); err != nil {
		return err
	}
	if strings.TrimSpace(body.Key) == "" {
		return invalid("key is required")
	}
	if _, _, err := s.deps.Media.Get(body.Key); err != nil {
		return err
	}
	ttl := time.Duration(body.TTLSeconds) * time.Second
	switch {
	case ttl <= 0:
		ttl = s.urlTTL
	case ttl > maxURLTTL:
		ttl = maxURLTTL
	}
	url, exp := s.deps.Signer.Sign(body.Key, ttl)
	writeJSON(w, http.StatusOK, map[string]any{"url": url, "expires_at": exp})
	return nil
}

func (s *Server) serveMedia(w http.ResponseWriter, r *http.Request) error {
	key := r.PathValue("key")
	q := r.URL.Query()
	if err := s.deps.Signer.Verify(key, q.Get("exp"), q.Get("sig")); err != nil {
		return err
	}
	data, meta, err := s.deps.Media.Get(key)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	if _, err := w.Write(data); err != nil {
		s.log.Warn("write media", zap.String("key", key), zap.Error(err))
	}
	return nil
}

func (s *Server) transcribe(w http.ResponseWriter, r *http.Request) error {
	audio, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	text, err := s.deps.Transcriber.Transcribe(r.Context(), audio, mimeType)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
	return nil
}
