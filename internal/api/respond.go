package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jask/fitcoach/internal/database/repository"
	"github.com/jask/fitcoach/internal/media"
	"github.com/jask/fitcoach/internal/service"
	"github.com/jask/fitcoach/internal/transcribe"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handle(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			s.log.Error("handler failed", zap.String("path", r.URL.Path), zap.Error(err))
			msg = http.StatusText(status)
		}
		writeJSON(w, status, errorBody{Error: msg})
	})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrInvalid), errors.Is(err, transcribe.ErrEmptyAudio):
		return http.StatusBadRequest
	case errors.Is(err, media.ErrBadSignature), errors.Is(err, media.ErrExpired):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, media.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, transcribe.ErrDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func invalid(problem string) error {
	return &service.ValidationError{Problems: []string{problem}}
}

// decode reads a JSON body into v. An empty body leaves v untouched when
// optional is set.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return err
		case optional && errors.Is(err, io.EOF):
			return nil
		}
		return invalid("invalid JSON body: " + err.Error())
	}
	return nil
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes))
}
