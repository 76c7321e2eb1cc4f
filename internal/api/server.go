// Package api serves the coaching HTTP API.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jask/fitcoach/internal/config"
	"github.com/jask/fitcoach/internal/media"
	"github.com/jask/fitcoach/internal/service"
	"github.com/jask/fitcoach/internal/transcribe"
)

const shutdownGrace = 5 * time.Second

// Deps are the collaborators the handlers call into.
type Deps struct {
	Plans       *service.MealPlanService
	Exercises   *service.ExerciseService
	Photos      *service.PhotoService
	Recipes     *service.RecipeService
	Stories     *service.StoryService
	Media       *media.Store
	Signer      *media.Signer
	Transcriber transcribe.Transcriber
	Log         *zap.Logger
}

// Server routes requests to the services.
type Server struct {
	deps   Deps
	cfg    config.ServerConfig
	urlTTL time.Duration
	log    *zap.Logger
	mux    *http.ServeMux
}

// New builds a server. A nil transcriber disables transcription.
func New(cfg config.Config, deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Transcriber == nil {
		deps.Transcriber = transcribe.Disabled{}
	}
	s := &Server{
		deps:   deps,
		cfg:    cfg.Server,
		urlTTL: cfg.Media.URLTTL,
		log:    deps.Log.Named("api"),
		mux:    http.NewServeMux(),
	}
	if s.urlTTL <= 0 {
		s.urlTTL = 15 * time.Minute
	}
	if s.cfg.MaxUploadBytes <= 0 {
		s.cfg.MaxUploadBytes = 25 << 20
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	m := s.mux
	m.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	m.Handle("GET /api/meal-plans", s.handle(s.listPlans))
	m.Handle("POST /api/meal-plans", s.handle(s.createPlan))
	m.Handle("GET /api/meal-plans/{id}", s.handle(s.getPlan))
	m.Handle("PUT /api/meal-plans/{id}", s.handle(s.updatePlan))
	m.Handle("DELETE /api/meal-plans/{id}", s.handle(s.deletePlan))

	m.Handle("GET /api/exercises", s.handle(s.listExercises))
	m.Handle("POST /api/exercises", s.handle(s.createExercise))
	m.Handle("PUT /api/exercises/{id}", s.handle(s.updateExercise))
	m.Handle("DELETE /api/exercises/{id}", s.handle(s.deleteExercise))
	m.Handle("POST /api/exercises/{id}/complete", s.handle(s.completeExercise))

	m.Handle("GET /api/progress-photos", s.handle(s.listPhotos))
	m.Handle("POST /api/progress-photos", s.handle(s.uploadPhoto))
	m.Handle("DELETE /api/progress-photos/{id}", s.handle(s.deletePhoto))

	m.Handle("GET /api/recipes", s.handle(s.listRecipes))
	m.Handle("POST /api/recipes", s.handle(s.createRecipe))
	m.Handle("GET /api/recipes/{id}", s.handle(s.getRecipe))
	m.Handle("DELETE /api/recipes/{id}", s.handle(s.deleteRecipe))

	m.Handle("POST /api/story-views", s.handle(s.recordView))
	m.Handle("GET /api/story-views", s.handle(s.storyViewers))

	m.Handle("POST /api/media/sign", s.handle(s.signMedia))
	m.Handle("GET /media/{key...}", s.handle(s.serveMedia))
	m.Handle("POST /api/transcribe", s.handle(s.transcribe))
	m.Handle("GET /api/feature-flags/{name}", s.handle(s.featureFlag))
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		ErrorLog:     zap.NewStdLog(s.log),
	}
	s.log.Info("listening", zap.String("addr", ln.Addr().String()))

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			s.log.Warn("request", fields...)
			return
		}
		s.log.Debug("request", fields...)
	})
}
