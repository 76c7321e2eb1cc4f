package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jask/fitcoach/internal/api"
	"github.com/jask/fitcoach/internal/database/repository"
	"github.com/jask/fitcoach/internal/media"
	"github.com/jask/fitcoach/internal/service"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := os.MkdirAll(filepath.Dir(a.cfg.Media.Path), 0o755); err != nil {
				return fmt.Errorf("mkdir media dir: %w", err)
			}
			store, err := media.Open(a.cfg.Media.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			secret, err := a.signingSecret()
			if err != nil {
				return err
			}
			signer, err := media.NewSigner(secret, a.cfg.Media.BaseURL)
			if err != nil {
				return err
			}

			plans := repository.NewMealPlanRepo(db)
			exercises := repository.NewExerciseRepo(db)
			photos := repository.NewProgressPhotoRepo(db)
			recipes := repository.NewRecipeRepo(db)
			srv := api.New(a.cfg, api.Deps{
				Plans:       &service.MealPlanService{Plans: plans},
				Exercises:   &service.ExerciseService{Exercises: exercises},
				Photos:      &service.PhotoService{Photos: photos, Media: store},
				Recipes:     &service.RecipeService{Recipes: recipes},
				Stories:     &service.StoryService{Views: repository.NewStoryViewRepo(db)},
				Media:       store,
				Signer:      signer,
				Transcriber: a.transcriber(ctx),
				Log:         a.log,
			})
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
