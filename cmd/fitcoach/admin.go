package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/jask/fitcoach/internal/database"
	"github.com/jask/fitcoach/internal/database/repository"
	"github.com/jask/fitcoach/internal/demo"
	"github.com/jask/fitcoach/internal/featureflag"
	"github.com/jask/fitcoach/internal/secrets"
	"github.com/jask/fitcoach/internal/service"
)

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := os.MkdirAll(filepath.Dir(a.cfg.Database.Path), 0o755); err != nil {
				return fmt.Errorf("mkdir db dir: %w", err)
			}
			if err := database.RunMigrations(a.cfg.Database.Path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
			return nil
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	var reset, sample bool
	var clientID, coachID string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the default exercise library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			if reset {
				if err := (&service.MaintenanceService{DB: db}).Reset(ctx); err != nil {
					return err
				}
				if err := database.SeedDefaults(ctx, db); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "exercise library seeded")
			if !sample {
				return nil
			}
			exercises := repository.NewExerciseRepo(db)
			err = demo.Seed(ctx, demo.Services{
				Plans:     &service.MealPlanService{Plans: repository.NewMealPlanRepo(db)},
				Exercises: &service.ExerciseService{Exercises: exercises},
				Recipes:   &service.RecipeService{Recipes: repository.NewRecipeRepo(db)},
				Templates: repository.NewExerciseTemplateRepo(db),
			}, demo.Options{ClientID: clientID, CoachID: coachID, Seed: time.Now().UnixNano()})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sample week created for %s\n", clientID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete all data first")
	cmd.Flags().BoolVar(&sample, "demo", false, "also create a sample week of plans and workouts")
	cmd.Flags().StringVar(&clientID, "client", "demo-client", "client id for --demo")
	cmd.Flags().StringVar(&coachID, "coach", "demo-coach", "coach id for --demo")
	return cmd
}

func (a *app) flagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flags [name...]",
		Short: "Show feature flag values",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(featureflag.Snapshot(args...))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func (a *app) keyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage transcription API keys in the OS keyring",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <provider>",
		Short: "Store an API key read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := readKey(cmd)
			if err != nil {
				return err
			}
			if key == "" {
				return fmt.Errorf("empty key")
			}
			return secrets.StoreProviderKey(args[0], key)
		},
	}, &cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return secrets.DeleteProviderKey(args[0])
		},
	})
	return cmd
}

func readKey(cmd *cobra.Command) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(cmd.ErrOrStderr(), "API key: ")
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
