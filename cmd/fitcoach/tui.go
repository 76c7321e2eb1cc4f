package main

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jask/fitcoach/internal/database/repository"
	"github.com/jask/fitcoach/internal/prefs"
	"github.com/jask/fitcoach/internal/service"
	"github.com/jask/fitcoach/internal/tui"
)

func (a *app) tuiCmd() *cobra.Command {
	var clientID, coachID string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the client dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("tui needs an interactive terminal")
			}
			session, err := prefs.LoadSession()
			if err != nil {
				a.log.Warn("ignoring saved session", zap.Error(err))
			}
			if clientID == "" {
				clientID = session.ClientID
			}
			if coachID == "" {
				coachID = session.CoachID
			}
			if clientID == "" {
				return errors.New("--client is required on first run")
			}
			if err := prefs.SaveSession(prefs.Session{ClientID: clientID, CoachID: coachID}); err != nil {
				a.log.Warn("save session", zap.Error(err))
			}
			ctx := cmd.Context()
			db, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			plans := repository.NewMealPlanRepo(db)
			exercises := repository.NewExerciseRepo(db)
			model := tui.New(ctx, a.cfg, tui.Deps{
				Dashboard: &service.DashboardService{
					Plans:     plans,
					Exercises: exercises,
					Photos:    repository.NewProgressPhotoRepo(db),
					Recipes:   repository.NewRecipeRepo(db),
				},
				Exercises: &service.ExerciseService{Exercises: exercises},
				Log:       a.log,
			}, clientID, coachID)

			p := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithReportFocus(),
			)
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&clientID, "client", "", "client id (defaults to the last one used)")
	cmd.Flags().StringVar(&coachID, "coach", "", "coach id, for the recipe list")
	return cmd
}
