package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/fitcoach/internal/config"
	"github.com/jask/fitcoach/internal/database"
	"github.com/jask/fitcoach/internal/logging"
	"github.com/jask/fitcoach/internal/secrets"
	"github.com/jask/fitcoach/internal/transcribe"
)

type app struct {
	cfg config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	root := &cobra.Command{
		Use:          "fitcoach",
		Short:        "Fitness coaching backend and client dashboard",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	root.AddCommand(a.serveCmd(), a.tuiCmd(), a.migrateCmd(), a.seedCmd(), a.flagsCmd(), a.keyCmd())
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	// the dashboard owns the terminal, so it logs to a file
	var log *zap.Logger
	if cmd.Name() == "tui" {
		log, err = logging.NewFile(cfg.Log)
	} else {
		log, err = logging.New(cfg.Log)
	}
	if err != nil {
		return err
	}
	a.log = log
	return nil
}

func (a *app) openDB(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(a.cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.OpenMigrated(a.cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := database.SeedDefaults(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed defaults: %w", err)
	}
	return db, nil
}

// signingSecret prefers the keyring. Without one the secret lives only as
// long as the process, so signed links stop working after a restart.
func (a *app) signingSecret() ([]byte, error) {
	secret, err := secrets.SigningSecret()
	if err == nil {
		return secret, nil
	}
	a.log.Warn("keyring unavailable, using an ephemeral signing secret", zap.Error(err))
	secret = make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate signing secret: %w", err)
	}
	return secret, nil
}

func (a *app) transcriber(ctx context.Context) transcribe.Transcriber {
	provider := strings.ToLower(strings.TrimSpace(a.cfg.Transcription.Provider))
	switch provider {
	case "", "none":
		return transcribe.Disabled{}
	case "gemini":
	default:
		a.log.Warn("unknown transcription provider, disabling", zap.String("provider", provider))
		return transcribe.Disabled{}
	}
	key := resolveAPIKey(a.cfg.Transcription)
	if key == "" {
		a.log.Info("no transcription api key, voice notes disabled")
		return transcribe.Disabled{}
	}
	g, err := transcribe.NewGemini(ctx, key, a.cfg.Transcription.Model)
	if err != nil {
		a.log.Warn("transcription disabled", zap.Error(err))
		return transcribe.Disabled{}
	}
	return g
}

// resolveAPIKey looks in the configured env var, then the keyring, then the
// config file.
func resolveAPIKey(cfg config.TranscriptionConfig) string {
	env := strings.TrimSpace(cfg.APIKeyEnv)
	if env == "" {
		env = "GEMINI_API_KEY"
	}
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	if k, err := secrets.FetchProviderKey(cfg.Provider); err == nil && k != "" {
		return k
	}
	return strings.TrimSpace(cfg.APIKey)
}
