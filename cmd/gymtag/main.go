package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gymtag/client/internal/api"
	"gymtag/client/internal/config"
	"gymtag/client/internal/exercise"
	"gymtag/client/internal/scan"
	"gymtag/client/internal/session"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "gymtag",
		Short:         "Scan gym equipment tags and log your workouts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")

	root.AddCommand(
		newLoginCmd(&configPath),
		newRegisterCmd(&configPath),
		newLogoutCmd(&configPath),
		newWhoamiCmd(&configPath),
		newPasswordCmd(&configPath),
		newProfileCmd(&configPath),
		newExerciseCmd(&configPath),
		newHistoryCmd(&configPath),
		newPlanCmd(&configPath),
		newStatsCmd(&configPath),
		newGymsCmd(&configPath),
		newMachinesCmd(&configPath),
	)
	return root
}

// app wires the client stack together: config, logger, token store,
// session manager, backend client, scan coordinator and exercise
// tracker. One app is built per command invocation.
type app struct {
	cfg      config.Config
	log      zerolog.Logger
	client   *api.Client
	sessions *session.Manager
	scanner  *scan.Coordinator
	tracker  *exercise.Tracker
}

func newApp(configPath string) (*app, error) {
	// .env is optional; viper env handling does the rest.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	store, err := session.NewFileTokenStore(cfg.Auth.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening token store: %w", err)
	}

	notifier := session.NewLogNotifier(logger)
	sessions := session.NewManager(store, notifier, logger)

	deviceID, err := session.DeviceID(cfg.Auth.Dir)
	if err != nil {
		logger.Warn().Err(err).Msg("could not persist device id")
	}

	client := api.NewClient(cfg.API.BaseURL, sessions,
		api.WithTimeout(cfg.API.Timeout),
		api.WithDeviceID(deviceID),
		api.WithLogger(logger),
	)
	sessions.AttachClient(client)

	scanner := scan.NewCoordinator(
		scan.UnsupportedReader{}, // no proximity hardware on headless hosts
		stdinCapturer{},
		client,
		cfg.Scan.ProximityTimeout,
		logger,
	)
	tracker := exercise.NewTracker(client, sessions, logger)

	return &app{
		cfg:      cfg,
		log:      logger,
		client:   client,
		sessions: sessions,
		scanner:  scanner,
		tracker:  tracker,
	}, nil
}

// requireAuth runs the bootstrap gate: no protected command proceeds
// until the stored session has been validated against the backend.
func (a *app) requireAuth(ctx context.Context) error {
	if a.sessions.Bootstrap(ctx) != session.StateAuthenticated {
		return errors.New("not logged in; run 'gymtag login' first")
	}
	return nil
}
