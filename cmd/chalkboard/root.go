package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Kaylacoelho/chalkboard-app/internal/config"
	"github.com/Kaylacoelho/chalkboard-app/internal/logging"
	"github.com/Kaylacoelho/chalkboard-app/internal/poller"
	"github.com/Kaylacoelho/chalkboard-app/internal/server"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

const serviceName = "chalkboard"

type app struct {
	configFile string
	envFile    string
	cfg        config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Live scores dashboard with momentum, tension and recaps",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "path to a YAML config file (defaults to $CONFIG_FILE)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Poll the feeds and serve the dashboard API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.serve(cmd)
			},
		},
		newTickCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print build information",
			PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
				return nil
			},
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", serviceName, Version, GitCommit)
			},
		},
	)
	return root
}

func newTickCmd(a *app) *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Run one poll cycle and print the dashboard as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.FetchTimeout+30*time.Second)
			defer cancel()

			srv, err := server.New(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer srv.Close(context.Background())

			view, err := srv.Tick(ctx)
			if err != nil && !errors.Is(err, poller.ErrAllLeaguesFailed) {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			if encErr := enc.Encode(view); encErr != nil {
				return encErr
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func (a *app) load(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.NewLogger(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: serviceName,
		Version: Version,
		Output:  cmd.ErrOrStderr(),
	})
	return nil
}

func (a *app) serve(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	logging.Info(a.logger, "starting chalkboard",
		slog.String("feed", a.cfg.Feed),
		slog.String("port", a.cfg.Port),
		slog.Duration("poll_interval", a.cfg.PollInterval),
	)
	srv.Run(ctx, stop)
	return nil
}
