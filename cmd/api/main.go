package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ireporter/cmd/app"
	"ireporter/internal/config"
	"ireporter/internal/database"
	"ireporter/internal/logger"
	"ireporter/internal/seed"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		cfg *config.Config
		log *zap.Logger
	)

	root := &cobra.Command{
		Use:           "ireporter",
		Short:         "iReporter civic reporting API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cfg = config.LoadConfig()
			log = logger.New(cfg.AppEnv, cfg.LogLevel)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = log.Sync()
		},
	}

	deps := func() (*config.Config, *zap.Logger) { return cfg, log }
	root.AddCommand(serveCmd(deps), migrateCmd(deps), seedCmd(deps))
	return root
}

type depsFunc func() (*config.Config, *zap.Logger)

func serveCmd(deps depsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := deps()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(); err != nil {
					log.Warn("error closing database", zap.Error(err))
				}
			}()

			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
				Handler:           a.Handler,
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("server started",
					zap.String("addr", server.Addr),
					zap.String("database", cfg.DB.DbNAME),
					zap.String("env", cfg.AppEnv))
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
				log.Info("shutting down server")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			log.Info("server stopped")
			return nil
		},
	}
}

func migrateCmd(deps depsFunc) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, log := deps()

			m, err := database.NewMigrator(cfg.MigrationsPath, cfg.DB.URL(), log)
			if err != nil {
				return err
			}

			switch args[0] {
			case "up":
				return m.Up()
			case "down":
				return m.Down(steps)
			default:
				return fmt.Errorf("unknown migrate direction %q, want up or down", args[0])
			}
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	return cmd
}

func seedCmd(deps depsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all users and records with sample data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := deps()

			db, repo, err := app.Connect(cfg, log)
			if err != nil {
				return err
			}
			defer db.CloseDB()

			data, err := seed.LoadDefault()
			if err != nil {
				return err
			}

			summary, err := seed.NewSeeder(repo, log).Run(cmd.Context(), data)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Done seeding! %d users, %d corruption reports, %d public petitions\n",
				summary.Users, summary.Reports, summary.Petitions)
			return nil
		},
	}
}
