package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/JimLiu0/provider-dashboard/cmd/migration/initialize"
	"github.com/JimLiu0/provider-dashboard/cmd/migration/seed"
	"github.com/JimLiu0/provider-dashboard/config"
	"github.com/JimLiu0/provider-dashboard/internal/app"
	"github.com/JimLiu0/provider-dashboard/internal/database"
	"github.com/JimLiu0/provider-dashboard/internal/handlers"
	"github.com/JimLiu0/provider-dashboard/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dashboard",
		Short:         "Patient record dashboard server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(serveCmd(), migrateCmd(), seedCmd())
	return root
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	log := logger.New("main").Function("runServe")

	cfg, err := loadConfig()
	if err != nil {
		return log.Err("failed to load config", err)
	}

	application, err := app.NewWithConfig(cfg)
	if err != nil {
		return log.Err("failed to initialize app", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	server := handlers.NewServer(application)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		address := ":" + strconv.Itoa(application.Config.ServerPort)
		log.Info("Server listening", "address", address, "version", application.Config.GeneralVersion)
		errs <- server.Listen(address)
	}()

	select {
	case err := <-errs:
		return log.Err("server stopped", err)
	case <-ctx.Done():
		log.Info("Shutting down")
		if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
			return log.Err("failed to shut down server", err)
		}
		return nil
	}
}

// loadConfig reads the config and installs the log handler before anything
// else logs.
func loadConfig() (config.Config, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return config.Config{}, err
	}
	logger.Setup(cfg.Environment)
	return cfg, nil
}

func openDatabase() (database.DB, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return database.DB{}, config.Config{}, err
	}

	db, err := database.New(cfg)
	if err != nil {
		return database.DB{}, config.Config{}, err
	}
	return db, cfg, nil
}

func migrateCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("main").Function("migrate")

			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			db, cfg, err := openDatabase()
			if err != nil {
				return log.Err("failed to open database", err)
			}
			defer db.Close()

			switch direction {
			case "up":
				return initialize.InitializeTables(db, cfg, log)
			case "down":
				reverted, err := initialize.Rollback(db, steps, log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reverted %d migration(s)\n", reverted)
				return nil
			default:
				return errors.New("direction must be up or down")
			}
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back; 0 rolls back all")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert sample patients for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.New("main").Function("seed")

			db, cfg, err := openDatabase()
			if err != nil {
				return log.Err("failed to open database", err)
			}
			defer db.Close()

			if err := initialize.InitializeTables(db, cfg, log); err != nil {
				return err
			}

			created, err := seed.Seed(db.SQL, cfg, log)
			if err != nil {
				return err
			}
			if err := db.FlushAllCaches(); err != nil {
				log.Er("failed to flush caches after seeding", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d patient(s)\n", created)
			return nil
		},
	}
}
