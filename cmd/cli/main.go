package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/cmd/cli/commands"
	"github.com/energiefixers071/fixerdesk/internal/config"
	"github.com/energiefixers071/fixerdesk/pkg/core/services"
	"github.com/energiefixers071/fixerdesk/pkg/store"
	"github.com/energiefixers071/fixerdesk/pkg/utils/logging"
)

var env string

func main() {
	app := &commands.AppContext{
		Ctx: context.Background(),
		Now: time.Now,
	}

	rootCmd := &cobra.Command{
		Use:   "fixerdesk",
		Short: "Energiefixers desk - volunteers, home visits and appointments",
		Long: `A CLI for the Energiefixers volunteer desk. Keeps the volunteer directory,
records home energy visits and pulls intake forms from KoboToolbox and
appointments from Calendly into a local database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects fixerdesk_config.<env>.yaml)")

	rootCmd.AddCommand(commands.SyncCmd(app))
	rootCmd.AddCommand(commands.VolunteersCmd(app))
	rootCmd.AddCommand(commands.VisitsCmd(app))
	rootCmd.AddCommand(commands.AppointmentsCmd(app))
	rootCmd.AddCommand(commands.SettingsCmd(app))
	rootCmd.AddCommand(commands.DashboardCmd(app))
	rootCmd.AddCommand(commands.BackupCmd(app))
	rootCmd.AddCommand(commands.LinkCmd(app))
	rootCmd.AddCommand(commands.CheckCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp loads configuration and sets up the logger, database and API clients
func initApp(app *commands.AppContext) error {
	var err error

	// Load configuration
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, app.Cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Info("Starting application", zap.String("environment", env))

	// Open database and apply migrations
	app.Logger.Info("Opening database", zap.String("backend", app.Cfg.Database.Backend))
	database, err := store.Open(app.Ctx, store.Options{
		Backend:     app.Cfg.Database.Backend,
		Path:        app.Cfg.Database.Path,
		PostgresURL: app.Cfg.Database.PostgresURL,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	app.Database = database

	if err := services.SeedSettings(app.Ctx, app.Database, app.Logger); err != nil {
		return err
	}
	app.Logger.Debug("Database initialized successfully")

	// Initialize API clients
	if err := app.ConnectClients(); err != nil {
		return err
	}

	return nil
}
