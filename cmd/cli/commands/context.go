package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/internal/config"
	"github.com/energiefixers071/fixerdesk/pkg/clients/calendlyclient"
	"github.com/energiefixers071/fixerdesk/pkg/clients/koboclient"
	"github.com/energiefixers071/fixerdesk/pkg/core/services"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg            *config.Config
	KoboClient     *koboclient.Client
	CalendlyClient *calendlyclient.Client
	Database       db.Database
	Logger         *zap.Logger
	Ctx            context.Context
	Now            func() time.Time
}

func (app *AppContext) now() time.Time {
	if app.Now == nil {
		return time.Now()
	}
	return app.Now()
}

// ConnectClients creates the KoboToolbox and Calendly clients. Tokens saved
// in settings take precedence over the config file.
func (app *AppContext) ConnectClients() error {
	creds, err := services.ResolveCredentials(app.Ctx, app.Database, app.Cfg)
	if err != nil {
		return fmt.Errorf("failed to resolve credentials: %w", err)
	}

	app.KoboClient = koboclient.NewClient(app.Ctx, koboclient.Config{
		BaseURL:  app.Cfg.Kobo.BaseURL,
		FormID:   app.Cfg.Kobo.FormID,
		APIToken: creds.KoboAPIToken,
		PageSize: app.Cfg.Kobo.PageSize,
	}, app.Logger)

	app.CalendlyClient = calendlyclient.NewClient(app.Ctx, calendlyclient.Config{
		BaseURL:   app.Cfg.Calendly.BaseURL,
		APIToken:  creds.CalendlyAPIToken,
		UserURI:   app.Cfg.Calendly.UserURI,
		DaysAhead: app.Cfg.Calendly.DaysAhead,
	}, app.Logger)

	app.Logger.Debug("API clients initialized",
		zap.Bool("kobo_configured", app.KoboClient.IsConfigured()),
		zap.Bool("calendly_configured", app.CalendlyClient.IsConfigured()))
	return nil
}

// autoSync runs a full sync when the auto_sync setting is on
func (app *AppContext) autoSync(w io.Writer) error {
	enabled, err := services.GetBoolSetting(app.Ctx, app.Database, services.SettingAutoSync, false)
	if err != nil {
		return err
	}
	if !enabled {
		return nil
	}

	app.Logger.Info("Auto sync enabled, syncing sources")
	result := services.SyncAll(app.Ctx, app.Database, app.KoboClient, app.CalendlyClient, app.Cfg, app.Logger, app.now())
	renderSyncAll(w, result)
	fmt.Fprintln(w)
	return nil
}
