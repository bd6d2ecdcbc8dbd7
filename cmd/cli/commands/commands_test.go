package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/internal/config"
	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/core/services"
	"github.com/energiefixers071/fixerdesk/pkg/db"
	"github.com/energiefixers071/fixerdesk/pkg/store"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) *AppContext {
	t.Helper()
	dir := t.TempDir()

	database, err := store.Open(context.Background(), store.Options{
		Backend: store.BackendSQLite,
		Path:    filepath.Join(dir, "cli.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	app := &AppContext{
		Cfg: &config.Config{
			Database: config.Database{Backend: "sqlite", BackupDir: filepath.Join(dir, "backups")},
			Kobo:     config.Kobo{Group: config.DefaultKoboGroup},
		},
		Database: database,
		Logger:   zap.NewNop(),
		Ctx:      context.Background(),
		Now:      func() time.Time { return testNow },
	}
	require.NoError(t, services.SeedSettings(app.Ctx, database, app.Logger))
	require.NoError(t, app.ConnectClients())
	return app
}

// newRoot wires the command groups the way main does, without the
// initialization hook
func newRoot(app *AppContext) *cobra.Command {
	root := &cobra.Command{Use: "fixerdesk", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(
		SyncCmd(app),
		VolunteersCmd(app),
		VisitsCmd(app),
		AppointmentsCmd(app),
		SettingsCmd(app),
		DashboardCmd(app),
		BackupCmd(app),
		LinkCmd(app),
		CheckCmd(app),
		InteractiveCmd(app),
	)
	return root
}

func run(t *testing.T, app *AppContext, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	root := newRoot(app)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVolunteerCommands(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "volunteers", "add", "--name", "Jan Jansen", "--email", "jan@example.org")
	require.NoError(t, err)
	assert.Equal(t, "✓ Volunteer Jan Jansen added (ID 1)\n", out)

	_, err = run(t, app, "volunteers", "add", "--email", "nobody@example.org")
	assert.ErrorContains(t, err, "invalid volunteer")

	out, err = run(t, app, "volunteers", "edit", "1", "--skills", "isolatie", "--active=false")
	require.NoError(t, err)
	assert.Equal(t, "✓ Volunteer Jan Jansen updated\n", out)

	out, err = run(t, app, "volunteers", "list", "--query", "jan")
	require.NoError(t, err)
	assert.Equal(t, "Found 1 volunteers:\n\n   1  Jan Jansen (jan@example.org, inactive)\n", out)

	out, err = run(t, app, "volunteers", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Skills:         isolatie\n")
	assert.Contains(t, out, "Last visit:     never\n")

	_, err = run(t, app, "volunteers", "show", "abc")
	assert.ErrorContains(t, err, "id must be a positive integer")

	out, err = run(t, app, "volunteers", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "✓ Volunteer 1 deleted\n", out)

	_, err = run(t, app, "volunteers", "delete", "1")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestVisitCommands(t *testing.T) {
	app := newTestApp(t)
	_, err := run(t, app, "volunteers", "add", "--name", "Jan Jansen")
	require.NoError(t, err)

	out, err := run(t, app, "visits", "add", "--address", "Kerkstraat 5", "--volunteer", "1", "--residents", "2", "--mold")
	require.NoError(t, err)
	assert.Equal(t, "✓ Visit to Kerkstraat 5 on 2025-06-15 added (ID 1)\n", out)

	_, err = run(t, app, "visits", "add", "--address", "Main St 1", "--date", "15-06-2025")
	assert.ErrorContains(t, err, "--date must be a date")

	_, err = run(t, app, "visits", "add", "--address", "Main St 1", "--date", "2025-06-01", "--status", "planned")
	require.NoError(t, err)

	out, err = run(t, app, "visits", "list")
	require.NoError(t, err)
	assert.Equal(t, "Found 2 visits:\n\n"+
		"   1  2025-06-15  completed  Kerkstraat 5\n"+
		"   2  2025-06-01  planned    Main St 1\n", out)

	out, err = run(t, app, "visits", "list", "--status", "planned")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 visits:")

	out, err = run(t, app, "visits", "set-status", "2", "cancelled")
	require.NoError(t, err)
	assert.Equal(t, "✓ Visit 2 is now cancelled\n", out)

	_, err = run(t, app, "visits", "set-status", "2", "done")
	assert.ErrorContains(t, err, "invalid visit status")

	out, err = run(t, app, "visits", "edit", "1", "--remarks", "LED lamps delivered")
	require.NoError(t, err)
	assert.Equal(t, "✓ Visit 1 updated\n", out)

	out, err = run(t, app, "visits", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Volunteer:      Jan Jansen\n")
	assert.Contains(t, out, "Remarks:        LED lamps delivered\n")
	assert.Contains(t, out, "Source:         manual\n")
	assert.Contains(t, out, "Issues found:\n  - Mold\n")
}

func TestAppointmentsList(t *testing.T) {
	app := newTestApp(t)
	s := app.Database

	for _, a := range []struct {
		id    string
		start time.Time
	}{
		{"PAST", testNow.Add(-24 * time.Hour)},
		{"NEXT", testNow.Add(24 * time.Hour)},
	} {
		start := a.start
		_, err := s.CreateAppointment(app.Ctx, a.id, model.AppointmentFragment{
			EventName: model.Ptr("Intake " + a.id),
			StartTime: &start,
			EndTime:   &start,
		}, testNow)
		require.NoError(t, err)
	}

	out, err := run(t, app, "appointments", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 appointments:")
	assert.Contains(t, out, "Intake NEXT")
	assert.NotContains(t, out, "Intake PAST")

	out, err = run(t, app, "appointments", "list", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 appointments:")

	next, err := s.FindAppointmentByExternalID(app.Ctx, "NEXT")
	require.NoError(t, err)
	out, err = run(t, app, "appointments", "show", fmt.Sprint(next.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Intake NEXT")
	assert.Contains(t, out, "Calendly ID:    NEXT")

	_, err = run(t, app, "appointments", "show", "999")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestSettingsCommands(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "settings", "set", "auto_sync", "yes")
	require.Error(t, err)
	assert.Empty(t, out)

	_, err = run(t, app, "settings", "set", "theme", "darkly")
	require.NoError(t, err)

	out, err = run(t, app, "settings", "get", "theme")
	require.NoError(t, err)
	assert.Equal(t, "darkly\n", out)

	_, err = run(t, app, "settings", "set", services.SettingKoboAPIToken, "secret")
	assert.ErrorContains(t, err, "use 'settings credentials' instead")

	_, err = run(t, app, "settings", "credentials")
	assert.ErrorContains(t, err, "pass --kobo-token")

	require.False(t, app.KoboClient.IsConfigured())
	app.Cfg.Kobo.FormID = "aXyZ"
	out, err = run(t, app, "settings", "credentials", "--kobo-token", "0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, "✓ Credentials saved\n", out)
	assert.True(t, app.KoboClient.IsConfigured(), "clients are rebuilt with the saved token")

	out, err = run(t, app, "settings", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "kobo_api_token       ************cdef\n")
	assert.Contains(t, out, "theme                darkly\n")
	assert.NotContains(t, out, "0123456789abcdef")
}

func TestSyncCommands_NotConfigured(t *testing.T) {
	app := newTestApp(t)

	_, err := run(t, app, "sync", "visits")
	assert.ErrorIs(t, err, services.ErrNotConfigured)

	out, err := run(t, app, "sync", "all")
	require.NoError(t, err)
	assert.Equal(t, "kobotoolbox: skipped (not configured)\ncalendly: skipped (not configured)\n", out)
}

func TestSyncVisitsCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Token kobo-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count": 2, "next": null, "results": [
			{"_id": 101, "_submission_time": "2025-06-14T09:00:00", "introductie": {"adres": "Kerkstraat 5", "afspraakTijd": "2025-06-20", "uitvoerders": "Jan Jansen"}},
			{"_id": 102, "_submission_time": "2025-06-14T10:00:00", "introductie": {}}
		]}`))
	}))
	defer server.Close()

	app := newTestApp(t)
	app.Cfg.Kobo.BaseURL = server.URL
	app.Cfg.Kobo.FormID = "aXyZ"
	app.Cfg.Kobo.APIToken = "kobo-token"
	require.NoError(t, app.ConnectClients())

	out, err := run(t, app, "sync", "visits")
	require.NoError(t, err)
	assert.Equal(t, "kobotoolbox: 2 records\n"+
		"  Created:      1\n"+
		"  Updated:      0\n"+
		"  Skipped:      0\n"+
		"  Failed:       1\n"+
		"  ✗ 102: malformed payload\n", out)

	visit, err := app.Database.FindVisitByExternalID(app.Ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, "Kerkstraat 5", visit.Address)
}

func TestDashboardCommand(t *testing.T) {
	app := newTestApp(t)
	_, err := run(t, app, "visits", "add", "--address", "Kerkstraat 5")
	require.NoError(t, err)

	out, err := run(t, app, "dashboard")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Energiefixers overview\n"))
	assert.Contains(t, out, "Visits:         1 (1 this month)\n")
	assert.Contains(t, out, "Last sync:      never\n")
	assert.Contains(t, out, "  2025-06-15  Kerkstraat 5\n")
}

func TestDashboardCommand_AutoSync(t *testing.T) {
	app := newTestApp(t)
	_, err := run(t, app, "settings", "set", services.SettingAutoSync, "true")
	require.NoError(t, err)

	out, err := run(t, app, "dashboard")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "kobotoolbox: skipped (not configured)\n"))
	assert.Contains(t, out, "Energiefixers overview\n")
}

func TestBackupCommand(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "backup")
	require.NoError(t, err)
	path := filepath.Join(app.Cfg.Database.BackupDir, "energiefixers_backup_20250615_100000.db")
	assert.Equal(t, "✓ Backup written to "+path+"\n", out)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	_, err = run(t, app, "settings", "set", services.SettingBackupEnabled, "false")
	require.NoError(t, err)
	_, err = run(t, app, "backup")
	assert.ErrorIs(t, err, services.ErrBackupDisabled)
}

func TestLinkCommand(t *testing.T) {
	app := newTestApp(t)
	app.Cfg.Kobo.FormURL = "https://ee-eu.kobotoolbox.org/x/abc"

	out, err := run(t, app, "link", "--address", "Kerkstraat 5", "--by", "Jan", "--by", "Maria")
	require.NoError(t, err)
	assert.Equal(t, "https://ee-eu.kobotoolbox.org/x/abc?d[introductie/adres]=Kerkstraat+5"+
		"&d[introductie/uitvoerders]=Jan%2C+Maria\n", out)

	app.Cfg.Kobo.FormURL = "https://forms.example.org/x/abc"
	_, err = run(t, app, "link", "--address", "Kerkstraat 5")
	assert.ErrorContains(t, err, "not a KoboToolbox domain")
}

func TestCheckCommand_NotConfigured(t *testing.T) {
	app := newTestApp(t)

	out, err := run(t, app, "check")
	require.NoError(t, err)
	assert.Equal(t, "- kobotoolbox  not configured\n- calendly     not configured\n", out)
}

func TestInteractiveSession(t *testing.T) {
	app := newTestApp(t)
	root := newRoot(app)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetIn(strings.NewReader(strings.Join([]string{
		`volunteers add --name "Jan Jansen"`,
		`volunteers add --name 'Maria de Vries' --active=false`,
		`volunteers list --active`,
		`volunteers list`,
		`bogus`,
		`visits show 99`,
		`help`,
		`exit`,
		`volunteers add --name "Never Added"`,
	}, "\n")))
	root.SetArgs([]string{"interactive"})
	require.NoError(t, root.Execute())

	out := buf.String()
	assert.Contains(t, out, "✓ Volunteer Jan Jansen added (ID 1)\n")
	assert.Contains(t, out, "✓ Volunteer Maria de Vries added (ID 2)\n")
	assert.Contains(t, out, "Found 1 volunteers:\n\n   1  Jan Jansen\n")
	assert.Contains(t, out, "Found 2 volunteers:\n\n   1  Jan Jansen\n   2  Maria de Vries (inactive)\n",
		"--active flag is reset between commands")
	assert.Contains(t, out, "❌ Error: unknown command: bogus")
	assert.Contains(t, out, "❌ Error: failed to get visit 99")
	assert.Contains(t, out, "volunteers add --name <name>")
	assert.Contains(t, out, "👋 Goodbye!")
	assert.NotContains(t, out, "Never Added")
}

func TestParseCommandLine(t *testing.T) {
	tests := []struct {
		line        string
		expected    []string
		expectedErr bool
	}{
		{`visits list`, []string{"visits", "list"}, false},
		{`volunteers add --name "Jan Jansen"`, []string{"volunteers", "add", "--name", "Jan Jansen"}, false},
		{`settings set theme ''`, []string{"settings", "set", "theme", ""}, false},
		{`link --address 'Main St 1'  --time 14:00`, []string{"link", "--address", "Main St 1", "--time", "14:00"}, false},
		{`volunteers add --name "Jan`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			args, err := parseCommandLine(tt.line)
			if tt.expectedErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, args)
		})
	}
}
