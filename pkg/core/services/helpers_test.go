package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/energiefixers071/fixerdesk/internal/config"
	"github.com/energiefixers071/fixerdesk/pkg/core/fieldparse"
	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/store"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.DB {
	t.Helper()
	s, err := store.Open(context.Background(), store.Options{
		Backend: store.BackendSQLite,
		Path:    filepath.Join(t.TempDir(), "services.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestConfig() *config.Config {
	return &config.Config{
		Database: config.Database{Backend: "sqlite", BackupDir: "backups"},
		Kobo:     config.Kobo{Group: config.DefaultKoboGroup},
	}
}

func addTestVolunteer(t *testing.T, s *store.DB, name string) *model.Volunteer {
	t.Helper()
	v, err := s.CreateVolunteer(context.Background(), model.VolunteerFragment{Name: model.Ptr(name)})
	require.NoError(t, err)
	return v
}

// submission builds a form submission with the intake answers nested under
// the introductie group
func submission(id any, submitted string, intro map[string]any) fieldparse.Payload {
	p := fieldparse.Payload{"introductie": intro}
	if id != nil {
		p["_id"] = id
	}
	if submitted != "" {
		p["_submission_time"] = submitted
	}
	return p
}

// mockSubmissionSource implements SubmissionSource
type mockSubmissionSource struct {
	unconfigured bool
	submissions  []fieldparse.Payload
	err          error
	calls        int
}

func (m *mockSubmissionSource) IsConfigured() bool {
	return !m.unconfigured
}

func (m *mockSubmissionSource) FetchSubmissions(ctx context.Context) ([]fieldparse.Payload, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.submissions, nil
}

// mockEventSource implements EventSource
type mockEventSource struct {
	unconfigured bool
	daysAhead    int
	events       []fieldparse.Payload
	err          error
	from, to     time.Time
}

func (m *mockEventSource) IsConfigured() bool {
	return !m.unconfigured
}

func (m *mockEventSource) DaysAhead() int {
	if m.daysAhead == 0 {
		return 30
	}
	return m.daysAhead
}

func (m *mockEventSource) FetchEvents(ctx context.Context, from, to time.Time) ([]fieldparse.Payload, error) {
	m.from, m.to = from, to
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

// failingVisitStore rejects visit creation for one address
type failingVisitStore struct {
	*store.DB
	failAddress string
}

func (f *failingVisitStore) CreateVisit(ctx context.Context, externalID *string, fields model.VisitFragment, updatedAt time.Time) (*model.Visit, error) {
	if fields.Address != nil && *fields.Address == f.failAddress {
		return nil, errors.New("disk I/O error")
	}
	return f.DB.CreateVisit(ctx, externalID, fields, updatedAt)
}

// mockTester implements ConnectionTester
type mockTester struct {
	configured bool
	err        error
	calls      int
}

func (m *mockTester) IsConfigured() bool {
	return m.configured
}

func (m *mockTester) TestConnection(ctx context.Context) error {
	m.calls++
	return m.err
}
