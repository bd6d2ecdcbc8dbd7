package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// createTestStore opens a fresh SQLite store in a temp dir with a fixed clock
func createTestStore(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), Options{Backend: BackendSQLite, Path: path})
	require.NoError(t, err)
	s.now = func() time.Time { return testNow }
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestVolunteer(t *testing.T, s *DB, name string) *model.Volunteer {
	t.Helper()
	v, err := s.CreateVolunteer(context.Background(), model.VolunteerFragment{Name: model.Ptr(name)})
	require.NoError(t, err)
	return v
}

func createTestVisit(t *testing.T, s *DB, externalID string, fields model.VisitFragment) *model.Visit {
	t.Helper()
	if fields.Address == nil {
		fields.Address = model.Ptr("Main St 1")
	}
	if fields.VisitDate == nil {
		fields.VisitDate = model.Ptr(time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC))
	}
	var extID *string
	if externalID != "" {
		extID = &externalID
	}
	v, err := s.CreateVisit(context.Background(), extID, fields, testNow)
	require.NoError(t, err)
	return v
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
