package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/store"
)

func addTestAppointment(t *testing.T, s *store.DB, id string, start time.Time, status model.AppointmentStatus) {
	t.Helper()
	_, err := s.CreateAppointment(context.Background(), id, model.AppointmentFragment{
		EventName: model.Ptr("Intake"),
		StartTime: &start,
		EndTime:   model.Ptr(start.Add(30 * time.Minute)),
		Status:    &status,
	}, testNow)
	require.NoError(t, err)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	jan := addTestVolunteer(t, s, "Jan Jansen")

	_, err := AddVisit(ctx, s, zap.NewNop(), model.VisitFragment{
		Address:        model.Ptr("Main St 1"),
		VolunteerID:    &jan.ID,
		ResidentsCount: model.Ptr(3),
		AssessmentFragment: model.AssessmentFragment{
			MoldIssues: model.Ptr(true),
		},
	}, testNow)
	require.NoError(t, err)
	_, err = AddVisit(ctx, s, zap.NewNop(), model.VisitFragment{
		Address:        model.Ptr("Main St 2"),
		VisitDate:      model.Ptr(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
		ResidentsCount: model.Ptr(1),
	}, testNow)
	require.NoError(t, err)

	addTestAppointment(t, s, "PAST", testNow.Add(-time.Hour), model.AppointmentScheduled)
	addTestAppointment(t, s, "LATER", testNow.Add(48*time.Hour), model.AppointmentScheduled)
	addTestAppointment(t, s, "SOON", testNow.Add(2*time.Hour), model.AppointmentScheduled)
	addTestAppointment(t, s, "CANCELLED", testNow.Add(3*time.Hour), model.AppointmentCancelled)

	require.NoError(t, SetSetting(ctx, s, zap.NewNop(), SettingLastSync, "2025-06-14T08:30:00Z"))

	result, err := Dashboard(ctx, s, zap.NewNop(), testNow)
	require.NoError(t, err)

	assert.Equal(t, model.Stats{
		TotalVolunteers:      1,
		ActiveVolunteers:     1,
		TotalVisits:          2,
		VisitsThisMonth:      1,
		VisitsWithIssues:     1,
		AverageResidents:     2,
		UpcomingAppointments: 2,
	}, result.Stats)

	require.Len(t, result.RecentVisits, 2)
	assert.Equal(t, "Main St 1", result.RecentVisits[0].Address)

	ids := []string{}
	for _, a := range result.UpcomingAppointments {
		ids = append(ids, a.ExternalID)
	}
	assert.Equal(t, []string{"SOON", "LATER"}, ids)

	require.NotNil(t, result.LastSync)
	assert.True(t, result.LastSync.Equal(time.Date(2025, 6, 14, 8, 30, 0, 0, time.UTC)))
}

func TestDashboard_NeverSynced(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, SeedSettings(context.Background(), s, zap.NewNop()))

	result, err := Dashboard(context.Background(), s, zap.NewNop(), testNow)
	require.NoError(t, err)
	assert.Nil(t, result.LastSync)
	assert.Empty(t, result.RecentVisits)
	assert.Empty(t, result.UpcomingAppointments)
}
