package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/pkg/core/fieldparse"
	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/core/reconcile"
)

func calendlyEvent(uuid, updated, status string) fieldparse.Payload {
	return fieldparse.Payload{
		"uri":        "https://api.calendly.com/scheduled_events/" + uuid,
		"name":       "Energiecoach intake",
		"status":     status,
		"start_time": "2025-06-20T09:00:00.000000Z",
		"end_time":   "2025-06-20T09:45:00.000000Z",
		"updated_at": updated,
		"location": map[string]any{
			"type":     "zoom_conference",
			"join_url": "https://zoom.us/j/123",
		},
		"invitee": map[string]any{
			"name":                 "Resident One",
			"email":                "one@example.org",
			"text_reminder_number": "+31612345678",
			"timezone":             "Europe/Amsterdam",
		},
	}
}

func TestSyncAppointments_CreatesFromEvents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	source := &mockEventSource{
		daysAhead: 14,
		events:    []fieldparse.Payload{calendlyEvent("EV1", "2025-06-10T08:00:00.000000Z", "active")},
	}

	summary, err := SyncAppointments(ctx, s, source, zap.NewNop(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)

	assert.True(t, source.from.Equal(testNow))
	assert.True(t, source.to.Equal(testNow.AddDate(0, 0, 14)))

	appointment, err := s.FindAppointmentByExternalID(ctx, "EV1")
	require.NoError(t, err)
	assert.Equal(t, "https://api.calendly.com/scheduled_events/EV1", appointment.ExternalURI)
	assert.Equal(t, "Energiecoach intake", appointment.EventName)
	assert.Equal(t, 45, appointment.DurationMinutes())
	assert.Equal(t, model.MeetingOnline, appointment.MeetingType)
	assert.Equal(t, "https://zoom.us/j/123", appointment.MeetingURL)
	assert.Equal(t, model.AppointmentScheduled, appointment.Status)
	assert.Equal(t, "Resident One", appointment.InviteeName)
	assert.Equal(t, "one@example.org", appointment.InviteeEmail)
	assert.Equal(t, "+31612345678", appointment.InviteePhone)
	assert.Equal(t, "Europe/Amsterdam", appointment.Timezone)
	assert.True(t, appointment.IsUpcoming(testNow))
}

func TestSyncAppointments_FreshnessGate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := SyncAppointments(ctx, s, &mockEventSource{
		events: []fieldparse.Payload{calendlyEvent("EV1", "2025-06-10T08:00:00Z", "active")},
	}, zap.NewNop(), testNow)
	require.NoError(t, err)

	tests := []struct {
		name     string
		updated  string
		action   reconcile.Action
		reason   string
		expected model.AppointmentStatus
	}{
		{"same timestamp", "2025-06-10T08:00:00Z", reconcile.ActionSkip, reconcile.ReasonNotNewer, model.AppointmentScheduled},
		{"older timestamp", "2025-06-09T08:00:00Z", reconcile.ActionSkip, reconcile.ReasonNotNewer, model.AppointmentScheduled},
		{"missing timestamp", "", reconcile.ActionSkip, reconcile.ReasonNoComparableTimestamp, model.AppointmentScheduled},
		{"newer timestamp", "2025-06-11T08:00:00Z", reconcile.ActionUpdate, "", model.AppointmentCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := calendlyEvent("EV1", tt.updated, "canceled")
			if tt.updated == "" {
				delete(event, "updated_at")
			}

			summary, err := SyncAppointments(ctx, s, &mockEventSource{events: []fieldparse.Payload{event}}, zap.NewNop(), testNow)
			require.NoError(t, err)
			require.Len(t, summary.Outcomes, 1)
			assert.Equal(t, tt.action, summary.Outcomes[0].Action)
			assert.Equal(t, tt.reason, summary.Outcomes[0].Reason)

			appointment, err := s.FindAppointmentByExternalID(ctx, "EV1")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, appointment.Status)
		})
	}
}

func TestSyncAppointments_MalformedEvents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	noStart := calendlyEvent("EV2", "2025-06-10T08:00:00Z", "active")
	delete(noStart, "start_time")
	reversed := calendlyEvent("EV3", "2025-06-10T08:00:00Z", "active")
	reversed["end_time"] = "2025-06-20T08:00:00Z"
	noID := calendlyEvent("", "2025-06-10T08:00:00Z", "active")
	delete(noID, "uri")

	events := []fieldparse.Payload{noStart, reversed, noID, calendlyEvent("EV4", "2025-06-10T08:00:00Z", "active")}
	summary, err := SyncAppointments(ctx, s, &mockEventSource{events: events}, zap.NewNop(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 3, summary.Failed)

	reasons := []string{}
	for _, f := range summary.Failures {
		assert.ErrorIs(t, f.Err, reconcile.ErrMalformedPayload)
		reasons = append(reasons, f.Reason)
	}
	assert.Equal(t, []string{reconcile.ReasonMalformed, reconcile.ReasonMalformed, reconcile.ReasonNoExternalID}, reasons)
}

func TestSyncAppointments_SourceErrors(t *testing.T) {
	s := newTestStore(t)

	_, err := SyncAppointments(context.Background(), s, &mockEventSource{unconfigured: true}, zap.NewNop(), testNow)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = SyncAppointments(context.Background(), s, &mockEventSource{err: errors.New("timeout")}, zap.NewNop(), testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch scheduled events")
}

func TestAppointmentCollection_Parse(t *testing.T) {
	collection := &appointmentCollection{}

	event := fieldparse.Payload{
		"uuid":       "EV9",
		"start_time": "2025-06-20T09:00:00Z",
		"status":     "completed",
		"location":   map[string]any{"type": "physical", "location": "Buurthuis De Ster"},
	}
	parsed, err := collection.Parse(event)
	require.NoError(t, err)

	f := parsed.Fields
	require.NotNil(t, f.EventName)
	assert.Equal(t, "Appointment", *f.EventName)
	require.NotNil(t, f.EndTime)
	assert.True(t, f.EndTime.Equal(*f.StartTime))
	assert.Equal(t, model.AppointmentCompleted, *f.Status)
	assert.Equal(t, model.MeetingInPerson, *f.MeetingType)
	require.NotNil(t, f.Location)
	assert.Equal(t, "Buurthuis De Ster", *f.Location)
	assert.Nil(t, f.InviteeName)
	assert.Nil(t, f.ExternalURI)
	assert.NotEmpty(t, f.RawPayload)

	identity, err := collection.Identify(event)
	require.NoError(t, err)
	assert.Equal(t, "EV9", identity.ExternalID)
	assert.False(t, identity.HasModified)
}

func TestMeetingTypeOf(t *testing.T) {
	tests := []struct {
		locationType string
		expected     model.MeetingType
	}{
		{"outbound_call", model.MeetingPhone},
		{"inbound_call", model.MeetingPhone},
		{"phone", model.MeetingPhone},
		{"zoom_conference", model.MeetingOnline},
		{"google_conference", model.MeetingOnline},
		{"microsoft_teams_conference", model.MeetingOnline},
		{"webex_conference", model.MeetingOnline},
		{"physical", model.MeetingInPerson},
		{"", model.MeetingInPerson},
	}

	for _, tt := range tests {
		t.Run(tt.locationType, func(t *testing.T) {
			assert.Equal(t, tt.expected, meetingTypeOf(fieldparse.Payload{"type": tt.locationType}))
		})
	}
}

func TestEventStatus(t *testing.T) {
	tests := []struct {
		status   any
		expected model.AppointmentStatus
	}{
		{"active", model.AppointmentScheduled},
		{"canceled", model.AppointmentCancelled},
		{"Cancelled", model.AppointmentCancelled},
		{"rescheduled", model.AppointmentRescheduled},
		{nil, model.AppointmentScheduled},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, eventStatus(fieldparse.Payload{"status": tt.status}))
	}
}

func TestSyncAppointments_WindowUsesUTC(t *testing.T) {
	amsterdam := time.FixedZone("CEST", 2*60*60)
	source := &mockEventSource{daysAhead: 1}

	_, err := SyncAppointments(context.Background(), newTestStore(t), source, zap.NewNop(), testNow.In(amsterdam))
	require.NoError(t, err)
	assert.Equal(t, time.UTC, source.from.Location())
}
