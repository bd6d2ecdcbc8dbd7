package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/energiefixers071/fixerdesk/pkg/clients/calendlyclient"
	"github.com/energiefixers071/fixerdesk/pkg/core/fieldparse"
	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/core/reconcile"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

const defaultEventName = "Appointment"

// appointmentCollection reconciles scheduled events into appointments
type appointmentCollection struct {
	store SyncAppointmentsStore
}

var _ reconcile.Collection[model.AppointmentFragment] = (*appointmentCollection)(nil)

func (c *appointmentCollection) Name() string {
	return "appointments"
}

func (c *appointmentCollection) Identify(payload fieldparse.Payload) (reconcile.Identity, error) {
	for _, key := range []string{"uuid", "uri"} {
		if _, err := externalID(payload, key); err != nil {
			return reconcile.Identity{}, err
		}
	}
	modified, ok := fieldparse.ParseTimestamp(payload["updated_at"])
	return reconcile.Identity{
		ExternalID:  calendlyclient.EventUUID(payload),
		ModifiedAt:  modified,
		HasModified: ok,
	}, nil
}

func (c *appointmentCollection) Parse(payload fieldparse.Payload) (reconcile.Parsed[model.AppointmentFragment], error) {
	var parsed reconcile.Parsed[model.AppointmentFragment]

	start, ok := fieldparse.ParseTimestamp(payload["start_time"])
	if !ok {
		return parsed, errors.New("missing start time")
	}
	end, ok := fieldparse.ParseTimestamp(payload["end_time"])
	if !ok {
		end = start
	}
	if end.Before(start) {
		return parsed, fmt.Errorf("end time %s before start time %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return parsed, fmt.Errorf("failed to encode payload: %w", err)
	}

	name, _ := fieldparse.String(payload, "name")
	if name == "" {
		name = defaultEventName
	}
	status := eventStatus(payload)

	fields := model.AppointmentFragment{
		ExternalURI: optString(payload, "uri"),
		EventName:   &name,
		StartTime:   &start,
		EndTime:     &end,
		Status:      &status,
		RawPayload:  raw,
	}

	location, _ := fieldparse.Map(payload, "location")
	meetingType := meetingTypeOf(location)
	fields.MeetingType = &meetingType
	fields.Location = optString(location, "location")
	fields.MeetingURL = optString(location, "join_url")

	if invitee, ok := fieldparse.Map(payload, "invitee"); ok {
		fields.InviteeName = optString(invitee, "name")
		fields.InviteeEmail = optString(invitee, "email")
		fields.InviteePhone = optString(invitee, "text_reminder_number")
		fields.Timezone = optString(invitee, "timezone")
	}

	parsed.Fields = fields
	return parsed, nil
}

func (c *appointmentCollection) Find(ctx context.Context, externalID string) (*reconcile.Existing, error) {
	appointment, err := c.store.FindAppointmentByExternalID(ctx, externalID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reconcile.Existing{ID: appointment.ID, UpdatedAt: appointment.UpdatedAt}, nil
}

func (c *appointmentCollection) Create(ctx context.Context, externalID string, fields model.AppointmentFragment, modifiedAt time.Time) error {
	_, err := c.store.CreateAppointment(ctx, externalID, fields, modifiedAt)
	return err
}

func (c *appointmentCollection) Update(ctx context.Context, id int64, fields model.AppointmentFragment, modifiedAt time.Time) error {
	_, err := c.store.UpdateAppointment(ctx, id, fields, modifiedAt)
	return err
}

// eventStatus maps the scheduler's event status onto an appointment status.
// Calendly reports "active" and "canceled".
func eventStatus(payload fieldparse.Payload) model.AppointmentStatus {
	s, _ := fieldparse.String(payload, "status")
	switch status := model.AppointmentStatus(strings.ToLower(s)); {
	case status == "canceled":
		return model.AppointmentCancelled
	case status.IsValid():
		return status
	}
	return model.AppointmentScheduled
}

// meetingTypeOf derives the meeting type from the location type
func meetingTypeOf(location fieldparse.Payload) model.MeetingType {
	kind, _ := fieldparse.String(location, "type")
	kind = strings.ToLower(kind)
	switch {
	case strings.Contains(kind, "phone") || strings.Contains(kind, "call"):
		return model.MeetingPhone
	case strings.Contains(kind, "zoom"),
		strings.Contains(kind, "meet"),
		strings.Contains(kind, "google"),
		strings.Contains(kind, "teams"),
		strings.Contains(kind, "webex"),
		strings.Contains(kind, "conference"):
		return model.MeetingOnline
	}
	return model.MeetingInPerson
}
