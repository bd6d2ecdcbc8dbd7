package services

import (
	"context"
	"errors"
	"time"

	"github.com/energiefixers071/fixerdesk/pkg/core/fieldparse"
	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// ErrNotConfigured is returned when a sync source has no credentials
var ErrNotConfigured = errors.New("source not configured")

// SubmissionSource yields form submissions (KoboToolbox)
type SubmissionSource interface {
	IsConfigured() bool
	FetchSubmissions(ctx context.Context) ([]fieldparse.Payload, error)
}

// EventSource yields scheduled events (Calendly)
type EventSource interface {
	IsConfigured() bool
	DaysAhead() int
	FetchEvents(ctx context.Context, from, to time.Time) ([]fieldparse.Payload, error)
}

// ConnectionTester is implemented by every external API client
type ConnectionTester interface {
	IsConfigured() bool
	TestConnection(ctx context.Context) error
}

// SyncVisitsStore defines the database operations needed to sync visits
type SyncVisitsStore interface {
	ListVolunteers(ctx context.Context, filter db.VolunteerFilter) ([]model.Volunteer, error)
	FindVisitByExternalID(ctx context.Context, externalID string) (*model.Visit, error)
	CreateVisit(ctx context.Context, externalID *string, fields model.VisitFragment, updatedAt time.Time) (*model.Visit, error)
	UpdateVisit(ctx context.Context, id int64, fields model.VisitFragment, updatedAt time.Time) (*model.Visit, error)
}

// SyncAppointmentsStore defines the database operations needed to sync appointments
type SyncAppointmentsStore interface {
	FindAppointmentByExternalID(ctx context.Context, externalID string) (*model.Appointment, error)
	CreateAppointment(ctx context.Context, externalID string, fields model.AppointmentFragment, updatedAt time.Time) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, fields model.AppointmentFragment, updatedAt time.Time) (*model.Appointment, error)
}

// SyncAllStore combines the stores needed by SyncAll
type SyncAllStore interface {
	SyncVisitsStore
	SyncAppointmentsStore
	SetSetting(ctx context.Context, key, value, description string) error
}
