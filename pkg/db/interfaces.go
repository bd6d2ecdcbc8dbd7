package db

import (
	"context"
	"time"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
)

// VolunteerStore defines the interface for volunteer database operations
type VolunteerStore interface {
	ListVolunteers(ctx context.Context, filter VolunteerFilter) ([]model.Volunteer, error)
	GetVolunteer(ctx context.Context, id int64) (*model.Volunteer, error)
	CreateVolunteer(ctx context.Context, fields model.VolunteerFragment) (*model.Volunteer, error)
	UpdateVolunteer(ctx context.Context, id int64, fields model.VolunteerFragment) (*model.Volunteer, error)
	// DeleteVolunteer removes the volunteer and nulls every visit reference to it
	DeleteVolunteer(ctx context.Context, id int64) error
	GetVolunteerSummary(ctx context.Context, id int64) (*model.VolunteerSummary, error)
}

// VisitStore defines the interface for visit database operations.
// updatedAt is stored as the record's freshness timestamp.
type VisitStore interface {
	ListVisits(ctx context.Context, filter VisitFilter) ([]model.Visit, error)
	GetVisit(ctx context.Context, id int64) (*model.Visit, error)
	FindVisitByExternalID(ctx context.Context, externalID string) (*model.Visit, error)
	CreateVisit(ctx context.Context, externalID *string, fields model.VisitFragment, updatedAt time.Time) (*model.Visit, error)
	UpdateVisit(ctx context.Context, id int64, fields model.VisitFragment, updatedAt time.Time) (*model.Visit, error)
}

// AppointmentStore defines the interface for appointment database operations
type AppointmentStore interface {
	ListAppointments(ctx context.Context, filter AppointmentFilter) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	FindAppointmentByExternalID(ctx context.Context, externalID string) (*model.Appointment, error)
	CreateAppointment(ctx context.Context, externalID string, fields model.AppointmentFragment, updatedAt time.Time) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, fields model.AppointmentFragment, updatedAt time.Time) (*model.Appointment, error)
}

// SettingStore defines the interface for key/value settings
type SettingStore interface {
	GetSetting(ctx context.Context, key string) (*model.Setting, error)
	// SetSetting upserts a setting. An empty description keeps the stored one.
	SetSetting(ctx context.Context, key, value, description string) error
	ListSettings(ctx context.Context) ([]model.Setting, error)
	// EnsureSettings inserts the given settings when their key is absent
	EnsureSettings(ctx context.Context, defaults []model.Setting) error
}

// Database defines the interface for all database operations.
// The SQLite and Postgres backends in pkg/store both implement it.
type Database interface {
	VolunteerStore
	VisitStore
	AppointmentStore
	SettingStore
	Stats(ctx context.Context, now time.Time) (*model.Stats, error)
	// Backup writes a copy of the database into dir and returns its path
	Backup(ctx context.Context, dir string, now time.Time) (string, error)
	Close() error
}
