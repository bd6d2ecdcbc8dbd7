package services

import (
	"context"
	"fmt"
	"time"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// AppointmentsStore defines the database operations needed to list appointments
type AppointmentsStore interface {
	ListAppointments(ctx context.Context, filter db.AppointmentFilter) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
}

// ListAppointmentsOptions selects which appointments to list
type ListAppointmentsOptions struct {
	// UpcomingOnly lists scheduled appointments starting after now
	UpcomingOnly bool
	Status       *model.AppointmentStatus
	Limit        int
}

// ListAppointments returns appointments ordered by start time
func ListAppointments(ctx context.Context, database AppointmentsStore, opts ListAppointmentsOptions, now time.Time) ([]model.Appointment, error) {
	filter := db.AppointmentFilter{Status: opts.Status, Limit: opts.Limit}
	if opts.UpcomingOnly {
		from := now.UTC()
		filter.From = &from
		if filter.Status == nil {
			filter.Status = model.Ptr(model.AppointmentScheduled)
		}
	}

	appointments, err := database.ListAppointments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	if opts.UpcomingOnly {
		// start_time >= now in SQL, upcoming is strictly after
		upcoming := appointments[:0]
		for _, a := range appointments {
			if a.IsUpcoming(now) {
				upcoming = append(upcoming, a)
			}
		}
		appointments = upcoming
	}
	return appointments, nil
}

// ShowAppointment returns one appointment
func ShowAppointment(ctx context.Context, database AppointmentsStore, id int64) (*model.Appointment, error) {
	appointment, err := database.GetAppointment(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment %d: %w", id, err)
	}
	return appointment, nil
}
