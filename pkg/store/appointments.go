package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// ListAppointments returns appointments ordered by start time
func (s *DB) ListAppointments(ctx context.Context, filter db.AppointmentFilter) ([]model.Appointment, error) {
	var where []string
	var args []any

	if filter.From != nil {
		where = append(where, "start_time >= ?")
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		where = append(where, "start_time <= ?")
		args = append(args, filter.To.UTC())
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filter.Status))
	}

	suffix := ""
	if len(where) > 0 {
		suffix = " WHERE " + strings.Join(where, " AND ")
	}
	suffix += " ORDER BY start_time, id"
	if filter.Limit > 0 {
		suffix += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	appointments, err := appointmentsTable.list(ctx, s.sql, s.dialect, suffix, args...)
	if err != nil {
		return nil, s.wrap("query appointments", err)
	}
	return appointments, nil
}

// GetAppointment retrieves an appointment by id
func (s *DB) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	a, err := appointmentsTable.get(ctx, s.sql, s.dialect, id)
	if err != nil {
		return nil, s.wrap("get appointment", err)
	}
	return a, nil
}

// FindAppointmentByExternalID retrieves an appointment by scheduler event id
func (s *DB) FindAppointmentByExternalID(ctx context.Context, externalID string) (*model.Appointment, error) {
	row := s.sql.QueryRowContext(ctx, s.dialect.rebind(appointmentsTable.selectSQL()+" WHERE external_id = ?"), externalID)
	a, err := appointmentsTable.scan(row)
	if err != nil {
		return nil, s.wrap("find appointment by external id", err)
	}
	return a, nil
}

// CreateAppointment inserts an appointment built from the fragment
func (s *DB) CreateAppointment(ctx context.Context, externalID string, fields model.AppointmentFragment, updatedAt time.Time) (*model.Appointment, error) {
	a := &model.Appointment{
		EventName:   "Appointment",
		MeetingType: model.MeetingInPerson,
		Status:      model.AppointmentScheduled,
	}
	fields.ApplyTo(a)
	a.ExternalID = externalID
	a.CreatedAt = s.clock()
	a.UpdatedAt = updatedAt

	if err := appointmentsTable.insert(ctx, s.sql, s.dialect, a); err != nil {
		return nil, s.wrap("insert appointment", err)
	}
	return a, nil
}

// UpdateAppointment merges the fragment into the stored appointment
func (s *DB) UpdateAppointment(ctx context.Context, id int64, fields model.AppointmentFragment, updatedAt time.Time) (*model.Appointment, error) {
	var updated *model.Appointment
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		a, err := appointmentsTable.get(ctx, tx, s.dialect, id)
		if err != nil {
			return s.wrap("get appointment", err)
		}
		fields.ApplyTo(a)
		a.UpdatedAt = updatedAt
		if err := appointmentsTable.update(ctx, tx, s.dialect, a); err != nil {
			return s.wrap("update appointment", err)
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
