package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// ListVolunteers returns volunteers ordered by name
func (s *DB) ListVolunteers(ctx context.Context, filter db.VolunteerFilter) ([]model.Volunteer, error) {
	var where []string
	var args []any

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(skills) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if filter.ActiveOnly {
		where = append(where, "is_active = ?")
		args = append(args, true)
	}

	suffix := ""
	if len(where) > 0 {
		suffix = " WHERE " + strings.Join(where, " AND ")
	}
	suffix += " ORDER BY name, id"

	volunteers, err := volunteersTable.list(ctx, s.sql, s.dialect, suffix, args...)
	if err != nil {
		return nil, s.wrap("query volunteers", err)
	}
	return volunteers, nil
}

// GetVolunteer retrieves a volunteer by id
func (s *DB) GetVolunteer(ctx context.Context, id int64) (*model.Volunteer, error) {
	v, err := volunteersTable.get(ctx, s.sql, s.dialect, id)
	if err != nil {
		return nil, s.wrap("get volunteer", err)
	}
	return v, nil
}

// CreateVolunteer inserts a volunteer. New volunteers are active and joined
// today unless the fragment says otherwise.
func (s *DB) CreateVolunteer(ctx context.Context, fields model.VolunteerFragment) (*model.Volunteer, error) {
	now := s.clock()
	v := &model.Volunteer{IsActive: true}
	fields.ApplyTo(v)
	if v.DateJoined.IsZero() {
		v.DateJoined = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	v.CreatedAt = now
	v.UpdatedAt = now

	if err := volunteersTable.insert(ctx, s.sql, s.dialect, v); err != nil {
		return nil, s.wrap("insert volunteer", err)
	}
	return v, nil
}

// UpdateVolunteer merges the fragment into the stored volunteer
func (s *DB) UpdateVolunteer(ctx context.Context, id int64, fields model.VolunteerFragment) (*model.Volunteer, error) {
	var updated *model.Volunteer
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		v, err := volunteersTable.get(ctx, tx, s.dialect, id)
		if err != nil {
			return s.wrap("get volunteer", err)
		}
		fields.ApplyTo(v)
		v.UpdatedAt = s.clock()
		if err := volunteersTable.update(ctx, tx, s.dialect, v); err != nil {
			return s.wrap("update volunteer", err)
		}
		updated = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteVolunteer removes a volunteer. Visits referencing the volunteer are
// kept with the reference cleared.
func (s *DB) DeleteVolunteer(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.dialect.rebind(`UPDATE visits SET volunteer_id = NULL WHERE volunteer_id = ?`), id); err != nil {
			return s.wrap("clear primary volunteer on visits", err)
		}
		if _, err := tx.ExecContext(ctx, s.dialect.rebind(`UPDATE visits SET volunteer2_id = NULL WHERE volunteer2_id = ?`), id); err != nil {
			return s.wrap("clear secondary volunteer on visits", err)
		}

		result, err := tx.ExecContext(ctx, s.dialect.rebind(`DELETE FROM volunteers WHERE id = ?`), id)
		if err != nil {
			return s.wrap("delete volunteer", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return s.wrap("delete volunteer", err)
		}
		if affected == 0 {
			return s.wrap("delete volunteer", sql.ErrNoRows)
		}
		return nil
	})
}

// GetVolunteerSummary returns the volunteer with visit count and last visit
// date, counting visits where they were primary or secondary volunteer
func (s *DB) GetVolunteerSummary(ctx context.Context, id int64) (*model.VolunteerSummary, error) {
	v, err := s.GetVolunteer(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := &model.VolunteerSummary{Volunteer: *v}

	err = s.sql.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT COUNT(*) FROM visits WHERE volunteer_id = ? OR volunteer2_id = ?`),
		id, id,
	).Scan(&summary.VisitCount)
	if err != nil {
		return nil, s.wrap("count volunteer visits", err)
	}

	var last time.Time
	err = s.sql.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT visit_date FROM visits WHERE volunteer_id = ? OR volunteer2_id = ? ORDER BY visit_date DESC LIMIT 1`),
		id, id,
	).Scan(&last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, s.wrap("get last visit date", err)
	default:
		last = last.UTC()
		summary.LastVisitDate = &last
	}

	return summary, nil
}
