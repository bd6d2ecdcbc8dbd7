package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// ListVisits returns visits, most recent first
func (s *DB) ListVisits(ctx context.Context, filter db.VisitFilter) ([]model.Visit, error) {
	var where []string
	var args []any

	if filter.From != nil {
		where = append(where, "visit_date >= ?")
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		where = append(where, "visit_date <= ?")
		args = append(args, filter.To.UTC())
	}
	if filter.VolunteerID != nil {
		where = append(where, "(volunteer_id = ? OR volunteer2_id = ?)")
		args = append(args, *filter.VolunteerID, *filter.VolunteerID)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*filter.Status))
	}

	suffix := ""
	if len(where) > 0 {
		suffix = " WHERE " + strings.Join(where, " AND ")
	}
	suffix += " ORDER BY visit_date DESC, id DESC"
	if filter.Limit > 0 {
		suffix += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	visits, err := visitsTable.list(ctx, s.sql, s.dialect, suffix, args...)
	if err != nil {
		return nil, s.wrap("query visits", err)
	}
	return visits, nil
}

// GetVisit retrieves a visit by id
func (s *DB) GetVisit(ctx context.Context, id int64) (*model.Visit, error) {
	v, err := visitsTable.get(ctx, s.sql, s.dialect, id)
	if err != nil {
		return nil, s.wrap("get visit", err)
	}
	return v, nil
}

// FindVisitByExternalID retrieves the visit created from a form submission
func (s *DB) FindVisitByExternalID(ctx context.Context, externalID string) (*model.Visit, error) {
	row := s.sql.QueryRowContext(ctx, s.dialect.rebind(visitsTable.selectSQL()+" WHERE external_id = ?"), externalID)
	v, err := visitsTable.scan(row)
	if err != nil {
		return nil, s.wrap("find visit by external id", err)
	}
	return v, nil
}

// CreateVisit inserts a visit built from the fragment. Status defaults to
// completed.
func (s *DB) CreateVisit(ctx context.Context, externalID *string, fields model.VisitFragment, updatedAt time.Time) (*model.Visit, error) {
	v := &model.Visit{Status: model.VisitCompleted}
	fields.ApplyTo(v)
	if externalID != nil {
		id := *externalID
		v.ExternalID = &id
	}
	v.CreatedAt = s.clock()
	v.UpdatedAt = updatedAt

	if err := visitsTable.insert(ctx, s.sql, s.dialect, v); err != nil {
		return nil, s.wrap("insert visit", err)
	}
	return v, nil
}

// UpdateVisit merges the fragment into the stored visit in one transaction.
// Fields left nil in the fragment keep their stored value.
func (s *DB) UpdateVisit(ctx context.Context, id int64, fields model.VisitFragment, updatedAt time.Time) (*model.Visit, error) {
	var updated *model.Visit
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		v, err := visitsTable.get(ctx, tx, s.dialect, id)
		if err != nil {
			return s.wrap("get visit", err)
		}
		fields.ApplyTo(v)
		v.UpdatedAt = updatedAt
		if err := visitsTable.update(ctx, tx, s.dialect, v); err != nil {
			return s.wrap("update visit", err)
		}
		updated = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
