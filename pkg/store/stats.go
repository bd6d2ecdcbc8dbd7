package store

import (
	"context"
	"time"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
)

// Stats computes the dashboard counters relative to now
func (s *DB) Stats(ctx context.Context, now time.Time) (*model.Stats, error) {
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := &model.Stats{}
	queries := []struct {
		op    string
		query string
		args  []any
		dest  any
	}{
		{"count volunteers", `SELECT COUNT(*) FROM volunteers`, nil, &stats.TotalVolunteers},
		{"count active volunteers", `SELECT COUNT(*) FROM volunteers WHERE is_active = ?`, []any{true}, &stats.ActiveVolunteers},
		{"count visits", `SELECT COUNT(*) FROM visits`, nil, &stats.TotalVisits},
		{"count visits this month", `SELECT COUNT(*) FROM visits WHERE visit_date >= ?`, []any{monthStart}, &stats.VisitsThisMonth},
		{
			"count visits with issues",
			`SELECT COUNT(*) FROM visits WHERE mold_issues = ? OR moisture_issues = ? OR draft_issues = ?`,
			[]any{true, true, true},
			&stats.VisitsWithIssues,
		},
		{
			"average residents",
			`SELECT CAST(COALESCE(AVG(residents_count), 0) AS DOUBLE PRECISION) FROM visits WHERE residents_count IS NOT NULL`,
			nil,
			&stats.AverageResidents,
		},
		{
			"count upcoming appointments",
			`SELECT COUNT(*) FROM appointments WHERE start_time > ? AND status = ?`,
			[]any{now, string(model.AppointmentScheduled)},
			&stats.UpcomingAppointments,
		},
	}

	for _, q := range queries {
		if err := s.sql.QueryRowContext(ctx, s.dialect.rebind(q.query), q.args...).Scan(q.dest); err != nil {
			return nil, s.wrap(q.op, err)
		}
	}

	return stats, nil
}
