package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

const dashboardListSize = 10

// DashboardStore defines the database operations needed for the dashboard
type DashboardStore interface {
	AppointmentsStore
	SettingsStore
	Stats(ctx context.Context, now time.Time) (*model.Stats, error)
	ListVisits(ctx context.Context, filter db.VisitFilter) ([]model.Visit, error)
}

// DashboardResult contains the overview shown on the home screen
type DashboardResult struct {
	Stats                model.Stats
	RecentVisits         []model.Visit
	UpcomingAppointments []model.Appointment
	LastSync             *time.Time
}

// Dashboard gathers counters, the latest visits and the next appointments
func Dashboard(ctx context.Context, database DashboardStore, logger *zap.Logger, now time.Time) (*DashboardResult, error) {
	logger.Debug("Building dashboard")

	stats, err := database.Stats(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}

	recent, err := database.ListVisits(ctx, db.VisitFilter{Limit: dashboardListSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent visits: %w", err)
	}

	upcoming, err := ListAppointments(ctx, database, ListAppointmentsOptions{
		UpcomingOnly: true,
		Limit:        dashboardListSize,
	}, now)
	if err != nil {
		return nil, err
	}

	result := &DashboardResult{
		Stats:                *stats,
		RecentVisits:         recent,
		UpcomingAppointments: upcoming,
	}

	lastSync, err := GetSettingValue(ctx, database, SettingLastSync, "")
	if err != nil {
		return nil, fmt.Errorf("failed to read last sync time: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, lastSync); err == nil {
		result.LastSync = &t
	}

	return result, nil
}
