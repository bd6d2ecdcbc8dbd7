package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/internal/config"
	"github.com/energiefixers071/fixerdesk/pkg/core/reconcile"
)

// SourceResult is the outcome of syncing one source
type SourceResult struct {
	Source  string
	Summary *reconcile.Summary
	// Skipped is set when the source has no credentials
	Skipped bool
	Err     error
}

// SyncAllResult holds the outcome of a full sync
type SyncAllResult struct {
	Visits       SourceResult
	Appointments SourceResult
}

// Results returns the per-source results in display order
func (r *SyncAllResult) Results() []SourceResult {
	return []SourceResult{r.Visits, r.Appointments}
}

// SyncAll syncs visits and then appointments. A failing source does not stop
// the other one. The last_sync setting is updated when any source synced.
func SyncAll(
	ctx context.Context,
	database SyncAllStore,
	submissions SubmissionSource,
	events EventSource,
	cfg *config.Config,
	logger *zap.Logger,
	now time.Time,
) *SyncAllResult {
	result := &SyncAllResult{
		Visits:       SourceResult{Source: "kobotoolbox"},
		Appointments: SourceResult{Source: "calendly"},
	}

	result.Visits.Summary, result.Visits.Err = SyncVisits(ctx, database, submissions, cfg, logger, now)
	result.Appointments.Summary, result.Appointments.Err = SyncAppointments(ctx, database, events, logger, now)

	synced := false
	for _, r := range []*SourceResult{&result.Visits, &result.Appointments} {
		switch {
		case errors.Is(r.Err, ErrNotConfigured):
			logger.Info("Skipping unconfigured source", zap.String("source", r.Source))
			r.Skipped = true
			r.Err = nil
		case r.Err != nil:
			logger.Error("Source sync failed", zap.String("source", r.Source), zap.Error(r.Err))
		default:
			synced = true
		}
	}

	if synced {
		if err := database.SetSetting(ctx, SettingLastSync, now.UTC().Format(time.RFC3339), ""); err != nil {
			logger.Warn("Failed to record last sync time", zap.Error(err))
		}
	}

	return result
}
