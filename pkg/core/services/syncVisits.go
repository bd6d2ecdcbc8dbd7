package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/internal/config"
	"github.com/energiefixers071/fixerdesk/pkg/core/fieldparse"
	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/core/reconcile"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// SyncVisits pulls every form submission and reconciles it into visits.
// An error is returned only when the source or the volunteer roster cannot
// be read; per-record problems are reported in the summary.
func SyncVisits(
	ctx context.Context,
	database SyncVisitsStore,
	source SubmissionSource,
	cfg *config.Config,
	logger *zap.Logger,
	now time.Time,
) (*reconcile.Summary, error) {
	logger.Debug("Starting syncVisits")

	if !source.IsConfigured() {
		return nil, fmt.Errorf("kobotoolbox: %w", ErrNotConfigured)
	}

	submissions, err := source.FetchSubmissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	return reconcileVisits(ctx, database, submissions, cfg, logger, now)
}

// reconcileVisits reconciles an already fetched batch of submissions
func reconcileVisits(
	ctx context.Context,
	database SyncVisitsStore,
	submissions []fieldparse.Payload,
	cfg *config.Config,
	logger *zap.Logger,
	now time.Time,
) (*reconcile.Summary, error) {
	// The roster is read once per batch
	volunteers, err := database.ListVolunteers(ctx, db.VolunteerFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load volunteers: %w", err)
	}

	group := config.DefaultKoboGroup
	if cfg != nil && cfg.Kobo.Group != "" {
		group = cfg.Kobo.Group
	}

	collection := &visitCollection{
		store:     database,
		directory: fieldparse.NewDirectory(volunteers),
		group:     group,
		now:       func() time.Time { return now },
	}
	reconciler := reconcile.New[model.VisitFragment](collection, logger, collection.now)

	summary := reconciler.Run(ctx, submissions)
	logger.Info("Visit sync finished",
		zap.Int("submissions", len(submissions)),
		zap.Int("volunteers", len(volunteers)),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("failed", summary.Failed))

	return summary, nil
}
