package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/core/reconcile"
)

// SyncAppointments pulls the scheduled events starting within the source's
// look-ahead window and reconciles them into appointments
func SyncAppointments(
	ctx context.Context,
	database SyncAppointmentsStore,
	source EventSource,
	logger *zap.Logger,
	now time.Time,
) (*reconcile.Summary, error) {
	logger.Debug("Starting syncAppointments")

	if !source.IsConfigured() {
		return nil, fmt.Errorf("calendly: %w", ErrNotConfigured)
	}

	from := now.UTC()
	to := from.AddDate(0, 0, source.DaysAhead())
	events, err := source.FetchEvents(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scheduled events: %w", err)
	}

	collection := &appointmentCollection{store: database}
	reconciler := reconcile.New[model.AppointmentFragment](collection, logger, func() time.Time { return now })

	summary := reconciler.Run(ctx, events)
	logger.Info("Appointment sync finished",
		zap.Int("events", len(events)),
		zap.Time("window_end", to),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("failed", summary.Failed))

	return summary, nil
}
