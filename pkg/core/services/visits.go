package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/pkg/core/fieldparse"
	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// VisitsStore defines the database operations needed to manage visits
type VisitsStore interface {
	ListVisits(ctx context.Context, filter db.VisitFilter) ([]model.Visit, error)
	GetVisit(ctx context.Context, id int64) (*model.Visit, error)
	CreateVisit(ctx context.Context, externalID *string, fields model.VisitFragment, updatedAt time.Time) (*model.Visit, error)
	UpdateVisit(ctx context.Context, id int64, fields model.VisitFragment, updatedAt time.Time) (*model.Visit, error)
	GetVolunteer(ctx context.Context, id int64) (*model.Volunteer, error)
}

// VisitDetail is a visit with the names of the volunteers who performed it
type VisitDetail struct {
	model.Visit
	VolunteerName  string
	Volunteer2Name string
}

// ListVisits returns visits matching the filter, most recent first
func ListVisits(ctx context.Context, database VisitsStore, filter db.VisitFilter) ([]model.Visit, error) {
	visits, err := database.ListVisits(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return visits, nil
}

// AddVisit records a visit entered by hand. Manual visits have no external id.
func AddVisit(ctx context.Context, database VisitsStore, logger *zap.Logger, fields model.VisitFragment, now time.Time) (*model.Visit, error) {
	if fields.Address == nil || strings.TrimSpace(*fields.Address) == "" {
		return nil, errors.New("invalid visit: address is required")
	}
	address := strings.TrimSpace(*fields.Address)
	fields.Address = &address
	if fields.VisitDate == nil {
		fields.VisitDate = model.Ptr(fieldparse.DateOf(now))
	}
	if err := validateVisitFields(ctx, database, fields); err != nil {
		return nil, err
	}

	visit, err := database.CreateVisit(ctx, nil, fields, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create visit: %w", err)
	}

	logger.Info("Visit created", zap.Int64("visit_id", visit.ID), zap.String("address", visit.Address))
	return visit, nil
}

// EditVisit merges the fragment into a stored visit
func EditVisit(ctx context.Context, database VisitsStore, logger *zap.Logger, id int64, fields model.VisitFragment, now time.Time) (*model.Visit, error) {
	if fields.Address != nil && strings.TrimSpace(*fields.Address) == "" {
		return nil, errors.New("invalid visit: address cannot be empty")
	}
	if err := validateVisitFields(ctx, database, fields); err != nil {
		return nil, err
	}

	visit, err := database.UpdateVisit(ctx, id, fields, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update visit %d: %w", id, err)
	}

	logger.Info("Visit updated", zap.Int64("visit_id", id))
	return visit, nil
}

// SetVisitStatus changes the lifecycle status of a visit
func SetVisitStatus(ctx context.Context, database VisitsStore, logger *zap.Logger, id int64, status model.VisitStatus, now time.Time) (*model.Visit, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid visit status %q: expected planned, completed or cancelled", status)
	}
	return EditVisit(ctx, database, logger, id, model.VisitFragment{Status: &status}, now)
}

// ShowVisit returns a visit with resolved volunteer names
func ShowVisit(ctx context.Context, database VisitsStore, id int64) (*VisitDetail, error) {
	visit, err := database.GetVisit(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get visit %d: %w", id, err)
	}

	detail := &VisitDetail{Visit: *visit}
	if detail.VolunteerName, err = volunteerName(ctx, database, visit.VolunteerID); err != nil {
		return nil, err
	}
	if detail.Volunteer2Name, err = volunteerName(ctx, database, visit.Volunteer2ID); err != nil {
		return nil, err
	}
	return detail, nil
}

func volunteerName(ctx context.Context, database VisitsStore, id *int64) (string, error) {
	if id == nil {
		return "", nil
	}
	volunteer, err := database.GetVolunteer(ctx, *id)
	if errors.Is(err, db.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get volunteer %d: %w", *id, err)
	}
	return volunteer.Name, nil
}

func validateVisitFields(ctx context.Context, database VisitsStore, fields model.VisitFragment) error {
	if fields.Status != nil && !fields.Status.IsValid() {
		return fmt.Errorf("invalid visit status %q", *fields.Status)
	}
	if fields.ResidentEmail != nil && *fields.ResidentEmail != "" {
		if err := validate.Var(*fields.ResidentEmail, "email"); err != nil {
			return fmt.Errorf("invalid resident email %q", *fields.ResidentEmail)
		}
	}
	for _, id := range []*int64{fields.VolunteerID, fields.Volunteer2ID} {
		if id == nil {
			continue
		}
		if _, err := database.GetVolunteer(ctx, *id); err != nil {
			return fmt.Errorf("invalid volunteer %d: %w", *id, err)
		}
	}
	return nil
}
