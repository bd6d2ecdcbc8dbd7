package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

var validate = validator.New()

// VolunteersStore defines the database operations needed to manage volunteers
type VolunteersStore interface {
	ListVolunteers(ctx context.Context, filter db.VolunteerFilter) ([]model.Volunteer, error)
	GetVolunteer(ctx context.Context, id int64) (*model.Volunteer, error)
	CreateVolunteer(ctx context.Context, fields model.VolunteerFragment) (*model.Volunteer, error)
	UpdateVolunteer(ctx context.Context, id int64, fields model.VolunteerFragment) (*model.Volunteer, error)
	DeleteVolunteer(ctx context.Context, id int64) error
	GetVolunteerSummary(ctx context.Context, id int64) (*model.VolunteerSummary, error)
}

// ListVolunteers returns volunteers matching the filter, ordered by name
func ListVolunteers(ctx context.Context, database VolunteersStore, filter db.VolunteerFilter) ([]model.Volunteer, error) {
	volunteers, err := database.ListVolunteers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	return volunteers, nil
}

// AddVolunteer validates and creates a volunteer
func AddVolunteer(ctx context.Context, database VolunteersStore, logger *zap.Logger, fields model.VolunteerFragment) (*model.Volunteer, error) {
	trimFragment(&fields)

	// Validate the volunteer as it would be stored
	candidate := model.Volunteer{}
	fields.ApplyTo(&candidate)
	if err := validate.Struct(candidate); err != nil {
		return nil, fmt.Errorf("invalid volunteer: %w", err)
	}

	volunteer, err := database.CreateVolunteer(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to create volunteer: %w", err)
	}

	logger.Info("Volunteer created", zap.Int64("volunteer_id", volunteer.ID), zap.String("name", volunteer.Name))
	return volunteer, nil
}

// EditVolunteer merges the fragment into the stored volunteer
func EditVolunteer(ctx context.Context, database VolunteersStore, logger *zap.Logger, id int64, fields model.VolunteerFragment) (*model.Volunteer, error) {
	trimFragment(&fields)

	current, err := database.GetVolunteer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer %d: %w", id, err)
	}
	candidate := *current
	fields.ApplyTo(&candidate)
	if err := validate.Struct(candidate); err != nil {
		return nil, fmt.Errorf("invalid volunteer: %w", err)
	}

	volunteer, err := database.UpdateVolunteer(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update volunteer %d: %w", id, err)
	}

	logger.Info("Volunteer updated", zap.Int64("volunteer_id", id))
	return volunteer, nil
}

// DeleteVolunteer removes a volunteer. Their visits are kept without the
// volunteer reference.
func DeleteVolunteer(ctx context.Context, database VolunteersStore, logger *zap.Logger, id int64) error {
	if err := database.DeleteVolunteer(ctx, id); err != nil {
		return fmt.Errorf("failed to delete volunteer %d: %w", id, err)
	}
	logger.Info("Volunteer deleted", zap.Int64("volunteer_id", id))
	return nil
}

// ShowVolunteer returns a volunteer with visit statistics
func ShowVolunteer(ctx context.Context, database VolunteersStore, id int64) (*model.VolunteerSummary, error) {
	summary, err := database.GetVolunteerSummary(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer %d: %w", id, err)
	}
	return summary, nil
}

func trimFragment(f *model.VolunteerFragment) {
	for _, s := range []*string{f.Name, f.Phone, f.Email, f.Address, f.Skills, f.Availability, f.Notes} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}
