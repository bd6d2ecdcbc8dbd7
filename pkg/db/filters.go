package db

import (
	"time"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
)

// VolunteerFilter narrows a volunteer listing
type VolunteerFilter struct {
	// Query matches name, email or skills case-insensitively
	Query      string
	ActiveOnly bool
}

// VisitFilter narrows a visit listing. Date bounds are inclusive.
type VisitFilter struct {
	From        *time.Time
	To          *time.Time
	VolunteerID *int64 // primary or secondary volunteer
	Status      *model.VisitStatus
	Limit       int
}

// AppointmentFilter narrows an appointment listing by start time
type AppointmentFilter struct {
	From   *time.Time
	To     *time.Time
	Status *model.AppointmentStatus
	Limit  int
}
