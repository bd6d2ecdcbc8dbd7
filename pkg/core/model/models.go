package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// VisitStatus is the lifecycle state of a home visit
type VisitStatus string

const (
	VisitPlanned   VisitStatus = "planned"
	VisitCompleted VisitStatus = "completed"
	VisitCancelled VisitStatus = "cancelled"
)

func (s VisitStatus) IsValid() bool {
	return s == VisitPlanned || s == VisitCompleted || s == VisitCancelled
}

// AppointmentStatus is the state of a scheduled meeting
type AppointmentStatus string

const (
	AppointmentScheduled   AppointmentStatus = "scheduled"
	AppointmentCompleted   AppointmentStatus = "completed"
	AppointmentCancelled   AppointmentStatus = "cancelled"
	AppointmentRescheduled AppointmentStatus = "rescheduled"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled, AppointmentRescheduled:
		return true
	}
	return false
}

// MeetingType describes how an appointment takes place
type MeetingType string

const (
	MeetingInPerson MeetingType = "in_person"
	MeetingPhone    MeetingType = "phone"
	MeetingOnline   MeetingType = "online"
)

// Volunteer represents a volunteer in the directory
type Volunteer struct {
	ID           int64
	Name         string `validate:"required"`
	Phone        string `validate:"omitempty,max=20"`
	Email        string `validate:"omitempty,email"`
	Address      string
	Skills       string // Comma-separated
	Availability string
	IsActive     bool
	DateJoined   time.Time
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SkillsList returns the skills as a trimmed list
func (v Volunteer) SkillsList() []string {
	if strings.TrimSpace(v.Skills) == "" {
		return []string{}
	}
	parts := strings.Split(v.Skills, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// SetSkills stores a list of skills in the comma-separated column format
func (v *Volunteer) SetSkills(skills []string) {
	v.Skills = strings.Join(skills, ", ")
}

// VolunteerSummary adds derived visit statistics to a volunteer
type VolunteerSummary struct {
	Volunteer
	VisitCount    int
	LastVisitDate *time.Time
}

// Assessment holds the energy assessment recorded during a visit
type Assessment struct {
	// Energy
	EnergyMeasuresTaken      bool
	WhichMeasures            string
	ContractDuration         string
	ElectricityConsumption   *int // kWh per year
	GasConsumption           *int // m³ per year
	MonthlyAmount            decimal.NullDecimal
	EnergyBillConcerns       bool
	CurrentCVTemperature     *float64
	CVTemperatureLoweredTo   *float64
	CVWaterPressureUnder1Bar bool
	TapComfortOff            bool
	EnergySavedKWh           *float64
	CostSavingsEuro          decimal.NullDecimal

	// Materials
	RadiatorFoilMeters    *float64
	RadiatorFanNeeded     bool
	DraftStripMeters      *float64
	DoorDraftBand         bool
	DoorClosers           bool
	DoorCloserSpring      bool
	LEDLampsNeeded        bool
	E14LEDsCount          *int
	E27LEDsCount          *int
	SmallPowerStripNeeded bool
	LargePowerStripNeeded bool
	ShowerTimer           bool
	ShowerHead            bool

	// Problems
	MoldIssues              bool
	MoistureIssues          bool
	DraftIssues             bool
	ProblemRoomsDescription string
	ProblemsWith            string
	HygrometerNeeded        bool
	OldRefrigerator         bool

	// Community
	KnowsPotentialFixers     bool
	WantsToHelp              bool
	TellNeighbors            bool
	ShareInfoWithHousingCorp bool
	KeepUpdatedOnResults     bool
	CommunityBuilding        string
}

// HasIssues reports whether any housing problem was found
func (a Assessment) HasIssues() bool {
	return a.MoldIssues || a.MoistureIssues || a.DraftIssues
}

// Issues returns short labels for the housing problems found
func (a Assessment) Issues() []string {
	issues := []string{}
	if a.MoldIssues {
		issues = append(issues, "Mold")
	}
	if a.MoistureIssues {
		issues = append(issues, "Moisture")
	}
	if a.DraftIssues {
		issues = append(issues, "Draft")
	}
	return issues
}

// Visit represents one home energy assessment
type Visit struct {
	ID              int64
	VolunteerID     *int64
	Volunteer2ID    *int64
	Address         string    `validate:"required"`
	VisitDate       time.Time `validate:"required"`
	AppointmentTime string
	ResidentsCount  *int
	ResidentEmail   string
	Assessment
	OtherRemarks string
	Notes        string
	ExternalID   *string // Form submission id, nil for manual visits
	RawPayload   []byte
	Status       VisitStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Appointment represents a scheduled meeting from the external scheduler
type Appointment struct {
	ID           int64
	ExternalID   string `validate:"required"`
	ExternalURI  string
	EventName    string
	StartTime    time.Time `validate:"required"`
	EndTime      time.Time `validate:"required,gtefield=StartTime"`
	Timezone     string
	InviteeName  string
	InviteeEmail string
	InviteePhone string
	Location     string
	MeetingURL   string
	MeetingType  MeetingType
	Status       AppointmentStatus
	RawPayload   []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsUpcoming reports whether the appointment starts after now
func (a Appointment) IsUpcoming(now time.Time) bool {
	return a.StartTime.After(now)
}

// DurationMinutes returns the appointment length in whole minutes
func (a Appointment) DurationMinutes() int {
	if a.StartTime.IsZero() || a.EndTime.IsZero() {
		return 0
	}
	return int(a.EndTime.Sub(a.StartTime).Minutes())
}

// Setting is a key/value application setting
type Setting struct {
	Key         string
	Value       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Stats holds the dashboard counters
type Stats struct {
	TotalVolunteers      int
	ActiveVolunteers     int
	TotalVisits          int
	VisitsThisMonth      int
	VisitsWithIssues     int
	AverageResidents     float64
	UpcomingAppointments int
}
