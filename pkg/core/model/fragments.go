package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fragments are partial records produced by parsing or editing.
// A nil field means "leave the stored value unchanged".

// VolunteerFragment holds the assignable fields of a volunteer
type VolunteerFragment struct {
	Name         *string
	Phone        *string
	Email        *string
	Address      *string
	Skills       *string
	Availability *string
	IsActive     *bool
	DateJoined   *time.Time
	Notes        *string
}

// AssessmentFragment holds the assignable assessment fields of a visit
type AssessmentFragment struct {
	EnergyMeasuresTaken      *bool
	WhichMeasures            *string
	ContractDuration         *string
	ElectricityConsumption   *int
	GasConsumption           *int
	MonthlyAmount            *decimal.Decimal
	EnergyBillConcerns       *bool
	CurrentCVTemperature     *float64
	CVTemperatureLoweredTo   *float64
	CVWaterPressureUnder1Bar *bool
	TapComfortOff            *bool
	EnergySavedKWh           *float64
	CostSavingsEuro          *decimal.Decimal

	RadiatorFoilMeters    *float64
	RadiatorFanNeeded     *bool
	DraftStripMeters      *float64
	DoorDraftBand         *bool
	DoorClosers           *bool
	DoorCloserSpring      *bool
	LEDLampsNeeded        *bool
	E14LEDsCount          *int
	E27LEDsCount          *int
	SmallPowerStripNeeded *bool
	LargePowerStripNeeded *bool
	ShowerTimer           *bool
	ShowerHead            *bool

	MoldIssues              *bool
	MoistureIssues          *bool
	DraftIssues             *bool
	ProblemRoomsDescription *string
	ProblemsWith            *string
	HygrometerNeeded        *bool
	OldRefrigerator         *bool

	KnowsPotentialFixers     *bool
	WantsToHelp              *bool
	TellNeighbors            *bool
	ShareInfoWithHousingCorp *bool
	KeepUpdatedOnResults     *bool
	CommunityBuilding        *string
}

// VisitFragment holds the assignable fields of a visit.
// The external id is not part of the fragment: it is only set on create.
type VisitFragment struct {
	VolunteerID     *int64
	Volunteer2ID    *int64
	Address         *string
	VisitDate       *time.Time
	AppointmentTime *string
	ResidentsCount  *int
	ResidentEmail   *string
	AssessmentFragment
	OtherRemarks *string
	Notes        *string
	RawPayload   []byte
	Status       *VisitStatus
}

// AppointmentFragment holds the assignable fields of an appointment
type AppointmentFragment struct {
	ExternalURI  *string
	EventName    *string
	StartTime    *time.Time
	EndTime      *time.Time
	Timezone     *string
	InviteeName  *string
	InviteeEmail *string
	InviteePhone *string
	Location     *string
	MeetingURL   *string
	MeetingType  *MeetingType
	Status       *AppointmentStatus
	RawPayload   []byte
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
