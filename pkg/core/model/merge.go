package model

import "github.com/shopspring/decimal"

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setPtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func setDecimal(dst *decimal.NullDecimal, src *decimal.Decimal) {
	if src != nil {
		*dst = decimal.NewNullDecimal(*src)
	}
}

// ApplyTo merges the non-nil fields of f into v
func (f VolunteerFragment) ApplyTo(v *Volunteer) {
	set(&v.Name, f.Name)
	set(&v.Phone, f.Phone)
	set(&v.Email, f.Email)
	set(&v.Address, f.Address)
	set(&v.Skills, f.Skills)
	set(&v.Availability, f.Availability)
	set(&v.IsActive, f.IsActive)
	set(&v.DateJoined, f.DateJoined)
	set(&v.Notes, f.Notes)
}

// ApplyTo merges the non-nil fields of f into a
func (f AssessmentFragment) ApplyTo(a *Assessment) {
	set(&a.EnergyMeasuresTaken, f.EnergyMeasuresTaken)
	set(&a.WhichMeasures, f.WhichMeasures)
	set(&a.ContractDuration, f.ContractDuration)
	setPtr(&a.ElectricityConsumption, f.ElectricityConsumption)
	setPtr(&a.GasConsumption, f.GasConsumption)
	setDecimal(&a.MonthlyAmount, f.MonthlyAmount)
	set(&a.EnergyBillConcerns, f.EnergyBillConcerns)
	setPtr(&a.CurrentCVTemperature, f.CurrentCVTemperature)
	setPtr(&a.CVTemperatureLoweredTo, f.CVTemperatureLoweredTo)
	set(&a.CVWaterPressureUnder1Bar, f.CVWaterPressureUnder1Bar)
	set(&a.TapComfortOff, f.TapComfortOff)
	setPtr(&a.EnergySavedKWh, f.EnergySavedKWh)
	setDecimal(&a.CostSavingsEuro, f.CostSavingsEuro)

	setPtr(&a.RadiatorFoilMeters, f.RadiatorFoilMeters)
	set(&a.RadiatorFanNeeded, f.RadiatorFanNeeded)
	setPtr(&a.DraftStripMeters, f.DraftStripMeters)
	set(&a.DoorDraftBand, f.DoorDraftBand)
	set(&a.DoorClosers, f.DoorClosers)
	set(&a.DoorCloserSpring, f.DoorCloserSpring)
	set(&a.LEDLampsNeeded, f.LEDLampsNeeded)
	setPtr(&a.E14LEDsCount, f.E14LEDsCount)
	setPtr(&a.E27LEDsCount, f.E27LEDsCount)
	set(&a.SmallPowerStripNeeded, f.SmallPowerStripNeeded)
	set(&a.LargePowerStripNeeded, f.LargePowerStripNeeded)
	set(&a.ShowerTimer, f.ShowerTimer)
	set(&a.ShowerHead, f.ShowerHead)

	set(&a.MoldIssues, f.MoldIssues)
	set(&a.MoistureIssues, f.MoistureIssues)
	set(&a.DraftIssues, f.DraftIssues)
	set(&a.ProblemRoomsDescription, f.ProblemRoomsDescription)
	set(&a.ProblemsWith, f.ProblemsWith)
	set(&a.HygrometerNeeded, f.HygrometerNeeded)
	set(&a.OldRefrigerator, f.OldRefrigerator)

	set(&a.KnowsPotentialFixers, f.KnowsPotentialFixers)
	set(&a.WantsToHelp, f.WantsToHelp)
	set(&a.TellNeighbors, f.TellNeighbors)
	set(&a.ShareInfoWithHousingCorp, f.ShareInfoWithHousingCorp)
	set(&a.KeepUpdatedOnResults, f.KeepUpdatedOnResults)
	set(&a.CommunityBuilding, f.CommunityBuilding)
}

// ApplyTo merges the non-nil fields of f into v.
// Relation fields that are nil keep their previously resolved value.
func (f VisitFragment) ApplyTo(v *Visit) {
	setPtr(&v.VolunteerID, f.VolunteerID)
	setPtr(&v.Volunteer2ID, f.Volunteer2ID)
	set(&v.Address, f.Address)
	set(&v.VisitDate, f.VisitDate)
	set(&v.AppointmentTime, f.AppointmentTime)
	setPtr(&v.ResidentsCount, f.ResidentsCount)
	set(&v.ResidentEmail, f.ResidentEmail)
	f.AssessmentFragment.ApplyTo(&v.Assessment)
	set(&v.OtherRemarks, f.OtherRemarks)
	set(&v.Notes, f.Notes)
	if f.RawPayload != nil {
		v.RawPayload = f.RawPayload
	}
	set(&v.Status, f.Status)
}

// ApplyTo merges the non-nil fields of f into a
func (f AppointmentFragment) ApplyTo(a *Appointment) {
	set(&a.ExternalURI, f.ExternalURI)
	set(&a.EventName, f.EventName)
	set(&a.StartTime, f.StartTime)
	set(&a.EndTime, f.EndTime)
	set(&a.Timezone, f.Timezone)
	set(&a.InviteeName, f.InviteeName)
	set(&a.InviteeEmail, f.InviteeEmail)
	set(&a.InviteePhone, f.InviteePhone)
	set(&a.Location, f.Location)
	set(&a.MeetingURL, f.MeetingURL)
	set(&a.MeetingType, f.MeetingType)
	set(&a.Status, f.Status)
	if f.RawPayload != nil {
		a.RawPayload = f.RawPayload
	}
}
