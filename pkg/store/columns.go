package store

import (
	"time"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
)

var volunteersTable = table[model.Volunteer]{
	name: "volunteers",
	id:   func(v *model.Volunteer) *int64 { return &v.ID },
	columns: []column[model.Volunteer]{
		{"name", func(v *model.Volunteer) any { return &v.Name }},
		{"phone", func(v *model.Volunteer) any { return &v.Phone }},
		{"email", func(v *model.Volunteer) any { return &v.Email }},
		{"address", func(v *model.Volunteer) any { return &v.Address }},
		{"skills", func(v *model.Volunteer) any { return &v.Skills }},
		{"availability", func(v *model.Volunteer) any { return &v.Availability }},
		{"is_active", func(v *model.Volunteer) any { return &v.IsActive }},
		{"date_joined", func(v *model.Volunteer) any { return &v.DateJoined }},
		{"notes", func(v *model.Volunteer) any { return &v.Notes }},
		{"created_at", func(v *model.Volunteer) any { return &v.CreatedAt }},
		{"updated_at", func(v *model.Volunteer) any { return &v.UpdatedAt }},
	},
	normalize: func(v *model.Volunteer) {
		utc(&v.DateJoined, &v.CreatedAt, &v.UpdatedAt)
	},
}

var visitsTable = table[model.Visit]{
	name: "visits",
	id:   func(v *model.Visit) *int64 { return &v.ID },
	columns: []column[model.Visit]{
		{"volunteer_id", func(v *model.Visit) any { return &v.VolunteerID }},
		{"volunteer2_id", func(v *model.Visit) any { return &v.Volunteer2ID }},
		{"address", func(v *model.Visit) any { return &v.Address }},
		{"visit_date", func(v *model.Visit) any { return &v.VisitDate }},
		{"appointment_time", func(v *model.Visit) any { return &v.AppointmentTime }},
		{"residents_count", func(v *model.Visit) any { return &v.ResidentsCount }},
		{"resident_email", func(v *model.Visit) any { return &v.ResidentEmail }},

		{"energy_measures_taken", func(v *model.Visit) any { return &v.EnergyMeasuresTaken }},
		{"which_measures", func(v *model.Visit) any { return &v.WhichMeasures }},
		{"contract_duration", func(v *model.Visit) any { return &v.ContractDuration }},
		{"electricity_consumption", func(v *model.Visit) any { return &v.ElectricityConsumption }},
		{"gas_consumption", func(v *model.Visit) any { return &v.GasConsumption }},
		{"monthly_amount", func(v *model.Visit) any { return &v.MonthlyAmount }},
		{"energy_bill_concerns", func(v *model.Visit) any { return &v.EnergyBillConcerns }},
		{"current_cv_temperature", func(v *model.Visit) any { return &v.CurrentCVTemperature }},
		{"cv_temperature_lowered_to", func(v *model.Visit) any { return &v.CVTemperatureLoweredTo }},
		{"cv_water_pressure_under_1_bar", func(v *model.Visit) any { return &v.CVWaterPressureUnder1Bar }},
		{"tap_comfort_off", func(v *model.Visit) any { return &v.TapComfortOff }},
		{"energy_saved_kwh", func(v *model.Visit) any { return &v.EnergySavedKWh }},
		{"cost_savings_euro", func(v *model.Visit) any { return &v.CostSavingsEuro }},

		{"radiator_foil_meters", func(v *model.Visit) any { return &v.RadiatorFoilMeters }},
		{"radiator_fan_needed", func(v *model.Visit) any { return &v.RadiatorFanNeeded }},
		{"draft_strip_meters", func(v *model.Visit) any { return &v.DraftStripMeters }},
		{"door_draft_band", func(v *model.Visit) any { return &v.DoorDraftBand }},
		{"door_closers", func(v *model.Visit) any { return &v.DoorClosers }},
		{"door_closer_spring", func(v *model.Visit) any { return &v.DoorCloserSpring }},
		{"led_lamps_needed", func(v *model.Visit) any { return &v.LEDLampsNeeded }},
		{"e14_leds_count", func(v *model.Visit) any { return &v.E14LEDsCount }},
		{"e27_leds_count", func(v *model.Visit) any { return &v.E27LEDsCount }},
		{"small_power_strip_needed", func(v *model.Visit) any { return &v.SmallPowerStripNeeded }},
		{"large_power_strip_needed", func(v *model.Visit) any { return &v.LargePowerStripNeeded }},
		{"shower_timer", func(v *model.Visit) any { return &v.ShowerTimer }},
		{"shower_head", func(v *model.Visit) any { return &v.ShowerHead }},

		{"mold_issues", func(v *model.Visit) any { return &v.MoldIssues }},
		{"moisture_issues", func(v *model.Visit) any { return &v.MoistureIssues }},
		{"draft_issues", func(v *model.Visit) any { return &v.DraftIssues }},
		{"problem_rooms_description", func(v *model.Visit) any { return &v.ProblemRoomsDescription }},
		{"problems_with", func(v *model.Visit) any { return &v.ProblemsWith }},
		{"hygrometer_needed", func(v *model.Visit) any { return &v.HygrometerNeeded }},
		{"old_refrigerator", func(v *model.Visit) any { return &v.OldRefrigerator }},

		{"knows_potential_fixers", func(v *model.Visit) any { return &v.KnowsPotentialFixers }},
		{"wants_to_help", func(v *model.Visit) any { return &v.WantsToHelp }},
		{"tell_neighbors", func(v *model.Visit) any { return &v.TellNeighbors }},
		{"share_info_with_housing_corp", func(v *model.Visit) any { return &v.ShareInfoWithHousingCorp }},
		{"keep_updated_on_results", func(v *model.Visit) any { return &v.KeepUpdatedOnResults }},
		{"community_building", func(v *model.Visit) any { return &v.CommunityBuilding }},

		{"other_remarks", func(v *model.Visit) any { return &v.OtherRemarks }},
		{"notes", func(v *model.Visit) any { return &v.Notes }},
		{"external_id", func(v *model.Visit) any { return &v.ExternalID }},
		{"raw_payload", func(v *model.Visit) any { return &v.RawPayload }},
		{"status", func(v *model.Visit) any { return &v.Status }},
		{"created_at", func(v *model.Visit) any { return &v.CreatedAt }},
		{"updated_at", func(v *model.Visit) any { return &v.UpdatedAt }},
	},
	normalize: func(v *model.Visit) {
		utc(&v.VisitDate, &v.CreatedAt, &v.UpdatedAt)
	},
}

var appointmentsTable = table[model.Appointment]{
	name: "appointments",
	id:   func(a *model.Appointment) *int64 { return &a.ID },
	columns: []column[model.Appointment]{
		{"external_id", func(a *model.Appointment) any { return &a.ExternalID }},
		{"external_uri", func(a *model.Appointment) any { return &a.ExternalURI }},
		{"event_name", func(a *model.Appointment) any { return &a.EventName }},
		{"start_time", func(a *model.Appointment) any { return &a.StartTime }},
		{"end_time", func(a *model.Appointment) any { return &a.EndTime }},
		{"timezone", func(a *model.Appointment) any { return &a.Timezone }},
		{"invitee_name", func(a *model.Appointment) any { return &a.InviteeName }},
		{"invitee_email", func(a *model.Appointment) any { return &a.InviteeEmail }},
		{"invitee_phone", func(a *model.Appointment) any { return &a.InviteePhone }},
		{"location", func(a *model.Appointment) any { return &a.Location }},
		{"meeting_url", func(a *model.Appointment) any { return &a.MeetingURL }},
		{"meeting_type", func(a *model.Appointment) any { return &a.MeetingType }},
		{"status", func(a *model.Appointment) any { return &a.Status }},
		{"raw_payload", func(a *model.Appointment) any { return &a.RawPayload }},
		{"created_at", func(a *model.Appointment) any { return &a.CreatedAt }},
		{"updated_at", func(a *model.Appointment) any { return &a.UpdatedAt }},
	},
	normalize: func(a *model.Appointment) {
		utc(&a.StartTime, &a.EndTime, &a.CreatedAt, &a.UpdatedAt)
	},
}

var settingsTable = table[model.Setting]{
	name: "settings",
	id:   func(s *model.Setting) *int64 { return new(int64) },
	columns: []column[model.Setting]{
		{"key", func(s *model.Setting) any { return &s.Key }},
		{"value", func(s *model.Setting) any { return &s.Value }},
		{"description", func(s *model.Setting) any { return &s.Description }},
		{"created_at", func(s *model.Setting) any { return &s.CreatedAt }},
		{"updated_at", func(s *model.Setting) any { return &s.UpdatedAt }},
	},
	normalize: func(s *model.Setting) {
		utc(&s.CreatedAt, &s.UpdatedAt)
	},
}

// utc converts timestamps read from either backend to UTC
func utc(times ...*time.Time) {
	for _, t := range times {
		*t = t.UTC()
	}
}
