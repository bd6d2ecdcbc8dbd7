package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/energiefixers071/fixerdesk/pkg/core/fieldparse"
	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/core/reconcile"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// Form field names inside the intake group
const (
	fieldAddress     = "adres"
	fieldVisitTime   = "afspraakTijd"
	fieldPerformedBy = "uitvoerders"

	fieldSubmissionID   = "_id"
	fieldSubmissionTime = "_submission_time"
)

// visitCollection reconciles form submissions into visits
type visitCollection struct {
	store     SyncVisitsStore
	directory *fieldparse.Directory
	group     string
	now       func() time.Time
}

var _ reconcile.Collection[model.VisitFragment] = (*visitCollection)(nil)

func (c *visitCollection) Name() string {
	return "visits"
}

func (c *visitCollection) Identify(payload fieldparse.Payload) (reconcile.Identity, error) {
	id, err := externalID(payload, fieldSubmissionID)
	if err != nil {
		return reconcile.Identity{}, err
	}
	modified, ok := fieldparse.ParseTimestamp(payload[fieldSubmissionTime])
	return reconcile.Identity{ExternalID: id, ModifiedAt: modified, HasModified: ok}, nil
}

func (c *visitCollection) Parse(payload fieldparse.Payload) (reconcile.Parsed[model.VisitFragment], error) {
	var parsed reconcile.Parsed[model.VisitFragment]
	intro := fieldparse.ExtractGroup(payload, c.group)
	leaves := fieldparse.Leaves(payload)

	address, _ := fieldparse.String(intro, fieldAddress)
	if address == "" {
		return parsed, errors.New("missing address")
	}

	visitDate, ok := fieldparse.ParseDateStrict(intro[fieldVisitTime], c.now())
	parsed.NeedsReview = !ok

	raw, err := json.Marshal(payload)
	if err != nil {
		return parsed, fmt.Errorf("failed to encode payload: %w", err)
	}

	fields := model.VisitFragment{
		Address:            &address,
		VisitDate:          &visitDate,
		AssessmentFragment: parseAssessment(leaves),
		RawPayload:         raw,
	}
	if t, ok := fieldparse.String(intro, fieldVisitTime); ok && t != "" {
		fields.AppointmentTime = &t
	}

	// Unresolved names stay nil so a later sync never clears a known volunteer
	names := fieldparse.ParsePersonList(intro[fieldPerformedBy])
	resolved := c.directory.ResolveAll(names)
	if len(resolved) > 0 && resolved[0] != nil {
		fields.VolunteerID = model.Ptr(resolved[0].ID)
	}
	if len(resolved) > 1 && resolved[1] != nil {
		fields.Volunteer2ID = model.Ptr(resolved[1].ID)
	}

	fields.ResidentsCount = optInt(leaves, "residents_count")
	fields.ResidentEmail = optString(leaves, "resident_email")
	fields.OtherRemarks = optString(leaves, "other_remarks")

	parsed.Fields = fields
	return parsed, nil
}

func (c *visitCollection) Find(ctx context.Context, externalID string) (*reconcile.Existing, error) {
	visit, err := c.store.FindVisitByExternalID(ctx, externalID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reconcile.Existing{ID: visit.ID, UpdatedAt: visit.UpdatedAt}, nil
}

func (c *visitCollection) Create(ctx context.Context, externalID string, fields model.VisitFragment, modifiedAt time.Time) error {
	_, err := c.store.CreateVisit(ctx, &externalID, fields, modifiedAt)
	return err
}

func (c *visitCollection) Update(ctx context.Context, id int64, fields model.VisitFragment, modifiedAt time.Time) error {
	_, err := c.store.UpdateVisit(ctx, id, fields, modifiedAt)
	return err
}

// externalID reads a scalar id field. Structured values are malformed.
func externalID(payload fieldparse.Payload, key string) (string, error) {
	value, ok := payload[key]
	if !ok || value == nil {
		return "", nil
	}
	switch value.(type) {
	case map[string]any, fieldparse.Payload, []any:
		return "", fmt.Errorf("%s has unexpected type %T", key, value)
	}
	return fieldparse.Stringify(value), nil
}

func optString(p fieldparse.Payload, key string) *string {
	if s, ok := fieldparse.String(p, key); ok && s != "" {
		return &s
	}
	return nil
}

func optBool(p fieldparse.Payload, key string) *bool {
	if b, ok := fieldparse.Bool(p, key); ok {
		return &b
	}
	return nil
}

func optInt(p fieldparse.Payload, key string) *int {
	if n, ok := fieldparse.Int(p, key); ok {
		return &n
	}
	return nil
}

func optFloat(p fieldparse.Payload, key string) *float64 {
	if f, ok := fieldparse.Float(p, key); ok {
		return &f
	}
	return nil
}

// parseAssessment maps the assessment questions, keyed by their snake_case
// form names. Questions left unanswered stay nil.
func parseAssessment(leaves fieldparse.Payload) model.AssessmentFragment {
	a := model.AssessmentFragment{
		EnergyMeasuresTaken:      optBool(leaves, "energy_measures_taken"),
		WhichMeasures:            optString(leaves, "which_measures"),
		ContractDuration:         optString(leaves, "contract_duration"),
		ElectricityConsumption:   optInt(leaves, "electricity_consumption"),
		GasConsumption:           optInt(leaves, "gas_consumption"),
		EnergyBillConcerns:       optBool(leaves, "energy_bill_concerns"),
		CurrentCVTemperature:     optFloat(leaves, "current_cv_temperature"),
		CVTemperatureLoweredTo:   optFloat(leaves, "cv_temperature_lowered_to"),
		CVWaterPressureUnder1Bar: optBool(leaves, "cv_water_pressure_under_1_bar"),
		TapComfortOff:            optBool(leaves, "tap_comfort_off"),
		EnergySavedKWh:           optFloat(leaves, "energy_saved_kwh"),

		RadiatorFoilMeters:    optFloat(leaves, "radiator_foil_meters"),
		RadiatorFanNeeded:     optBool(leaves, "radiator_fan_needed"),
		DraftStripMeters:      optFloat(leaves, "draft_strip_meters"),
		DoorDraftBand:         optBool(leaves, "door_draft_band"),
		DoorClosers:           optBool(leaves, "door_closers"),
		DoorCloserSpring:      optBool(leaves, "door_closer_spring"),
		LEDLampsNeeded:        optBool(leaves, "led_lamps_needed"),
		E14LEDsCount:          optInt(leaves, "e14_leds_count"),
		E27LEDsCount:          optInt(leaves, "e27_leds_count"),
		SmallPowerStripNeeded: optBool(leaves, "small_power_strip_needed"),
		LargePowerStripNeeded: optBool(leaves, "large_power_strip_needed"),
		ShowerTimer:           optBool(leaves, "shower_timer"),
		ShowerHead:            optBool(leaves, "shower_head"),

		MoldIssues:              optBool(leaves, "mold_issues"),
		MoistureIssues:          optBool(leaves, "moisture_issues"),
		DraftIssues:             optBool(leaves, "draft_issues"),
		ProblemRoomsDescription: optString(leaves, "problem_rooms_description"),
		ProblemsWith:            optString(leaves, "problems_with"),
		HygrometerNeeded:        optBool(leaves, "hygrometer_needed"),
		OldRefrigerator:         optBool(leaves, "old_refrigerator"),

		KnowsPotentialFixers:     optBool(leaves, "knows_potential_fixers"),
		WantsToHelp:              optBool(leaves, "wants_to_help"),
		TellNeighbors:            optBool(leaves, "tell_neighbors"),
		ShareInfoWithHousingCorp: optBool(leaves, "share_info_with_housing_corp"),
		KeepUpdatedOnResults:     optBool(leaves, "keep_updated_on_results"),
		CommunityBuilding:        optString(leaves, "community_building"),
	}
	if d, ok := fieldparse.Decimal(leaves, "monthly_amount"); ok {
		a.MonthlyAmount = &d
	}
	if d, ok := fieldparse.Decimal(leaves, "cost_savings_euro"); ok {
		a.CostSavingsEuro = &d
	}
	return a
}
