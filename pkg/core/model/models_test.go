package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolunteer_SkillsList(t *testing.T) {
	tests := []struct {
		name     string
		skills   string
		expected []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"single", "isolatie", []string{"isolatie"}},
		{"trims and drops empties", " led , tochtstrips,, radiatorfolie ", []string{"led", "tochtstrips", "radiatorfolie"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Volunteer{Skills: tt.skills}
			assert.Equal(t, tt.expected, v.SkillsList())
		})
	}
}

func TestVolunteer_SetSkills(t *testing.T) {
	var v Volunteer
	v.SetSkills([]string{"led", "tochtstrips"})
	assert.Equal(t, "led, tochtstrips", v.Skills)
	assert.Equal(t, []string{"led", "tochtstrips"}, v.SkillsList())
}

func TestVisitFragment_ApplyTo_KeepsResolvedRelation(t *testing.T) {
	volunteerID := int64(7)
	v := Visit{
		VolunteerID: &volunteerID,
		Address:     "Main St 1",
		Status:      VisitCompleted,
	}

	f := VisitFragment{
		Address:     Ptr("Main St 2"),
		VolunteerID: nil, // unresolved
		AssessmentFragment: AssessmentFragment{
			MoldIssues:    Ptr(true),
			MonthlyAmount: Ptr(decimal.RequireFromString("112.50")),
		},
	}
	f.ApplyTo(&v)

	require.NotNil(t, v.VolunteerID)
	assert.Equal(t, int64(7), *v.VolunteerID)
	assert.Equal(t, "Main St 2", v.Address)
	assert.True(t, v.MoldIssues)
	assert.True(t, v.MonthlyAmount.Valid)
	assert.Equal(t, "112.5", v.MonthlyAmount.Decimal.String())
	assert.Equal(t, VisitCompleted, v.Status)
}

func TestVisitFragment_ApplyTo_CopiesPointerValues(t *testing.T) {
	count := 3
	f := VisitFragment{ResidentsCount: &count}

	var v Visit
	f.ApplyTo(&v)
	count = 9

	require.NotNil(t, v.ResidentsCount)
	assert.Equal(t, 3, *v.ResidentsCount)
}

func TestAppointment_Derived(t *testing.T) {
	start := time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC)
	a := Appointment{StartTime: start, EndTime: start.Add(45 * time.Minute)}

	assert.Equal(t, 45, a.DurationMinutes())
	assert.True(t, a.IsUpcoming(start.Add(-time.Hour)))
	assert.False(t, a.IsUpcoming(start.Add(time.Hour)))
	assert.Equal(t, 0, Appointment{}.DurationMinutes())
}

func TestAssessment_Issues(t *testing.T) {
	a := Assessment{MoldIssues: true, DraftIssues: true}
	assert.True(t, a.HasIssues())
	assert.Equal(t, []string{"Mold", "Draft"}, a.Issues())
	assert.False(t, Assessment{}.HasIssues())
	assert.Empty(t, Assessment{}.Issues())
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, VisitPlanned.IsValid())
	assert.False(t, VisitStatus("done").IsValid())
	assert.True(t, AppointmentRescheduled.IsValid())
	assert.False(t, AppointmentStatus("active").IsValid())
}
