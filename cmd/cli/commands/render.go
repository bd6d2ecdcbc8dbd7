package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/core/reconcile"
	"github.com/energiefixers071/fixerdesk/pkg/core/services"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

func renderSyncSummary(w io.Writer, label string, s *reconcile.Summary) {
	fmt.Fprintf(w, "%s: %d records\n", label, s.Total)
	fmt.Fprintf(w, "  Created:      %d\n", s.Created)
	fmt.Fprintf(w, "  Updated:      %d\n", s.Updated)
	fmt.Fprintf(w, "  Skipped:      %d\n", s.Skipped)
	fmt.Fprintf(w, "  Failed:       %d\n", s.Failed)
	if s.NeedsReview > 0 {
		fmt.Fprintf(w, "  Needs review: %d (visit date missing or unreadable)\n", s.NeedsReview)
	}
	if s.Cancelled {
		fmt.Fprintln(w, "  ⚠️  Sync was interrupted, remaining records were skipped")
	}
	for _, f := range s.Failures {
		id := f.ExternalID
		if id == "" {
			id = "(no id)"
		}
		fmt.Fprintf(w, "  ✗ %s: %s\n", id, f.Reason)
	}
}

func renderSyncAll(w io.Writer, result *services.SyncAllResult) {
	for _, r := range result.Results() {
		switch {
		case r.Skipped:
			fmt.Fprintf(w, "%s: skipped (not configured)\n", r.Source)
		case r.Err != nil:
			fmt.Fprintf(w, "%s: ✗ %v\n", r.Source, r.Err)
		default:
			renderSyncSummary(w, r.Source, r.Summary)
		}
	}
}

func renderVolunteers(w io.Writer, volunteers []model.Volunteer) {
	fmt.Fprintf(w, "Found %d volunteers:\n\n", len(volunteers))
	for _, v := range volunteers {
		var details []string
		if v.Email != "" {
			details = append(details, v.Email)
		}
		if v.Phone != "" {
			details = append(details, v.Phone)
		}
		if !v.IsActive {
			details = append(details, "inactive")
		}

		line := fmt.Sprintf("%4d  %s", v.ID, v.Name)
		if len(details) > 0 {
			line += " (" + strings.Join(details, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func renderVolunteer(w io.Writer, s *model.VolunteerSummary) {
	lastVisit := "never"
	if s.LastVisitDate != nil {
		lastVisit = s.LastVisitDate.Format(dateLayout)
	}
	active := "yes"
	if !s.IsActive {
		active = "no"
	}

	fields := []struct{ label, value string }{
		{"ID", fmt.Sprint(s.ID)},
		{"Name", s.Name},
		{"Email", s.Email},
		{"Phone", s.Phone},
		{"Address", s.Address},
		{"Skills", strings.Join(s.SkillsList(), ", ")},
		{"Availability", s.Availability},
		{"Active", active},
		{"Joined", s.DateJoined.Format(dateLayout)},
		{"Visits", fmt.Sprint(s.VisitCount)},
		{"Last visit", lastVisit},
		{"Notes", s.Notes},
	}
	renderFields(w, fields)
}

func renderVisits(w io.Writer, visits []model.Visit) {
	fmt.Fprintf(w, "Found %d visits:\n\n", len(visits))
	for _, v := range visits {
		line := fmt.Sprintf("%4d  %s  %-9s  %s", v.ID, v.VisitDate.Format(dateLayout), v.Status, v.Address)
		if v.ExternalID != nil {
			line += " [form #" + *v.ExternalID + "]"
		}
		fmt.Fprintln(w, line)
	}
}

func renderVisitDetail(w io.Writer, d *services.VisitDetail) {
	source := "manual"
	if d.ExternalID != nil {
		source = "form #" + *d.ExternalID
	}
	residents := ""
	if d.ResidentsCount != nil {
		residents = fmt.Sprint(*d.ResidentsCount)
	}

	fields := []struct{ label, value string }{
		{"ID", fmt.Sprint(d.ID)},
		{"Address", d.Address},
		{"Date", d.VisitDate.Format(dateLayout)},
		{"Time", d.AppointmentTime},
		{"Status", string(d.Status)},
		{"Volunteer", d.VolunteerName},
		{"Volunteer 2", d.Volunteer2Name},
		{"Residents", residents},
		{"Resident email", d.ResidentEmail},
		{"Source", source},
		{"Remarks", d.OtherRemarks},
		{"Notes", d.Notes},
	}
	renderFields(w, fields)

	if issues := d.Issues(); len(issues) > 0 {
		fmt.Fprintf(w, "\nIssues found:\n")
		for _, issue := range issues {
			fmt.Fprintf(w, "  - %s\n", issue)
		}
	}
}

func renderAppointments(w io.Writer, appointments []model.Appointment) {
	fmt.Fprintf(w, "Found %d appointments:\n\n", len(appointments))
	for _, a := range appointments {
		line := fmt.Sprintf("%4d  %s  %-11s  %-9s  %s",
			a.ID,
			a.StartTime.UTC().Format(dateTimeLayout),
			a.Status,
			a.MeetingType,
			a.EventName,
		)
		if a.InviteeName != "" {
			line += " with " + a.InviteeName
		}
		fmt.Fprintln(w, line)
	}
}

func renderAppointment(w io.Writer, a *model.Appointment) {
	invitee := a.InviteeName
	if a.InviteeEmail != "" {
		invitee = strings.TrimSpace(invitee + " <" + a.InviteeEmail + ">")
	}
	renderFields(w, []struct{ label, value string }{
		{"ID", fmt.Sprint(a.ID)},
		{"Event", a.EventName},
		{"Start", a.StartTime.UTC().Format(dateTimeLayout) + " UTC"},
		{"Duration", fmt.Sprintf("%d min", a.DurationMinutes())},
		{"Timezone", a.Timezone},
		{"Status", string(a.Status)},
		{"Meeting", string(a.MeetingType)},
		{"Location", a.Location},
		{"Meeting URL", a.MeetingURL},
		{"Invitee", invitee},
		{"Phone", a.InviteePhone},
		{"Calendly ID", a.ExternalID},
	})
}

func renderSettings(w io.Writer, settings []model.Setting) {
	for _, s := range settings {
		value := s.Value
		if services.IsSecretSetting(s.Key) {
			value = services.MaskSecret(value)
		}
		fmt.Fprintf(w, "%-20s %s\n", s.Key, value)
	}
}

func renderDashboard(w io.Writer, d *services.DashboardResult) {
	lastSync := "never"
	if d.LastSync != nil {
		lastSync = d.LastSync.UTC().Format(dateTimeLayout) + " UTC"
	}

	fmt.Fprintln(w, "Energiefixers overview")
	fmt.Fprintln(w)
	renderFields(w, []struct{ label, value string }{
		{"Volunteers", fmt.Sprintf("%d (%d active)", d.Stats.TotalVolunteers, d.Stats.ActiveVolunteers)},
		{"Visits", fmt.Sprintf("%d (%d this month)", d.Stats.TotalVisits, d.Stats.VisitsThisMonth)},
		{"With issues", fmt.Sprint(d.Stats.VisitsWithIssues)},
		{"Avg residents", fmt.Sprintf("%.1f", d.Stats.AverageResidents)},
		{"Upcoming", fmt.Sprint(d.Stats.UpcomingAppointments)},
		{"Last sync", lastSync},
	})

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent visits:")
	if len(d.RecentVisits) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, v := range d.RecentVisits {
		fmt.Fprintf(w, "  %s  %s\n", v.VisitDate.Format(dateLayout), v.Address)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Upcoming appointments:")
	if len(d.UpcomingAppointments) == 0 {
		fmt.Fprintln(w, "  none")
	}
	for _, a := range d.UpcomingAppointments {
		fmt.Fprintf(w, "  %s  %s\n", a.StartTime.UTC().Format(dateTimeLayout), a.EventName)
	}
}

func renderConnections(w io.Writer, statuses []services.ConnectionStatus) {
	for _, s := range statuses {
		switch {
		case !s.Configured:
			fmt.Fprintf(w, "- %-12s not configured\n", s.Source)
		case s.Err != nil:
			fmt.Fprintf(w, "✗ %-12s %v\n", s.Source, s.Err)
		default:
			fmt.Fprintf(w, "✓ %-12s connected\n", s.Source)
		}
	}
}

// renderFields prints aligned label/value pairs, leaving out empty values
func renderFields(w io.Writer, fields []struct{ label, value string }) {
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(w, "%-15s %s\n", f.label+":", f.value)
	}
}
