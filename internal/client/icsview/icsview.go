// Package icsview renders cached events as an iCalendar document.
package icsview

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/agenda"
	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
)

const productID = "-//Vanta Speech//Calendar Sync//EN"

// Render writes events as a VCALENDAR with one VEVENT per event. stamp is
// used as DTSTAMP for every event.
func Render(w io.Writer, calendarName string, events []models.CalendarEvent, stamp time.Time) error {
	cal := Calendar(calendarName, events, stamp)
	return cal.SerializeTo(w)
}

// Calendar builds the iCalendar object for events.
func Calendar(calendarName string, events []models.CalendarEvent, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if calendarName != "" {
		cal.SetName(calendarName)
		cal.SetXWRCalName(calendarName)
	}

	for _, ev := range events {
		addEvent(cal, ev, stamp.UTC())
	}
	return cal
}

func addEvent(cal *ical.Calendar, ev models.CalendarEvent, stamp time.Time) {
	uid := ev.UID
	if uid == "" {
		uid = ev.ID
	}
	ve := cal.AddEvent(uid)
	ve.SetDtStampTime(stamp)
	if ev.AllDay {
		ve.SetAllDayStartAt(ev.Start)
		ve.SetAllDayEndAt(ev.End)
	} else {
		ve.SetStartAt(ev.Start)
		ve.SetEndAt(ev.End)
	}
	if ev.Subject != "" {
		ve.SetSummary(ev.Subject)
	}
	if ev.Location != "" {
		ve.SetLocation(ev.Location)
	}
	if ev.Body != "" {
		ve.SetDescription(ev.Body)
	}
	if ev.Organizer != nil {
		ve.SetOrganizer("mailto:"+ev.Organizer.Email, ical.WithCN(ev.Organizer.Name))
	}
	for _, a := range ev.Attendees {
		ve.AddAttendee("mailto:"+a.Email, ical.WithCN(a.Name), role(a.Type), partStat(a.Status))
	}
	if ev.Recurrence != nil {
		if rule, ok := RRule(*ev.Recurrence); ok {
			ve.AddRrule(rule)
		}
	}
}

func role(t models.AttendeeType) ical.ParticipationRole {
	switch t {
	case models.AttendeeOptional:
		return ical.ParticipationRoleOptParticipant
	case models.AttendeeResource:
		return ical.ParticipationRoleNonParticipant
	default:
		return ical.ParticipationRoleReqParticipant
	}
}

func partStat(s *models.ResponseStatus) ical.ParticipationStatus {
	if s == nil {
		return ical.ParticipationStatusNeedsAction
	}
	switch *s {
	case models.ResponseAccepted, models.ResponseOrganizer:
		return ical.ParticipationStatusAccepted
	case models.ResponseDeclined:
		return ical.ParticipationStatusDeclined
	case models.ResponseTentative:
		return ical.ParticipationStatusTentative
	default:
		return ical.ParticipationStatusNeedsAction
	}
}

// RRule formats r as an RRULE value, e.g. "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO".
func RRule(r models.Recurrence) (string, bool) {
	var freq string
	switch r.Type {
	case models.RecurrenceDaily:
		freq = "DAILY"
	case models.RecurrenceWeekly:
		freq = "WEEKLY"
	case models.RecurrenceMonthly:
		freq = "MONTHLY"
	case models.RecurrenceYearly:
		freq = "YEARLY"
	default:
		return "", false
	}
	interval := r.Interval
	if interval < 1 {
		interval = 1
	}

	parts := []string{"FREQ=" + freq, fmt.Sprintf("INTERVAL=%d", interval)}
	if r.DayOfWeek != nil && (r.Type == models.RecurrenceDaily || r.Type == models.RecurrenceWeekly) {
		if days := agenda.Weekdays(*r.DayOfWeek); len(days) > 0 {
			codes := make([]string, len(days))
			for i, d := range days {
				codes[i] = d.String()
			}
			parts = append(parts, "BYDAY="+strings.Join(codes, ","))
		}
	}
	if r.DayOfMonth != nil && r.Type == models.RecurrenceMonthly {
		parts = append(parts, fmt.Sprintf("BYMONTHDAY=%d", *r.DayOfMonth))
	}
	if r.Until != nil {
		parts = append(parts, "UNTIL="+r.Until.UTC().Format("20060102T150405Z"))
	}
	return strings.Join(parts, ";"), true
}
