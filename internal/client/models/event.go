package models

import (
	"errors"
	"time"
)

// ErrInsufficientData is returned when a builder lacks a field required to
// construct its entity.
var ErrInsufficientData = errors.New("insufficient data")

// AttendeeType is the role of an attendee in a meeting.
type AttendeeType int

const (
	AttendeeRequired AttendeeType = 1
	AttendeeOptional AttendeeType = 2
	AttendeeResource AttendeeType = 3
)

func (t AttendeeType) String() string {
	switch t {
	case AttendeeOptional:
		return "optional"
	case AttendeeResource:
		return "resource"
	default:
		return "required"
	}
}

// ResponseStatus is an attendee's answer to a meeting request.
type ResponseStatus string

const (
	ResponseNone      ResponseStatus = "none"
	ResponseOrganizer ResponseStatus = "organizer"
	ResponseTentative ResponseStatus = "tentative"
	ResponseAccepted  ResponseStatus = "accepted"
	ResponseDeclined  ResponseStatus = "declined"
)

// ResponseStatusFromCode maps a wire AttendeeStatus code.
func ResponseStatusFromCode(code int) ResponseStatus {
	switch code {
	case 2:
		return ResponseTentative
	case 3:
		return ResponseAccepted
	case 4:
		return ResponseDeclined
	default:
		return ResponseNone
	}
}

// Attendee is a meeting participant. Email is never empty.
type Attendee struct {
	Email  string
	Name   string
	Type   AttendeeType
	Status *ResponseStatus
}

// AttendeeFields accumulates attendee data before validation.
type AttendeeFields struct {
	Email  string
	Name   string
	Type   AttendeeType
	Status *ResponseStatus
}

// Build validates the fields. An empty email yields ErrInsufficientData; a
// missing name defaults to the email and a missing type to required.
func (f AttendeeFields) Build() (Attendee, error) {
	if f.Email == "" {
		return Attendee{}, ErrInsufficientData
	}
	a := Attendee{Email: f.Email, Name: f.Name, Type: f.Type, Status: f.Status}
	if a.Name == "" {
		a.Name = a.Email
	}
	if a.Type == 0 {
		a.Type = AttendeeRequired
	}
	return a, nil
}

// RecurrenceType is the base frequency of a recurring event.
type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
	RecurrenceYearly  RecurrenceType = "yearly"
)

// RecurrenceTypeFromCode maps a wire recurrence type. ok is false for codes
// the client does not model.
func RecurrenceTypeFromCode(code int) (RecurrenceType, bool) {
	switch code {
	case 0:
		return RecurrenceDaily, true
	case 1:
		return RecurrenceWeekly, true
	case 2, 3:
		return RecurrenceMonthly, true
	case 5, 6:
		return RecurrenceYearly, true
	default:
		return "", false
	}
}

// Recurrence describes how an event repeats.
type Recurrence struct {
	Type     RecurrenceType
	Interval int
	// DayOfWeek is the wire bitmask: Sunday=1, Monday=2 ... Saturday=64.
	DayOfWeek  *int
	DayOfMonth *int
	Until      *time.Time
}

// RecurrenceFields accumulates recurrence data before validation.
type RecurrenceFields struct {
	TypeCode   *int
	Interval   int
	DayOfWeek  *int
	DayOfMonth *int
	Until      *time.Time
}

// Build requires a recognised type code. Intervals below one become one.
func (f RecurrenceFields) Build() (Recurrence, error) {
	if f.TypeCode == nil {
		return Recurrence{}, ErrInsufficientData
	}
	typ, ok := RecurrenceTypeFromCode(*f.TypeCode)
	if !ok {
		return Recurrence{}, ErrInsufficientData
	}
	r := Recurrence{
		Type:       typ,
		Interval:   f.Interval,
		DayOfWeek:  f.DayOfWeek,
		DayOfMonth: f.DayOfMonth,
		Until:      f.Until,
	}
	if r.Interval < 1 {
		r.Interval = 1
	}
	return r, nil
}

// CalendarEvent is a cached calendar item. ID is its identity; Start and End
// are always set.
type CalendarEvent struct {
	ID         string
	UID        string
	Subject    string
	Start      time.Time
	End        time.Time
	Location   string
	Body       string
	AllDay     bool
	Organizer  *Attendee
	Attendees  []Attendee
	Recurrence *Recurrence
}

// EventFields accumulates event data before validation.
type EventFields struct {
	ID         string
	UID        string
	Subject    string
	Start      *time.Time
	End        *time.Time
	Location   string
	Body       string
	AllDay     bool
	Organizer  *Attendee
	Attendees  []Attendee
	Recurrence *Recurrence
}

// Build constructs the event. ID and Start are required. A missing End is
// set to Start plus one day for all-day events and plus one hour otherwise.
func (f EventFields) Build() (CalendarEvent, error) {
	if f.ID == "" || f.Start == nil {
		return CalendarEvent{}, ErrInsufficientData
	}
	ev := CalendarEvent{
		ID:         f.ID,
		UID:        f.UID,
		Subject:    f.Subject,
		Start:      *f.Start,
		Location:   f.Location,
		Body:       f.Body,
		AllDay:     f.AllDay,
		Organizer:  f.Organizer,
		Attendees:  append([]Attendee(nil), f.Attendees...),
		Recurrence: f.Recurrence,
	}
	switch {
	case f.End != nil:
		ev.End = *f.End
	case f.AllDay:
		ev.End = ev.Start.Add(24 * time.Hour)
	default:
		ev.End = ev.Start.Add(time.Hour)
	}
	return ev, nil
}
