// Package agenda expands cached calendar events into the concrete
// occurrences that fall inside a time window.
package agenda

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/gvukamolle/Vanta-Speech-sub003/internal/client/models"
)

const defaultMaxPerEvent = 1000

var ErrInvalidRange = errors.New("agenda: range end is before range start")

// Occurrence is one instance of an event.
type Occurrence struct {
	EventID   string
	Subject   string
	Location  string
	Start     time.Time
	End       time.Time
	AllDay    bool
	Recurring bool
}

// Options bound an expansion to the window [From, To).
type Options struct {
	From time.Time
	To   time.Time
	// Location is the zone occurrences are reported in; time.Local if nil.
	Location *time.Location
	// MaxPerEvent caps the instances of one recurring event.
	MaxPerEvent int
}

// Expand returns the occurrences of events overlapping the window sorted by
// start, then event id. Events whose recurrence cannot be turned into a rule
// contribute their first instance only.
func Expand(events []models.CalendarEvent, opts Options) ([]Occurrence, error) {
	if opts.To.Before(opts.From) {
		return nil, ErrInvalidRange
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxPerEvent <= 0 {
		opts.MaxPerEvent = defaultMaxPerEvent
	}

	var out []Occurrence
	for _, ev := range events {
		dur := ev.End.Sub(ev.Start)

		if ev.Recurrence == nil {
			if overlaps(ev.Start, ev.End, opts.From, opts.To) {
				out = append(out, occurrence(ev, ev.Start, dur, false, opts.Location))
			}
			continue
		}

		r, err := RuleFor(ev)
		if err != nil {
			if overlaps(ev.Start, ev.End, opts.From, opts.To) {
				out = append(out, occurrence(ev, ev.Start, dur, false, opts.Location))
			}
			continue
		}

		// Instances starting before From may still run into the window.
		starts := r.Between(opts.From.Add(-dur), opts.To, true)
		if len(starts) > opts.MaxPerEvent {
			starts = starts[:opts.MaxPerEvent]
		}
		for _, s := range starts {
			if overlaps(s, s.Add(dur), opts.From, opts.To) {
				out = append(out, occurrence(ev, s, dur, true, opts.Location))
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].EventID < out[j].EventID
	})
	return out, nil
}

// RuleFor builds the recurrence rule of ev anchored at its start.
func RuleFor(ev models.CalendarEvent) (*rrule.RRule, error) {
	rec := ev.Recurrence
	if rec == nil {
		return nil, fmt.Errorf("event %s does not recur", ev.ID)
	}

	opt := rrule.ROption{
		Interval: rec.Interval,
		Dtstart:  ev.Start,
	}
	switch rec.Type {
	case models.RecurrenceDaily:
		opt.Freq = rrule.DAILY
	case models.RecurrenceWeekly:
		opt.Freq = rrule.WEEKLY
	case models.RecurrenceMonthly:
		opt.Freq = rrule.MONTHLY
	case models.RecurrenceYearly:
		opt.Freq = rrule.YEARLY
	default:
		return nil, fmt.Errorf("event %s: unsupported recurrence %q", ev.ID, rec.Type)
	}
	if opt.Interval < 1 {
		opt.Interval = 1
	}
	if rec.DayOfWeek != nil && (opt.Freq == rrule.DAILY || opt.Freq == rrule.WEEKLY) {
		opt.Byweekday = Weekdays(*rec.DayOfWeek)
	}
	if rec.DayOfMonth != nil && opt.Freq == rrule.MONTHLY {
		opt.Bymonthday = []int{*rec.DayOfMonth}
	}
	if rec.Until != nil {
		opt.Until = *rec.Until
	}
	return rrule.NewRRule(opt)
}

// Weekdays decodes a day-of-week bitmask (Sunday=1 ... Saturday=64).
func Weekdays(mask int) []rrule.Weekday {
	days := []rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}
	var out []rrule.Weekday
	for i, d := range days {
		if mask&(1<<i) != 0 {
			out = append(out, d)
		}
	}
	return out
}

// Day groups the occurrences that start on one calendar date.
type Day struct {
	Date        time.Time
	Occurrences []Occurrence
}

// ByDay groups sorted occurrences by the date of their start in their own
// location.
func ByDay(occ []Occurrence) []Day {
	var days []Day
	for _, o := range occ {
		y, m, d := o.Start.Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, o.Start.Location())
		if n := len(days); n > 0 && days[n-1].Date.Equal(date) {
			days[n-1].Occurrences = append(days[n-1].Occurrences, o)
			continue
		}
		days = append(days, Day{Date: date, Occurrences: []Occurrence{o}})
	}
	return days
}

func occurrence(ev models.CalendarEvent, start time.Time, dur time.Duration, recurring bool, loc *time.Location) Occurrence {
	return Occurrence{
		EventID:   ev.ID,
		Subject:   ev.Subject,
		Location:  ev.Location,
		Start:     start.In(loc),
		End:       start.Add(dur).In(loc),
		AllDay:    ev.AllDay,
		Recurring: recurring,
	}
}

// overlaps treats both ranges as half open, except that a zero-length event
// at the window edge still counts.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aEnd.Equal(aStart) {
		return !aStart.Before(bStart) && !aStart.After(bEnd)
	}
	return aStart.Before(bEnd) && aEnd.After(bStart)
}
