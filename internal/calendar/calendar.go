// Package calendar turns a normalized shift grid into one exportable ICS
// artifact per person.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "turnical/internal/log"
	"turnical/internal/model"
)

const productID = "-//turnical//shift schedule//IT"

// Artifact is one person's serialized calendar for the period.
type Artifact struct {
	Person   string
	Filename string
	Body     []byte
}

// Synthesize builds a calendar artifact for every person in the grid.
//
// Event rules per cell:
//   - special all-day codes span 00:01-23:59 local on that date, titled
//     with the code itself; the explicit times sidestep the all-day vs
//     timed ambiguity of calendar clients
//   - timed shifts are titled "Turno: HH:MM (Nh)" and run for exactly the
//     encoded duration, crossing midnight (and month ends) unclamped
//   - unparsed and invalid cells produce no event; the skip is logged and
//     synthesis continues
//
// Output is deterministic: persons in grid row order, events in ascending
// day order, UIDs and timestamps derived from the period and cell alone.
// Re-running on an unchanged grid yields byte-identical artifacts.
func Synthesize(g *model.Grid, period model.Period, loc *time.Location) (map[string]*Artifact, error) {
	if loc == nil {
		loc = time.Local
	}

	out := make(map[string]*Artifact, len(g.Names()))
	skipped := 0

	for _, name := range g.Names() {
		cal := ical.NewCalendar()
		cal.SetMethod(ical.MethodPublish)
		cal.SetProductId(productID)
		cal.SetXWRCalName(fmt.Sprintf("%s - %s", name, period.String()))
		cal.SetXWRTimezone(loc.String())

		for day := 1; day <= g.Days; day++ {
			s := g.Shift(name, day)
			ev, err := buildEvent(name, day, s, period, loc)
			if err != nil {
				if !errors.Is(err, errNoEvent) {
					appLog.Debug("event skipped",
						"person", name,
						"day", day,
						"cell", s.Render(),
						"reason", err.Error(),
					)
					skipped++
				}
				continue
			}
			if err := ev.validate(); err != nil {
				// Should not happen for well-formed shifts; drop the
				// one event rather than aborting the person's calendar.
				appLog.Error("event construction skipped", err, "person", name, "day", day)
				skipped++
				continue
			}
			addEvent(cal, ev)
		}

		out[name] = &Artifact{
			Person:   name,
			Filename: Filename(name),
			Body:     []byte(cal.Serialize()),
		}
	}

	appLog.Info("calendars synthesized",
		"period", period.String(),
		"people", len(out),
		"skipped_cells", skipped,
	)
	return out, nil
}

// Filename derives a person's calendar file name deterministically.
func Filename(person string) string {
	return strings.ReplaceAll(strings.TrimSpace(person), " ", "_") + ".ics"
}

// errNoEvent marks cells that legitimately produce no event (blank days).
var errNoEvent = errors.New("no event for cell")

// event is a resolved calendar entry before serialization.
type event struct {
	uid     string
	summary string
	start   time.Time
	end     time.Time
}

func buildEvent(person string, day int, s model.Shift, period model.Period, loc *time.Location) (event, error) {
	// Wall-clock construction via time.Date keeps starts correct across
	// DST transitions; durations are then added as absolute time.
	switch s.Kind {
	case model.ShiftEmpty:
		return event{}, errNoEvent

	case model.ShiftSpecial:
		return event{
			uid:     eventUID(person, period, day),
			summary: s.Tag,
			start:   time.Date(period.Year, period.Month, day, 0, 1, 0, 0, loc),
			end:     time.Date(period.Year, period.Month, day, 23, 59, 0, 0, loc),
		}, nil

	case model.ShiftTimed:
		start := time.Date(period.Year, period.Month, day, s.StartHour, s.StartMinute, 0, 0, loc)
		return event{
			uid:     eventUID(person, period, day),
			summary: fmt.Sprintf("Turno: %s", s.Render()),
			start:   start,
			end:     start.Add(time.Duration(s.DurationHours) * time.Hour),
		}, nil

	case model.ShiftUnparsed:
		return event{}, fmt.Errorf("unparsed cell %q", s.Tag)

	case model.ShiftInvalid:
		return event{}, errors.New("invalid timed-shift format")

	default:
		return event{}, fmt.Errorf("unknown shift kind %d", s.Kind)
	}
}

func addEvent(cal *ical.Calendar, ev event) {
	ve := cal.AddEvent(ev.uid)
	// DTSTAMP from the event's own start keeps serialization reproducible
	// across runs.
	ve.SetDtStampTime(ev.start.UTC())
	ve.SetStartAt(ev.start)
	ve.SetEndAt(ev.end)
	ve.SetSummary(ev.summary)
}

func eventUID(person string, period model.Period, day int) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(person), " ", "-"))
	return fmt.Sprintf("%04d%02d%02d-%s@turnical", period.Year, int(period.Month), day, slug)
}

// Validate double-checks a synthesized window before it is handed to a
// calendar client: end must be after start.
func (e event) validate() error {
	if !e.end.After(e.start) {
		return fmt.Errorf("event %s: end %s not after start %s", e.uid, e.end, e.start)
	}
	return nil
}
