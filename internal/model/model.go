package model

import (
	"fmt"
	"strings"
	"time"
)

// RawTable is the table of text cells handed over by the extraction step.
// Row 0 is the header (one of its cells carries the month/year hint); every
// later row describes one person. Rows may be ragged: a missing cell is the
// same as a blank one.
type RawTable [][]string

// Period is the calendar month a schedule grid covers, resolved once per
// table from the header row.
type Period struct {
	Month time.Month
	Year  int
	// Days is the number of days in (Month, Year), leap-year aware.
	Days int
}

// MonthName returns the canonical English month name ("January", ...).
func (p Period) MonthName() string {
	return p.Month.String()
}

func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.MonthName(), p.Year)
}

// ShiftKind discriminates the variants of a classified shift cell.
type ShiftKind int

const (
	// ShiftEmpty is a blank or absent cell.
	ShiftEmpty ShiftKind = iota
	// ShiftSpecial is one of the fixed all-day flag codes (R1, FER, ...).
	ShiftSpecial
	// ShiftTimed is a working shift with a start time and duration.
	ShiftTimed
	// ShiftUnparsed is a cell that matched no known encoding; the cleaned
	// text is kept verbatim (uppercased).
	ShiftUnparsed
	// ShiftInvalid is a cell that looked like a timed shift but whose
	// numeric slot could not be parsed.
	ShiftInvalid
)

// Shift is the canonical representation of one (person, day) cell.
// Classification is a pure function of the cleaned cell text: the same input
// always yields the same Shift.
type Shift struct {
	Kind ShiftKind

	// Tag is set for ShiftSpecial (e.g. "FER") and carries the verbatim
	// uppercased text for ShiftUnparsed.
	Tag string

	// Timed-shift fields, valid only when Kind == ShiftTimed.
	StartHour     int
	StartMinute   int
	DurationHours int
}

// invalidFormatText is the rendered sentinel for ShiftInvalid. It is shown
// in the normalized table so operators can tell "looked like a shift but
// broken" from a genuinely unknown token.
const invalidFormatText = "Formato non valido"

// Render returns the display text for a shift as it appears in the
// normalized table. Timed shifts render as "HH:MM (Nh)", which is also the
// form swap queries are compared against.
func (s Shift) Render() string {
	switch s.Kind {
	case ShiftEmpty:
		return ""
	case ShiftSpecial, ShiftUnparsed:
		return s.Tag
	case ShiftTimed:
		return fmt.Sprintf("%02d:%02d (%dh)", s.StartHour, s.StartMinute, s.DurationHours)
	case ShiftInvalid:
		return invalidFormatText
	default:
		return ""
	}
}

// Grid is the normalized schedule: one entry per person, one shift per
// calendar day 1..Days. It is immutable once Normalize returns it; any
// number of readers may share it without locking.
type Grid struct {
	Days int

	// names preserves row order of first appearance, so that rendered
	// tables and synthesized calendars are deterministic.
	names  []string
	shifts map[string][]Shift // len Days+1, index 0 unused
}

// NewGrid returns an empty grid covering days 1..days.
func NewGrid(days int) *Grid {
	return &Grid{
		Days:   days,
		shifts: make(map[string][]Shift),
	}
}

// Names returns person names in first-seen row order.
func (g *Grid) Names() []string {
	return g.names
}

// Shift returns the classified cell for (name, day). Unknown names and
// out-of-range days read as ShiftEmpty.
func (g *Grid) Shift(name string, day int) Shift {
	row, ok := g.shifts[name]
	if !ok || day < 1 || day > g.Days {
		return Shift{}
	}
	return row[day]
}

// Set stores the shift for (name, day), creating the person's row on first
// use. Days outside 1..Days are ignored.
func (g *Grid) Set(name string, day int, s Shift) {
	if day < 1 || day > g.Days {
		return
	}
	row, ok := g.shifts[name]
	if !ok {
		row = make([]Shift, g.Days+1)
		g.names = append(g.names, name)
		g.shifts[name] = row
	}
	row[day] = s
}

// HasPerson reports whether name has a row, compared case-insensitively.
func (g *Grid) HasPerson(name string) bool {
	for _, n := range g.names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// Row returns the rendered table row for one person: the name followed by
// the display text of every day 1..Days.
func (g *Grid) Row(name string) []string {
	out := make([]string, 0, g.Days+1)
	out = append(out, name)
	for day := 1; day <= g.Days; day++ {
		out = append(out, g.Shift(name, day).Render())
	}
	return out
}

// Rows renders the whole grid as a table (one row per person, row order
// preserved), suitable for display or export.
func (g *Grid) Rows() [][]string {
	out := make([][]string, 0, len(g.names))
	for _, name := range g.names {
		out = append(out, g.Row(name))
	}
	return out
}
