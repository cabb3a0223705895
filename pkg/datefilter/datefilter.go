// Package datefilter classifies record timestamps against a named date
// range. The same filter backs every date-scoped listing in the admin
// API, so the matching rules live in exactly one place.
package datefilter

import (
	"fmt"
	"time"
)

// Mode selects which date range a filter matches.
type Mode string

const (
	ModeAll       Mode = "all"
	ModeToday     Mode = "today"
	ModeYesterday Mode = "yesterday"
	ModeThisMonth Mode = "thisMonth"
	ModeCustom    Mode = "custom"
)

// validModes is the set of recognized filter modes.
var validModes = map[Mode]bool{
	ModeAll:       true,
	ModeToday:     true,
	ModeYesterday: true,
	ModeThisMonth: true,
	ModeCustom:    true,
}

// IsValidMode returns true if the given mode string is recognized.
func IsValidMode(m string) bool {
	return validModes[Mode(m)]
}

// Filter is a value type describing one date-range classification.
// Now is the reference instant; the zero value means time.Now at the
// point of matching. Start and End are only consulted for ModeCustom.
type Filter struct {
	Mode  Mode
	Start time.Time
	End   time.Time
	Now   time.Time
}

// New returns a Filter for the given mode. ModeCustom requires a
// non-zero start and end and rejects an inverted range.
func New(mode Mode, start, end time.Time) (Filter, error) {
	if !validModes[mode] {
		return Filter{}, fmt.Errorf("unknown date filter mode %q", mode)
	}
	if mode == ModeCustom {
		if start.IsZero() || end.IsZero() {
			return Filter{}, fmt.Errorf("custom date filter requires both start and end")
		}
		if end.Before(start) {
			return Filter{}, fmt.Errorf("custom date filter end %s is before start %s",
				end.Format("2006-01-02"), start.Format("2006-01-02"))
		}
	}
	return Filter{Mode: mode, Start: start, End: end}, nil
}

// now returns the filter's reference instant.
func (f Filter) now() time.Time {
	if f.Now.IsZero() {
		return time.Now()
	}
	return f.Now
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EndOfDay clamps t forward to 23:59:59.999999999 of its calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// StartOfDay truncates t back to midnight of its calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Matches reports whether t falls inside the filter's range. A zero t
// is treated as missing and matches only ModeAll.
func (f Filter) Matches(t time.Time) bool {
	if f.Mode == ModeAll {
		return true
	}
	if t.IsZero() {
		return false
	}
	ref := f.now()
	switch f.Mode {
	case ModeToday:
		return sameDay(t, ref)
	case ModeYesterday:
		return sameDay(t, ref.AddDate(0, 0, -1))
	case ModeThisMonth:
		return t.Year() == ref.Year() && t.Month() == ref.Month()
	case ModeCustom:
		start := StartOfDay(f.Start)
		end := EndOfDay(f.End)
		return !t.Before(start) && !t.After(end)
	}
	return false
}

// MatchesString parses value and applies Matches. An unparseable value
// matches only ModeAll. Accepted layouts mirror what the booking API
// stores: RFC 3339 and plain dates.
func (f Filter) MatchesString(value string) bool {
	if f.Mode == ModeAll {
		return true
	}
	t, err := ParseDate(value)
	if err != nil {
		return false
	}
	return f.Matches(t)
}

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
}

// ParseDate parses a date value in any accepted layout.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date value %q", value)
}

// Counts holds per-mode match totals for a set of timestamps, used by
// listing endpoints to label their filter tabs.
type Counts struct {
	All       int `json:"all"`
	Today     int `json:"today"`
	Yesterday int `json:"yesterday"`
	ThisMonth int `json:"this_month"`
}

// Count tallies how many of the given timestamps fall in each fixed
// mode, evaluated against the reference instant now.
func Count(times []time.Time, now time.Time) Counts {
	today := Filter{Mode: ModeToday, Now: now}
	yesterday := Filter{Mode: ModeYesterday, Now: now}
	month := Filter{Mode: ModeThisMonth, Now: now}

	var c Counts
	for _, t := range times {
		c.All++
		if today.Matches(t) {
			c.Today++
		}
		if yesterday.Matches(t) {
			c.Yesterday++
		}
		if month.Matches(t) {
			c.ThisMonth++
		}
	}
	return c
}
