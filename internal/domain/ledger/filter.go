package ledger

import (
	"fmt"
	"time"

	"costline/internal/core/apperror"
	"costline/internal/core/id"
)

// Status is the lifecycle state of a transaction record.
// Only posted records affect computed balances.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusPosted Status = "posted"
)

// IsPosted reports whether a record participates in balance computations.
// Every component must use this predicate instead of comparing statuses
// itself, so "which records count" is defined exactly once.
func IsPosted(r Record) bool {
	return r.RecordStatus() == StatusPosted
}

// LocationFilter selects records by branch/warehouse. The zero value is
// invalid; use AllLocations or AtLocation.
type LocationFilter struct {
	locID id.ID
	all   bool
}

// AllLocations returns the filter that matches every location.
func AllLocations() LocationFilter {
	return LocationFilter{all: true}
}

// AtLocation returns a filter matching a single branch or warehouse.
func AtLocation(locID id.ID) LocationFilter {
	return LocationFilter{locID: locID}
}

// IsAll reports whether the filter is the ALL sentinel.
func (f LocationFilter) IsAll() bool { return f.all }

// MatchesID reports whether a specific location id passes the filter.
func (f LocationFilter) MatchesID(locID id.ID) bool {
	return f.all || (!id.IsNil(locID) && f.locID == locID)
}

// Matches reports whether any of the record's location refs pass the filter.
// Transfer direction is not considered here; the engine checks source and
// destination explicitly where direction matters.
func (f LocationFilter) Matches(r Record) bool {
	if f.all {
		return true
	}
	for _, ref := range r.LocationRefs() {
		if f.MatchesID(ref) {
			return true
		}
	}
	return false
}

func (f LocationFilter) String() string {
	if f.all {
		return "all"
	}
	return f.locID.String()
}

// PeriodWindow is an inclusive [From, To] calendar-date range.
// Timestamps are compared at date granularity in UTC.
type PeriodWindow struct {
	From time.Time
	To   time.Time
}

// DateLayout is the wire format for period boundaries.
const DateLayout = "2006-01-02"

// NewPeriodWindow builds a window from two timestamps, truncated to dates.
func NewPeriodWindow(from, to time.Time) PeriodWindow {
	return PeriodWindow{From: dateOf(from), To: dateOf(to)}
}

// ParsePeriod parses ISO dates into a validated window.
func ParsePeriod(from, to string) (PeriodWindow, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return PeriodWindow{}, apperror.NewBadPeriod(fmt.Sprintf("invalid from date %q, expected YYYY-MM-DD", from))
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return PeriodWindow{}, apperror.NewBadPeriod(fmt.Sprintf("invalid to date %q, expected YYYY-MM-DD", to))
	}
	p := NewPeriodWindow(f, t)
	if err := p.Validate(); err != nil {
		return PeriodWindow{}, err
	}
	return p, nil
}

// Validate checks the window is well-formed.
func (p PeriodWindow) Validate() error {
	if p.From.IsZero() || p.To.IsZero() {
		return apperror.NewBadPeriod("from and to dates are required")
	}
	if p.From.After(p.To) {
		return apperror.NewBadPeriod("from date must not be after to date")
	}
	return nil
}

// Contains reports whether t falls inside the window, inclusive on both ends.
func (p PeriodWindow) Contains(t time.Time) bool {
	d := dateOf(t)
	return !d.Before(p.From) && !d.After(p.To)
}

// StrictlyBefore reports whether t falls before the window start.
// Used for opening-balance lookups.
func (p PeriodWindow) StrictlyBefore(t time.Time) bool {
	return dateOf(t).Before(p.From)
}

// DayCount returns the window length in days, never less than 1.
// Guards rate calculations against division by zero.
func (p PeriodWindow) DayCount() int {
	days := int(p.To.Sub(p.From).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

func (p PeriodWindow) String() string {
	return p.From.Format(DateLayout) + ".." + p.To.Format(DateLayout)
}

// dateOf truncates a timestamp to its UTC calendar date.
func dateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
