// Package period computes business-day boundaries for the cash register.
//
// A register day does not run midnight-to-midnight: it runs from one
// cutoff (e.g. 18:00 local) to the next. Every instant belongs to
// exactly one period, so transactions can be bucketed into register
// sessions by timestamp alone.
package period

import "time"

// Cutoff is the wall-clock time of day, in a specific timezone, that
// separates one business period from the next.
type Cutoff struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// Period is the half-open interval [Start, End) covered by one register
// session. Both bounds are UTC instants so they can be used directly as
// query bounds against stores that persist timestamps in UTC.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

func (c Cutoff) loc() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.UTC
}

// IsAfter reports whether the local wall-clock time of t is at or past
// the cutoff.
func (c Cutoff) IsAfter(t time.Time) bool {
	local := t.In(c.loc())
	return local.Hour() > c.Hour || (local.Hour() == c.Hour && local.Minute() >= c.Minute)
}

// at returns the cutoff instant on the local calendar day of t, shifted
// by days. Built with time.Date in the target location, so DST
// transitions are handled by the tz database rather than offset math.
func (c Cutoff) at(t time.Time, days int) time.Time {
	local := t.In(c.loc())
	return time.Date(local.Year(), local.Month(), local.Day()+days, c.Hour, c.Minute, 0, 0, c.loc())
}

// Resolve returns the business period containing now.
//
// If local wall-clock time is at or past the cutoff the period runs
// from today's cutoff to tomorrow's; otherwise it runs from yesterday's
// cutoff to today's. Resolve is total: every instant resolves to
// exactly one period, and periods tile the timeline with no gaps.
func (c Cutoff) Resolve(now time.Time) Period {
	if c.IsAfter(now) {
		return Period{
			Start: c.at(now, 0).UTC(),
			End:   c.at(now, 1).UTC(),
		}
	}
	return Period{
		Start: c.at(now, -1).UTC(),
		End:   c.at(now, 0).UTC(),
	}
}

// SameLocalDay reports whether a and b fall on the same calendar day in
// the cutoff's timezone.
func (c Cutoff) SameLocalDay(a, b time.Time) bool {
	al, bl := a.In(c.loc()), b.In(c.loc())
	ay, am, ad := al.Date()
	by, bm, bd := bl.Date()
	return ay == by && am == bm && ad == bd
}
