// Package rules holds the pure decision core of the arena backend:
// temporal classification of challenges and phases, authorization of
// mutating operations, participation checks, and team-filter resolution.
// Nothing in this package touches storage, transport, or the clock; every
// function is a pure computation over caller-supplied snapshots and is
// safe for concurrent use.
package rules

import "time"

// TimeWindow is the start/end pair carried by challenges and phases.
// Start <= End is not required; inverted windows are classified by direct
// comparison without error.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Bucket places a window relative to a reference instant.
type Bucket int

const (
	Past Bucket = iota
	Present
	Future
)

func (b Bucket) String() string {
	switch b {
	case Past:
		return "past"
	case Present:
		return "present"
	case Future:
		return "future"
	default:
		return "unknown"
	}
}

// Classification is the temporal verdict for a single window.
type Classification struct {
	Active bool
	Bucket Bucket
}

// Classify reports whether now falls inside the window (boundaries
// inclusive) and which bucket the window occupies relative to now.
// Past means the window ended before now, Future means it starts after
// now, Present covers everything else. For an inverted window both the
// Past and Future predicates can hold; Past wins.
func Classify(w TimeWindow, now time.Time) Classification {
	c := Classification{
		Active: !w.Start.After(now) && !w.End.Before(now),
	}
	switch {
	case w.End.Before(now):
		c.Bucket = Past
	case w.Start.After(now):
		c.Bucket = Future
	default:
		c.Bucket = Present
	}
	return c
}
