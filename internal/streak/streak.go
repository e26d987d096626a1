// Package streak implements the consecutive-day activity counter. It is pure
// date arithmetic over calendar-date strings; the caller supplies today and
// yesterday already resolved in the user's timezone.
package streak

// State is a user's streak counters as stored on the profile.
type State struct {
	Current    int
	Longest    int
	LastActive string // YYYY-MM-DD, "" if never active
}

// Advance returns the state after registering activity on today. Rules:
// first-ever activity starts at 1; a second event on the same day changes
// nothing; activity the day after the last active day extends the run; any
// larger gap resets to 1. Longest never decreases.
func Advance(s State, today, yesterday string) State {
	next := s

	switch s.LastActive {
	case today:
		return s
	case "":
		next.Current = 1
	case yesterday:
		next.Current = s.Current + 1
	default:
		next.Current = 1
	}

	if next.Current > next.Longest {
		next.Longest = next.Current
	}
	next.LastActive = today
	return next
}
