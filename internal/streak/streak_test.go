package streak

import "testing"

func TestAdvance(t *testing.T) {
	tests := []struct {
		name        string
		state       State
		today       string
		yesterday   string
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "first ever activity",
			state:       State{},
			today:       "2026-02-01",
			yesterday:   "2026-01-31",
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name:        "consecutive day increments",
			state:       State{Current: 1, Longest: 1, LastActive: "2026-02-01"},
			today:       "2026-02-02",
			yesterday:   "2026-02-01",
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "same day is a no-op",
			state:       State{Current: 3, Longest: 5, LastActive: "2026-02-02"},
			today:       "2026-02-02",
			yesterday:   "2026-02-01",
			wantCurrent: 3,
			wantLongest: 5,
		},
		{
			name:        "gap resets to one",
			state:       State{Current: 4, Longest: 4, LastActive: "2026-02-02"},
			today:       "2026-02-10",
			yesterday:   "2026-02-09",
			wantCurrent: 1,
			wantLongest: 4,
		},
		{
			name:        "longest never decreases",
			state:       State{Current: 1, Longest: 9, LastActive: "2026-02-09"},
			today:       "2026-02-10",
			yesterday:   "2026-02-09",
			wantCurrent: 2,
			wantLongest: 9,
		},
		{
			name:        "new record updates longest",
			state:       State{Current: 9, Longest: 9, LastActive: "2026-02-09"},
			today:       "2026-02-10",
			yesterday:   "2026-02-09",
			wantCurrent: 10,
			wantLongest: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Advance(tt.state, tt.today, tt.yesterday)
			if got.Current != tt.wantCurrent {
				t.Errorf("Current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.Longest != tt.wantLongest {
				t.Errorf("Longest = %d, want %d", got.Longest, tt.wantLongest)
			}
			if got.LastActive != tt.today {
				t.Errorf("LastActive = %q, want %q", got.LastActive, tt.today)
			}
		})
	}
}

func TestAdvanceSequence(t *testing.T) {
	// The worked example: two consecutive days, then a gap.
	s := Advance(State{}, "2026-02-01", "2026-01-31")
	if s.Current != 1 {
		t.Fatalf("after first day Current = %d, want 1", s.Current)
	}

	s = Advance(s, "2026-02-02", "2026-02-01")
	if s.Current != 2 {
		t.Fatalf("after second day Current = %d, want 2", s.Current)
	}

	s = Advance(s, "2026-02-10", "2026-02-09")
	if s.Current != 1 {
		t.Fatalf("after gap Current = %d, want 1", s.Current)
	}
	if s.Longest != 2 {
		t.Fatalf("after gap Longest = %d, want 2", s.Longest)
	}
}
