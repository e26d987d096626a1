package reflection

import "testing"

func TestValidMood(t *testing.T) {
	for _, m := range Moods {
		if !ValidMood(m) {
			t.Errorf("ValidMood(%q) = false, want true", m)
		}
	}
	if !ValidMood("happy") {
		t.Error("mood match should be case-insensitive")
	}
	for _, m := range []string{"", "Ecstatic", "meh"} {
		if ValidMood(m) {
			t.Errorf("ValidMood(%q) = true, want false", m)
		}
	}
}

func TestRandomPrompts(t *testing.T) {
	got := RandomPrompts(4)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}

	seen := make(map[string]bool)
	for _, p := range got {
		if seen[p] {
			t.Errorf("duplicate prompt %q", p)
		}
		seen[p] = true
	}

	if n := len(RandomPrompts(100)); n != len(prompts) {
		t.Errorf("oversized request returned %d prompts, want %d", n, len(prompts))
	}
	if RandomPrompts(0) != nil {
		t.Error("zero request should return nil")
	}
}
