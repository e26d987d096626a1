package earnings

import "testing"

func TestForDifficulty(t *testing.T) {
	tests := []struct {
		tier string
		want int
	}{
		{DifficultyEasy, 2},
		{DifficultyMedium, 5},
		{DifficultyHard, 10},
	}

	for _, tt := range tests {
		got, err := ForDifficulty(tt.tier)
		if err != nil {
			t.Fatalf("ForDifficulty(%q): %v", tt.tier, err)
		}
		if got != tt.want {
			t.Errorf("ForDifficulty(%q) = %d, want %d", tt.tier, got, tt.want)
		}
	}
}

func TestForDifficultyUnknown(t *testing.T) {
	for _, tier := range []string{"", "EASY", "extreme"} {
		if _, err := ForDifficulty(tier); err == nil {
			t.Errorf("ForDifficulty(%q) should fail", tier)
		}
	}
}

func TestForWordCount(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 0},
		{1, 0},   // rounds down
		{2, 1},
		{3, 1},
		{100, 50},
		{251, 125},
		{-5, 0},
	}

	for _, tt := range tests {
		if got := ForWordCount(tt.words); got != tt.want {
			t.Errorf("ForWordCount(%d) = %d, want %d", tt.words, got, tt.want)
		}
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		content string
		want    int
	}{
		{"", 0},
		{"   ", 0},
		{"hello", 1},
		{"hello world", 2},
		{"  spaced   out\n\twords  ", 3},
	}

	for _, tt := range tests {
		if got := CountWords(tt.content); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.content, got, tt.want)
		}
	}
}
