// Package earnings maps completed activities to currency amounts, in cents.
package earnings

import (
	"fmt"
	"strings"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Reward in cents per difficulty tier.
const (
	easyReward   = 2
	mediumReward = 5
	hardReward   = 10
)

// MoodCheckinReward is the flat payout for a mood check-in, regardless of
// word count.
const MoodCheckinReward = 2

// ForDifficulty returns the reward for a difficulty tier.
func ForDifficulty(tier string) (int, error) {
	switch tier {
	case DifficultyEasy:
		return easyReward, nil
	case DifficultyMedium:
		return mediumReward, nil
	case DifficultyHard:
		return hardReward, nil
	default:
		return 0, fmt.Errorf("unknown difficulty %q", tier)
	}
}

// ForWordCount returns the payout for a written reflection: half a cent per
// word, rounded down. Zero words earns zero, and callers skip the ledger
// append entirely in that case.
func ForWordCount(words int) int {
	if words <= 0 {
		return 0
	}
	return words / 2
}

// CountWords counts whitespace-separated words in content.
func CountWords(content string) int {
	return len(strings.Fields(content))
}
