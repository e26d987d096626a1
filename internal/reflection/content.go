// Package reflection holds the built-in reflection content: the mood
// catalog for check-ins and the writing-prompt pool.
package reflection

import (
	"math/rand/v2"
	"strings"
)

// Moods accepted by the mood check-in.
var Moods = []string{"Happy", "Calm", "Sad", "Anxious", "Tired", "Frustrated"}

// ValidMood reports whether label names a known mood, case-insensitively.
func ValidMood(label string) bool {
	for _, m := range Moods {
		if strings.EqualFold(m, label) {
			return true
		}
	}
	return false
}

var prompts = []string{
	"What made you smile today?",
	"What's one thing you're grateful for right now?",
	"Describe a moment today when you felt at peace.",
	"What's been weighing on your mind?",
	"What would you tell a friend feeling the way you feel?",
	"What's one small win from this week?",
	"What does rest look like for you today?",
	"What's something you're proud of that no one knows about?",
	"What's something you forgive yourself for?",
	"What are you looking forward to?",
}

// RandomPrompts returns up to count distinct prompts in random order.
func RandomPrompts(count int) []string {
	if count <= 0 {
		return nil
	}
	shuffled := make([]string, len(prompts))
	copy(shuffled, prompts)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}
