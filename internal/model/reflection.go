package model

import "time"

const (
	ReflectionFreewrite = "freewrite"
	ReflectionPrompted  = "prompt"
	ReflectionMood      = "mood"
)

type Reflection struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Type           string    `json:"type"`
	Prompt         *string   `json:"prompt"`
	Mood           *string   `json:"mood"`
	Content        string    `json:"content"`
	WordCount      int       `json:"word_count"`
	CurrencyEarned int       `json:"currency_earned"`
	CreatedAt      time.Time `json:"created_at"`
}
