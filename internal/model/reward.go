package model

import "time"

type Reward struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Emoji  string `json:"emoji"`
	// Price in cents.
	Price    int  `json:"price"`
	IsActive bool `json:"is_active"`
	// PurchasedAt is set exactly once; a purchased reward is immutable.
	PurchasedAt *time.Time `json:"purchased_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
