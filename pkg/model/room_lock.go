package model

import "time"

// RoomLock is an advisory lock held for the duration of the
// availability-check-then-insert sequence, preventing two concurrent
// requests for the same room type from double-booking a date range.
type RoomLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
