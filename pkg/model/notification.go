package model

import "time"

const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelSuccess = "success"
)

// Notification documents are written by the notifier worker and read back
// by the dashboard. The Mongo _id never leaves the store: dashboard reads
// project it away.
type Notification struct {
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	Level     string    `json:"level" bson:"level"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
