package models

import "time"

// Participant is a user's active membership record within a room. The
// existence of this row is the source of truth for "is in this room".
// The unique index on UserID is what enforces the at-most-one-active-room
// invariant at the storage level, so two rooms can never claim the same
// user at once.
type Participant struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"userId" gorm:"uniqueIndex"`
	RoomID     string    `json:"roomId" gorm:"index"`
	Name       string    `json:"name"`
	PhotoURL   string    `json:"photoURL"`
	IsOnline   bool      `json:"isOnline"`
	JoinedDate time.Time `json:"joinedAt"`
}
