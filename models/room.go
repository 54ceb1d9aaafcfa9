package models

import (
	"database/sql"
	"time"
)

const (
	// RoomStatusActive is the status of a room that is accepting joins
	RoomStatusActive = "active"

	// RoomStatusEnded is the status of a room whose meeting has been ended
	// by its host. Ended rooms never accept joins again.
	RoomStatusEnded = "ended"
)

// Room represents a single study room, with a capacity and a host
type Room struct {
	ID               string `json:"id" gorm:"primaryKey"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Subject          string `json:"subject"`
	HostID           string `json:"hostId"`
	MaxParticipants  int    `json:"maxParticipants"`
	ParticipantCount int    `json:"participantCount"`
	IsPublic         bool   `json:"isPublic"`
	Status           string `json:"status"`

	// VideoURL is the currently shared watch-party video, if any
	VideoURL string `json:"videoUrl,omitempty"`

	CreatedDate time.Time    `json:"createdAt"`
	DeletedDate sql.NullTime `json:"-"`
}

// Ended reports whether the room no longer accepts joins
func (r *Room) Ended() bool {
	return r.Status == RoomStatusEnded || r.DeletedDate.Valid
}
