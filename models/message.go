package models

import "time"

const (
	// MessageTypeChat is a regular chat message
	MessageTypeChat = "chat"

	// MessageTypeProblem is a posted problem in the study sidebar
	MessageTypeProblem = "problem"
)

const (
	// MessageStatusActive is the status of a visible message
	MessageStatusActive = "active"

	// MessageStatusDeleted marks an unsent message. The row is retained so
	// that ordering and the audit trail survive, but the text is withheld
	// from readers.
	MessageStatusDeleted = "deleted"
)

// Message is a single chat or problem post within a room's history
type Message struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	RoomID      string    `json:"roomId" gorm:"index"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	Text        string    `json:"text"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	CreatedDate time.Time `json:"createdAt"`
}
