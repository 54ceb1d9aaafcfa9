package services

import "errors"

// Business errors returned by the services. Hooks map these onto HTTP
// status codes; the messages are shown to users as-is.
var (
	ErrRoomNotFound     = errors.New("Room not found")
	ErrRoomEnded        = errors.New("Room has ended")
	ErrRoomFull         = errors.New("Room is full")
	ErrAlreadyInRoom    = errors.New("User is already in another room")
	ErrNotHost          = errors.New("Only the host can do that")
	ErrMessageNotFound  = errors.New("Message not found")
	ErrNotMessageAuthor = errors.New("Only the author can unsend a message")
	ErrUserRequired     = errors.New("User ID is required")
	ErrBadMessageType   = errors.New("Unknown message type")
)
