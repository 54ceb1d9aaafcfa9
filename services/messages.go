package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/studycircle/studyroom-api/models"
	"gorm.io/gorm"
)

// MessageEvents receives notifications about message changes for push
// delivery to room subscribers
type MessageEvents interface {
	MessageCreated(roomID string, message *models.Message)
	MessageDeleted(roomID, messageID string)
}

// MessageInfo carries the fields of a message being sent to a room
type MessageInfo struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
	Type     string `json:"type"`
}

// MessagesService manages the chat and problem history of rooms. Messages
// are never physically removed: unsending flips the status to deleted and
// readers see the row with its text withheld.
type MessagesService struct {
	DB *gorm.DB

	// Events is optional. When set, committed changes are pushed to it.
	Events MessageEvents
}

// SendMessage appends a message to a room's history
func (s *MessagesService) SendMessage(roomID string, info *MessageInfo) (*models.Message, error) {
	if len(info.UserID) == 0 {
		return nil, ErrUserRequired
	}

	// Only the two known message types are accepted
	msgType := info.Type
	if len(msgType) == 0 {
		msgType = models.MessageTypeChat
	}
	if msgType != models.MessageTypeChat && msgType != models.MessageTypeProblem {
		return nil, ErrBadMessageType
	}

	// The room must exist and still be live
	var room models.Room
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("id = ?", roomID).
		First(&room).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	message := &models.Message{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		UserID:      info.UserID,
		UserName:    info.UserName,
		Text:        info.Text,
		ImageURL:    info.ImageURL,
		Type:        msgType,
		Status:      models.MessageStatusActive,
		CreatedDate: time.Now(),
	}
	if err := s.DB.Create(message).Error; err != nil {
		return nil, err
	}

	if s.Events != nil {
		s.Events.MessageCreated(roomID, message)
	}
	return message, nil
}

// ListMessages gets a room's message history in send order. Deleted
// messages keep their position and timestamp, but their text and image are
// withheld.
func (s *MessagesService) ListMessages(roomID string) ([]*models.Message, error) {
	var messages []*models.Message
	err := s.DB.
		Where("room_id = ?", roomID).
		Order("created_date").
		Find(&messages).
		Error
	if err != nil {
		return nil, err
	}
	for _, message := range messages {
		redactIfDeleted(message)
	}
	return messages, nil
}

// UnsendMessage soft-deletes a message. Only its author may unsend it, and
// unsending an already-deleted message is a no-op.
func (s *MessagesService) UnsendMessage(messageID, userID string) error {

	var message models.Message
	err := s.DB.Where("id = ?", messageID).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if message.UserID != userID {
		return ErrNotMessageAuthor
	}
	if message.Status == models.MessageStatusDeleted {
		return nil
	}

	err = s.DB.
		Model(&models.Message{}).
		Where("id = ?", messageID).
		Update("status", models.MessageStatusDeleted).
		Error
	if err != nil {
		return err
	}

	if s.Events != nil {
		s.Events.MessageDeleted(message.RoomID, messageID)
	}
	return nil
}

// redactIfDeleted hides the content of an unsent message before it leaves
// the service. The stored row keeps its text for the audit trail.
func redactIfDeleted(message *models.Message) {
	if message.Status == models.MessageStatusDeleted {
		message.Text = ""
		message.ImageURL = ""
	}
}
