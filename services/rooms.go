package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/studycircle/studyroom-api/models"
	"gorm.io/gorm"
)

// RoomEvents receives notifications about room state changes, so they can
// be pushed to live subscribers. Calls happen after the change has been
// committed.
type RoomEvents interface {
	ParticipantsChanged(roomID string)
	RoomEnded(roomID string)
	VideoChanged(roomID, videoURL string)
}

// ParticipantInfo carries the identity a user presents when joining a room
type ParticipantInfo struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// CreateRoomSpec carries the fields needed to create a new room
type CreateRoomSpec struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Subject         string `json:"subject"`
	MaxParticipants int    `json:"maxParticipants"`
	IsPublic        bool   `json:"isPublic"`
	HostID          string `json:"hostId"`
	HostName        string `json:"hostName"`
	HostPhotoURL    string `json:"hostPhotoURL"`
}

// UserRoomStatus reports whether a user currently holds membership in a
// room, and which one
type UserRoomStatus struct {
	IsInRoom bool   `json:"isInRoom"`
	RoomID   string `json:"roomId,omitempty"`
	UserID   string `json:"userId"`
}

// RoomsService manages rooms and the membership records within them
type RoomsService struct {
	DB *gorm.DB

	// Events is optional. When set, committed changes are pushed to it.
	Events RoomEvents
}

// ListRooms gets all rooms, optionally filtered by exact subject match
func (s *RoomsService) ListRooms(subject string) ([]*models.Room, error) {
	query := s.DB.Where("deleted_date IS NULL")
	if len(subject) > 0 {
		query = query.Where("subject = ?", subject)
	}
	var rooms []*models.Room
	if err := query.Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoomByID gets the room with the provided identifier
func (s *RoomsService) GetRoomByID(id string) (*models.Room, error) {
	var room models.Room
	err := s.DB.
		Where("deleted_date IS NULL").
		Where("id = ?", id).
		First(&room).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// CreateRoom creates a new room and makes the host its first participant.
// If the host is already a member of another room, that membership is
// released first. Creating a room implies the intent to start fresh, so no
// confirmation is involved in this path.
func (s *RoomsService) CreateRoom(spec *CreateRoomSpec) (*models.Room, error) {

	room := &models.Room{
		ID:              uuid.NewString(),
		Name:            spec.Name,
		Description:     spec.Description,
		Subject:         spec.Subject,
		HostID:          spec.HostID,
		MaxParticipants: spec.MaxParticipants,
		IsPublic:        spec.IsPublic,
		Status:          models.RoomStatusActive,
		CreatedDate:     time.Now(),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {

		// Release the host's existing membership, if any
		if err := removeMembership(tx, spec.HostID); err != nil {
			return err
		}

		// Create the room itself
		if err := tx.Create(room).Error; err != nil {
			return err
		}

		// The host joins their own room immediately
		return insertMembership(tx, room, &ParticipantInfo{
			UserID:   spec.HostID,
			Name:     spec.HostName,
			PhotoURL: spec.HostPhotoURL,
		})

	})
	if err != nil {
		return nil, err
	}

	// Reload so the caller sees the participant count the host produced
	if err := s.DB.First(room, "id = ?", room.ID).Error; err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"room_id": room.ID,
		"host_id": room.HostID,
		"subject": room.Subject,
	}).Info("room created")

	if s.Events != nil {
		s.Events.ParticipantsChanged(room.ID)
	}
	return room, nil

}

// JoinRoom adds a user to a room. Joining a room the user is already in is
// a no-op, so a duplicate join never double-counts the participant. A user
// holding membership in a different room is rejected; callers resolve that
// conflict explicitly (see SwitchRoom).
func (s *RoomsService) JoinRoom(roomID string, user *ParticipantInfo) error {
	if len(user.UserID) == 0 {
		return ErrUserRequired
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {

		room, err := findRoom(tx, roomID)
		if err != nil {
			return err
		}

		// Check for an existing membership anywhere
		var existing models.Participant
		err = tx.Where("user_id = ?", user.UserID).First(&existing).Error
		if err == nil {
			if existing.RoomID == roomID {
				// Already in this room
				return nil
			}
			return ErrAlreadyInRoom
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return insertMembership(tx, room, user)

	})
	if err != nil {
		return err
	}
	if s.Events != nil {
		s.Events.ParticipantsChanged(roomID)
	}
	return nil
}

// LeaveRoom removes a user's membership from a room. It is idempotent: a
// user who is not a member of the room is left untouched, so duplicate
// leave calls from teardown paths are harmless.
func (s *RoomsService) LeaveRoom(roomID, userID string) error {
	if len(userID) == 0 {
		return ErrUserRequired
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {

		var participant models.Participant
		err := tx.
			Where("user_id = ?", userID).
			Where("room_id = ?", roomID).
			First(&participant).
			Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		return deleteMembership(tx, &participant)

	})
	if err != nil {
		return err
	}
	if s.Events != nil {
		s.Events.ParticipantsChanged(roomID)
	}
	return nil
}

// SwitchRoom atomically moves a user from their current room into the
// target room. The leave is ordered strictly before the join, and both
// happen in one transaction: if the join is rejected, the leave rolls back
// and the user keeps their original membership.
func (s *RoomsService) SwitchRoom(userID, targetRoomID string, user *ParticipantInfo) error {
	if len(userID) == 0 {
		return ErrUserRequired
	}
	var previousRoomID string
	err := s.DB.Transaction(func(tx *gorm.DB) error {

		room, err := findRoom(tx, targetRoomID)
		if err != nil {
			return err
		}

		// Leave the current room first, if there is one
		var existing models.Participant
		err = tx.Where("user_id = ?", userID).First(&existing).Error
		if err == nil {
			if existing.RoomID == targetRoomID {
				return nil
			}
			previousRoomID = existing.RoomID
			if err := deleteMembership(tx, &existing); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if user == nil {
			user = &ParticipantInfo{UserID: userID}
		}
		return insertMembership(tx, room, user)

	})
	if err != nil {
		return err
	}
	if s.Events != nil {
		if len(previousRoomID) > 0 {
			s.Events.ParticipantsChanged(previousRoomID)
		}
		s.Events.ParticipantsChanged(targetRoomID)
	}
	return nil
}

// GetUserRoomStatus reports which room, if any, the user is currently a
// member of. The unique index on participants.user_id guarantees this can
// never be true for two rooms at once.
func (s *RoomsService) GetUserRoomStatus(userID string) (*UserRoomStatus, error) {
	var participant models.Participant
	err := s.DB.Where("user_id = ?", userID).First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &UserRoomStatus{IsInRoom: false, UserID: userID}, nil
		}
		return nil, err
	}
	return &UserRoomStatus{
		IsInRoom: true,
		RoomID:   participant.RoomID,
		UserID:   userID,
	}, nil
}

// GetParticipants gets the membership roster for a room
func (s *RoomsService) GetParticipants(roomID string) ([]*models.Participant, error) {
	var participants []*models.Participant
	err := s.DB.
		Where("room_id = ?", roomID).
		Order("joined_date").
		Find(&participants).
		Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// SetParticipantOnline updates the presence flag on a membership record
func (s *RoomsService) SetParticipantOnline(roomID, userID string, online bool) error {
	err := s.DB.
		Model(&models.Participant{}).
		Where("room_id = ?", roomID).
		Where("user_id = ?", userID).
		Update("is_online", online).
		Error
	if err != nil {
		return err
	}
	if s.Events != nil {
		s.Events.ParticipantsChanged(roomID)
	}
	return nil
}

// EndRoom ends the meeting for everyone in the room. Only the host may do
// this. All membership records are removed and live subscribers are told
// to terminate their sessions.
func (s *RoomsService) EndRoom(roomID, userID string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {

		room, err := findRoom(tx, roomID)
		if err != nil {
			return err
		}
		if room.HostID != userID {
			return ErrNotHost
		}

		// Mark the room as ended and soft-delete it
		err = tx.
			Model(&models.Room{}).
			Where("id = ?", roomID).
			Updates(map[string]interface{}{
				"status":            models.RoomStatusEnded,
				"participant_count": 0,
				"deleted_date":      time.Now(),
			}).
			Error
		if err != nil {
			return err
		}

		// Clear out every membership record
		return tx.
			Where("room_id = ?", roomID).
			Delete(&models.Participant{}).
			Error

	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"room_id": roomID,
		"host_id": userID,
	}).Info("room ended by host")

	if s.Events != nil {
		s.Events.RoomEnded(roomID)
	}
	return nil
}

// SetVideoURL updates the shared watch-party video for a room. Only the
// host may change it.
func (s *RoomsService) SetVideoURL(roomID, userID, videoURL string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		room, err := findRoom(tx, roomID)
		if err != nil {
			return err
		}
		if room.HostID != userID {
			return ErrNotHost
		}
		return tx.
			Model(&models.Room{}).
			Where("id = ?", roomID).
			Update("video_url", videoURL).
			Error
	})
	if err != nil {
		return err
	}
	if s.Events != nil {
		s.Events.VideoChanged(roomID, videoURL)
	}
	return nil
}

// findRoom loads a joinable room inside a transaction
func findRoom(tx *gorm.DB, roomID string) (*models.Room, error) {
	var room models.Room
	err := tx.Where("id = ?", roomID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if room.Ended() {
		return nil, ErrRoomEnded
	}
	return &room, nil
}

// insertMembership creates a participant record and bumps the room count,
// enforcing the capacity limit
func insertMembership(tx *gorm.DB, room *models.Room, user *ParticipantInfo) error {
	if room.ParticipantCount >= room.MaxParticipants {
		return ErrRoomFull
	}
	participant := models.Participant{
		ID:         uuid.NewString(),
		UserID:     user.UserID,
		RoomID:     room.ID,
		Name:       user.Name,
		PhotoURL:   user.PhotoURL,
		IsOnline:   true,
		JoinedDate: time.Now(),
	}
	if err := tx.Create(&participant).Error; err != nil {
		return err
	}

	// The increment itself re-checks capacity, so two joins racing past
	// the snapshot read above cannot both commit into the last seat. The
	// loser's participant row rolls back with the transaction.
	res := tx.
		Model(&models.Room{}).
		Where("id = ?", room.ID).
		Where("participant_count < max_participants").
		Update("participant_count", gorm.Expr("participant_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRoomFull
	}
	return nil
}

// deleteMembership removes a participant record and decrements the room
// count, never dropping it below zero
func deleteMembership(tx *gorm.DB, participant *models.Participant) error {
	if err := tx.Delete(participant).Error; err != nil {
		return err
	}
	return tx.
		Model(&models.Room{}).
		Where("id = ?", participant.RoomID).
		Where("participant_count > 0").
		Update("participant_count", gorm.Expr("participant_count - 1")).
		Error
}

// removeMembership drops whatever membership a user currently holds
func removeMembership(tx *gorm.DB, userID string) error {
	var existing models.Participant
	err := tx.Where("user_id = ?", userID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return deleteMembership(tx, &existing)
}
