package services

import (
	"fmt"

	socketio "github.com/googollee/go-socket.io"
	"github.com/sirupsen/logrus"
	"github.com/studycircle/studyroom-api/models"
	"github.com/studycircle/studyroom-api/utils"
)

// SocketContext is the per-connection state attached to each socket
type SocketContext struct {
	UserID string
}

// SocketsService is the push side of the API: clients subscribe to a room
// and receive message, roster, watch-party and room-ended events as they
// happen. It implements RoomEvents and MessageEvents, so committed changes
// made through the REST surface reach subscribers too.
type SocketsService struct {
	Server          *socketio.Server
	RoomsService    *RoomsService
	MessagesService *MessagesService
	roomBuffers     RoomMessageBufferGroup
}

func (s *SocketsService) Setup() {

	// Add handlers to the socket server
	s.Server.OnConnect("/", func(conn socketio.Conn) error {
		logrus.WithField("ip", utils.GetIpAddress(conn.RemoteHeader(), conn.RemoteAddr())).
			Debug("client connected")
		conn.SetContext(SocketContext{})
		return nil
	})

	// When a socket disconnects
	s.Server.OnDisconnect("/", func(conn socketio.Conn, reason string) {
		logrus.WithField("reason", reason).Debug("client disconnected")
		conn.LeaveAll()
	})

	// Register all of the event handlers
	s.Server.OnEvent("/", "room.join", s.OnRoomJoin)
	s.Server.OnEvent("/", "room.leave", s.OnRoomLeave)
	s.Server.OnEvent("/", "room.message", s.OnRoomMessage)
	s.Server.OnEvent("/", "room.message.unsend", s.OnRoomMessageUnsend)

}

// Broadcast broadcasts a message to every subscriber of a room
func (s *SocketsService) Broadcast(room, event string, args ...interface{}) bool {
	return s.Server.BroadcastToRoom("/", room, event, args...)
}

// socketRoomKey is the socket.io room name for a study room's subscribers
func socketRoomKey(roomID string) string {
	return fmt.Sprintf("room_%s", roomID)
}

//====================================================================================================
// room.join event handler
// Called when a client starts watching a room
//====================================================================================================

type RoomJoinMsg struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

func (s *SocketsService) OnRoomJoin(conn socketio.Conn, data RoomJoinMsg) error {

	// Get the room with the identifier
	room, err := s.RoomsService.GetRoomByID(data.RoomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}

	// Subscribe the socket to the room's events
	conn.Join(socketRoomKey(room.ID))
	conn.SetContext(SocketContext{UserID: data.UserID})

	// Emit all the buffered messages to the new subscriber, so they don't
	// open the page to a completely empty chat screen
	bufMsgs := s.roomBuffers.CopyMessages(room.ID)
	for _, msg := range bufMsgs {
		conn.Emit("message.created", msg)
	}

	// A subscribed member is an online member
	if len(data.UserID) > 0 {
		if err := s.RoomsService.SetParticipantOnline(room.ID, data.UserID, true); err != nil {
			logrus.WithError(err).Warn("failed to mark participant online")
		}
	}

	return nil

}

//====================================================================================================
// room.leave event handler
// Called when a client stops watching a room
//====================================================================================================

type RoomLeaveMsg struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

func (s *SocketsService) OnRoomLeave(conn socketio.Conn, data RoomLeaveMsg) error {

	// Unsubscribe the socket from the room's events
	conn.Leave(socketRoomKey(data.RoomID))

	// The member may still hold membership (e.g. a page reload), so only
	// the presence flag flips here. Membership release goes through the
	// REST leave endpoint.
	if len(data.UserID) > 0 {
		if err := s.RoomsService.SetParticipantOnline(data.RoomID, data.UserID, false); err != nil {
			logrus.WithError(err).Warn("failed to mark participant offline")
		}
	}

	return nil

}

//====================================================================================================
// room.message event handler
// Called when a member sends a chat message or posts a problem
//====================================================================================================

type RoomMessageMsg struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl"`
	Type     string `json:"type"`
}

func (s *SocketsService) OnRoomMessage(conn socketio.Conn, data RoomMessageMsg) error {

	// Persist the message. The MessageCreated event callback takes care of
	// buffering and broadcasting it to the room.
	_, err := s.MessagesService.SendMessage(data.RoomID, &MessageInfo{
		UserID:   data.UserID,
		UserName: data.UserName,
		Text:     data.Text,
		ImageURL: data.ImageURL,
		Type:     data.Type,
	})
	return err

}

//====================================================================================================
// room.message.unsend event handler
// Called when a member unsends one of their own messages
//====================================================================================================

type RoomMessageUnsendMsg struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
}

func (s *SocketsService) OnRoomMessageUnsend(conn socketio.Conn, data RoomMessageUnsendMsg) error {
	return s.MessagesService.UnsendMessage(data.MessageID, data.UserID)
}

//====================================================================================================
// Push callbacks from the services (RoomEvents / MessageEvents)
//====================================================================================================

// MessageCreated buffers the new message for replay and pushes it to the
// room's subscribers
func (s *SocketsService) MessageCreated(roomID string, message *models.Message) {
	s.roomBuffers.PushMessage(roomID, message)
	s.Broadcast(socketRoomKey(roomID), "message.created", message)
}

// MessageDeleted drops the message from the replay buffer and tells
// subscribers to hide it
func (s *SocketsService) MessageDeleted(roomID, messageID string) {
	s.roomBuffers.DropMessage(roomID, messageID)
	s.Broadcast(socketRoomKey(roomID), "message.deleted", map[string]interface{}{
		"roomId":    roomID,
		"messageId": messageID,
	})
}

// ParticipantsChanged pushes a full roster snapshot to the room
func (s *SocketsService) ParticipantsChanged(roomID string) {
	participants, err := s.RoomsService.GetParticipants(roomID)
	if err != nil {
		logrus.WithError(err).WithField("room_id", roomID).
			Warn("failed to load roster for push")
		return
	}
	s.Broadcast(socketRoomKey(roomID), "participants.updated", map[string]interface{}{
		"participants": participants,
		"count":        len(participants),
	})
}

// RoomEnded tells every subscriber that the host has ended the meeting.
// Sessions observing this must self-terminate.
func (s *SocketsService) RoomEnded(roomID string) {
	s.roomBuffers.DropRoom(roomID)
	s.Broadcast(socketRoomKey(roomID), "room.ended", map[string]interface{}{
		"roomId": roomID,
	})
	s.Server.ClearRoom("/", socketRoomKey(roomID))
}

// VideoChanged pushes the new shared watch-party video URL
func (s *SocketsService) VideoChanged(roomID, videoURL string) {
	s.Broadcast(socketRoomKey(roomID), "room.video", map[string]interface{}{
		"roomId":   roomID,
		"videoUrl": videoURL,
	})
}
