package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studycircle/studyroom-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Message{},
		&models.Participant{},
		&models.Room{},
		&models.Subject{},
	))
	return db
}

// eventsRecorder captures the push notifications a service emits
type eventsRecorder struct {
	mu                  sync.Mutex
	participantsChanged []string
	roomsEnded          []string
	videosChanged       []string
}

func (r *eventsRecorder) ParticipantsChanged(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participantsChanged = append(r.participantsChanged, roomID)
}

func (r *eventsRecorder) RoomEnded(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roomsEnded = append(r.roomsEnded, roomID)
}

func (r *eventsRecorder) VideoChanged(roomID, videoURL string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.videosChanged = append(r.videosChanged, roomID+"="+videoURL)
}

func newTestRoomsService(t *testing.T) (*RoomsService, *eventsRecorder) {
	t.Helper()
	events := &eventsRecorder{}
	return &RoomsService{DB: newTestDB(t), Events: events}, events
}

func mustCreateRoom(t *testing.T, s *RoomsService, hostID string, maxParticipants int) *models.Room {
	t.Helper()
	room, err := s.CreateRoom(&CreateRoomSpec{
		Name:            "Calculus study session",
		Description:     "Working through problem sets",
		Subject:         "Mathematics",
		MaxParticipants: maxParticipants,
		IsPublic:        true,
		HostID:          hostID,
		HostName:        "Host",
	})
	require.NoError(t, err)
	return room
}

func roomCount(t *testing.T, s *RoomsService, roomID string) int {
	t.Helper()
	var room models.Room
	require.NoError(t, s.DB.Where("id = ?", roomID).First(&room).Error)
	return room.ParticipantCount
}

func TestCreateRoomAutoJoinsHost(t *testing.T) {
	s, _ := newTestRoomsService(t)

	room := mustCreateRoom(t, s, "host-1", 4)
	assert.Equal(t, models.RoomStatusActive, room.Status)
	assert.Equal(t, 1, room.ParticipantCount)

	status, err := s.GetUserRoomStatus("host-1")
	require.NoError(t, err)
	assert.True(t, status.IsInRoom)
	assert.Equal(t, room.ID, status.RoomID)
}

func TestCreateRoomReleasesPreviousMembership(t *testing.T) {
	s, _ := newTestRoomsService(t)

	first := mustCreateRoom(t, s, "host-1", 4)
	second := mustCreateRoom(t, s, "host-1", 4)

	// The host moved: old room lost its member, new room gained one
	assert.Equal(t, 0, roomCount(t, s, first.ID))
	assert.Equal(t, 1, roomCount(t, s, second.ID))

	status, err := s.GetUserRoomStatus("host-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, status.RoomID)
}

func TestJoinRoomCapacity(t *testing.T) {
	s, _ := newTestRoomsService(t)

	// Room with capacity 2 already has its host inside
	room := mustCreateRoom(t, s, "host-1", 2)
	require.Equal(t, 1, roomCount(t, s, room.ID))

	// U1 joins and the room fills up
	require.NoError(t, s.JoinRoom(room.ID, &ParticipantInfo{UserID: "u1", Name: "User One"}))
	assert.Equal(t, 2, roomCount(t, s, room.ID))

	// U2 is rejected and the count does not move
	err := s.JoinRoom(room.ID, &ParticipantInfo{UserID: "u2"})
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.EqualError(t, err, "Room is full")
	assert.Equal(t, 2, roomCount(t, s, room.ID))
}

func TestJoinRoomCapacityRace(t *testing.T) {
	s, _ := newTestRoomsService(t)

	room := mustCreateRoom(t, s, "host-1", 2)
	stale := *room

	// Another join commits after our snapshot read but before our
	// increment. The guarded increment must refuse to fill the same last
	// seat twice.
	require.NoError(t, s.JoinRoom(room.ID, &ParticipantInfo{UserID: "u1"}))

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return insertMembership(tx, &stale, &ParticipantInfo{UserID: "u2"})
	})
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Equal(t, 2, roomCount(t, s, room.ID))

	// The losing join's participant row rolled back with its transaction
	var count int64
	require.NoError(t, s.DB.Model(&models.Participant{}).Where("user_id = ?", "u2").Count(&count).Error)
	assert.Zero(t, count)
}

func TestJoinRoomIdempotent(t *testing.T) {
	s, _ := newTestRoomsService(t)

	room := mustCreateRoom(t, s, "host-1", 4)
	require.NoError(t, s.JoinRoom(room.ID, &ParticipantInfo{UserID: "u1"}))
	require.Equal(t, 2, roomCount(t, s, room.ID))

	// A duplicate join must not double-count the participant
	require.NoError(t, s.JoinRoom(room.ID, &ParticipantInfo{UserID: "u1"}))
	assert.Equal(t, 2, roomCount(t, s, room.ID))

	participants, err := s.GetParticipants(room.ID)
	require.NoError(t, err)
	assert.Len(t, participants, 2)
}

func TestJoinRoomConflict(t *testing.T) {
	s, _ := newTestRoomsService(t)

	roomA := mustCreateRoom(t, s, "host-a", 4)
	roomB := mustCreateRoom(t, s, "host-b", 4)

	require.NoError(t, s.JoinRoom(roomA.ID, &ParticipantInfo{UserID: "u1"}))

	// Joining a second room without leaving is rejected
	err := s.JoinRoom(roomB.ID, &ParticipantInfo{UserID: "u1"})
	assert.ErrorIs(t, err, ErrAlreadyInRoom)

	// The user's membership is untouched
	status, err := s.GetUserRoomStatus("u1")
	require.NoError(t, err)
	assert.Equal(t, roomA.ID, status.RoomID)
}

func TestJoinRoomNotFound(t *testing.T) {
	s, _ := newTestRoomsService(t)
	err := s.JoinRoom("no-such-room", &ParticipantInfo{UserID: "u1"})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestJoinRoomEnded(t *testing.T) {
	s, _ := newTestRoomsService(t)

	room := mustCreateRoom(t, s, "host-1", 4)
	require.NoError(t, s.EndRoom(room.ID, "host-1"))

	err := s.JoinRoom(room.ID, &ParticipantInfo{UserID: "u1"})
	assert.ErrorIs(t, err, ErrRoomEnded)
}

func TestLeaveRoomIdempotent(t *testing.T) {
	s, _ := newTestRoomsService(t)

	room := mustCreateRoom(t, s, "host-1", 4)
	require.NoError(t, s.JoinRoom(room.ID, &ParticipantInfo{UserID: "u1"}))
	require.Equal(t, 2, roomCount(t, s, room.ID))

	require.NoError(t, s.LeaveRoom(room.ID, "u1"))
	assert.Equal(t, 1, roomCount(t, s, room.ID))

	// Leaving again is a quiet no-op, the count does not go down twice
	require.NoError(t, s.LeaveRoom(room.ID, "u1"))
	assert.Equal(t, 1, roomCount(t, s, room.ID))

	status, err := s.GetUserRoomStatus("u1")
	require.NoError(t, err)
	assert.False(t, status.IsInRoom)
	assert.Empty(t, status.RoomID)
}

func TestUserRoomStatusSingleRoom(t *testing.T) {
	s, _ := newTestRoomsService(t)

	roomA := mustCreateRoom(t, s, "host-a", 4)
	mustCreateRoom(t, s, "host-b", 4)

	require.NoError(t, s.JoinRoom(roomA.ID, &ParticipantInfo{UserID: "u1"}))

	status, err := s.GetUserRoomStatus("u1")
	require.NoError(t, err)
	assert.True(t, status.IsInRoom)
	assert.Equal(t, roomA.ID, status.RoomID)

	// There can only ever be one membership row for the user
	var count int64
	require.NoError(t, s.DB.Model(&models.Participant{}).Where("user_id = ?", "u1").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSwitchRoomMovesMembership(t *testing.T) {
	s, _ := newTestRoomsService(t)

	roomA := mustCreateRoom(t, s, "host-a", 4)
	roomB := mustCreateRoom(t, s, "host-b", 4)
	require.NoError(t, s.JoinRoom(roomA.ID, &ParticipantInfo{UserID: "u1"}))

	require.NoError(t, s.SwitchRoom("u1", roomB.ID, &ParticipantInfo{UserID: "u1"}))

	status, err := s.GetUserRoomStatus("u1")
	require.NoError(t, err)
	assert.Equal(t, roomB.ID, status.RoomID)
	assert.Equal(t, 1, roomCount(t, s, roomA.ID))
	assert.Equal(t, 2, roomCount(t, s, roomB.ID))
}

func TestSwitchRoomRejectedKeepsOldMembership(t *testing.T) {
	s, _ := newTestRoomsService(t)

	roomA := mustCreateRoom(t, s, "host-a", 4)
	// Room B is already full with just its host
	roomB := mustCreateRoom(t, s, "host-b", 1)
	require.NoError(t, s.JoinRoom(roomA.ID, &ParticipantInfo{UserID: "u1"}))

	// The switch fails and rolls back: the user never ends up in limbo
	err := s.SwitchRoom("u1", roomB.ID, &ParticipantInfo{UserID: "u1"})
	assert.ErrorIs(t, err, ErrRoomFull)

	status, err := s.GetUserRoomStatus("u1")
	require.NoError(t, err)
	assert.True(t, status.IsInRoom)
	assert.Equal(t, roomA.ID, status.RoomID)
	assert.Equal(t, 2, roomCount(t, s, roomA.ID))
	assert.Equal(t, 1, roomCount(t, s, roomB.ID))
}

func TestEndRoom(t *testing.T) {
	s, events := newTestRoomsService(t)

	room := mustCreateRoom(t, s, "host-1", 4)
	require.NoError(t, s.JoinRoom(room.ID, &ParticipantInfo{UserID: "u1"}))

	// Only the host can end the meeting
	assert.ErrorIs(t, s.EndRoom(room.ID, "u1"), ErrNotHost)

	require.NoError(t, s.EndRoom(room.ID, "host-1"))

	// The room is gone from the directory and every membership is cleared
	got, err := s.GetRoomByID(room.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	participants, err := s.GetParticipants(room.ID)
	require.NoError(t, err)
	assert.Empty(t, participants)

	status, err := s.GetUserRoomStatus("u1")
	require.NoError(t, err)
	assert.False(t, status.IsInRoom)

	// Subscribers were told to terminate
	assert.Equal(t, []string{room.ID}, events.roomsEnded)
}

func TestSetVideoURL(t *testing.T) {
	s, events := newTestRoomsService(t)

	room := mustCreateRoom(t, s, "host-1", 4)

	assert.ErrorIs(t, s.SetVideoURL(room.ID, "someone-else", "https://example.com/v"), ErrNotHost)

	require.NoError(t, s.SetVideoURL(room.ID, "host-1", "https://example.com/v"))
	got, err := s.GetRoomByID(room.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v", got.VideoURL)
	assert.Equal(t, []string{room.ID + "=https://example.com/v"}, events.videosChanged)
}

func TestListRoomsSubjectFilter(t *testing.T) {
	s, _ := newTestRoomsService(t)

	mathRoom := mustCreateRoom(t, s, "host-a", 4)
	_, err := s.CreateRoom(&CreateRoomSpec{
		Name:            "Optics lab prep",
		Subject:         "Physics",
		MaxParticipants: 4,
		HostID:          "host-b",
	})
	require.NoError(t, err)

	all, err := s.ListRooms("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	math, err := s.ListRooms("Mathematics")
	require.NoError(t, err)
	require.Len(t, math, 1)
	assert.Equal(t, mathRoom.ID, math[0].ID)

	none, err := s.ListRooms("Chemistry")
	require.NoError(t, err)
	assert.Empty(t, none)
}
