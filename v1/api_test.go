package v1

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studycircle/studyroom-api/client"
	"github.com/studycircle/studyroom-api/models"
	"github.com/studycircle/studyroom-api/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestAPI mounts the full route tree over an in-memory database and
// returns a client pointed at it
func newTestAPI(t *testing.T) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Message{},
		&models.Participant{},
		&models.Room{},
		&models.Subject{},
	))

	subjectsService := &services.SubjectsService{DB: db}
	require.NoError(t, subjectsService.SeedDefaults())

	server := &Server{
		RoomsService:         &services.RoomsService{DB: db},
		SubjectsService:      subjectsService,
		MessagesService:      &services.MessagesService{DB: db},
		MediaTokensService:   &services.MediaTokensService{},
		LiveKitTokensService: &services.LiveKitTokensService{APIKey: "lk-key", APISecret: "lk-secret"},
		UploadsService:       &services.UploadsService{},
	}

	r := gin.New()
	server.Setup(r.Group("v1"))
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return client.New(ts.URL + "/v1")
}

func makeRoom(t *testing.T, api *client.Client, hostID string, max int) *models.Room {
	t.Helper()
	room, err := api.CreateRoom(context.Background(), &services.CreateRoomSpec{
		Name:            "Calc study",
		Subject:         "Mathematics",
		MaxParticipants: max,
		IsPublic:        true,
		HostID:          hostID,
		HostName:        "Host",
	})
	require.NoError(t, err)
	return room
}

func TestRoomLifecycleOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	room := makeRoom(t, api, "host-1", 3)
	assert.Equal(t, 1, room.ParticipantCount)
	assert.Equal(t, models.RoomStatusActive, room.Status)

	rooms, err := api.ListRooms(ctx, "Mathematics")
	require.NoError(t, err)
	require.Len(t, rooms, 1)

	require.NoError(t, api.JoinRoom(ctx, room.ID, &services.ParticipantInfo{UserID: "u1", Name: "User One"}))

	status, err := api.RoomStatus(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, status.IsInRoom)
	assert.Equal(t, room.ID, status.RoomID)

	participants, err := api.Participants(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, participants, 2)

	require.NoError(t, api.LeaveRoom(ctx, room.ID, "u1"))
	status, err = api.RoomStatus(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, status.IsInRoom)

	require.NoError(t, api.EndRoom(ctx, room.ID, "host-1"))
	got, err := api.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMembershipConflictsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	first := makeRoom(t, api, "host-1", 2)
	second := makeRoom(t, api, "host-2", 2)

	require.NoError(t, api.JoinRoom(ctx, first.ID, &services.ParticipantInfo{UserID: "u1"}))

	// Full room
	err := api.JoinRoom(ctx, first.ID, &services.ParticipantInfo{UserID: "u2"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Room is full", apiErr.Message)

	// Membership elsewhere
	err = api.JoinRoom(ctx, second.ID, &services.ParticipantInfo{UserID: "u1"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "User is already in another room", apiErr.Message)

	// The switch endpoint moves the membership in one call
	require.NoError(t, api.SwitchRoom(ctx, second.ID, &services.ParticipantInfo{UserID: "u1"}))
	status, err := api.RoomStatus(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, status.RoomID)

	// Ending a room is reserved for its host
	err = api.EndRoom(ctx, second.ID, "u1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestMessagesOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	room := makeRoom(t, api, "host-1", 4)

	sent, err := api.SendMessage(ctx, room.ID, &services.MessageInfo{
		UserID:   "host-1",
		UserName: "Host",
		Text:     "welcome everyone",
	})
	require.NoError(t, err)

	// An unknown message type is the caller's mistake, not a server fault
	_, err = api.SendMessage(ctx, room.ID, &services.MessageInfo{
		UserID: "host-1",
		Text:   "hi",
		Type:   "announcement",
	})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Unknown message type", apiErr.Message)

	// Unsending someone else's message is rejected
	err = api.UnsendMessage(ctx, sent.ID, "u2")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	require.NoError(t, api.UnsendMessage(ctx, sent.ID, "host-1"))

	messages, err := api.Messages(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, models.MessageStatusDeleted, messages[0].Status)
	assert.Empty(t, messages[0].Text)
}

func TestValidationAndSubjectsOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	// Capacity below two is rejected at the binding layer
	_, err := api.CreateRoom(ctx, &services.CreateRoomSpec{
		Name:            "Tiny",
		Subject:         "Mathematics",
		MaxParticipants: 1,
		HostID:          "host-1",
	})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	subjects, err := api.Subjects(ctx)
	require.NoError(t, err)
	assert.Len(t, subjects, 10)
}

func TestLiveKitTokenOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	ctx := context.Background()

	token, err := api.LiveKitToken(ctx, &client.LiveKitTokenRequest{
		RoomName:        "room-1",
		ParticipantName: "User One",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Both fields are required at the binding layer
	_, err = api.LiveKitToken(ctx, &client.LiveKitTokenRequest{RoomName: "room-1"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}
