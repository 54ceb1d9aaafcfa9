// Package client is a typed Go client for the study-room API. It also
// carries the two pieces of caller-side logic the application needs: the
// membership guard, which enforces the one-active-room-per-user rule with
// explicit user consent before switching, and the room session state
// machine, which guarantees membership is released exactly once on every
// exit path.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/studycircle/studyroom-api/models"
	"github.com/studycircle/studyroom-api/services"
)

// APIError is a non-2xx response from the API, carrying the user-visible
// message the backend produced
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client calls the study-room API over HTTP
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a client for the API at the given base URL (including the
// version prefix, e.g. "https://api.example.com/v1")
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
	}
}

// envelope is the response wrapper every endpoint uses
type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

// do sends one request and decodes the enveloped response into out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(resBody, &env); err != nil {
		if res.StatusCode >= 400 {
			return &APIError{StatusCode: res.StatusCode, Message: res.Status}
		}
		return err
	}
	if res.StatusCode >= 400 {
		msg := env.Error
		if len(msg) == 0 {
			msg = env.Message
		}
		return &APIError{StatusCode: res.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil

}

// ListRooms gets all rooms, optionally filtered by subject tag
func (c *Client) ListRooms(ctx context.Context, subject string) ([]*models.Room, error) {
	path := "/rooms"
	if len(subject) > 0 {
		path += "?subject=" + url.QueryEscape(subject)
	}
	var rooms []*models.Room
	if err := c.do(ctx, http.MethodGet, path, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoom gets a single room. A room that does not exist (or has been
// deleted) comes back as nil with no error.
func (c *Client) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	var room models.Room
	err := c.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(roomID), nil, &room)
	if err != nil {
		var apiErr *APIError
		if asAPIError(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// CreateRoom creates a room with the caller as host and first participant
func (c *Client) CreateRoom(ctx context.Context, spec *services.CreateRoomSpec) (*models.Room, error) {
	var room models.Room
	if err := c.do(ctx, http.MethodPost, "/rooms", spec, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// JoinRoom adds the user to a room
func (c *Client) JoinRoom(ctx context.Context, roomID string, user *services.ParticipantInfo) error {
	return c.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/join", user, nil)
}

// LeaveRoom releases the user's membership in a room. Idempotent.
func (c *Client) LeaveRoom(ctx context.Context, roomID, userID string) error {
	body := map[string]string{"userId": userID}
	return c.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/leave", body, nil)
}

// SwitchRoom atomically moves the user into the target room on the backend
func (c *Client) SwitchRoom(ctx context.Context, roomID string, user *services.ParticipantInfo) error {
	return c.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/switch", user, nil)
}

// EndRoom ends the meeting for everyone. Host only.
func (c *Client) EndRoom(ctx context.Context, roomID, userID string) error {
	body := map[string]string{"userId": userID}
	return c.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/end", body, nil)
}

// RoomStatus reports which room, if any, the user currently belongs to
func (c *Client) RoomStatus(ctx context.Context, userID string) (*services.UserRoomStatus, error) {
	var status services.UserRoomStatus
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/room-status", nil, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Subjects gets the subject catalog
func (c *Client) Subjects(ctx context.Context) ([]*models.Subject, error) {
	var subjects []*models.Subject
	if err := c.do(ctx, http.MethodGet, "/subjects", nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// participantsPayload is the roster shape the API returns
type participantsPayload struct {
	Participants []*models.Participant `json:"participants"`
	Count        int                   `json:"count"`
}

// Participants gets the membership roster of a room
func (c *Client) Participants(ctx context.Context, roomID string) ([]*models.Participant, error) {
	var payload participantsPayload
	err := c.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(roomID)+"/participants", nil, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Participants, nil
}

// Messages gets a room's ordered message history
func (c *Client) Messages(ctx context.Context, roomID string) ([]*models.Message, error) {
	var messages []*models.Message
	err := c.do(ctx, http.MethodGet, "/rooms/"+url.PathEscape(roomID)+"/messages", nil, &messages)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// SendMessage appends a chat or problem message to a room
func (c *Client) SendMessage(ctx context.Context, roomID string, info *services.MessageInfo) (*models.Message, error) {
	var message models.Message
	err := c.do(ctx, http.MethodPost, "/rooms/"+url.PathEscape(roomID)+"/messages", info, &message)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// UnsendMessage soft-deletes one of the user's own messages
func (c *Client) UnsendMessage(ctx context.Context, messageID, userID string) error {
	body := map[string]string{"userId": userID}
	return c.do(ctx, http.MethodPost, "/messages/"+url.PathEscape(messageID)+"/unsend", body, nil)
}

// MediaTokenRequest asks for a media-access token scoped to {room, user}
type MediaTokenRequest struct {
	RoomName    string `json:"roomName"`
	UserName    string `json:"userName"`
	UserEmail   string `json:"userEmail"`
	UserID      string `json:"userId"`
	IsModerator bool   `json:"isModerator"`
}

// mediaTokenPayload is the token shape the API returns
type mediaTokenPayload struct {
	Token string `json:"token"`
}

// MediaToken fetches a short-lived media-access token
func (c *Client) MediaToken(ctx context.Context, req *MediaTokenRequest) (string, error) {
	var payload mediaTokenPayload
	if err := c.do(ctx, http.MethodPost, "/media/token", req, &payload); err != nil {
		return "", err
	}
	return payload.Token, nil
}

// LiveKitTokenRequest asks for a room-join token on the LiveKit provider
type LiveKitTokenRequest struct {
	RoomName        string `json:"roomName"`
	ParticipantName string `json:"participantName"`
}

// LiveKitToken fetches a room-join token for a LiveKit media server
func (c *Client) LiveKitToken(ctx context.Context, req *LiveKitTokenRequest) (string, error) {
	var payload mediaTokenPayload
	if err := c.do(ctx, http.MethodPost, "/livekit/token", req, &payload); err != nil {
		return "", err
	}
	return payload.Token, nil
}

// asAPIError unwraps an *APIError out of err, if there is one
func asAPIError(err error, target **APIError) bool {
	return errors.As(err, target)
}
