package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrSessionClosed means Connect raced a teardown: the session reached a
// terminal state before it could activate
var ErrSessionClosed = errors.New("session is already terminated")

// SessionState is the lifecycle state of a room session
type SessionState int32

const (
	// StateConnecting means the session is fetching its media token
	StateConnecting SessionState = iota

	// StateActive means the media session is live and the room is being
	// watched for remote termination
	StateActive

	// StateTerminated is terminal: membership has been released and the
	// caller should navigate back to the directory
	StateTerminated

	// StateFailed is terminal: the connection never became active. Same
	// external effect as Terminated, but callers show an error notice.
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateTerminated:
		return "terminated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// TerminateReason says which exit path ended a session
type TerminateReason string

const (
	TerminateReasonLeave         TerminateReason = "leave"
	TerminateReasonRoomEnded     TerminateReason = "room_ended"
	TerminateReasonClosed        TerminateReason = "closed"
	TerminateReasonConnectFailed TerminateReason = "connect_failed"
)

// Identity is the resolved identity a session acts as. It is passed in
// explicitly; the session never reads ambient global user state.
type Identity struct {
	UserID      string
	Name        string
	Email       string
	PhotoURL    string
	IsModerator bool
}

// RoomSession governs a user's connected media session inside a room.
//
// Connecting fetches a media-access token scoped to {room, user}; success
// moves the session to Active, where a background watcher mirrors the
// room. The session terminates on any of: an explicit Leave, the host
// ending the room (observed via the watcher), or Close on teardown. On
// every one of those paths the membership release fires exactly once —
// never zero times (stale membership would block future joins) and never
// more than once.
type RoomSession struct {
	api          *Client
	roomID       string
	identity     Identity
	pollInterval time.Duration

	mu         sync.Mutex
	state      SessionState
	token      string
	watcher    *RoomWatcher
	terminated bool

	leaveOnce sync.Once
	done      chan struct{}

	// OnTerminated, when set, is called once with the exit reason after
	// membership has been released. Callers navigate away from here.
	OnTerminated func(reason TerminateReason)
}

// NewRoomSession creates a session for the given room and identity. The
// session starts in Connecting; call Connect to bring it up.
func (c *Client) NewRoomSession(roomID string, identity Identity) *RoomSession {
	return &RoomSession{
		api:          c,
		roomID:       roomID,
		identity:     identity,
		pollInterval: 5 * time.Second,
		state:        StateConnecting,
		done:         make(chan struct{}),
	}
}

// SetPollInterval overrides how often the room is observed for remote
// termination. Must be called before Connect.
func (s *RoomSession) SetPollInterval(interval time.Duration) {
	s.pollInterval = interval
}

// Connect resolves the media token and activates the session. On failure
// the session moves to Failed, membership is released, and the caller
// should navigate back to the directory with an error notice.
func (s *RoomSession) Connect(ctx context.Context) error {

	if len(s.identity.UserID) == 0 {
		s.fail()
		return ErrNotAuthenticated
	}

	// Request a media-access token scoped to {room, user}
	token, err := s.api.MediaToken(ctx, &MediaTokenRequest{
		RoomName:    s.roomID,
		UserName:    s.identity.Name,
		UserEmail:   s.identity.Email,
		UserID:      s.identity.UserID,
		IsModerator: s.identity.IsModerator,
	})
	if err != nil {
		s.fail()
		return fmt.Errorf("connecting media session: %w", err)
	}

	s.mu.Lock()
	if s.terminated {
		// The session was torn down while the token was in flight.
		// Terminal states have no transitions out, so the session must
		// not come back up, and no watcher may start: nothing would
		// ever stop it.
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.token = token
	s.state = StateActive
	s.watcher = s.api.WatchRoom(s.roomID, s.pollInterval)
	watcher := s.watcher
	s.mu.Unlock()

	// Watch for the host ending the room out from under us
	go func() {
		for snapshot := range watcher.Snapshots() {
			if snapshot.Ended {
				s.terminate(TerminateReasonRoomEnded)
				return
			}
		}
	}()

	return nil

}

// Leave is the user's explicit exit action
func (s *RoomSession) Leave() {
	s.terminate(TerminateReasonLeave)
}

// Close releases the session on teardown (navigation away, unmount). Safe
// to call on any state and more than once.
func (s *RoomSession) Close() {
	s.terminate(TerminateReasonClosed)
}

// State reports the current lifecycle state
func (s *RoomSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Token is the media-access token, once Active
func (s *RoomSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Done closes when the session has reached a terminal state
func (s *RoomSession) Done() <-chan struct{} {
	return s.done
}

// fail moves the session to Failed and runs the exit path. A session that
// already reached a terminal state keeps it.
func (s *RoomSession) fail() {
	s.mu.Lock()
	if !s.terminated {
		s.state = StateFailed
	}
	s.mu.Unlock()
	s.terminate(TerminateReasonConnectFailed)
}

// terminate runs the exit path exactly once, no matter how many exit
// triggers fire or in which order
func (s *RoomSession) terminate(reason TerminateReason) {
	s.leaveOnce.Do(func() {

		s.mu.Lock()
		s.terminated = true
		watcher := s.watcher
		failed := s.state == StateFailed
		s.mu.Unlock()

		if watcher != nil {
			watcher.Stop()
		}

		// Release membership. This deliberately does not use a caller's
		// context: the teardown path must fire the leave even when the
		// surrounding flow is already gone.
		if err := s.api.LeaveRoom(context.Background(), s.roomID, s.identity.UserID); err != nil {
			logrus.WithError(err).WithField("room_id", s.roomID).
				Warn("failed to release room membership on exit")
		}

		if !failed {
			s.mu.Lock()
			s.state = StateTerminated
			s.mu.Unlock()
		}
		close(s.done)

		if s.OnTerminated != nil {
			s.OnTerminated(reason)
		}

	})
}
