package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/studycircle/studyroom-api/services"
)

var (
	// ErrNotAuthenticated means the caller tried to join without a
	// resolved identity. No request is sent in that case.
	ErrNotAuthenticated = errors.New("user is not authenticated")

	// ErrJoinDeclined means the user declined to leave their current room
	ErrJoinDeclined = errors.New("user declined to switch rooms")
)

// SwitchIncompleteError reports the one partial-failure case of a room
// switch: the leave succeeded but the join was rejected. The guard
// attempts to re-associate the user with their previous room; Recovered
// tells the caller whether that worked, so the UI can say either "please
// retry joining" or "you are currently in no room".
type SwitchIncompleteError struct {
	PreviousRoomID string
	Recovered      bool
	Err            error
}

func (e *SwitchIncompleteError) Error() string {
	if e.Recovered {
		return fmt.Sprintf("left the previous room, but joining the new one failed (returned to previous room): %v", e.Err)
	}
	return fmt.Sprintf("left the previous room, but joining the new one failed: %v", e.Err)
}

func (e *SwitchIncompleteError) Unwrap() error {
	return e.Err
}

// ConfirmSwitchFunc asks the user whether to leave their current room to
// join the target. The guard never switches without explicit consent.
type ConfirmSwitchFunc func(currentRoomID, targetRoomID string) bool

// JoinResolution is the outcome of a resolved join: the room the caller
// can now navigate into, and how it got there
type JoinResolution struct {
	RoomID        string
	AlreadyMember bool
	Switched      bool
}

// MembershipGuard decides, before allowing entry into a room, whether the
// acting user already holds membership elsewhere, and resolves the
// conflict deterministically. A user may be an active participant in at
// most one room at a time.
type MembershipGuard struct {
	API *Client
}

// CheckAndResolveJoin resolves a user's intent to join targetRoomID.
//
// Not in any room: join directly. Already in the target: short-circuit
// success without a duplicate join call. In a different room: require
// explicit consent via confirm, then leave the old room strictly before
// joining the new one. If the leave fails the join is never attempted. If
// the leave succeeds and the join fails, the guard tries to rejoin the old
// room and reports a SwitchIncompleteError either way.
//
// There are no automatic retries: a failure is reported and the user must
// re-initiate.
func (g *MembershipGuard) CheckAndResolveJoin(
	ctx context.Context,
	user *services.ParticipantInfo,
	targetRoomID string,
	confirm ConfirmSwitchFunc,
) (*JoinResolution, error) {

	// Joining requires a resolved identity
	if user == nil || len(user.UserID) == 0 {
		return nil, ErrNotAuthenticated
	}

	// Ask the membership source where the user currently is
	status, err := g.API.RoomStatus(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	// Not in any room: proceed directly to join
	if !status.IsInRoom {
		if err := g.API.JoinRoom(ctx, targetRoomID, user); err != nil {
			return nil, err
		}
		return &JoinResolution{RoomID: targetRoomID}, nil
	}

	// Already in the target room: treat as already-joined
	if status.RoomID == targetRoomID {
		return &JoinResolution{RoomID: targetRoomID, AlreadyMember: true}, nil
	}

	// In a different room: never auto-switch
	if confirm == nil || !confirm(status.RoomID, targetRoomID) {
		return nil, ErrJoinDeclined
	}

	// Leave the old room strictly before joining the new one
	if err := g.API.LeaveRoom(ctx, status.RoomID, user.UserID); err != nil {
		return nil, err
	}
	if err := g.API.JoinRoom(ctx, targetRoomID, user); err != nil {
		// Best effort to put the user back where they were
		recovered := g.API.JoinRoom(ctx, status.RoomID, user) == nil
		return nil, &SwitchIncompleteError{
			PreviousRoomID: status.RoomID,
			Recovered:      recovered,
			Err:            err,
		}
	}
	return &JoinResolution{RoomID: targetRoomID, Switched: true}, nil

}
