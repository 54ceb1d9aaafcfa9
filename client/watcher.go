package client

import (
	"context"
	"sync"
	"time"

	"github.com/studycircle/studyroom-api/models"
)

// RoomSnapshot is one full-state observation of a room: the room record
// and its roster. Ended is set when the room has been ended or deleted;
// that is the last snapshot a watcher emits.
type RoomSnapshot struct {
	Room         *models.Room
	Participants []*models.Participant
	Ended        bool
	Err          error
}

// RoomWatcher is a long-lived cancellable stream of room snapshots.
// Consumers re-render on each snapshot and must call Stop on teardown; the
// snapshot channel closes once the watcher stops or the room ends.
type RoomWatcher struct {
	api       *Client
	roomID    string
	interval  time.Duration
	snapshots chan RoomSnapshot
	stop      chan struct{}
	stopOnce  sync.Once
}

// WatchRoom starts watching a room, emitting a snapshot immediately and
// then once per interval
func (c *Client) WatchRoom(roomID string, interval time.Duration) *RoomWatcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	w := &RoomWatcher{
		api:       c,
		roomID:    roomID,
		interval:  interval,
		snapshots: make(chan RoomSnapshot, 1),
		stop:      make(chan struct{}),
	}
	go w.run()
	return w
}

// Snapshots is the stream of observations. It closes when the watcher is
// stopped or the room ends.
func (w *RoomWatcher) Snapshots() <-chan RoomSnapshot {
	return w.snapshots
}

// Stop cancels the watcher. Safe to call more than once.
func (w *RoomWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
}

func (w *RoomWatcher) run() {
	defer close(w.snapshots)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		snapshot := w.poll()

		select {
		case w.snapshots <- snapshot:
		case <-w.stop:
			return
		}

		// An ended room is the final observation
		if snapshot.Ended {
			return
		}

		select {
		case <-ticker.C:
		case <-w.stop:
			return
		}
	}
}

// poll takes one observation of the room. Transient errors produce a
// snapshot with Err set and no Ended flag, so a flaky network never looks
// like a deleted room.
func (w *RoomWatcher) poll() RoomSnapshot {

	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	room, err := w.api.GetRoom(ctx, w.roomID)
	if err != nil {
		return RoomSnapshot{Err: err}
	}
	if room == nil || room.Status == models.RoomStatusEnded {
		return RoomSnapshot{Room: room, Ended: true}
	}

	participants, err := w.api.Participants(ctx, w.roomID)
	if err != nil {
		// Roster fetch failed; still a usable room snapshot
		return RoomSnapshot{Room: room, Err: err}
	}
	return RoomSnapshot{Room: room, Participants: participants}

}
