package services

import (
	"sync"

	"github.com/studycircle/studyroom-api/models"
)

// RoomMessageBuffer keeps the most recent messages of a single room, so a
// newly joined subscriber doesn't open the page to an empty chat screen
type RoomMessageBuffer struct {
	MaxLength int
	items     []*models.Message
}

func (buf *RoomMessageBuffer) Push(msg *models.Message) {

	// If there is still room under the max, add it
	if len(buf.items) < buf.MaxLength {
		buf.items = append(buf.items, msg)
		return
	}

	// Move everything over one space
	for i := 1; i < len(buf.items); i++ {
		buf.items[i-1] = buf.items[i]
	}

	// Insert the new message in the last slot
	buf.items[len(buf.items)-1] = msg

}

// Drop removes a message from the buffer by its identifier, so an unsent
// message is not replayed to late joiners
func (buf *RoomMessageBuffer) Drop(messageID string) {
	for i, msg := range buf.items {
		if msg.ID == messageID {
			buf.items = append(buf.items[:i], buf.items[i+1:]...)
			return
		}
	}
}

func (buf *RoomMessageBuffer) GetCopy() []*models.Message {
	items := make([]*models.Message, len(buf.items))
	copy(items, buf.items)
	return items
}

// RoomMessageBufferGroup holds the replay buffers for all rooms
type RoomMessageBufferGroup struct {
	roomBuffers    map[string]*RoomMessageBuffer
	roomBuffersMut sync.RWMutex
}

func (g *RoomMessageBufferGroup) PushMessage(roomID string, msg *models.Message) {

	// Lock on the buffers
	g.roomBuffersMut.Lock()
	defer g.roomBuffersMut.Unlock()

	if g.roomBuffers == nil {
		g.roomBuffers = map[string]*RoomMessageBuffer{}
	}

	// Get the buffer for this room identifier
	buf, ok := g.roomBuffers[roomID]
	if !ok {
		buf = &RoomMessageBuffer{
			MaxLength: 25,
		}
		g.roomBuffers[roomID] = buf
	}

	// Push the message
	buf.Push(msg)

}

func (g *RoomMessageBufferGroup) DropMessage(roomID, messageID string) {
	g.roomBuffersMut.Lock()
	defer g.roomBuffersMut.Unlock()
	if buf, ok := g.roomBuffers[roomID]; ok {
		buf.Drop(messageID)
	}
}

// DropRoom discards the entire buffer of a room that has ended
func (g *RoomMessageBufferGroup) DropRoom(roomID string) {
	g.roomBuffersMut.Lock()
	defer g.roomBuffersMut.Unlock()
	delete(g.roomBuffers, roomID)
}

func (g *RoomMessageBufferGroup) CopyMessages(roomID string) []*models.Message {

	// Lock on the buffers
	g.roomBuffersMut.RLock()
	defer g.roomBuffersMut.RUnlock()

	// Get the buffer for this room identifier
	buf, ok := g.roomBuffers[roomID]
	if !ok {
		return nil
	}

	// Copy the values from the buffer
	return buf.GetCopy()

}
