package websocket

import (
	"sync"

	"ridelink/internal/models"
)

// RoomStore holds chat history per room. The broker's event contract only
// depends on this interface, so a durable message log can replace the
// in-memory store without touching the protocol.
type RoomStore interface {
	// Join creates the room if absent and returns a snapshot of its history.
	Join(roomID string) []models.ChatMessage
	// Append adds a message to an existing room's history. It returns false
	// if the room does not exist; the caller drops the message in that case.
	Append(roomID string, msg models.ChatMessage) bool
	// Drop deletes the room and its history.
	Drop(roomID string)
}

// memoryRoomStore keeps history in process memory only. A room emptied of
// members is dropped together with its history; a later join starts fresh.
type memoryRoomStore struct {
	mu    sync.Mutex
	rooms map[string][]models.ChatMessage
}

func NewMemoryRoomStore() RoomStore {
	return &memoryRoomStore{
		rooms: make(map[string][]models.ChatMessage),
	}
}

func (s *memoryRoomStore) Join(roomID string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, exists := s.rooms[roomID]
	if !exists {
		s.rooms[roomID] = []models.ChatMessage{}
		return nil
	}

	snapshot := make([]models.ChatMessage, len(history))
	copy(snapshot, history)
	return snapshot
}

func (s *memoryRoomStore) Append(roomID string, msg models.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[roomID]; !exists {
		return false
	}

	s.rooms[roomID] = append(s.rooms[roomID], msg)
	return true
}

func (s *memoryRoomStore) Drop(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.rooms, roomID)
}
