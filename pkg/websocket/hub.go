package websocket

import (
	"encoding/json"
	"sync"

	"ridelink/internal/models"
	"ridelink/pkg/logger"
)

// Event names exchanged with clients.
const (
	EventJoinChat       = "join_chat"
	EventSendMessage    = "send_message"
	EventChatHistory    = "chat_history"
	EventReceiveMessage = "receive_message"
	EventPing           = "ping"
	EventPong           = "pong"
)

// Frame is the wire envelope for chat events. Inbound frames carry the room
// pair and message fields inline; outbound frames carry their payload in Data.
type Frame struct {
	Event      string      `json:"event"`
	RiderID    string      `json:"riderId,omitempty"`
	UserID     string      `json:"userId,omitempty"`
	Sender     string      `json:"sender,omitempty"`
	SenderName string      `json:"senderName,omitempty"`
	Message    string      `json:"message,omitempty"`
	Timestamp  int64       `json:"timestamp,omitempty"`
	Data       interface{} `json:"data,omitempty"`
}

// Hub rooms connections by (rider, customer) pair and relays messages between
// them. Room membership and history mutate only under the hub lock, so each
// room observes messages in a single order.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Client]bool
	store RoomStore
	log   *logger.Logger
}

func NewHub(store RoomStore, log *logger.Logger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
		store: store,
		log:   log,
	}
}

// JoinChat adds the client to the room for (riderID, userID), creating it on
// first join, and replays the room's history to the joining client only.
func (h *Hub) JoinChat(c *Client, riderID, userID string) {
	roomID := riderID + "_" + userID

	h.mu.Lock()
	history := h.store.Join(roomID)
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][c] = true
	c.rooms[roomID] = true
	h.mu.Unlock()

	if history == nil {
		history = []models.ChatMessage{}
	}
	c.enqueue(Frame{Event: EventChatHistory, Data: history})

	h.log.WithField("room_id", roomID).Debug("client joined chat room")
}

// SendMessage appends the message to its room's history and broadcasts it to
// every member, sender included. Messages for rooms nobody has joined are
// dropped silently.
func (h *Hub) SendMessage(msg models.ChatMessage) {
	roomID := msg.RoomID()

	h.mu.Lock()
	defer h.mu.Unlock()

	members, exists := h.rooms[roomID]
	if !exists {
		return
	}
	if !h.store.Append(roomID, msg) {
		return
	}

	frame := Frame{Event: EventReceiveMessage, Data: msg}
	for client := range members {
		if !client.enqueue(frame) {
			h.removeLocked(client)
		}
	}
}

// Disconnect removes the client from every room it joined. Rooms left without
// members are deleted along with their history.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	for roomID := range c.rooms {
		if members, exists := h.rooms[roomID]; exists {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, roomID)
				h.store.Drop(roomID)
				h.log.WithField("room_id", roomID).Debug("empty chat room dropped")
			}
		}
	}
	c.rooms = make(map[string]bool)
}

// RoomSize reports the current member count of a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}

func encodeFrame(frame Frame) []byte {
	data, _ := json.Marshal(frame)
	return data
}
