package websocket

import (
	"encoding/json"
	"fmt"
	"testing"

	"ridelink/internal/models"
	"ridelink/pkg/logger"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: "error", Format: "text", Output: "stderr"})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return NewHub(NewMemoryRoomStore(), log)
}

type receivedFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// popFrame pulls the next queued frame off the client without blocking.
func popFrame(t *testing.T, c *Client) receivedFrame {
	t.Helper()
	select {
	case raw := <-c.send:
		var frame receivedFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			t.Fatalf("failed to decode frame %q: %v", raw, err)
		}
		return frame
	default:
		t.Fatal("no frame queued")
		return receivedFrame{}
	}
}

func pendingFrames(c *Client) int {
	return len(c.send)
}

func historyFrom(t *testing.T, frame receivedFrame) []models.ChatMessage {
	t.Helper()
	if frame.Event != EventChatHistory {
		t.Fatalf("event = %q, want %q", frame.Event, EventChatHistory)
	}
	var history []models.ChatMessage
	if err := json.Unmarshal(frame.Data, &history); err != nil {
		t.Fatalf("failed to decode history: %v", err)
	}
	return history
}

func chatMessage(i int) models.ChatMessage {
	return models.ChatMessage{
		RiderID:    "rider1",
		UserID:     "user1",
		Sender:     "customer",
		SenderName: "Alice",
		Message:    fmt.Sprintf("message %d", i),
		Timestamp:  int64(1700000000 + i),
	}
}

func TestJoinReplaysEmptyHistory(t *testing.T) {
	hub := newTestHub(t)
	client := NewClient(hub, nil)

	hub.JoinChat(client, "rider1", "user1")

	history := historyFrom(t, popFrame(t, client))
	if len(history) != 0 {
		t.Errorf("fresh room history = %d messages, want 0", len(history))
	}
	if hub.RoomSize("rider1_user1") != 1 {
		t.Errorf("room size = %d, want 1", hub.RoomSize("rider1_user1"))
	}
}

func TestHistoryReplayedToJoinerOnly(t *testing.T) {
	hub := newTestHub(t)
	first := NewClient(hub, nil)
	hub.JoinChat(first, "rider1", "user1")
	popFrame(t, first) // initial empty history

	hub.SendMessage(chatMessage(1))
	hub.SendMessage(chatMessage(2))

	// Drain the sender's broadcast copies.
	popFrame(t, first)
	popFrame(t, first)

	second := NewClient(hub, nil)
	hub.JoinChat(second, "rider1", "user1")

	history := historyFrom(t, popFrame(t, second))
	if len(history) != 2 {
		t.Fatalf("history = %d messages, want 2", len(history))
	}
	if history[0].Message != "message 1" || history[1].Message != "message 2" {
		t.Errorf("history out of order: %q then %q", history[0].Message, history[1].Message)
	}

	// The earlier member must not receive another history replay.
	if pendingFrames(first) != 0 {
		t.Errorf("first client has %d unexpected frames", pendingFrames(first))
	}
}

func TestBroadcastReachesAllMembersIncludingSender(t *testing.T) {
	hub := newTestHub(t)
	sender := NewClient(hub, nil)
	other := NewClient(hub, nil)
	hub.JoinChat(sender, "rider1", "user1")
	hub.JoinChat(other, "rider1", "user1")
	popFrame(t, sender)
	popFrame(t, other)

	hub.SendMessage(chatMessage(1))

	for _, client := range []*Client{sender, other} {
		frame := popFrame(t, client)
		if frame.Event != EventReceiveMessage {
			t.Errorf("event = %q, want %q", frame.Event, EventReceiveMessage)
		}
		var msg models.ChatMessage
		if err := json.Unmarshal(frame.Data, &msg); err != nil {
			t.Fatalf("failed to decode message: %v", err)
		}
		if msg.Message != "message 1" || msg.SenderName != "Alice" {
			t.Errorf("payload = %+v", msg)
		}
	}
}

func TestMessageWithoutRoomDroppedSilently(t *testing.T) {
	hub := newTestHub(t)
	bystander := NewClient(hub, nil)
	hub.JoinChat(bystander, "rider2", "user2")
	popFrame(t, bystander)

	hub.SendMessage(chatMessage(1)) // room rider1_user1 has no members

	if pendingFrames(bystander) != 0 {
		t.Error("message for an unjoined room leaked to another room")
	}

	// The room still does not exist afterwards.
	if hub.RoomSize("rider1_user1") != 0 {
		t.Error("dropped message created a room")
	}
}

func TestMessagesAccumulateInOrder(t *testing.T) {
	hub := newTestHub(t)
	client := NewClient(hub, nil)
	hub.JoinChat(client, "rider1", "user1")
	popFrame(t, client)

	const n = 10
	for i := 0; i < n; i++ {
		hub.SendMessage(chatMessage(i))
		popFrame(t, client)
	}

	late := NewClient(hub, nil)
	hub.JoinChat(late, "rider1", "user1")
	history := historyFrom(t, popFrame(t, late))

	if len(history) != n {
		t.Fatalf("history = %d messages, want %d", len(history), n)
	}
	for i, msg := range history {
		if msg.Message != fmt.Sprintf("message %d", i) {
			t.Fatalf("position %d holds %q", i, msg.Message)
		}
	}
}

func TestEmptyRoomDropsHistory(t *testing.T) {
	hub := newTestHub(t)
	client := NewClient(hub, nil)
	hub.JoinChat(client, "rider1", "user1")
	popFrame(t, client)

	hub.SendMessage(chatMessage(1))
	popFrame(t, client)

	hub.Disconnect(client)

	if hub.RoomSize("rider1_user1") != 0 {
		t.Fatal("room survived last member leaving")
	}

	rejoining := NewClient(hub, nil)
	hub.JoinChat(rejoining, "rider1", "user1")
	history := historyFrom(t, popFrame(t, rejoining))
	if len(history) != 0 {
		t.Errorf("rejoin found %d messages, want fresh empty room", len(history))
	}
}

func TestDisconnectKeepsRoomForRemainingMembers(t *testing.T) {
	hub := newTestHub(t)
	leaver := NewClient(hub, nil)
	stayer := NewClient(hub, nil)
	hub.JoinChat(leaver, "rider1", "user1")
	hub.JoinChat(stayer, "rider1", "user1")
	popFrame(t, leaver)
	popFrame(t, stayer)

	hub.SendMessage(chatMessage(1))
	popFrame(t, leaver)
	popFrame(t, stayer)

	hub.Disconnect(leaver)

	if hub.RoomSize("rider1_user1") != 1 {
		t.Fatalf("room size = %d, want 1", hub.RoomSize("rider1_user1"))
	}

	// History survives while the room has members.
	late := NewClient(hub, nil)
	hub.JoinChat(late, "rider1", "user1")
	history := historyFrom(t, popFrame(t, late))
	if len(history) != 1 {
		t.Errorf("history = %d messages, want 1", len(history))
	}
}

func TestMalformedFramesIgnored(t *testing.T) {
	hub := newTestHub(t)
	client := NewClient(hub, nil)

	client.handleFrame([]byte("not json at all"))
	client.handleFrame([]byte(`{"no_event":"here"}`))
	client.handleFrame([]byte(`{"event":"join_chat"}`)) // missing room pair
	client.handleFrame([]byte(`{"event":"unknown_event"}`))

	if pendingFrames(client) != 0 {
		t.Errorf("malformed frames produced %d responses", pendingFrames(client))
	}
	if len(hub.rooms) != 0 {
		t.Error("malformed frames created rooms")
	}
}

func TestPingAnsweredWithPong(t *testing.T) {
	hub := newTestHub(t)
	client := NewClient(hub, nil)

	client.handleFrame([]byte(`{"event":"ping"}`))

	frame := popFrame(t, client)
	if frame.Event != EventPong {
		t.Errorf("event = %q, want %q", frame.Event, EventPong)
	}
}
