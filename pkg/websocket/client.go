package websocket

import (
	"encoding/json"
	"time"

	"ridelink/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Client is one websocket connection. A connection may join any number of
// rooms; it is detached from all of them when the read pump exits.
type Client struct {
	hub   *Hub
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]bool
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
		rooms: make(map[string]bool),
	}
}

// enqueue queues a frame for delivery. A full send buffer marks the client
// dead; the caller detaches it so one slow reader cannot stall a room.
func (c *Client) enqueue(frame Frame) bool {
	select {
	case c.send <- encodeFrame(frame):
		return true
	default:
		return false
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Debug("websocket read error")
			}
			break
		}

		c.handleFrame(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleFrame dispatches one inbound frame. Malformed frames are dropped;
// they never tear down the connection or touch other rooms.
func (c *Client) handleFrame(message []byte) {
	var frame Frame
	if err := json.Unmarshal(message, &frame); err != nil {
		c.hub.log.WithError(err).Debug("dropping malformed chat frame")
		return
	}

	switch frame.Event {
	case EventJoinChat:
		if frame.RiderID == "" || frame.UserID == "" {
			return
		}
		c.hub.JoinChat(c, frame.RiderID, frame.UserID)

	case EventSendMessage:
		c.hub.SendMessage(models.ChatMessage{
			RiderID:    frame.RiderID,
			UserID:     frame.UserID,
			Sender:     frame.Sender,
			SenderName: frame.SenderName,
			Message:    frame.Message,
			Timestamp:  frame.Timestamp,
		})

	case EventPing:
		c.enqueue(Frame{Event: EventPong})

	default:
		// Unknown events are ignored.
	}
}
