package models

// ChatMessage is one entry in a chat room's history. Rooms and their history
// live only in broker memory; nothing here is persisted.
type ChatMessage struct {
	RiderID    string `json:"riderId"`
	UserID     string `json:"userId"`
	Sender     string `json:"sender"`
	SenderName string `json:"senderName"`
	Message    string `json:"message"`
	Timestamp  int64  `json:"timestamp"`
}

// RoomID computes the room key for a (rider, customer) pair.
func (m ChatMessage) RoomID() string {
	return m.RiderID + "_" + m.UserID
}
