package websocket

import (
	"net/http"

	"ridelink/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Configure properly in production
	},
}

// Handler upgrades HTTP connections into chat broker clients.
type Handler struct {
	hub *Hub
	log *logger.Logger
}

func NewHandler(log *logger.Logger) *Handler {
	return &Handler{
		hub: NewHub(NewMemoryRoomStore(), log),
		log: log,
	}
}

func (h *Handler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := NewClient(h.hub, conn)

	go client.writePump()
	go client.readPump()
}
