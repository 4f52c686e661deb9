package services

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/luckyfive/lottery-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type hub struct {
	mu      sync.Mutex
	clients map[*Client]bool
}

var statusHub = &hub{clients: make(map[*Client]bool)}

func (h *hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.mu.Unlock()
	logger.Infof("[WS] client connected (total=%d)", total)
}

func (h *hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.Close()
	}
	h.mu.Unlock()
}

func (h *hub) broadcast(msg []byte) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.trySend(msg)
	}
}

// HandleWebSocket upgrades the connection and streams lottery status
// snapshots until the client disconnects.
func HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("[WS] upgrade error: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 32),
	}
	statusHub.add(client)

	go client.writePump()
	go client.readPump()

	// Send the current state right away so clients don't wait for the
	// next purchase.
	if Lottery != nil {
		if status, err := Lottery.Status(0); err == nil {
			if b, err := json.Marshal(status); err == nil {
				client.trySend(b)
			}
		}
	}
}

// BroadcastStatus pushes the public lottery status to all connected
// clients. Called after purchases and draws.
func BroadcastStatus() {
	if Lottery == nil {
		return
	}

	status, err := Lottery.Status(0)
	if err != nil {
		logger.Errorf("[WS] failed to build status broadcast: %v", err)
		return
	}

	b, err := json.Marshal(status)
	if err != nil {
		logger.Errorf("[WS] failed to marshal status broadcast: %v", err)
		return
	}
	statusHub.broadcast(b)
}
