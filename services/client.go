package services

import (
	"sync"

	"github.com/luckyfive/lottery-backend/utils/logger"

	"github.com/gorilla/websocket"
)

type Client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.send)
		c.conn.Close()
	})
}

// trySend queues msg without blocking. A client disconnecting in parallel
// may have closed send already, so a racing broadcast must not take the
// sender down with it.
func (c *Client) trySend(msg []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debugf("[WS] send to closed client: %v", r)
		}
	}()

	select {
	case c.send <- msg:
	default:
		logger.Warnf("[WS] dropping status update, slow client")
	}
}

// readPump drains incoming messages to keep the connection alive and
// detaches the client when it disconnects.
func (c *Client) readPump() {
	defer statusHub.remove(c)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("[WS] client disconnected")
			} else {
				logger.Debugf("[WS] read error: %v", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Debugf("[WS] write error: %v", err)
			return
		}
	}
}
