// realtime/client.go
package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	logger "github.com/fayhaa-municipality/complaints-api/logging"
	"github.com/fayhaa-municipality/complaints-api/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one websocket subscriber. Clients only receive; anything they
// send besides pings is discarded.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	user *model.User
	send chan []*model.Complaint
}

// Register attaches a connection to the hub and starts its pumps. The initial
// snapshot is buffered before the hub or the pumps ever see the client, so a
// connection that drops immediately cannot race the hub closing the send
// channel.
func (h *Hub) Register(conn *websocket.Conn, user *model.User, initial []*model.Complaint) *Client {
	client := &Client{
		hub:  h,
		conn: conn,
		user: user,
		send: make(chan []*model.Complaint, 4),
	}
	client.send <- initial
	h.register <- client
	go client.writePump()
	go client.readPump()
	return client
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("Unexpected websocket close",
					zap.Error(err),
					zap.String("userID", c.user.ID))
			}
			return
		}
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
		case snapshot, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			payload, err := json.Marshal(snapshot)
			if err != nil {
				logger.Error("Failed to encode snapshot",
					zap.Error(err),
					zap.String("userID", c.user.ID))
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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
