package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/roomloop/roomloop/internal/config"
	"github.com/roomloop/roomloop/pkg/log"
)

// Client is one live websocket connection. ID is the opaque connection
// identity handed out at upgrade time; everything above the hub refers to the
// connection by this ID only.
type Client struct {
	ID   string
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	cfg       config.WebSocketConfig
	closeSend sync.Once
}

func NewClient(id string, hub *Hub, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 256
	}
	return &Client{
		ID:   id,
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, cfg.SendBuffer),
		cfg:  cfg,
	}
}

// ReadPump reads inbound events and hands them to handler one at a time, so
// events from a single connection are processed serially, in order. It
// returns when the connection dies or the peer closes.
func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				l := log.L()
				l.Debug().Str(log.FieldConnID, c.ID).Err(err).Msg("websocket read failed")
			}
			break
		}

		handler(c, message)
	}
}

// WritePump drains the send channel onto the connection and keeps the peer
// alive with pings. One writer per connection keeps outbound order stable.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendEvent marshals v and queues it for delivery. Delivery is best-effort:
// a full send buffer drops the event for this connection only.
func (c *Client) SendEvent(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	c.sendRaw(data)
	return nil
}

func (c *Client) sendRaw(data []byte) {
	defer func() {
		// Send may already be closed by Unregister; losing the event is the
		// same outcome as a dead connection.
		recover()
	}()

	select {
	case c.Send <- data:
	default:
		l := log.L()
		l.Debug().Str(log.FieldConnID, c.ID).Msg("send buffer full, dropping event")
	}
}

func (c *Client) close() {
	c.closeSend.Do(func() { close(c.Send) })
}
