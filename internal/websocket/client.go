package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// writeWait is time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// pongWait is time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// pingPeriod is the interval for sending pings (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is maximum message size allowed from peer
	maxMessageSize = 512
)

// Client message types
const (
	messageJoinWorkspace  = "joinWorkspace"
	messageLeaveWorkspace = "leaveWorkspace"
)

// Authorizer re-runs the membership decision for a channel join. A nil error
// means the user may subscribe to the workspace channel.
type Authorizer interface {
	CanJoin(userID uuid.UUID, workspaceID int32) error
}

// clientMessage is a frame sent by the client
type clientMessage struct {
	Type        string `json:"type"`
	WorkspaceID int32  `json:"workspaceId"`
}

// Client represents a single WebSocket connection owned by an authenticated user
type Client struct {
	id         string
	userID     uuid.UUID
	conn       *websocket.Conn
	hub        *Hub
	authorizer Authorizer
	send       chan []byte
	closed     bool
	mu         sync.RWMutex
	closeOnce  sync.Once
}

// NewClient creates a new WebSocket client for the given user
func NewClient(conn *websocket.Conn, userID uuid.UUID, hub *Hub, authorizer Authorizer) *Client {
	return &Client{
		id:         uuid.New().String(),
		userID:     userID,
		conn:       conn,
		hub:        hub,
		authorizer: authorizer,
		send:       make(chan []byte, 256),
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() string {
	return c.id
}

// UserID returns the authenticated user behind the connection
func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// Send queues a message to be sent to the client
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClientClosed
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer is full, client is too slow
		return ErrClientClosed
	}
}

// Close closes the client connection
// Safe to call multiple times from different goroutines
func (c *Client) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()

		closeErr = c.conn.Close()
	})
	return closeErr
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// ReadPump pumps messages from the WebSocket connection and handles channel
// joins and leaves. This should be run in a goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Remove(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Str("user_id", c.userID.String()).
					Msg("WebSocket unexpected close")
			}
			break
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().
				Err(err).
				Str("client_id", c.id).
				Msg("Ignoring malformed client message")
			continue
		}
		c.handleMessage(msg)
	}
}

// handleMessage dispatches a single client frame. A join always re-runs the
// membership decision: a connection never subscribes to a channel the user is
// not authorized for, no matter how it learned the workspace ID.
func (c *Client) handleMessage(msg clientMessage) {
	switch msg.Type {
	case messageJoinWorkspace:
		if err := c.authorizer.CanJoin(c.userID, msg.WorkspaceID); err != nil {
			log.Debug().
				Err(err).
				Str("client_id", c.id).
				Str("user_id", c.userID.String()).
				Int32("workspace_id", msg.WorkspaceID).
				Msg("Channel join denied")

			if data, err := JoinDenied(msg.WorkspaceID, "not a workspace member").ToJSON(); err == nil {
				_ = c.Send(data)
			}
			return
		}
		c.hub.Subscribe(c, msg.WorkspaceID)

	case messageLeaveWorkspace:
		c.hub.Unsubscribe(c, msg.WorkspaceID)

	default:
		log.Debug().
			Str("client_id", c.id).
			Str("message_type", msg.Type).
			Msg("Ignoring unknown client message type")
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
// This should be run in a goroutine
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed, hub closed this client
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Warn().
					Err(err).
					Str("client_id", c.id).
					Str("user_id", c.userID.String()).
					Msg("WebSocket write error")
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
