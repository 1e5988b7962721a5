package models

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// Frame はクライアントとの間でやり取りされるメッセージの形式です。
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutboundFrame is a frame whose payload has not been encoded yet.
type OutboundFrame struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Websocketクライアントを定義
type Client struct {
	Conn          *websocket.Conn
	ParticipantID string // 接続ごとに発行される一時的なID
	Name          string
	SessionID     string // Redis のセッションキー

	Send chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn, participantID, name string, buffer int) *Client {
	return &Client{
		Conn:          conn,
		ParticipantID: participantID,
		Name:          name,
		Send:          make(chan []byte, buffer),
	}
}

// Enqueue hands a frame to the writer goroutine without blocking. It returns false when
// the outbox is full or the client is already closed.
func (c *Client) Enqueue(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// Close stops the outbox. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

func (c *Client) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
