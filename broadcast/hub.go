package broadcast

import (
	"encoding/json"
	"sync"

	"chickencoup/game"
	"chickencoup/models"

	"go.uber.org/zap"
)

// Hub は接続中のクライアントを参加者IDごとに保持し、イベントを配信します。
// Sends never block: a client whose outbox is full is dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[game.ParticipantID]*models.Client
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[game.ParticipantID]*models.Client),
		logger:  logger,
	}
}

func (h *Hub) Register(client *models.Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[game.ParticipantID(client.ParticipantID)] = client
	h.logger.Debug("Client registered", zap.String("playerID", client.ParticipantID))
}

// Unregister removes the client and closes its outbox.
func (h *Hub) Unregister(client *models.Client) {
	h.mu.Lock()
	id := game.ParticipantID(client.ParticipantID)
	if h.clients[id] == client {
		delete(h.clients, id)
	}
	h.mu.Unlock()
	client.Close()
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Encode builds the wire form of one outbound event.
func Encode(event string, payload interface{}) ([]byte, error) {
	return json.Marshal(models.OutboundFrame{Type: event, Payload: payload})
}

func (h *Hub) ToParticipant(id game.ParticipantID, event string, payload interface{}) {
	h.ToParticipants([]game.ParticipantID{id}, event, payload)
}

func (h *Hub) ToParticipants(ids []game.ParticipantID, event string, payload interface{}) {
	msg, err := Encode(event, payload)
	if err != nil {
		h.logger.Error("Failed to marshal event", zap.String("event", event), zap.Error(err))
		return
	}

	var slow []*models.Client
	h.mu.RLock()
	for _, id := range ids {
		// bots have no connection
		client, ok := h.clients[id]
		if !ok {
			continue
		}
		if !client.Enqueue(msg) {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()
	h.drop(slow, event)
}

func (h *Hub) ToAll(event string, payload interface{}) {
	msg, err := Encode(event, payload)
	if err != nil {
		h.logger.Error("Failed to marshal event", zap.String("event", event), zap.Error(err))
		return
	}

	var slow []*models.Client
	h.mu.RLock()
	for _, client := range h.clients {
		if !client.Enqueue(msg) {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()
	h.drop(slow, event)
}

// drop closes clients that cannot keep up. Their writer closes the socket, which ends
// the read loop and runs the normal disconnect path.
func (h *Hub) drop(clients []*models.Client, event string) {
	for _, client := range clients {
		if client.Closed() {
			continue
		}
		h.logger.Warn("Dropping slow client", zap.String("playerID", client.ParticipantID), zap.String("event", event))
		h.Unregister(client)
	}
}
