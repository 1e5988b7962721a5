package gateway

import (
	"context"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"chickencoup/broadcast"
	"chickencoup/database"
	"chickencoup/game"
	"chickencoup/models"
	"chickencoup/room"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	pongWait       = 60 * time.Second // 60秒の読み取りデッドライン
	pingPeriod     = 10 * time.Second // 10秒ごとにPingを送信
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	outboxSize     = 64
	maxNameLength  = 32
)

// Sessions is the part of the room registry the gateway drives.
type Sessions interface {
	CreateRoom(code string, creatorID game.ParticipantID, creatorName string, difficulty game.Difficulty) (string, error)
	JoinRoom(code string, id game.ParticipantID, name string) error
	SubmitChoice(id game.ParticipantID, choice game.Choice) error
	ContinueGame(code string, id game.ParticipantID)
	RequestRematch(code string, id game.ParticipantID)
	ExitRoom(code string, id game.ParticipantID)
	ExitAll(id game.ParticipantID)
	SendMessage(code string, senderID game.ParticipantID, text string)
	Directory() []room.RoomSummary
}

// Gateway はWebSocket接続を受け付け、クライアントのイベントをルームに振り分けます。
type Gateway struct {
	sessions Sessions
	hub      *broadcast.Hub
	presence *database.Presence
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func New(sessions Sessions, hub *broadcast.Hub, presence *database.Presence, allowedOrigins []string, logger *zap.Logger) *Gateway {
	return &Gateway{
		sessions: sessions,
		hub:      hub,
		presence: presence,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxNameLength {
		name = string([]rune(name)[:maxNameLength])
	}
	return name
}

// HandleConnections はWebSocket接続へのアップグレードを行います。
func (g *Gateway) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		g.logger.Error("Error upgrading WebSocket", zap.Error(err))
		return
	}

	id := game.NewParticipantID()
	name := cleanName(r.URL.Query().Get("name"))
	if name == "" {
		name = "Player"
	}
	client := models.NewClient(conn, string(id), name, outboxSize)
	g.hub.Register(client)
	g.logger.Info("New client added", zap.String("playerID", client.ParticipantID), zap.String("name", name))

	go g.writePump(client)

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	if err := g.presence.SaveSession(ctx, database.SessionInfo{ParticipantID: client.ParticipantID, Name: name, ConnectedAt: time.Now()}); err != nil {
		g.logger.Warn("Failed to store session", zap.Error(err))
	}
	cancel()

	g.hub.ToParticipant(id, TypeWelcome, WelcomePayload{PlayerID: id})
	g.hub.ToParticipant(id, room.EventRoomUpdated, g.sessions.Directory())

	g.handleClient(client)
}

// handleClient はクライアントからのメッセージを読み取り続けます。戻ると切断処理を行います。
func (g *Gateway) handleClient(client *models.Client) {
	id := game.ParticipantID(client.ParticipantID)
	defer g.disconnect(client)

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Warn("Unexpected close", zap.String("playerID", client.ParticipantID), zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		ev, err := Decode(data)
		if err != nil {
			g.logger.Info("Rejected client frame", zap.String("playerID", client.ParticipantID), zap.Error(err))
			g.hub.ToParticipant(id, TypeError, ErrorPayload{Message: err.Error()})
			continue
		}
		g.dispatch(client, ev)
	}
}

func (g *Gateway) disconnect(client *models.Client) {
	id := game.ParticipantID(client.ParticipantID)
	g.sessions.ExitAll(id)
	g.hub.Unregister(client)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := g.presence.DeleteSession(ctx, client.ParticipantID); err != nil {
		g.logger.Warn("Failed to delete session", zap.Error(err))
	}
	g.logger.Info("Client removed", zap.String("playerID", client.ParticipantID))
}

// writePump がソケットへの唯一の書き込み手です。Ping もここから送ります。
func (g *Gateway) writePump(client *models.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				g.logger.Error("Failed to write message", zap.String("playerID", client.ParticipantID), zap.Error(err))
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				g.logger.Error("Error sending ping", zap.String("playerID", client.ParticipantID), zap.Error(err))
				return
			}
		}
	}
}
