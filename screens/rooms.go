package screens

import (
	"errors"
	"net/http"

	"chickencoup/room"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoomDirectory は現在のルーム一覧とルーム内の状態を返します。
type RoomDirectory interface {
	Directory() []room.RoomSummary
	Players(code string) (room.PlayersView, error)
}

// ルーム一覧を返すハンドラー
func RoomsHandler(c *gin.Context, rooms RoomDirectory, logger *zap.Logger) {
	directory := rooms.Directory()
	logger.Debug("Room directory requested", zap.Int("rooms", len(directory)))
	c.JSON(http.StatusOK, directory)
}

// 指定したルームの参加者、ライフ、ログを返すハンドラー
func RoomPlayersHandler(c *gin.Context, rooms RoomDirectory, logger *zap.Logger) {
	code := c.Param("code")
	view, err := rooms.Players(code)
	if errors.Is(err, room.ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	if err != nil {
		logger.Error("Failed to load room", zap.String("roomCode", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
