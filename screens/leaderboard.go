package screens

import (
	"context"
	"net/http"
	"strconv"

	"chickencoup/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LeaderboardReader interface {
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// 最近の対戦結果を返すハンドラー。データベースが未設定の場合は 503
func LeaderboardHandler(c *gin.Context, leaderboard LeaderboardReader, logger *zap.Logger) {
	if leaderboard == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard disabled"})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	entries, err := leaderboard.Top(c.Request.Context(), limit)
	if err != nil {
		logger.Error("Failed to load leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
