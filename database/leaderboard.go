package database

import (
	"context"
	"fmt"
	"time"

	"chickencoup/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DefaultLeaderboardLimit = 20
	MaxLeaderboardLimit     = 100
)

// Leaderboard は対戦結果を PostgreSQL に保存します。
type Leaderboard struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewLeaderboard(db *gorm.DB, logger *zap.Logger) *Leaderboard {
	return &Leaderboard{db: db, logger: logger}
}

// RecordGame stores one finished game.
func (l *Leaderboard) RecordGame(ctx context.Context, record models.GameRecord) error {
	entry := record.Entry()
	if err := l.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("record game %s: %w", record.RoomCode, err)
	}
	l.logger.Info("Game recorded",
		zap.String("roomCode", record.RoomCode),
		zap.String("winner", record.WinnerName),
		zap.Uint("entryID", entry.ID),
	)
	return nil
}

// Top returns the most recent results, newest first. limit is clamped to [1, MaxLeaderboardLimit].
func (l *Leaderboard) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		limit = MaxLeaderboardLimit
	}
	var entries []models.LeaderboardEntry
	err := l.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	return entries, nil
}

// PruneOlderThan hard-deletes rows created before now minus age and returns how many went.
func (l *Leaderboard) PruneOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age)
	result := l.db.WithContext(ctx).
		Unscoped().
		Where("created_at < ?", cutoff).
		Delete(&models.LeaderboardEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("prune leaderboard: %w", result.Error)
	}
	return result.RowsAffected, nil
}
