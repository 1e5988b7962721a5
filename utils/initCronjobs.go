package utils

import (
	"context"
	"time"

	"chickencoup/room"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type LeaderboardPruner interface {
	PruneOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

type DirectoryPublisher interface {
	PublishDirectory(ctx context.Context, directory []room.RoomSummary) error
}

// CronJobs は定期実行するジョブの依存関係をまとめたものです。nil のものは登録しません。
type CronJobs struct {
	Leaderboard   LeaderboardPruner
	RetentionDays int
	Directory     func() []room.RoomSummary
	Presence      DirectoryPublisher
}

// StartCron registers the jobs and starts the scheduler. Call Stop on the result at shutdown.
func StartCron(jobs CronJobs, logger *zap.Logger) (*cron.Cron, error) {
	c := cron.New()

	if jobs.Leaderboard != nil && jobs.RetentionDays > 0 {
		// 保存期間を過ぎたリーダーボードの行を削除するジョブ（毎日実行）
		if _, err := c.AddFunc("@daily", func() { pruneLeaderboard(jobs, logger) }); err != nil {
			return nil, err
		}
	}

	if jobs.Presence != nil && jobs.Directory != nil {
		// Redis のルーム一覧スナップショットを定期的に書き直す
		if _, err := c.AddFunc("@every 1m", func() { publishDirectory(jobs, logger) }); err != nil {
			return nil, err
		}
	}

	c.Start()
	return c, nil
}

func pruneLeaderboard(jobs CronJobs, logger *zap.Logger) {
	logger.Info("リーダーボードの古い記録を削除する処理を開始")
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	age := time.Duration(jobs.RetentionDays) * 24 * time.Hour
	n, err := jobs.Leaderboard.PruneOlderThan(ctx, age)
	if err != nil {
		logger.Error("リーダーボードの削除に失敗しました", zap.Error(err))
		return
	}
	logger.Info("リーダーボードの削除完了", zap.Int64("rows_deleted", n))
}

func publishDirectory(jobs CronJobs, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := jobs.Presence.PublishDirectory(ctx, jobs.Directory()); err != nil {
		logger.Warn("Failed to refresh room directory snapshot", zap.Error(err))
	}
}
