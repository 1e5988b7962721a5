package database

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"chickencoup/room"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	sessionTTL      = 24 * time.Hour // 24時間の有効期限
	presenceTimeout = 3 * time.Second
)

// SessionInfo は Redis に保存する接続ごとのセッション情報です。
type SessionInfo struct {
	ParticipantID string    `json:"participantID"`
	Name          string    `json:"name"`
	ConnectedAt   time.Time `json:"connectedAt"`
}

// Presence mirrors connections and the room directory into redis. A nil *Presence or
// one built without a client is valid and does nothing.
type Presence struct {
	rdb    *redis.Client
	logger *zap.Logger

	// pending holds the newest snapshot not yet written; wake signals the flusher.
	mu      sync.Mutex
	pending []room.RoomSummary
	dirty   bool
	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

// NewPresence starts the directory flusher when rdb is set. Call Close at shutdown.
func NewPresence(rdb *redis.Client, logger *zap.Logger) *Presence {
	p := &Presence{
		rdb:     rdb,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	if rdb == nil {
		close(p.stopped)
		return p
	}
	go p.run()
	return p
}

func (p *Presence) enabled() bool { return p != nil && p.rdb != nil }

func (p *Presence) SaveSession(ctx context.Context, info SessionInfo) error {
	if !p.enabled() {
		return nil
	}
	sessionInfoJSON, err := json.Marshal(info)
	if err != nil {
		return err
	}
	// セッションIDとセッション情報をRedisに保存
	if err := p.rdb.Set(ctx, FormatSessionKey(info.ParticipantID), sessionInfoJSON, sessionTTL).Err(); err != nil {
		p.logger.Error("Error storing session info in Redis", zap.Error(err))
		return err
	}
	return nil
}

func (p *Presence) DeleteSession(ctx context.Context, participantID string) error {
	if !p.enabled() {
		return nil
	}
	return p.rdb.Del(ctx, FormatSessionKey(participantID)).Err()
}

// PublishDirectory writes a directory snapshot under DirectoryKey.
func (p *Presence) PublishDirectory(ctx context.Context, directory []room.RoomSummary) error {
	if !p.enabled() {
		return nil
	}
	snapshot, err := json.Marshal(directory)
	if err != nil {
		return err
	}
	return p.rdb.Set(ctx, DirectoryKey, snapshot, 0).Err()
}

// DirectoryChanged implements room.DirectoryObserver. It only records the snapshot;
// a single flusher goroutine writes them in order, skipping superseded ones.
func (p *Presence) DirectoryChanged(directory []room.RoomSummary) {
	if !p.enabled() {
		return
	}
	p.mu.Lock()
	p.pending = directory
	p.dirty = true
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Presence) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.wake:
			p.flush()
		case <-p.done:
			// 終了前に未書き込みのスナップショットを反映
			p.flush()
			return
		}
	}
}

func (p *Presence) flush() {
	p.mu.Lock()
	directory, dirty := p.pending, p.dirty
	p.pending, p.dirty = nil, false
	p.mu.Unlock()
	if !dirty {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := p.PublishDirectory(ctx, directory); err != nil {
		p.logger.Warn("Failed to publish room directory", zap.Error(err))
	}
}

// Close stops the flusher after writing any pending snapshot. Safe to call more than once.
func (p *Presence) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	p.mu.Unlock()
	<-p.stopped
}
