package models

import (
	"gorm.io/gorm"
)

// LeaderboardEntry は人間同士の対戦結果を1行として保存します。
type LeaderboardEntry struct {
	gorm.Model
	RoomCode           string `gorm:"index;not null" json:"roomCode"`
	WinningPlayerName  string `gorm:"not null" json:"winningPlayerName"`
	WinningPlayerLives int    `gorm:"not null" json:"winningPlayerLives"`
	LosingPlayerName   string `gorm:"not null" json:"losingPlayerName"`
	LosingPlayerLives  int    `gorm:"not null" json:"losingPlayerLives"`
}

// GameRecord is what a finished game hands to the leaderboard.
type GameRecord struct {
	RoomCode    string
	WinnerName  string
	WinnerLives int
	LoserName   string
	LoserLives  int
}

// Entry converts a finished game into its table row.
func (r GameRecord) Entry() LeaderboardEntry {
	return LeaderboardEntry{
		RoomCode:           r.RoomCode,
		WinningPlayerName:  r.WinnerName,
		WinningPlayerLives: r.WinnerLives,
		LosingPlayerName:   r.LoserName,
		LosingPlayerLives:  r.LoserLives,
	}
}
