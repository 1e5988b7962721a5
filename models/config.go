package models

// Config 構造体はサーバー、データベース、Redis の設定情報を保持します。
type Config struct {
	Port           string   `json:"port"`
	LogMode        string   `json:"log_mode"` // "production" または "development"
	AllowedOrigins []string `json:"allowed_origins"`

	DBHost     string `json:"db_host"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBName     string `json:"db_name"`
	DBSSLMode  string `json:"db_sslmode"`

	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// 0 の場合、リーダーボードの行は削除しない
	LeaderboardRetentionDays int `json:"leaderboard_retention_days"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Port:           "8080",
		LogMode:        "production",
		AllowedOrigins: []string{"*"},
		DBSSLMode:      "disable",
	}
}

// LeaderboardEnabled reports whether a database is configured.
func (c Config) LeaderboardEnabled() bool { return c.DBHost != "" }

// PresenceEnabled reports whether a redis server is configured.
func (c Config) PresenceEnabled() bool { return c.RedisAddr != "" }
