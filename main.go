package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"chickencoup/broadcast" //接続中クライアントへのイベント配信
	"chickencoup/database"  //設定読み込み、PostgreSQLとRedisの初期化
	"chickencoup/gateway"   //WebSocket接続とイベントの振り分け
	"chickencoup/room"      //ルームと対戦の状態管理
	"chickencoup/screens"   //ルーム一覧やリーダーボードのHTTPハンドラー
	"chickencoup/utils"     //ロガーの初期化とCronジョブ

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// .env があれば環境変数として読み込む
	envErr := godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}
	config, configErr := database.LoadConfig(configPath)

	logMode := config.LogMode
	if v := os.Getenv("LOG_MODE"); v != "" {
		logMode = v
	}
	logger, err := utils.InitLogger(logMode) // ロガーの初期化
	if err != nil {
		panic(err) // 失敗した場合はプログラム停止
	}
	defer logger.Sync() // ロガーのクリーンアップ

	if envErr != nil {
		logger.Info("No .env file loaded", zap.Error(envErr))
	}
	if configErr != nil {
		logger.Fatal("設定ファイルの読み込みに失敗しました", zap.String("path", configPath), zap.Error(configErr))
	}
	config = database.ApplyEnv(config, logger)

	// 非同期でPostgreSQLとRedisの初期化
	var db *gorm.DB
	var rdb *redis.Client
	done := make(chan bool)

	go func() {
		defer func() { done <- true }()
		if !config.LeaderboardEnabled() {
			logger.Info("DB_HOST is not set, leaderboard disabled")
			return
		}
		conn, err := database.InitPostgreSQL(config, logger)
		if err != nil {
			logger.Fatal("PostgreSQLの初期化に失敗しました", zap.Error(err))
		}
		if err := database.Migrate(conn); err != nil {
			logger.Fatal("マイグレーションに失敗しました", zap.Error(err))
		}
		db = conn
	}()

	go func() {
		defer func() { done <- true }()
		if !config.PresenceEnabled() {
			logger.Info("REDIS_ADDR is not set, presence disabled")
			return
		}
		client, err := database.InitRedis(config, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		rdb = client
	}()

	// 2つの初期化が完了するのを待つ
	<-done
	<-done

	var sink room.LeaderboardSink = room.NopSink{}
	var leaderboardReader screens.LeaderboardReader
	cronJobs := utils.CronJobs{RetentionDays: config.LeaderboardRetentionDays}
	if db != nil {
		leaderboard := database.NewLeaderboard(db, logger)
		sink = leaderboard
		leaderboardReader = leaderboard
		cronJobs.Leaderboard = leaderboard
	}

	presence := database.NewPresence(rdb, logger)
	hub := broadcast.NewHub(logger)
	registry := room.NewRegistry(hub, sink, logger, room.WithDirectoryObserver(presence))
	gw := gateway.New(registry, hub, presence, config.AllowedOrigins, logger)

	if rdb != nil {
		cronJobs.Presence = presence
		cronJobs.Directory = registry.Directory
	}
	// クーロンスケジューラのセットアップと呼び出し
	scheduler, err := utils.StartCron(cronJobs, logger)
	if err != nil {
		logger.Fatal("Failed to start cron jobs", zap.Error(err))
	}

	if logMode != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	//リクエストロガーを起動
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	//CORS（Cross-Origin Resource Sharing）ポリシーを設定
	router.Use(cors.New(corsConfig(config.AllowedOrigins)))

	//各HTTPリクエストのルーティング
	router.GET("/rooms", func(c *gin.Context) {
		screens.RoomsHandler(c, registry, logger)
	})
	router.GET("/rooms/:code/players", func(c *gin.Context) {
		screens.RoomPlayersHandler(c, registry, logger)
	})
	router.GET("/leaderboard", func(c *gin.Context) {
		screens.LeaderboardHandler(c, leaderboardReader, logger)
	})
	router.GET("/healthz", screens.Healthz)
	router.GET("/ws", func(c *gin.Context) {
		gw.HandleConnections(c.Writer, c.Request)
	})

	srv := &http.Server{
		Addr:    ":" + config.Port,
		Handler: router,
	}
	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	<-scheduler.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
	presence.Close()
	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
