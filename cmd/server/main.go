package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ShoeEdge/config"
	"ShoeEdge/internal/advisor"
	"ShoeEdge/internal/auth"
	"ShoeEdge/internal/game/manager"
	"ShoeEdge/internal/game/strategy"
	"ShoeEdge/internal/game/table"
	"ShoeEdge/internal/middleware"
	"ShoeEdge/internal/storage"
	"ShoeEdge/internal/utils"
	"ShoeEdge/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	if err := config.Load(*cfgPath); err != nil {
		utils.Log.Fatal("config load failed", "err", err)
	}
	utils.Init(config.C.Log.Level)
	if config.C.JWT.Secret == "" {
		utils.Log.Fatal("jwt.secret is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//-------------------------------------------------------
	// 1. 存储：Redis 存 nonce，Postgres 存登录台账；未配置则用内存
	//-------------------------------------------------------
	nonces := auth.NewMemoryNonceRepo()
	if config.C.Redis.Addr != "" {
		rdb, err := storage.InitRedis(ctx, config.C.Redis.Addr, config.C.Redis.Password, config.C.Redis.DB)
		if err != nil {
			utils.Log.Fatal("redis init failed", "err", err)
		}
		defer rdb.Close()
		nonces = auth.NewRedisNonceRepo(rdb)
	}

	accounts := auth.NewMemoryAccountRepo()
	if config.C.Database.DSN != "" {
		db, err := storage.InitPostgres(ctx, config.C.Database.DSN)
		if err != nil {
			utils.Log.Fatal("postgres init failed", "err", err)
		}
		defer db.Close()
		if err := auth.MigrateAccounts(ctx, db); err != nil {
			utils.Log.Fatal("login ledger migration failed", "err", err)
		}
		accounts = auth.NewPostgresAccountRepo(db)
	}

	//-------------------------------------------------------
	// 2. Hub（必须最先启动）+ GameManager
	//-------------------------------------------------------
	hub := websocket.NewHub()
	gameMgr := manager.NewGameManager(hub, defaultTable(config.C))
	hub.OnIncoming = gameMgr.HandlePlayerMessage
	go hub.Run()

	//-------------------------------------------------------
	// 3. Gin + CORS + 路由
	//-------------------------------------------------------
	if config.C.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if origins := config.C.Server.AllowedOrigins; len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": gameMgr.Count()})
	})

	authHandler := auth.NewHandler(nonces, accounts, []byte(config.C.JWT.Secret), config.C.JWT.TTL)
	authGroup := r.Group("/auth")
	{
		authGroup.GET("/nonce", authHandler.Nonce)
		authGroup.POST("/nonce", authHandler.Nonce)
		authGroup.POST("/login", authHandler.Login)
	}

	secret := []byte(config.C.JWT.Secret)
	protected := r.Group("/", middleware.JwtAuthMiddleware(secret))
	{
		protected.GET("/ws", websocket.ServeWS(hub, config.C.Server.AllowedOrigins...))
		protected.GET("/auth/me", authHandler.Me)
		advisor.NewHandler(advisor.NewService(gameMgr)).Register(protected)
	}

	//-------------------------------------------------------
	// 4. 启动服务器，收到信号后优雅退出
	//-------------------------------------------------------
	srv := &http.Server{
		Addr:              config.C.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		utils.Log.Info("server running", "addr", config.C.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Log.Fatal("server failed", "err", err)
		}
	}()

	<-ctx.Done()
	utils.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Log.Error("server shutdown", "err", err)
	}
	gameMgr.Shutdown()
	hub.Close()
}

func defaultTable(c config.Config) table.Table {
	return table.Table{
		Decks: c.Table.Decks,
		Rules: strategy.Rules{
			CanDouble:    c.Table.CanDouble,
			CanSplit:     c.Table.CanSplit,
			CanSurrender: c.Table.CanSurrender,
		},
		Bankroll:      c.Betting.Bankroll,
		EdgeThreshold: c.Betting.EdgeThreshold,
	}
}
