package main

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/exotiicpro1-sg/Familia-Ranked/config"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/ledger"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/match"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/middleware"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/provision"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/queue"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/storage"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/utils"
	"github.com/exotiicpro1-sg/Familia-Ranked/internal/websocket"
)

func main() {
	config.Load()
	utils.Init()

	//-------------------------------------------------------
	// 1. Storage
	//-------------------------------------------------------
	if err := storage.InitPostgres(config.C.Database.DSN); err != nil {
		utils.Error.Fatalf("Postgres init failed: %v", err)
	}
	if config.C.Queue.Backend == "redis" {
		if err := storage.InitRedis(
			config.C.Redis.Addr,
			config.C.Redis.Password,
			config.C.Redis.DB,
		); err != nil {
			utils.Error.Fatalf("Redis init failed: %v", err)
		}
	}

	//-------------------------------------------------------
	// 2. Gin + CORS
	//-------------------------------------------------------
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	//-------------------------------------------------------
	// 3. Hub (started before anything can broadcast)
	//-------------------------------------------------------
	hub := websocket.NewHub()
	go hub.Run()

	//-------------------------------------------------------
	// 4. Provision dispatcher (room creation/cleanup worker)
	//-------------------------------------------------------
	dispatcher := provision.NewDispatcher(provision.NoopProvisioner{}, 64)
	go dispatcher.Run()

	//-------------------------------------------------------
	// 5. Ledger + match lifecycle
	//-------------------------------------------------------
	formats := config.FormatMap()
	players := ledger.NewPostgresStore(storage.DB)
	matches := match.NewPostgresStore(storage.DB)

	matchSvc := match.NewService(matches, players, formats, hub, dispatcher)
	matchSvc.CleanupGrace = time.Duration(config.C.Match.CleanupGraceSeconds) * time.Second
	matchSvc.CodeAttempts = config.C.Match.CodeAttempts
	dispatcher.OnProvisioned = matchSvc.AttachHandles

	//-------------------------------------------------------
	// 6. Queue manager
	//-------------------------------------------------------
	var repo queue.Repo
	if config.C.Queue.Backend == "redis" {
		repo = queue.NewRedisRepo(storage.Rdb)
	} else {
		repo = queue.NewMemoryRepo()
	}
	queueSvc := queue.NewService(repo, formats, players, config.C.Queue.TTLSeconds, hub)

	queueSvc.OnMatchReady = func(b queue.Batch) {
		if _, err := matchSvc.Create(storage.Ctx, b.Format, b.TeamA, b.TeamB); err != nil {
			utils.Error.Printf("create match from %s batch: %v", b.Format, err)
		}
	}

	//-------------------------------------------------------
	// 7. Routes
	//-------------------------------------------------------
	secret := []byte(config.C.JWT.Secret)
	auth := r.Group("/", middleware.JwtAuthMiddleware(secret))
	{
		auth.GET("/ws", websocket.ServeWS(hub))

		qh := queue.NewHandler(queueSvc)
		auth.POST("/queue/join", qh.Join)
		auth.POST("/queue/leave", qh.Leave)
		auth.GET("/queue", qh.Snapshot)

		mh := match.NewHandler(matchSvc)
		auth.POST("/match/report", mh.Report)
		auth.GET("/match/:code", mh.Get)

		lh := ledger.NewHandler(players)
		auth.GET("/stats", lh.Stats)
		auth.GET("/leaderboard", lh.Leaderboard)

		admin := auth.Group("/", middleware.RequireAdmin())
		admin.POST("/match/force", mh.ForceReport)
		admin.POST("/match/void", mh.Void)
		admin.POST("/admin/adjust", lh.AdjustRating)
	}

	//-------------------------------------------------------
	// 8. Serve
	//-------------------------------------------------------
	utils.Print.Info("ladder up", "port", config.C.Server.Port, "formats", len(formats), "queue", config.C.Queue.Backend)
	r.Run(config.C.Server.Port)
}
