package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	apirest "github.com/mireuk/gameledger/api/rest"
	"github.com/mireuk/gameledger/audit"
	"github.com/mireuk/gameledger/cache"
	"github.com/mireuk/gameledger/config"
	dbadapter "github.com/mireuk/gameledger/db"
	"github.com/mireuk/gameledger/game/catalog"
	"github.com/mireuk/gameledger/game/economy"
	mw "github.com/mireuk/gameledger/middleware"
	"github.com/mireuk/gameledger/model"
	"github.com/mireuk/gameledger/scheduler"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Server.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	// Warn loudly if the catalog write surface will be disabled.
	if cfg.Server.AdminKey == "" {
		logger.Warn("server.admin_key is not set; item admin endpoints are disabled")
	}

	// ---- Database ----
	db, err := dbadapter.Open(cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	logger.Info("DB initialized")

	// ---- Cache ----
	c, err := cache.New(cache.Config{
		RedisAddr:       cfg.Cache.RedisAddr,
		RedisPassword:   cfg.Cache.RedisPassword,
		RedisDB:         cfg.Cache.RedisDB,
		LocalGCInterval: cfg.Cache.LocalGCInterval,
	})
	if err != nil {
		log.Fatalf("cache: %v", err)
	}
	logger.Info("Cache initialized")

	// ---- Audit ----
	auditSvc := audit.New(db, logger)
	defer auditSvc.Stop(nil)

	// ---- Domain services ----
	ecoSvc := economy.NewService(db, c, cfg.Game, logger)
	catSvc := catalog.NewService(db, c, logger)

	// ---- Scheduler ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	sched.AddTicker("stat_verify", cfg.Game.VerifyInterval, func() {
		if _, err := ecoSvc.VerifyStats(context.Background()); err != nil {
			logger.Error("stat verify sweep failed", zap.Error(err))
		}
	})

	// ---- Gin HTTP server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// ---- REST API routes ----
	authH := apirest.NewAuthHandler(db, c, cfg.Security)
	userH := apirest.NewUserHandler(db)
	charH := apirest.NewCharacterHandler(db, c, cfg.Game, cfg.Security, logger)
	itemH := apirest.NewItemHandler(catSvc, logger)
	invH := apirest.NewInventoryHandler(db, logger)
	equipH := apirest.NewEquipmentHandler(db, ecoSvc, auditSvc, logger)
	tradeH := apirest.NewTradingHandler(ecoSvc, auditSvc, logger)

	api := r.Group("/api")
	{
		authG := api.Group("/auth")
		authG.POST("/sign-up", authH.SignUp)
		authG.POST("/sign-in", authH.SignIn)
		authG.POST("/sign-out", mw.Auth(cfg.Security, c), authH.SignOut)

		api.GET("/users", mw.Auth(cfg.Security, c), userH.Me)

		itemsG := api.Group("/items")
		itemsG.GET("", itemH.List)
		itemsG.GET("/:code", itemH.Get)
		adminG := itemsG.Group("", apirest.AdminAuth(cfg.Server.AdminKey))
		adminG.POST("", itemH.Create)
		adminG.PATCH("/:code", itemH.Update)

		charsG := api.Group("/characters")
		charsG.POST("", mw.Auth(cfg.Security, c), charH.Create)
		charsG.GET("/:id", charH.Detail)
		charsG.GET("/:id/equipment", equipH.List)

		ownedG := charsG.Group("/:id", mw.Auth(cfg.Security, c), mw.CharacterAuth(db))
		ownedG.DELETE("", charH.Delete)
		ownedG.GET("/inventory", invH.List)
		ownedG.POST("/equip", equipH.Equip)
		ownedG.POST("/unequip", equipH.Unequip)
		ownedG.POST("/buy", tradeH.Buy)
		ownedG.POST("/sell", tradeH.Sell)
		ownedG.POST("/earn", tradeH.Earn)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
