package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"crashpilot/config"
	"crashpilot/controllers"
	"crashpilot/db"
	"crashpilot/game"
	"crashpilot/models"
	"crashpilot/routes"
	"crashpilot/wallet"
	"crashpilot/websocket"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	hub := models.NewHub()
	go hub.Run()

	var w wallet.Wallet
	var mem *wallet.Memory
	if cfg.WalletURL != "" {
		w = wallet.NewClient(cfg.WalletURL, cfg.WalletSecret)
	} else {
		mem = wallet.NewMemory(decimal.NewFromInt(10000))
		w = mem
	}

	opts := game.Options{
		Curve:        game.NewCurve(cfg.GrowthRate),
		Sampler:      game.NewFairSampler(cfg.HouseEdge, cfg.MaxCrash),
		Wallet:       w,
		Recorder:     game.NewRecorder(200),
		Publish:      hub.Publish,
		MinStake:     cfg.MinStake,
		MaxStake:     cfg.MaxStake,
		WaitDuration: cfg.WaitDuration,
		DisplayDelay: cfg.DisplayDelay,
	}

	// The archive layer is optional; without Mongo the engine still runs,
	// it just cannot reconcile interrupted rounds across restarts.
	if cfg.MongoURI != "" {
		db.ConnectDB(cfg.MongoURI)
		database := db.GetDB()
		controllers.SetRoundsCollection(database)
		controllers.SetHistoryCollection(database)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := controllers.ReconcileInterrupted(ctx, w); err != nil {
			log.Printf("reconcile failed: %v", err)
		}
		cancel()

		opts.Archive = controllers.NewMongoArchive()
	}

	engine := game.NewEngine(opts)
	ticker := time.NewTicker(cfg.TickInterval)
	go engine.Run(ticker.C)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(hub, engine, c.Writer, c.Request)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "timestamp": time.Now()})
	})
	routes.BetRoutes(r, engine)
	routes.RoundRoutes(r, engine, mem)

	// Void the in-flight round and refund its bets before exiting.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		ticker.Stop()
		engine.Stop()
		time.Sleep(200 * time.Millisecond)
		os.Exit(0)
	}()

	log.Println("Server running on port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
