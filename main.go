package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/bellapacxx/tombola-backend/config"
	"github.com/bellapacxx/tombola-backend/routes"
	"github.com/bellapacxx/tombola-backend/services"
	"github.com/bellapacxx/tombola-backend/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(cfg *config.Config, store *services.Store, hub *services.Hub) *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup REST routes
	routes.SetupRoutes(r, store)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now()})
	})

	// WebSocket endpoint
	r.GET("/ws", services.HandleWebSocket(hub, cfg))

	return r
}

func main() {
	// Load env variables
	cfg := config.Load()

	// Initialize in-memory session store and start the TTL sweeper
	store := services.NewStore(cfg.SessionTTL)
	store.StartSweeper(context.Background(), cfg.SweepInterval)

	hub := services.NewHub(store)

	// Setup Gin router
	router := setupRouter(cfg, store, hub)

	logger.Infof("Tombola backend starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("[FATAL] Failed to start server: %v", err)
	}
}
