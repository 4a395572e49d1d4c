package routes

import (
	"github.com/bellapacxx/tombola-backend/controllers"
	"github.com/bellapacxx/tombola-backend/services"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, store *services.Store) {
	api := r.Group("/api")

	// ----------------------
	// Session routes
	// ----------------------
	api.GET("/sessions/:code", controllers.GetSession(store)) // Public session snapshot

	// ----------------------
	// Utility routes
	// ----------------------
	api.GET("/qr", controllers.QRCode()) // Join-link QR code
}
