package controllers

import (
	"net/http"
	"strings"

	"github.com/bellapacxx/tombola-backend/services"
	"github.com/gin-gonic/gin"
)

// GetSession returns the public view of a session by code.
func GetSession(store *services.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
		view, err := store.PublicSnapshot(code)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
