package services

import (
	"net/http"

	"github.com/bellapacxx/tombola-backend/config"
	"github.com/bellapacxx/tombola-backend/utils/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the connection and starts the client pumps.
func HandleWebSocket(hub *Hub, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorf("[WS] upgrade error: %v", err)
			return
		}

		client := &Client{
			hub:      hub,
			conn:     conn,
			send:     make(chan []byte, 32),
			limiter:  rate.NewLimiter(rate.Limit(cfg.WSRateLimit), cfg.WSRateBurst),
			socketID: uuid.NewString(),
		}
		logger.Debugf("[WS] new client %s from %s", client.socketID, c.ClientIP())

		go client.writePump()
		go client.readPump()
	}
}
