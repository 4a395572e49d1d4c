package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// QRCode renders a PNG QR for the given text, used for join links.
func QRCode() gin.HandlerFunc {
	return func(c *gin.Context) {
		text := strings.TrimSpace(c.Query("text"))
		if text == "" {
			c.String(http.StatusBadRequest, "Missing text")
			return
		}
		png, err := qrcode.Encode(text, qrcode.Medium, 320)
		if err != nil {
			c.String(http.StatusInternalServerError, "QR error")
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	}
}
