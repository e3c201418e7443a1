package http

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsdesk/internal/domain"
)

const flashCookieName = "newsdesk_flash"

// addFlash queues a message for the next rendered page.
func (h *Handler) addFlash(c *gin.Context, category, message string) {
	flashes := append(readFlashes(c), domain.Flash{Category: category, Message: message})
	raw, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookieName, base64.RawURLEncoding.EncodeToString(raw), 0, "/", "", h.secureCookie, true)
}

// popFlashes returns the queued messages and clears them.
func (h *Handler) popFlashes(c *gin.Context) []domain.Flash {
	flashes := readFlashes(c)
	if len(flashes) > 0 {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(flashCookieName, "", -1, "/", "", h.secureCookie, true)
	}
	return flashes
}

func readFlashes(c *gin.Context) []domain.Flash {
	value, err := c.Cookie(flashCookieName)
	if err != nil || value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flashes []domain.Flash
	if err := json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}
	return flashes
}
