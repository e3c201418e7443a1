package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"newsdesk/internal/domain"
)

const (
	userIDContextKey    = "user_id"
	requestIDContextKey = "request_id"
	requestIDHeaderName = "X-Request-ID"
)

// requestLogger tags every request with an id and logs it once it completes.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startedAt := time.Now()
		id := strings.TrimSpace(c.GetHeader(requestIDHeaderName))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDContextKey, id)
		c.Writer.Header().Set(requestIDHeaderName, id)

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": float64(time.Since(startedAt).Microseconds()) / 1000.0,
			"client_ip":  c.ClientIP(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request")
			return
		}
		entry.Info("request")
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDContextKey)
}

// loadSession resolves the session cookie and stores the user id on the
// request context. Stale cookies are cleared.
func (h *Handler) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(h.cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		userID, ok := h.sessions.Current(c.Request.Context(), token)
		if !ok {
			h.clearSessionCookie(c)
			c.Next()
			return
		}
		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDContextKey)
}

func (h *Handler) requireLogin(c *gin.Context) {
	if currentUserID(c) == 0 {
		h.addFlash(c, domain.FlashError, msgLoginRequired)
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func (h *Handler) redirectIfAuthenticated(c *gin.Context) {
	if currentUserID(c) != 0 {
		c.Redirect(http.StatusFound, "/dashboard")
		c.Abort()
		return
	}
	c.Next()
}
