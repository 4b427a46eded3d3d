package handlers

import (
	"net/http"
	"time"

	"tasker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookieName = "tasker_session"
	requestIDHeader   = "X-Request-ID"

	ctxSessionKey   = "session"
	ctxUserIDKey    = "userId"
	ctxRequestIDKey = "requestId"
)

// sessionMiddleware decodes the session cookie, if any, into the context.
// Missing, expired or tampered cookies leave the request anonymous.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	sess := models.Session{}
	if value, err := c.Cookie(sessionCookieName); err == nil && value != "" {
		parsed, err := h.services.ParseSession(value)
		if err != nil {
			if h.log != nil {
				h.log.Debugw("session_rejected", "err", err, "request_id", c.GetString(ctxRequestIDKey))
			}
		} else {
			sess = parsed
		}
	}
	c.Set(ctxSessionKey, sess)
	c.Next()
}

// requireLogin aborts with 401 unless the request carries a valid session.
func (h *Handler) requireLogin(c *gin.Context) {
	userID, err := h.services.RequireLogin(sessionFrom(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "not authenticated",
		})
		return
	}

	// store in Gin context
	c.Set(ctxUserIDKey, userID)
	c.Next()
}

func sessionFrom(c *gin.Context) models.Session {
	if v, ok := c.Get(ctxSessionKey); ok {
		if s, ok := v.(models.Session); ok {
			return s
		}
	}
	return models.Session{}
}

func userIDFrom(c *gin.Context) int {
	return c.GetInt(ctxUserIDKey)
}

// requestID propagates or assigns an X-Request-ID.
func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(ctxRequestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

// requestLogger writes one line per request after it completes.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency_ms", time.Since(start).Milliseconds(),
		"request_id", c.GetString(ctxRequestIDKey),
	)
}
