package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/busbooking/internal/domain"
	"github.com/Domenick1991/busbooking/internal/session"
	"github.com/Domenick1991/busbooking/internal/transport"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = "request_id"
	sessionKey   = "session"
)

// RequestID takes X-Request-ID from the caller or mints one, and forwards it
// to the booking API through the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.Request.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Request = c.Request.WithContext(transport.WithRequestID(c.Request.Context(), rid))
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(requestIDKey)
}

// Logger writes one access log line per request.
func Logger(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := slog.LevelInfo
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		l.Log(c.Request.Context(), level, "[http] request",
			"request_id", GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
			"ip", c.ClientIP(),
		)
	}
}

// Sessions loads the caller's session from "Authorization: Bearer <session id>"
// or the session cookie. A session whose credential the booking API rejected
// during the request is deleted afterwards.
func Sessions(store session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := sessionID(c, cookieName)
		if id == "" {
			c.Next()
			return
		}

		sess, err := store.Get(c.Request.Context(), id)
		if err != nil {
			slog.Warn("[api] session lookup failed", "request_id", GetRequestID(c), "error", err)
		}
		if sess == nil {
			c.Next()
			return
		}

		c.Set(sessionKey, sess)
		ctx := session.WithSession(c.Request.Context(), sess)
		c.Request = c.Request.WithContext(transport.WithCredentials(ctx, sess))
		c.Next()

		if c.GetBool(authFailedKey) {
			if err := store.Delete(c.Request.Context(), sess.ID); err != nil {
				slog.Warn("[api] drop rejected session", "session_id", sess.ID, "error", err)
				return
			}
			slog.Info("[api] session dropped after authentication failure", "session_id", sess.ID)
		}
	}
}

// RequireSession answers 401 when no session was loaded.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			respondError(c, domain.NewError(domain.KindAuthentication, "Authentication required"))
			return
		}
		c.Next()
	}
}

func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

func sessionID(c *gin.Context, cookieName string) string {
	if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil {
			return v
		}
	}
	return ""
}
