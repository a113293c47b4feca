package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"pos-service/clients"
	"pos-service/metrics"
	"pos-service/models"
	"pos-service/session"
)

const sessionKey = "session"

// RequestLogger logs every request once it has been served.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"remoteAddr": c.ClientIP(),
			"userAgent":  c.Request.UserAgent(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Warn("request served")
			return
		}
		entry.Info("request served")
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	// browsers cannot set headers on a websocket handshake
	return c.Query("token")
}

// RequireSession resolves the bearer token to a session and forwards the
// token to backend calls made while serving the request. A backend 401 seen
// by any handler discards the session.
func RequireSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, &models.AuthError{})
			return
		}
		sess, err := store.Get(token)
		if err != nil {
			respondError(c, err)
			metrics.SetActiveSessions(store.Len())
			return
		}

		c.Set(sessionKey, sess)
		c.Request = c.Request.WithContext(clients.WithToken(c.Request.Context(), token))
		c.Next()

		if c.GetBool(expireSessionKey) {
			store.Expire(token)
			metrics.SetActiveSessions(store.Len())
		}
	}
}

// RequirePage admits the request when the session's role grants any of
// pages.
func RequirePage(pages ...models.Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if sess == nil || !sess.Gate.HasAnyAccess(pages...) {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Error:   "ACCESS_DENIED",
				Message: "Your role does not grant access to this page",
			})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
