package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"pos-service/clients"
	"pos-service/metrics"
	"pos-service/models"
	"pos-service/session"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (clients.LoginResponse, error)
	Me(ctx context.Context) (models.User, error)
}

type RoleSource interface {
	Roles(ctx context.Context) ([]models.Role, error)
}

type AuthHandler struct {
	sessions *session.Store
	auth     Authenticator
	roles    RoleSource
}

func NewAuthHandler(sessions *session.Store, auth Authenticator, roles RoleSource) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		auth:     auth,
		roles:    roles,
	}
}

type SessionResponse struct {
	Token string        `json:"token,omitempty"`
	User  *models.User  `json:"user"`
	Role  *models.Role  `json:"role"`
	State string        `json:"state"`
	Pages []models.Page `json:"pages"`
}

func sessionResponse(sess *session.Session, withToken bool) SessionResponse {
	resp := SessionResponse{
		State: sess.Gate.State().String(),
		Pages: sess.Gate.Pages(),
	}
	if withToken {
		resp.Token = sess.Token
	}
	if user, ok := sess.Gate.User(); ok {
		resp.User = &user
	}
	if role, ok := sess.Gate.Role(); ok {
		resp.Role = &role
	}
	return resp
}

// Login handles POST /auth/login. A user whose role cannot be resolved still
// gets a session, but it grants no page.
func (h *AuthHandler) Login(c *gin.Context) {
	var req clients.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	login, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := clients.WithToken(c.Request.Context(), login.Token)
	roles, err := h.roles.Roles(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	sess, err := h.sessions.Create(login.Token, login.User, roles)
	metrics.SetActiveSessions(h.sessions.Len())
	if err != nil && !errors.Is(err, models.ErrRoleUnresolved) {
		respondError(c, err)
		return
	}
	if err != nil {
		log.WithFields(log.Fields{
			"username": login.User.Username,
			"role":     login.User.Role,
		}).Warn("login without a resolvable role")
	}

	c.JSON(http.StatusOK, sessionResponse(sess, true))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := currentSession(c)
	h.sessions.Delete(sess.Token)
	metrics.SetActiveSessions(h.sessions.Len())
	c.Status(http.StatusNoContent)
}

// Me handles GET /auth/me. The token is checked with the auth service so a
// revoked token ends the session here too.
func (h *AuthHandler) Me(c *gin.Context) {
	if _, err := h.auth.Me(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(currentSession(c), false))
}
