package clients

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"pos-service/models"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type meResponse struct {
	User models.User `json:"user"`
}

// Login exchanges credentials for a bearer token. Rejected credentials come
// back as *models.AuthError.
func (b *Backend) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := b.do(ctx, http.MethodPost, "/login", LoginRequest{Username: username, Password: password}, &resp, nil)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code < http.StatusInternalServerError {
			return LoginResponse{}, &models.AuthError{Err: statusErr}
		}
		return LoginResponse{}, errors.Wrap(err, "login")
	}
	if resp.Token == "" {
		return LoginResponse{}, &models.AuthError{Err: errors.New("login response carried no token")}
	}
	return resp, nil
}

// Me returns the user the token in ctx belongs to.
func (b *Backend) Me(ctx context.Context) (models.User, error) {
	var resp meResponse
	if err := b.do(ctx, http.MethodGet, "/me", nil, &resp, nil); err != nil {
		return models.User{}, &models.FetchError{Resource: "me", Err: err}
	}
	return resp.User, nil
}
