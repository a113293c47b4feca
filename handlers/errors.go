package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"pos-service/models"
)

// expireSessionKey marks the request's session for removal once the handler
// chain returns.
const expireSessionKey = "expireSession"

func badRequest(c *gin.Context, message string, err error) {
	resp := models.ErrorResponse{
		Error:   "INVALID_INPUT",
		Message: message,
	}
	if err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

// respondError is the one place errors are turned into HTTP answers.
func respondError(c *gin.Context, err error) {
	status, resp := classify(err)
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	if status == http.StatusUnauthorized {
		c.Set(expireSessionKey, true)
	}
	c.AbortWithStatusJSON(status, resp)
}

func classify(err error) (int, models.ErrorResponse) {
	var (
		validationErr *models.ValidationError
		authErr       *models.AuthError
		submissionErr *models.SubmissionError
		fetchErr      *models.FetchError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: validationErr.Message,
		}
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, models.ErrorResponse{
			Error:   "UNAUTHORIZED",
			Message: "Session expired, please log in again",
			Details: err.Error(),
		}
	case errors.Is(err, models.ErrInvalidPIN):
		return http.StatusForbidden, models.ErrorResponse{
			Error:   "INVALID_PIN",
			Message: "Invalid admin PIN",
		}
	case errors.Is(err, models.ErrRoleUnresolved):
		return http.StatusForbidden, models.ErrorResponse{
			Error:   "ACCESS_DENIED",
			Message: "No role is assigned to this account",
		}
	case errors.Is(err, models.ErrOrderNotFound):
		return http.StatusNotFound, models.ErrorResponse{Error: "NOT_FOUND", Message: "Order not found"}
	case errors.Is(err, models.ErrLineNotFound):
		return http.StatusNotFound, models.ErrorResponse{Error: "NOT_FOUND", Message: "Cart line not found"}
	case errors.Is(err, models.ErrProductNotFound):
		return http.StatusNotFound, models.ErrorResponse{Error: "NOT_FOUND", Message: "Product not found"}
	case errors.Is(err, models.ErrCheckoutInFlight):
		return http.StatusConflict, models.ErrorResponse{
			Error:   "CHECKOUT_IN_PROGRESS",
			Message: "A checkout for this session is already in progress",
		}
	case errors.As(err, &submissionErr):
		return http.StatusBadGateway, models.ErrorResponse{
			Error:   "SUBMISSION_FAILED",
			Message: "The order service did not accept the change; nothing was lost, retry when ready",
			Details: err.Error(),
		}
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway, models.ErrorResponse{
			Error:   "FETCH_FAILED",
			Message: "Could not load " + fetchErr.Resource + ", retry when ready",
			Details: err.Error(),
		}
	default:
		return http.StatusInternalServerError, models.ErrorResponse{
			Error:   "INTERNAL_ERROR",
			Message: "Internal server error",
		}
	}
}
