package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/freshcart-app/account-service/internal/provider"
	"github.com/freshcart-app/account-service/internal/service"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError maps service-layer errors onto HTTP responses.
// Validation and provider messages pass through; anything
// unclassified becomes a generic 500 so internals never leak.
func respondServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		respondError(c, http.StatusBadRequest, verr.Message)
		return
	}

	var perr *provider.Error
	if errors.As(err, &perr) {
		status := perr.StatusCode
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		respondError(c, status, perr.Message)
		return
	}

	var penderr *service.PendingApprovalError
	if errors.As(err, &penderr) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":           "account pending approval",
			"approval_status": penderr.Status,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		respondError(c, http.StatusUnauthorized, "invalid refresh token")
	case errors.Is(err, service.ErrTokenExpired), errors.Is(err, service.ErrTokenInvalid):
		respondError(c, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, service.ErrProvisioning):
		respondError(c, http.StatusBadGateway, "account provisioning failed, please retry")
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrRiderNotFound):
		respondError(c, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrInvalidTransition):
		respondError(c, http.StatusConflict, "approved riders cannot be rejected")
	default:
		slog.Error("unhandled service error", slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}
