package handlers

import (
	"net/http"

	"github.com/freshcart-app/account-service/internal/models"
	"github.com/freshcart-app/account-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles rider approval HTTP requests.
type AdminHandler struct {
	approvals service.ApprovalService
}

// NewAdminHandler creates a new AdminHandler instance.
func NewAdminHandler(approvals service.ApprovalService) *AdminHandler {
	return &AdminHandler{approvals: approvals}
}

// RejectRequest represents the rider rejection request payload.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// ListRiders godoc
// @Summary List riders
// @Description List rider accounts, optionally filtered by approval status
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "Approval status filter" Enums(pending, approved, rejected)
// @Success 200 {array} models.User
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/riders [get]
func (h *AdminHandler) ListRiders(c *gin.Context) {
	status := models.ApprovalStatus(c.Query("status"))

	riders, err := h.approvals.ListRiders(c.Request.Context(), status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, riders)
}

// GetRider godoc
// @Summary Get a rider
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Rider id"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string
// @Router /admin/riders/{id} [get]
func (h *AdminHandler) GetRider(c *gin.Context) {
	id, ok := riderID(c)
	if !ok {
		return
	}

	rider, err := h.approvals.GetRider(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rider)
}

// ApproveRider godoc
// @Summary Approve a rider
// @Description Transition a rider to the approved state; approving an approved rider is a no-op
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path string true "Rider id"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string
// @Router /admin/riders/{id}/approve [put]
func (h *AdminHandler) ApproveRider(c *gin.Context) {
	id, ok := riderID(c)
	if !ok {
		return
	}

	rider, err := h.approvals.Approve(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rider)
}

// RejectRider godoc
// @Summary Reject a rider
// @Description Transition a pending rider to the rejected state with an optional reason
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Rider id"
// @Param request body RejectRequest false "Rejection reason"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/riders/{id}/reject [put]
func (h *AdminHandler) RejectRider(c *gin.Context) {
	id, ok := riderID(c)
	if !ok {
		return
	}

	// Body is optional; a bare reject carries no reason.
	var req RejectRequest
	_ = c.ShouldBindJSON(&req)

	rider, err := h.approvals.Reject(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rider)
}

func riderID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid rider id")
		return uuid.Nil, false
	}
	return id, true
}
