package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/freshcart-app/account-service/internal/middleware"
	"github.com/freshcart-app/account-service/internal/models"
	"github.com/freshcart-app/account-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// =============================================================================
// Mock ApprovalService
// =============================================================================

type mockApprovalService struct {
	listRidersFunc func(ctx context.Context, status models.ApprovalStatus) ([]models.User, error)
	getRiderFunc   func(ctx context.Context, id uuid.UUID) (*models.User, error)
	approveFunc    func(ctx context.Context, id uuid.UUID) (*models.User, error)
	rejectFunc     func(ctx context.Context, id uuid.UUID, reason string) (*models.User, error)
}

func (m *mockApprovalService) ListRiders(ctx context.Context, status models.ApprovalStatus) ([]models.User, error) {
	if m.listRidersFunc != nil {
		return m.listRidersFunc(ctx, status)
	}
	return nil, errors.New("not implemented")
}

func (m *mockApprovalService) GetRider(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.getRiderFunc != nil {
		return m.getRiderFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockApprovalService) Approve(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.approveFunc != nil {
		return m.approveFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockApprovalService) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.User, error) {
	if m.rejectFunc != nil {
		return m.rejectFunc(ctx, id, reason)
	}
	return nil, errors.New("not implemented")
}

func setupAdminRouter(t *testing.T, approvals service.ApprovalService) (*gin.Engine, string, string) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	jwtService, err := service.NewJWTService(testSecret, 24*time.Hour, 168*time.Hour)
	if err != nil {
		t.Fatalf("Failed to create JWT service: %v", err)
	}

	handler := NewAdminHandler(approvals)
	router := gin.New()

	admin := router.Group("/api/v1/admin", middleware.RequireAdmin(jwtService))
	admin.GET("/riders", handler.ListRiders)
	admin.GET("/riders/:id", handler.GetRider)
	admin.PUT("/riders/:id/approve", handler.ApproveRider)
	admin.PUT("/riders/:id/reject", handler.RejectRider)

	adminToken, err := jwtService.GenerateAccessToken(uuid.New(), "admin@x.com", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Failed to mint admin token: %v", err)
	}
	customerToken, err := jwtService.GenerateAccessToken(uuid.New(), "c@x.com", models.RoleCustomer)
	if err != nil {
		t.Fatalf("Failed to mint customer token: %v", err)
	}

	return router, adminToken, customerToken
}

// =============================================================================
// Access control
// =============================================================================

func TestAdminRoutes_AccessControl(t *testing.T) {
	router, _, customerToken := setupAdminRouter(t, &mockApprovalService{})

	// No credential at all.
	w := doJSON(router, http.MethodGet, "/api/v1/admin/riders", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401 without credentials", w.Code)
	}

	// Valid token, wrong role.
	w = doJSON(router, http.MethodGet, "/api/v1/admin/riders", nil, customerToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("Status = %d, want 403 for non-admin", w.Code)
	}
}

// =============================================================================
// Rider listing and lookup
// =============================================================================

func TestListRidersHandler(t *testing.T) {
	riders := []models.User{
		*models.NewProfile(uuid.New(), "r1@x.com", "R1", "", models.RoleRider),
		*models.NewProfile(uuid.New(), "r2@x.com", "R2", "", models.RoleRider),
	}
	mock := &mockApprovalService{
		listRidersFunc: func(ctx context.Context, status models.ApprovalStatus) ([]models.User, error) {
			if status != models.ApprovalPending {
				t.Errorf("Status filter = %q, want pending", status)
			}
			return riders, nil
		},
	}
	router, adminToken, _ := setupAdminRouter(t, mock)

	w := doJSON(router, http.MethodGet, "/api/v1/admin/riders?status=pending", nil, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var got []models.User
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Got %d riders, want 2", len(got))
	}
}

func TestGetRiderHandler_NotFound(t *testing.T) {
	mock := &mockApprovalService{
		getRiderFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			return nil, service.ErrRiderNotFound
		},
	}
	router, adminToken, _ := setupAdminRouter(t, mock)

	w := doJSON(router, http.MethodGet, "/api/v1/admin/riders/"+uuid.NewString(), nil, adminToken)
	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", w.Code)
	}
}

func TestGetRiderHandler_BadID(t *testing.T) {
	router, adminToken, _ := setupAdminRouter(t, &mockApprovalService{})

	w := doJSON(router, http.MethodGet, "/api/v1/admin/riders/not-a-uuid", nil, adminToken)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", w.Code)
	}
}

// =============================================================================
// Approve / Reject
// =============================================================================

func TestApproveRiderHandler(t *testing.T) {
	riderID := uuid.New()
	mock := &mockApprovalService{
		approveFunc: func(ctx context.Context, id uuid.UUID) (*models.User, error) {
			if id != riderID {
				t.Errorf("Approve id = %s, want %s", id, riderID)
			}
			rider := models.NewProfile(riderID, "r@x.com", "R", "", models.RoleRider)
			rider.Approved = true
			rider.ApprovalStatus = models.ApprovalApproved
			return rider, nil
		},
	}
	router, adminToken, _ := setupAdminRouter(t, mock)

	w := doJSON(router, http.MethodPut, "/api/v1/admin/riders/"+riderID.String()+"/approve", nil, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	var rider models.User
	if err := json.Unmarshal(w.Body.Bytes(), &rider); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !rider.Approved || rider.ApprovalStatus != models.ApprovalApproved {
		t.Errorf("Rider state = %v/%s, want true/approved", rider.Approved, rider.ApprovalStatus)
	}
}

func TestRejectRiderHandler(t *testing.T) {
	riderID := uuid.New()
	mock := &mockApprovalService{
		rejectFunc: func(ctx context.Context, id uuid.UUID, reason string) (*models.User, error) {
			if reason != "incomplete documents" {
				t.Errorf("Reason = %q, want body reason", reason)
			}
			rider := models.NewProfile(riderID, "r@x.com", "R", "", models.RoleRider)
			rider.ApprovalStatus = models.ApprovalRejected
			rider.RejectionReason = reason
			return rider, nil
		},
	}
	router, adminToken, _ := setupAdminRouter(t, mock)

	w := doJSON(router, http.MethodPut, "/api/v1/admin/riders/"+riderID.String()+"/reject",
		gin.H{"reason": "incomplete documents"}, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestRejectRiderHandler_WithoutBody(t *testing.T) {
	mock := &mockApprovalService{
		rejectFunc: func(ctx context.Context, id uuid.UUID, reason string) (*models.User, error) {
			if reason != "" {
				t.Errorf("Reason = %q, want empty", reason)
			}
			return models.NewProfile(id, "r@x.com", "R", "", models.RoleRider), nil
		},
	}
	router, adminToken, _ := setupAdminRouter(t, mock)

	w := doJSON(router, http.MethodPut, "/api/v1/admin/riders/"+uuid.NewString()+"/reject", nil, adminToken)
	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
}

func TestRejectRiderHandler_ApprovedConflict(t *testing.T) {
	mock := &mockApprovalService{
		rejectFunc: func(ctx context.Context, id uuid.UUID, reason string) (*models.User, error) {
			return nil, service.ErrInvalidTransition
		},
	}
	router, adminToken, _ := setupAdminRouter(t, mock)

	w := doJSON(router, http.MethodPut, "/api/v1/admin/riders/"+uuid.NewString()+"/reject", nil, adminToken)
	if w.Code != http.StatusConflict {
		t.Errorf("Status = %d, want 409", w.Code)
	}
}
