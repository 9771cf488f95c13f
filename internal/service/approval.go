package service

import (
	"context"
	"errors"

	"github.com/freshcart-app/account-service/internal/metrics"
	"github.com/freshcart-app/account-service/internal/models"
	"github.com/freshcart-app/account-service/internal/repository"
	"github.com/google/uuid"
)

// ApprovalService governs the rider approval lifecycle. The admin
// surface exposes three transitions: pending to approved, pending to
// rejected, and rejected back to approved. Approved riders cannot be
// rejected here; revoking an approved rider would be a separate
// capability.
type ApprovalService interface {
	ListRiders(ctx context.Context, status models.ApprovalStatus) ([]models.User, error)
	GetRider(ctx context.Context, id uuid.UUID) (*models.User, error)
	Approve(ctx context.Context, id uuid.UUID) (*models.User, error)
	Reject(ctx context.Context, id uuid.UUID, reason string) (*models.User, error)
}

type approvalService struct {
	users   repository.UserRepository
	metrics metrics.Recorder
}

// NewApprovalService creates an ApprovalService instance.
func NewApprovalService(users repository.UserRepository, recorder metrics.Recorder) ApprovalService {
	return &approvalService{users: users, metrics: recorder}
}

func (s *approvalService) ListRiders(ctx context.Context, status models.ApprovalStatus) ([]models.User, error) {
	if status != "" && !status.Valid() {
		return nil, validationErrorf("unknown approval status %q", status)
	}
	return s.users.ListRiders(ctx, status)
}

func (s *approvalService) GetRider(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findRider(ctx, id)
}

// Approve moves a rider to the approved state. Approving an already
// approved rider succeeds without a write.
func (s *approvalService) Approve(ctx context.Context, id uuid.UUID) (*models.User, error) {
	rider, err := s.findRider(ctx, id)
	if err != nil {
		return nil, err
	}

	if rider.ApprovalStatus == models.ApprovalApproved {
		return rider, nil
	}

	rider.Approved = true
	rider.ApprovalStatus = models.ApprovalApproved
	rider.RejectionReason = ""
	if err := s.users.Update(ctx, rider); err != nil {
		return nil, err
	}

	s.metrics.RecordApproval(string(models.ApprovalApproved))
	return rider, nil
}

// Reject moves a pending rider to the rejected state, storing the
// reason for audit. Rejecting an already rejected rider succeeds and
// refreshes the reason. Approved riders cannot be rejected.
func (s *approvalService) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.User, error) {
	rider, err := s.findRider(ctx, id)
	if err != nil {
		return nil, err
	}

	if rider.ApprovalStatus == models.ApprovalApproved {
		return nil, ErrInvalidTransition
	}

	rider.Approved = false
	rider.ApprovalStatus = models.ApprovalRejected
	rider.RejectionReason = reason
	if err := s.users.Update(ctx, rider); err != nil {
		return nil, err
	}

	s.metrics.RecordApproval(string(models.ApprovalRejected))
	return rider, nil
}

func (s *approvalService) findRider(ctx context.Context, id uuid.UUID) (*models.User, error) {
	rider, err := s.users.FindRiderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRiderNotFound
		}
		return nil, err
	}
	return rider, nil
}
