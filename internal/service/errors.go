package service

import (
	"errors"
	"fmt"

	"github.com/freshcart-app/account-service/internal/models"
)

var (
	// ErrInvalidCredentials is returned when the provider rejects an
	// email/password pair at sign-in.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrProvisioning is returned when the provider reports success
	// but hands back no identity record. No profile is created and no
	// token is issued; the caller must retry signup.
	ErrProvisioning = errors.New("identity provisioning returned no account record")

	// ErrInvalidRefreshToken is returned when a presented refresh
	// token is unknown, rotated away, or fails verification.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrUserNotFound is returned when no profile row matches the id.
	ErrUserNotFound = errors.New("user not found")

	// ErrRiderNotFound is returned by approval operations when the id
	// does not belong to a rider.
	ErrRiderNotFound = errors.New("rider not found")

	// ErrInvalidTransition is returned when an approval operation
	// requests a lifecycle transition the admin surface does not
	// expose, such as rejecting an already approved rider.
	ErrInvalidTransition = errors.New("approval transition not allowed")
)

// ValidationError reports bad caller input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// PendingApprovalError is returned when a rider presents correct
// credentials but has not been approved. It is deliberately distinct
// from ErrInvalidCredentials: the caller learns the password was fine
// and the account is what blocks sign-in.
type PendingApprovalError struct {
	Status models.ApprovalStatus
}

func (e *PendingApprovalError) Error() string {
	return fmt.Sprintf("account not approved for sign-in: status is %s", e.Status)
}
