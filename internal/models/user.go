// Package models contains data models for the account service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// UserRole identifies what kind of account a user holds.
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleRider    UserRole = "rider"
	RoleAdmin    UserRole = "admin"
)

// Valid reports whether the role is one the service provisions.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleRider, RoleAdmin:
		return true
	}
	return false
}

// ApprovalStatus is the rider approval lifecycle state.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Valid reports whether the status is a known lifecycle state.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// User represents an application profile row. The primary key is the
// identity id issued by the external auth provider; the provider's
// signup trigger and this service's fallback insert both write the
// same table, with primary key uniqueness arbitrating the race.
type User struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Email           string         `json:"email" gorm:"uniqueIndex;not null"`
	FullName        string         `json:"full_name" gorm:"not null"`
	Phone           string         `json:"phone,omitempty"`
	Role            UserRole       `json:"role" gorm:"not null;default:'customer'"`
	Approved        bool           `json:"approved" gorm:"not null;default:false"`
	ApprovalStatus  ApprovalStatus `json:"approval_status" gorm:"not null;default:'pending'"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// NewProfile builds a profile row for a freshly created identity.
// Riders start unapproved and pending; every other role is provisioned
// directly into the approved state.
func NewProfile(id uuid.UUID, email, fullName, phone string, role UserRole) *User {
	u := &User{
		ID:       id,
		Email:    email,
		FullName: fullName,
		Phone:    phone,
		Role:     role,
	}
	if role == RoleRider {
		u.Approved = false
		u.ApprovalStatus = ApprovalPending
	} else {
		u.Approved = true
		u.ApprovalStatus = ApprovalApproved
	}
	return u
}
