// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

type ApplicationStatus string

const (
	// ApplicationStatusPending is kept so legacy rows remain readable and
	// filterable; nothing in this backend creates records in this state.
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusApproved  ApplicationStatus = "approved"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
)

// IsTerminal reports whether a status can only be left through an explicit
// reopen action.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// CanTransitionTo encodes the review transition table. Reopening a terminal
// record is a separate action and is deliberately not expressible here.
func (s ApplicationStatus) CanTransitionTo(target ApplicationStatus) bool {
	if s == target {
		return false
	}
	switch s {
	case ApplicationStatusSubmitted:
		return target == ApplicationStatusApproved || target == ApplicationStatusRejected
	case ApplicationStatusPending:
		return target == ApplicationStatusSubmitted ||
			target == ApplicationStatusApproved ||
			target == ApplicationStatusRejected
	default:
		return false
	}
}

func ValidApplicationStatus(s string) bool {
	switch ApplicationStatus(s) {
	case ApplicationStatusPending, ApplicationStatusSubmitted,
		ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

type StaffRole string

const (
	StaffRoleAdmin    StaffRole = "admin"
	StaffRoleReviewer StaffRole = "reviewer"
)

type FeedbackStatus string

const (
	FeedbackStatusNew      FeedbackStatus = "new"
	FeedbackStatusReviewed FeedbackStatus = "reviewed"
)
