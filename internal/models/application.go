// internal/models/application.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Application is one e-visa submission. A row exists only after the payment
// gateway independently confirmed the transaction server-side; applicant and
// travel fields are never mutated after creation.
type Application struct {
	BaseModel

	// ReferenceNumber is the human-shareable identifier (EVISA-<millis>-<6 alnum>),
	// generated at verification time, never derived from user input.
	ReferenceNumber string `json:"reference_number" gorm:"size:32;not null;uniqueIndex"`

	FullName       string `json:"full_name" gorm:"size:255;not null"`
	Email          string `json:"email" gorm:"size:255;not null;index"`
	Nationality    string `json:"nationality" gorm:"size:100;not null"`
	PassportNumber string `json:"passport_number" gorm:"size:50;not null;index"`

	TravelDate     string `json:"travel_date" gorm:"size:20;not null"`
	VisaType       string `json:"visa_type" gorm:"size:100;not null"`
	PurposeOfVisit string `json:"purpose_of_visit" gorm:"size:255"`

	// FeeAmount reflects what was expected at submission time, not what the
	// gateway reports was paid. The gateway snapshot lives in PaymentData.
	FeeAmount   decimal.Decimal `json:"fee_amount" gorm:"type:decimal(12,2);not null"`
	FeeCurrency string          `json:"fee_currency" gorm:"size:3;not null"`

	PaymentStatus    PaymentStatus `json:"payment_status" gorm:"type:varchar(10);not null;default:'unpaid'"`
	PaymentReference string        `json:"payment_reference" gorm:"size:255;not null;uniqueIndex"`
	PaymentData      JSONB         `json:"payment_data,omitempty" gorm:"type:jsonb"`

	ApplicationStatus ApplicationStatus `json:"application_status" gorm:"type:varchar(20);not null;default:'submitted';index"`

	DocumentPaths pq.StringArray `json:"document_paths" gorm:"type:text[]"`

	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	DecidedBy      *uuid.UUID `json:"decided_by,omitempty" gorm:"type:uuid"`
	DecisionNote   string     `json:"decision_note,omitempty" gorm:"type:text"`
	LastRemindedAt *time.Time `json:"-"`
}

func (Application) TableName() string {
	return "applications"
}

// Feedback is a public portal feedback entry, reviewed by staff.
type Feedback struct {
	BaseModel
	FullName   string         `json:"full_name" gorm:"size:255;not null"`
	Email      string         `json:"email" gorm:"size:255;not null"`
	Category   string         `json:"category" gorm:"size:50;not null;index"`
	Subject    string         `json:"subject" gorm:"size:255;not null"`
	Message    string         `json:"message" gorm:"type:text;not null"`
	Status     FeedbackStatus `json:"status" gorm:"type:varchar(20);not null;default:'new';index"`
	ReviewedBy *uuid.UUID     `json:"reviewed_by,omitempty" gorm:"type:uuid"`
	ReviewedAt *time.Time     `json:"reviewed_at,omitempty"`
}

func (Feedback) TableName() string {
	return "feedback"
}
