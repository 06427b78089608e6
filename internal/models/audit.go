// internal/models/audit.go
package models

import (
	"github.com/google/uuid"
)

// AuditLog records every mutating request, written asynchronously by the
// logging middleware and by explicit review actions.
type AuditLog struct {
	BaseModel
	StaffID      *uuid.UUID `json:"staff_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:255;not null"`
	ResourceType string     `json:"resource_type" gorm:"size:50;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"size:500"`
	NewValues    JSONB      `json:"new_values,omitempty" gorm:"type:jsonb"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
