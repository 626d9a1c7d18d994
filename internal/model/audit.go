package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionRegisterUser = "REGISTER_USER"

	ActionCreateFiling = "CREATE_FILING"
	ActionUpdateFiling = "UPDATE_FILING"
	ActionDeleteFiling = "DELETE_FILING"
	ActionImportFiling = "IMPORT_FILING"
	ActionExportFiling = "EXPORT_FILING"

	// Review workflow actions
	ActionRequestReview = "REQUEST_REVIEW"
	ActionApproveReview = "APPROVE_REVIEW"
	ActionRejectReview  = "REJECT_REVIEW"
)

// AuditLog tracks who changed which filing and when.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for anonymous or system actions
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"` // serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
