package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus enum constants
const (
	ReviewPending  = "PENDING"
	ReviewApproved = "APPROVED"
	ReviewRejected = "REJECTED"
)

// Review is a handoff of a filing to an accountant. Summary freezes the handoff summary at
// request time so the reviewer sees what the taxpayer submitted, even if the filing changes.
type Review struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FilingID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"filing_id"`
	Filing         *Filing    `gorm:"foreignKey:FilingID" json:"filing,omitempty"`
	Summary        string     `gorm:"type:jsonb;not null" json:"summary"` // HandoffSummary snapshot
	ReadinessScore int        `gorm:"not null" json:"readiness_score"`
	Note           string     `gorm:"type:text" json:"note"`
	Status         string     `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	RequestedBy    *uuid.UUID `gorm:"type:uuid;index" json:"requested_by"`
	Requester      *User      `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	ReviewedBy     *uuid.UUID `gorm:"type:uuid" json:"reviewed_by"`
	Reviewer       *User      `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
	Comment        string     `gorm:"type:text" json:"comment"` // reviewer's comment or rejection reason
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
