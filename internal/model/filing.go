package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FilingStatus enum constants
const (
	FilingDraft    = "DRAFT"
	FilingInReview = "IN_REVIEW"
	FilingApproved = "APPROVED"
	FilingRejected = "REJECTED"
)

// Filing is a stored declaration together with the result computed at its last save.
// The declaration is the source of truth; Result and the settlement columns are derived
// and rewritten on every update.
type Filing struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID        *uuid.UUID      `gorm:"type:uuid;index" json:"owner_id"`
	Owner          *User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Title          string          `gorm:"type:varchar(255)" json:"title"`
	TaxYear        int             `gorm:"not null;index" json:"tax_year"`
	Status         string          `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Declaration    string          `gorm:"type:jsonb;not null" json:"declaration"` // Declaration snapshot
	Result         string          `gorm:"type:jsonb;not null" json:"result"`      // TaxCalculationResult snapshot
	TaxToPay       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"tax_to_pay"`
	TaxToRefund    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"tax_to_refund"`
	ReadinessScore int             `gorm:"not null;default:0" json:"readiness_score"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}
