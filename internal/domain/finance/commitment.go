package finance

import (
	"time"

	"github.com/brickline/brickline-backend/internal/domain/org"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommitmentStatus string

const (
	CommitmentStatusDraft    CommitmentStatus = "draft"
	CommitmentStatusApproved CommitmentStatus = "approved"
	CommitmentStatusComplete CommitmentStatus = "complete"
	CommitmentStatusCanceled CommitmentStatus = "canceled"
)

// CommittedStatuses are the commitment statuses that count toward the
// committed rollup. Draft and canceled commitments are excluded.
var CommittedStatuses = []CommitmentStatus{CommitmentStatusApproved, CommitmentStatusComplete}

// Commitment is a subcontract or purchase order with a company. Commitments
// are owned by the project, independent of any budget version; the rollup
// joins them at read time.
type Commitment struct {
	ID         uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"org_id"`
	ProjectID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"project_id"`
	Project    *org.Project     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	CompanyID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"company_id"`
	Company    *org.Company     `gorm:"constraint:OnDelete:RESTRICT;foreignKey:CompanyID;references:ID" json:"company,omitempty"`
	Title      string           `gorm:"column:title;not null" json:"title"`
	TotalCents int64            `gorm:"column:total_cents;not null;default:0;check:total_cents >= 0" json:"total_cents"`
	Status     CommitmentStatus `gorm:"column:status;not null;default:'draft';index" json:"status"`
	Lines      []CommitmentLine `gorm:"constraint:OnDelete:CASCADE;foreignKey:CommitmentID;references:ID" json:"lines,omitempty"`
	CreatedAt  time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (Commitment) TableName() string { return "commitment" }

// CommitmentLine is one priced scope item on a commitment. Amount is
// Quantity * UnitCostCents, all integer cents.
type CommitmentLine struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CommitmentID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"commitment_id"`
	CostCodeID    *uuid.UUID    `gorm:"type:uuid;index" json:"cost_code_id,omitempty"`
	CostCode      *org.CostCode `gorm:"constraint:OnDelete:RESTRICT;foreignKey:CostCodeID;references:ID" json:"cost_code,omitempty"`
	Description   string        `gorm:"column:description" json:"description"`
	Quantity      int64         `gorm:"column:quantity;not null;default:1;check:quantity >= 0" json:"quantity"`
	Unit          string        `gorm:"column:unit" json:"unit,omitempty"`
	UnitCostCents int64         `gorm:"column:unit_cost_cents;not null;default:0;check:unit_cost_cents >= 0" json:"unit_cost_cents"`
	CreatedAt     time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (CommitmentLine) TableName() string { return "commitment_line" }

func (l *CommitmentLine) AmountCents() int64 {
	if l == nil {
		return 0
	}
	return l.Quantity * l.UnitCostCents
}

// LegalCommitmentTransition gates commitment status changes: a draft is
// approved, an approved commitment completes, and anything not yet complete
// can be canceled.
func LegalCommitmentTransition(from, to CommitmentStatus) bool {
	switch {
	case from == CommitmentStatusDraft && to == CommitmentStatusApproved:
		return true
	case from == CommitmentStatusApproved && to == CommitmentStatusComplete:
		return true
	case from != CommitmentStatusComplete && to == CommitmentStatusCanceled:
		return from != CommitmentStatusCanceled
	default:
		return false
	}
}
