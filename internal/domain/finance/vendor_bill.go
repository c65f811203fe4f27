package finance

import (
	"time"

	"github.com/brickline/brickline-backend/internal/domain/org"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VendorBillStatus string

const (
	VendorBillStatusPending  VendorBillStatus = "pending"
	VendorBillStatusApproved VendorBillStatus = "approved"
	VendorBillStatusPartial  VendorBillStatus = "partial"
	VendorBillStatusPaid     VendorBillStatus = "paid"
)

// ActualStatuses are the bill statuses that count toward the actual rollup.
// A pending bill has not been accepted as a real cost yet.
var ActualStatuses = []VendorBillStatus{
	VendorBillStatusApproved,
	VendorBillStatusPartial,
	VendorBillStatusPaid,
}

// VendorBill is a cost actually incurred against the project, optionally tied
// to the commitment it draws down. When the bill itself carries no cost code,
// the rollup falls back to the originating commitment's lines.
type VendorBill struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"org_id"`
	ProjectID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"project_id"`
	Project      *org.Project     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	CommitmentID *uuid.UUID       `gorm:"type:uuid;index" json:"commitment_id,omitempty"`
	Commitment   *Commitment      `gorm:"constraint:OnDelete:SET NULL;foreignKey:CommitmentID;references:ID" json:"commitment,omitempty"`
	CostCodeID   *uuid.UUID       `gorm:"type:uuid;index" json:"cost_code_id,omitempty"`
	CostCode     *org.CostCode    `gorm:"constraint:OnDelete:RESTRICT;foreignKey:CostCodeID;references:ID" json:"cost_code,omitempty"`
	Number       string           `gorm:"column:number;not null" json:"number"`
	TotalCents   int64            `gorm:"column:total_cents;not null;default:0;check:total_cents >= 0" json:"total_cents"`
	Status       VendorBillStatus `gorm:"column:status;not null;default:'pending';index" json:"status"`
	BilledAt     *time.Time       `gorm:"column:billed_at" json:"billed_at,omitempty"`
	CreatedAt    time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (VendorBill) TableName() string { return "vendor_bill" }

// LegalVendorBillTransition: pending bills get accepted (approved), approved
// bills move through partial payment to paid.
func LegalVendorBillTransition(from, to VendorBillStatus) bool {
	switch from {
	case VendorBillStatusPending:
		return to == VendorBillStatusApproved
	case VendorBillStatusApproved:
		return to == VendorBillStatusPartial || to == VendorBillStatusPaid
	case VendorBillStatusPartial:
		return to == VendorBillStatusPaid
	default:
		return false
	}
}
