package finance

import (
	"time"

	"github.com/brickline/brickline-backend/internal/domain/org"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChangeOrderStatus string

const (
	ChangeOrderStatusDraft            ChangeOrderStatus = "draft"
	ChangeOrderStatusPending          ChangeOrderStatus = "pending"
	ChangeOrderStatusSent             ChangeOrderStatus = "sent"
	ChangeOrderStatusApproved         ChangeOrderStatus = "approved"
	ChangeOrderStatusRequestedChanges ChangeOrderStatus = "requested_changes"
	ChangeOrderStatusCancelled        ChangeOrderStatus = "cancelled"
)

// PendingChangeOrderStatuses contribute to the pending total reported for
// visibility. Only approved change orders ever feed the adjusted budget;
// cancelled ones are void and count nowhere.
var PendingChangeOrderStatuses = []ChangeOrderStatus{
	ChangeOrderStatusDraft,
	ChangeOrderStatusPending,
	ChangeOrderStatusSent,
	ChangeOrderStatusRequestedChanges,
}

// ChangeOrder carries signed deltas that overlay the baseline budget once
// approved. Baseline lines are never mutated; the adjustment is additive at
// read time.
type ChangeOrder struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"org_id"`
	ProjectID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"project_id"`
	Project    *org.Project      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Title      string            `gorm:"column:title;not null" json:"title"`
	Status     ChangeOrderStatus `gorm:"column:status;not null;default:'draft';index" json:"status"`
	TotalCents int64             `gorm:"column:total_cents;not null;default:0" json:"total_cents"`
	DaysImpact int               `gorm:"column:days_impact;not null;default:0" json:"days_impact"`
	Lines      []ChangeOrderLine `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChangeOrderID;references:ID" json:"lines,omitempty"`
	ApprovedAt *time.Time        `gorm:"column:approved_at;index" json:"approved_at,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time         `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChangeOrder) TableName() string { return "change_order" }

// ChangeOrderLine maps a slice of the change order's delta to a cost code.
// Amounts are signed: deductive change orders carry negative cents.
type ChangeOrderLine struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChangeOrderID uuid.UUID     `gorm:"type:uuid;not null;index" json:"change_order_id"`
	CostCodeID    *uuid.UUID    `gorm:"type:uuid;index" json:"cost_code_id,omitempty"`
	CostCode      *org.CostCode `gorm:"constraint:OnDelete:RESTRICT;foreignKey:CostCodeID;references:ID" json:"cost_code,omitempty"`
	Description   string        `gorm:"column:description" json:"description"`
	AmountCents   int64         `gorm:"column:amount_cents;not null;default:0" json:"amount_cents"`
	CreatedAt     time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (ChangeOrderLine) TableName() string { return "change_order_line" }

// LegalChangeOrderTransition models the negotiation loop: draft→pending→sent,
// sent resolves to approved/requested_changes, requested changes go back out
// as sent, and anything unapproved can be cancelled.
func LegalChangeOrderTransition(from, to ChangeOrderStatus) bool {
	switch from {
	case ChangeOrderStatusDraft:
		return to == ChangeOrderStatusPending || to == ChangeOrderStatusCancelled
	case ChangeOrderStatusPending:
		return to == ChangeOrderStatusSent || to == ChangeOrderStatusCancelled
	case ChangeOrderStatusSent:
		return to == ChangeOrderStatusApproved || to == ChangeOrderStatusRequestedChanges || to == ChangeOrderStatusCancelled
	case ChangeOrderStatusRequestedChanges:
		return to == ChangeOrderStatusSent || to == ChangeOrderStatusCancelled
	default:
		return false
	}
}
