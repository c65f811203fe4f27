package finance

import (
	"encoding/json"
	"time"

	"github.com/brickline/brickline-backend/internal/domain/org"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BudgetLine belongs to exactly one budget. A nil cost code means
// "unallocated". Amounts are integer cents and never negative.
type BudgetLine struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BudgetID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"budget_id"`
	CostCodeID  *uuid.UUID     `gorm:"type:uuid;index" json:"cost_code_id,omitempty"`
	CostCode    *org.CostCode  `gorm:"constraint:OnDelete:RESTRICT;foreignKey:CostCodeID;references:ID" json:"cost_code,omitempty"`
	Description string         `gorm:"column:description" json:"description"`
	AmountCents int64          `gorm:"column:amount_cents;not null;check:amount_cents >= 0" json:"amount_cents"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (BudgetLine) TableName() string { return "budget_line" }

// BudgetLineMetadata is the validated shape of the metadata column. The only
// key the engine reads is the manual estimate-to-complete override consumed by
// the forecast calculator; unknown keys pass through untouched.
type BudgetLineMetadata struct {
	EstimateRemainingCents *int64 `json:"estimate_remaining_cents,omitempty"`
}

func (l *BudgetLine) ParseMetadata() (BudgetLineMetadata, error) {
	var m BudgetLineMetadata
	if l == nil || len(l.Metadata) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(l.Metadata, &m); err != nil {
		return BudgetLineMetadata{}, err
	}
	if m.EstimateRemainingCents != nil && *m.EstimateRemainingCents < 0 {
		// Negative overrides are meaningless; treat as absent.
		m.EstimateRemainingCents = nil
	}
	return m, nil
}

func (m BudgetLineMetadata) JSON() (datatypes.JSON, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
