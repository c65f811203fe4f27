package org

import (
	"time"

	"github.com/google/uuid"
)

// CostCode is a spend category ("06-100 Framing") referenced by budget lines,
// commitment lines, and vendor bills. Codes are unique per org. Once a code is
// referenced by posted financial rows it can only be deprecated, never
// hard-deleted.
type CostCode struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID        uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_cost_code_org_code" json:"org_id"`
	Code         string     `gorm:"column:code;not null;uniqueIndex:idx_cost_code_org_code" json:"code"`
	Name         string     `gorm:"column:name;not null" json:"name"`
	DeprecatedAt *time.Time `gorm:"column:deprecated_at;index" json:"deprecated_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (CostCode) TableName() string { return "cost_code" }

func (c *CostCode) Deprecated() bool { return c != nil && c.DeprecatedAt != nil }
