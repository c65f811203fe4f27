package finance

import (
	"math"
	"time"

	"github.com/brickline/brickline-backend/internal/domain/org"
	"github.com/google/uuid"
)

type VarianceAlertType string

const (
	VarianceAlertTypeOverrun     VarianceAlertType = "overrun"
	VarianceAlertTypeApproaching VarianceAlertType = "approaching"
)

type VarianceAlertStatus string

const (
	VarianceAlertStatusOpen         VarianceAlertStatus = "open"
	VarianceAlertStatusAcknowledged VarianceAlertStatus = "acknowledged"
	VarianceAlertStatusResolved     VarianceAlertStatus = "resolved"
)

// ObservedPercentInfinite is the sentinel stored when a cost code has spend
// against a zero adjusted budget. The detector never divides by zero.
const ObservedPercentInfinite int64 = math.MaxInt64

// VarianceAlert records that committed+actual spend approached or exceeded the
// adjusted budget for a cost code under a given budget version. At most one
// open alert exists per (project, cost_code, budget); scans update it in
// place. Acknowledge/resolve are terminal per occurrence: a re-breach after
// resolution opens a fresh alert.
type VarianceAlert struct {
	ID               uuid.UUID           `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID            uuid.UUID           `gorm:"type:uuid;not null;index" json:"org_id"`
	ProjectID        uuid.UUID           `gorm:"type:uuid;not null;index:idx_variance_alert_key" json:"project_id"`
	Project          *org.Project        `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	CostCodeID       *uuid.UUID          `gorm:"type:uuid;index:idx_variance_alert_key" json:"cost_code_id,omitempty"`
	CostCode         *org.CostCode       `gorm:"constraint:OnDelete:RESTRICT;foreignKey:CostCodeID;references:ID" json:"cost_code,omitempty"`
	BudgetID         uuid.UUID           `gorm:"type:uuid;not null;index:idx_variance_alert_key" json:"budget_id"`
	Budget           *Budget             `gorm:"constraint:OnDelete:CASCADE;foreignKey:BudgetID;references:ID" json:"budget,omitempty"`
	Type             VarianceAlertType   `gorm:"column:type;not null" json:"type"`
	Status           VarianceAlertStatus `gorm:"column:status;not null;default:'open';index" json:"status"`
	ThresholdPercent int                 `gorm:"column:threshold_percent;not null" json:"threshold_percent"`
	ObservedPercent  int64               `gorm:"column:observed_percent;not null" json:"observed_percent"`
	CreatedAt        time.Time           `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"not null;default:now()" json:"updated_at"`
}

func (VarianceAlert) TableName() string { return "variance_alert" }

func (a *VarianceAlert) Open() bool {
	return a != nil && a.Status == VarianceAlertStatusOpen
}

// LegalAlertTransition: open alerts may be acknowledged or resolved directly,
// acknowledged alerts resolved. Resolution is final.
func LegalAlertTransition(from, to VarianceAlertStatus) bool {
	switch from {
	case VarianceAlertStatusOpen:
		return to == VarianceAlertStatusAcknowledged || to == VarianceAlertStatusResolved
	case VarianceAlertStatusAcknowledged:
		return to == VarianceAlertStatusResolved
	default:
		return false
	}
}
