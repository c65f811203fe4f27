package finance

import (
	"time"

	"github.com/brickline/brickline-backend/internal/domain/org"
	"github.com/google/uuid"
)

type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "draft"
	BudgetStatusApproved BudgetStatus = "approved"
	BudgetStatusLocked   BudgetStatus = "locked"
)

// Budget is one version of a project's planned spend. Versions are assigned at
// creation and strictly increase per project, even when a draft is discarded.
// The "active" budget is derived at read time as the highest version whose
// status is approved or locked; it is never cached on the project row.
type Budget struct {
	ID        uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrgID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"org_id"`
	ProjectID uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_budget_project_version" json:"project_id"`
	Project   *org.Project `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Version   int          `gorm:"column:version;not null;uniqueIndex:idx_budget_project_version" json:"version"`
	Status    BudgetStatus `gorm:"column:status;not null;default:'draft';index" json:"status"`
	Lines     []BudgetLine `gorm:"constraint:OnDelete:CASCADE;foreignKey:BudgetID;references:ID" json:"lines,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (Budget) TableName() string { return "budget" }

// Editable reports whether the line set may still change. Locked budgets are
// read-only forever; duplication into a new draft is the only way forward.
func (b *Budget) Editable() bool {
	return b != nil && b.Status != BudgetStatusLocked
}

// LegalBudgetTransition is the full transition set for budgets. Re-approving
// an approved budget is tolerated as an idempotent no-op by the service; it is
// not part of this set.
func LegalBudgetTransition(from, to BudgetStatus) bool {
	switch {
	case from == BudgetStatusDraft && to == BudgetStatusApproved:
		return true
	case from == BudgetStatusApproved && to == BudgetStatusLocked:
		return true
	default:
		return false
	}
}
