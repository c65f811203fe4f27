package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brickline/brickline-backend/internal/data/repos"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

// ForecastRow projects the final cost for one cost code bucket.
// VarianceAtCompletionCents keeps the sign convention positive-under /
// negative-over; downstream consumers color on the sign.
type ForecastRow struct {
	CostCodeID                *uuid.UUID `json:"cost_code_id"`
	BudgetCents               int64      `json:"budget_cents"`
	COAdjustmentCents         int64      `json:"co_adjustment_cents"`
	AdjustedBudgetCents       int64      `json:"adjusted_budget_cents"`
	CommittedCents            int64      `json:"committed_cents"`
	ActualCents               int64      `json:"actual_cents"`
	ProjectedCents            int64      `json:"projected_committed_or_actual_cents"`
	EstimateRemainingCents    int64      `json:"estimate_remaining_cents"`
	RemainingOverridden       bool       `json:"remaining_overridden"`
	ProjectedFinalCents       int64      `json:"projected_final_cents"`
	VarianceAtCompletionCents int64      `json:"variance_at_completion_cents"`
}

type ForecastReport struct {
	ProjectID     uuid.UUID     `json:"project_id"`
	BudgetID      uuid.UUID     `json:"budget_id"`
	BudgetVersion int           `json:"budget_version"`
	AsOf          time.Time     `json:"as_of"`
	Rows          []ForecastRow `json:"rows"`
	Totals        ForecastRow   `json:"totals"`
}

type ForecastService interface {
	// GetForecastReport is a pure read: it derives the report from the active
	// budget's breakdown and writes nothing.
	GetForecastReport(ctx context.Context, orgID, projectID uuid.UUID) (*ForecastReport, error)
}

type forecastService struct {
	db             *gorm.DB
	log            *logger.Logger
	budgetLineRepo repos.BudgetLineRepo
	budgets        BudgetService
}

func NewForecastService(db *gorm.DB, log *logger.Logger, budgetLineRepo repos.BudgetLineRepo, budgets BudgetService) ForecastService {
	return &forecastService{
		db:             db,
		log:            log.With("service", "ForecastService"),
		budgetLineRepo: budgetLineRepo,
		budgets:        budgets,
	}
}

func (s *forecastService) GetForecastReport(ctx context.Context, orgID, projectID uuid.UUID) (*ForecastReport, error) {
	breakdown, err := s.budgets.GetBudgetWithActuals(ctx, orgID, projectID)
	if err != nil {
		return nil, err
	}
	overrides, err := s.remainingOverrides(ctx, breakdown.Budget.ID)
	if err != nil {
		return nil, err
	}

	report := &ForecastReport{
		ProjectID:     projectID,
		BudgetID:      breakdown.Budget.ID,
		BudgetVersion: breakdown.Budget.Version,
		AsOf:          time.Now().UTC(),
		Rows:          make([]ForecastRow, 0, len(breakdown.Rows)),
	}
	for i := range breakdown.Rows {
		src := &breakdown.Rows[i]
		override, overridden := overrides[costCodeBucket(src.CostCodeID)]
		row := buildForecastRow(src, override, overridden)
		report.Rows = append(report.Rows, row)

		report.Totals.BudgetCents += row.BudgetCents
		report.Totals.COAdjustmentCents += row.COAdjustmentCents
		report.Totals.AdjustedBudgetCents += row.AdjustedBudgetCents
		report.Totals.CommittedCents += row.CommittedCents
		report.Totals.ActualCents += row.ActualCents
		report.Totals.ProjectedCents += row.ProjectedCents
		report.Totals.EstimateRemainingCents += row.EstimateRemainingCents
		report.Totals.ProjectedFinalCents += row.ProjectedFinalCents
		report.Totals.VarianceAtCompletionCents += row.VarianceAtCompletionCents
	}
	return report, nil
}

// remainingOverrides collects manual estimate-to-complete overrides from
// budget line metadata, summed per cost code bucket. A bucket with any
// override present uses the override total instead of the derived default.
func (s *forecastService) remainingOverrides(ctx context.Context, budgetID uuid.UUID) (map[uuid.UUID]int64, error) {
	lines, err := s.budgetLineRepo.GetByBudgetIDs(ctx, nil, []uuid.UUID{budgetID})
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int64)
	for _, line := range lines {
		meta, err := line.ParseMetadata()
		if err != nil {
			s.log.Warn("skipping malformed budget line metadata",
				"budget_line_id", line.ID.String(), "error", err.Error())
			continue
		}
		if meta.EstimateRemainingCents == nil {
			continue
		}
		bucket := costCodeBucket(line.CostCodeID)
		out[bucket] += *meta.EstimateRemainingCents
	}
	return out, nil
}

func buildForecastRow(src *BreakdownRow, remainingOverride int64, overridden bool) ForecastRow {
	row := ForecastRow{
		CostCodeID:          src.CostCodeID,
		BudgetCents:         src.BudgetCents,
		COAdjustmentCents:   src.COAdjustmentCents,
		AdjustedBudgetCents: src.AdjustedBudgetCents,
		CommittedCents:      src.CommittedCents,
		ActualCents:         src.ActualCents,
	}
	row.ProjectedCents = maxCents(src.CommittedCents, src.ActualCents)
	if overridden {
		row.EstimateRemainingCents = remainingOverride
		row.RemainingOverridden = true
	} else {
		row.EstimateRemainingCents = maxCents(0, src.AdjustedBudgetCents-row.ProjectedCents)
	}
	row.ProjectedFinalCents = row.ProjectedCents + row.EstimateRemainingCents
	row.VarianceAtCompletionCents = src.AdjustedBudgetCents - row.ProjectedFinalCents
	return row
}

func maxCents(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
