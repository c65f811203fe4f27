package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brickline/brickline-backend/internal/data/repos"
	types "github.com/brickline/brickline-backend/internal/domain"
	apperrors "github.com/brickline/brickline-backend/internal/pkg/errors"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

// Thresholds are passed explicitly per scan instead of being read from global
// state, so a caller (or a test) can run the detector with arbitrary values.
type Thresholds struct {
	ApproachingPercent int `json:"approaching_percent"`
	OverrunPercent     int `json:"overrun_percent"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{ApproachingPercent: 90, OverrunPercent: 100}
}

func (t Thresholds) Validate() error {
	if t.ApproachingPercent <= 0 || t.OverrunPercent <= 0 {
		return apperrors.Validationf("thresholds must be positive percentages")
	}
	if t.ApproachingPercent > t.OverrunPercent {
		return apperrors.Validationf("approaching threshold %d exceeds overrun threshold %d", t.ApproachingPercent, t.OverrunPercent)
	}
	return nil
}

// ScanResult summarizes one detector run. A second run over unchanged data
// reports zero creates and zero updates.
type ScanResult struct {
	BudgetID      uuid.UUID `json:"budget_id"`
	BucketsSeen   int       `json:"buckets_seen"`
	AlertsCreated int       `json:"alerts_created"`
	AlertsUpdated int       `json:"alerts_updated"`
}

type VarianceService interface {
	CheckVarianceAlerts(ctx context.Context, orgID, projectID uuid.UUID, thresholds Thresholds) (*ScanResult, error)
	AcknowledgeAlert(ctx context.Context, orgID, alertID uuid.UUID, to types.VarianceAlertStatus) (*types.VarianceAlert, error)
	ListAlerts(ctx context.Context, orgID, projectID uuid.UUID) ([]*types.VarianceAlert, error)
}

type varianceService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
	alertRepo   repos.VarianceAlertRepo
	budgets     BudgetService
}

func NewVarianceService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, alertRepo repos.VarianceAlertRepo, budgets BudgetService) VarianceService {
	return &varianceService{
		db:          db,
		log:         log.With("service", "VarianceService"),
		projectRepo: projectRepo,
		alertRepo:   alertRepo,
		budgets:     budgets,
	}
}

func (s *varianceService) CheckVarianceAlerts(ctx context.Context, orgID, projectID uuid.UUID, thresholds Thresholds) (*ScanResult, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	breakdown, err := s.budgets.GetBudgetWithActuals(ctx, orgID, projectID)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{BudgetID: breakdown.Budget.ID, BucketsSeen: len(breakdown.Rows)}
	for i := range breakdown.Rows {
		row := &breakdown.Rows[i]
		alertType, observed, breached := classifyVariance(row.CommittedCents+row.ActualCents, row.AdjustedBudgetCents, thresholds)
		if !breached {
			// An open alert for a bucket that recovered is left alone: clearing
			// it is a human decision, and the row is the audit trail that the
			// bucket was over at some point.
			continue
		}
		created, updated, err := s.upsertAlert(ctx, orgID, projectID, row.CostCodeID, breakdown.Budget.ID, alertType, observed, thresholds)
		if err != nil {
			return nil, err
		}
		if created {
			result.AlertsCreated++
		}
		if updated {
			result.AlertsUpdated++
		}
	}
	s.log.Info("variance scan complete",
		"project_id", projectID.String(),
		"budget_id", breakdown.Budget.ID.String(),
		"created", result.AlertsCreated,
		"updated", result.AlertsUpdated)
	return result, nil
}

// upsertAlert keeps at most one open alert per (project, cost code, budget).
// The find-then-insert race with a concurrent scan is closed by the partial
// unique index on open alerts; the loser of the insert re-reads and updates.
func (s *varianceService) upsertAlert(ctx context.Context, orgID, projectID uuid.UUID, costCodeID *uuid.UUID, budgetID uuid.UUID, alertType types.VarianceAlertType, observed int64, thresholds Thresholds) (created, updated bool, err error) {
	threshold := thresholds.ApproachingPercent
	if alertType == types.VarianceAlertTypeOverrun {
		threshold = thresholds.OverrunPercent
	}

	existing, err := s.alertRepo.GetOpenByKey(ctx, nil, projectID, costCodeID, budgetID)
	if err != nil {
		return false, false, err
	}
	if existing == nil {
		alert := &types.VarianceAlert{
			ID:               uuid.New(),
			OrgID:            orgID,
			ProjectID:        projectID,
			CostCodeID:       costCodeID,
			BudgetID:         budgetID,
			Type:             alertType,
			Status:           types.VarianceAlertStatusOpen,
			ThresholdPercent: threshold,
			ObservedPercent:  observed,
		}
		if _, err := s.alertRepo.Create(ctx, nil, []*types.VarianceAlert{alert}); err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return false, false, err
			}
			// A concurrent scan inserted first; fall through and update theirs.
			existing, err = s.alertRepo.GetOpenByKey(ctx, nil, projectID, costCodeID, budgetID)
			if err != nil {
				return false, false, err
			}
			if existing == nil {
				return false, false, apperrors.Conflictf("open alert vanished during concurrent scan")
			}
		} else {
			return true, false, nil
		}
	}

	if existing.Type == alertType && existing.ObservedPercent == observed && existing.ThresholdPercent == threshold {
		return false, false, nil
	}
	if err := s.alertRepo.UpdateObserved(ctx, nil, existing.ID, alertType, observed, threshold); err != nil {
		return false, false, err
	}
	return false, true, nil
}

func (s *varianceService) AcknowledgeAlert(ctx context.Context, orgID, alertID uuid.UUID, to types.VarianceAlertStatus) (*types.VarianceAlert, error) {
	if to != types.VarianceAlertStatusAcknowledged && to != types.VarianceAlertStatusResolved {
		return nil, apperrors.Validationf("alert status must be acknowledged or resolved, got %s", to)
	}
	alerts, err := s.alertRepo.GetByIDs(ctx, nil, []uuid.UUID{alertID})
	if err != nil {
		return nil, err
	}
	if len(alerts) == 0 || alerts[0].OrgID != orgID {
		return nil, apperrors.NotFoundf("variance alert %s", alertID)
	}
	alert := alerts[0]

	if alert.Status == to {
		return alert, nil
	}
	if !types.LegalAlertTransition(alert.Status, to) {
		return nil, apperrors.InvalidTransitionf("variance alert %s → %s", alert.Status, to)
	}

	affected, err := s.alertRepo.UpdateStatusGuarded(ctx, nil, alertID, alert.Status, to)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		current, rerr := s.alertRepo.GetByIDs(ctx, nil, []uuid.UUID{alertID})
		if rerr != nil {
			return nil, rerr
		}
		if len(current) == 1 && current[0].Status == to {
			return current[0], nil
		}
		return nil, apperrors.Conflictf("variance alert %s status changed concurrently", alertID)
	}

	alert.Status = to
	return alert, nil
}

func (s *varianceService) ListAlerts(ctx context.Context, orgID, projectID uuid.UUID) ([]*types.VarianceAlert, error) {
	if _, err := resolveProject(ctx, s.projectRepo, orgID, projectID); err != nil {
		return nil, err
	}
	return s.alertRepo.GetByProjectIDs(ctx, nil, []uuid.UUID{projectID})
}

// classifyVariance grades spend against the adjusted budget. All math is
// integer cents; the percent is floored by integer division. Spend against a
// zero budget is an automatic overrun with the sentinel percent, never a
// division by zero.
func classifyVariance(spendCents, adjustedCents int64, thresholds Thresholds) (types.VarianceAlertType, int64, bool) {
	if adjustedCents <= 0 {
		if spendCents > 0 {
			return types.VarianceAlertTypeOverrun, types.ObservedPercentInfinite, true
		}
		return "", 0, false
	}
	observed := spendCents * 100 / adjustedCents
	switch {
	case observed >= int64(thresholds.OverrunPercent):
		return types.VarianceAlertTypeOverrun, observed, true
	case observed >= int64(thresholds.ApproachingPercent):
		return types.VarianceAlertTypeApproaching, observed, true
	default:
		return "", observed, false
	}
}
