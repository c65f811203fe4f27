package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brickline/brickline-backend/internal/data/repos"
	types "github.com/brickline/brickline-backend/internal/domain"
	apperrors "github.com/brickline/brickline-backend/internal/pkg/errors"
	"github.com/brickline/brickline-backend/internal/pkg/logger"
)

type CommitmentLineInput struct {
	CostCodeID    *uuid.UUID `json:"cost_code_id"`
	Description   string     `json:"description"`
	Quantity      int64      `json:"quantity"`
	Unit          string     `json:"unit"`
	UnitCostCents int64      `json:"unit_cost_cents"`
}

type CommitmentService interface {
	CreateCommitment(ctx context.Context, orgID, projectID, companyID uuid.UUID, title string, lines []CommitmentLineInput) (*types.Commitment, error)
	UpdateCommitmentStatus(ctx context.Context, orgID, commitmentID uuid.UUID, to types.CommitmentStatus) (*types.Commitment, error)
	ListCommitments(ctx context.Context, orgID, projectID uuid.UUID) ([]*types.Commitment, error)
}

type commitmentService struct {
	db             *gorm.DB
	log            *logger.Logger
	projectRepo    repos.ProjectRepo
	companyRepo    repos.CompanyRepo
	costCodeRepo   repos.CostCodeRepo
	commitmentRepo repos.CommitmentRepo
}

func NewCommitmentService(db *gorm.DB, log *logger.Logger, projectRepo repos.ProjectRepo, companyRepo repos.CompanyRepo, costCodeRepo repos.CostCodeRepo, commitmentRepo repos.CommitmentRepo) CommitmentService {
	return &commitmentService{
		db:             db,
		log:            log.With("service", "CommitmentService"),
		projectRepo:    projectRepo,
		companyRepo:    companyRepo,
		costCodeRepo:   costCodeRepo,
		commitmentRepo: commitmentRepo,
	}
}

func (s *commitmentService) CreateCommitment(ctx context.Context, orgID, projectID, companyID uuid.UUID, title string, lines []CommitmentLineInput) (*types.Commitment, error) {
	if title == "" {
		return nil, apperrors.Validationf("commitment title is required")
	}
	if len(lines) == 0 {
		return nil, apperrors.Validationf("commitment needs at least one line")
	}
	for _, l := range lines {
		if l.Quantity < 0 || l.UnitCostCents < 0 {
			return nil, apperrors.Validationf("commitment line quantity and unit cost must be >= 0")
		}
	}
	if _, err := resolveProject(ctx, s.projectRepo, orgID, projectID); err != nil {
		return nil, err
	}
	companies, err := s.companyRepo.GetByIDs(ctx, nil, []uuid.UUID{companyID})
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 || companies[0].OrgID != orgID {
		return nil, apperrors.NotFoundf("company %s", companyID)
	}
	if err := validateCostCodeRefs(ctx, s.costCodeRepo, orgID, commitmentCostCodeIDs(lines)); err != nil {
		return nil, err
	}

	var total int64
	cLines := make([]types.CommitmentLine, 0, len(lines))
	for _, in := range lines {
		line := types.CommitmentLine{
			ID:            uuid.New(),
			CostCodeID:    in.CostCodeID,
			Description:   in.Description,
			Quantity:      in.Quantity,
			Unit:          in.Unit,
			UnitCostCents: in.UnitCostCents,
		}
		total += line.AmountCents()
		cLines = append(cLines, line)
	}

	commitment := &types.Commitment{
		ID:         uuid.New(),
		OrgID:      orgID,
		ProjectID:  projectID,
		CompanyID:  companyID,
		Title:      title,
		TotalCents: total,
		Status:     types.CommitmentStatusDraft,
		Lines:      cLines,
	}
	if _, err := s.commitmentRepo.Create(ctx, nil, []*types.Commitment{commitment}); err != nil {
		return nil, err
	}
	return commitment, nil
}

func (s *commitmentService) UpdateCommitmentStatus(ctx context.Context, orgID, commitmentID uuid.UUID, to types.CommitmentStatus) (*types.Commitment, error) {
	commitments, err := s.commitmentRepo.GetByIDs(ctx, nil, []uuid.UUID{commitmentID})
	if err != nil {
		return nil, err
	}
	if len(commitments) == 0 || commitments[0].OrgID != orgID {
		return nil, apperrors.NotFoundf("commitment %s", commitmentID)
	}
	commitment := commitments[0]

	if commitment.Status == to {
		return commitment, nil
	}
	if !types.LegalCommitmentTransition(commitment.Status, to) {
		return nil, apperrors.InvalidTransitionf("commitment %s → %s", commitment.Status, to)
	}

	affected, err := s.commitmentRepo.UpdateStatusGuarded(ctx, nil, commitmentID, commitment.Status, to)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		current, rerr := s.commitmentRepo.GetByIDs(ctx, nil, []uuid.UUID{commitmentID})
		if rerr != nil {
			return nil, rerr
		}
		if len(current) == 1 && current[0].Status == to {
			return current[0], nil
		}
		return nil, apperrors.Conflictf("commitment %s status changed concurrently", commitmentID)
	}

	commitment.Status = to
	return commitment, nil
}

func (s *commitmentService) ListCommitments(ctx context.Context, orgID, projectID uuid.UUID) ([]*types.Commitment, error) {
	if _, err := resolveProject(ctx, s.projectRepo, orgID, projectID); err != nil {
		return nil, err
	}
	return s.commitmentRepo.GetByProjectIDs(ctx, nil, []uuid.UUID{projectID})
}

func commitmentCostCodeIDs(lines []CommitmentLineInput) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{})
	for _, l := range lines {
		if l.CostCodeID == nil {
			continue
		}
		if _, ok := seen[*l.CostCodeID]; ok {
			continue
		}
		seen[*l.CostCodeID] = struct{}{}
		ids = append(ids, *l.CostCodeID)
	}
	return ids
}
