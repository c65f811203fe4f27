package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/brickline/brickline-backend/internal/data/repos"
	types "github.com/brickline/brickline-backend/internal/domain"
	apperrors "github.com/brickline/brickline-backend/internal/pkg/errors"
)

// resolveProject loads a project and enforces org scoping. Rows outside the
// caller's org are indistinguishable from missing rows.
func resolveProject(ctx context.Context, projectRepo repos.ProjectRepo, orgID, projectID uuid.UUID) (*types.Project, error) {
	projects, err := projectRepo.GetByIDs(ctx, nil, []uuid.UUID{projectID})
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 || projects[0].OrgID != orgID {
		return nil, apperrors.NotFoundf("project %s", projectID)
	}
	return projects[0], nil
}

// validateCostCodeRefs checks that every referenced cost code exists, belongs
// to the caller's org, and has not been deprecated. New financial rows must
// not be posted against retired codes.
func validateCostCodeRefs(ctx context.Context, costCodeRepo repos.CostCodeRepo, orgID uuid.UUID, codeIDs []uuid.UUID) error {
	if len(codeIDs) == 0 {
		return nil
	}
	codes, err := costCodeRepo.GetByIDs(ctx, nil, codeIDs)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*types.CostCode, len(codes))
	for _, c := range codes {
		byID[c.ID] = c
	}
	for _, id := range codeIDs {
		code, ok := byID[id]
		if !ok || code.OrgID != orgID {
			return apperrors.Validationf("cost code %s does not exist in this org", id)
		}
		if code.DeprecatedAt != nil {
			return apperrors.Validationf("cost code %s is deprecated", code.Code)
		}
	}
	return nil
}
