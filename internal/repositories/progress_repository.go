package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/models"
)

// ProgressRepository persists per-user per-branch completion state.
//
// GetByUserAndBranchForUpdate must take a row lock inside the surrounding
// transaction so concurrent updateProgress calls for the same key are
// serialized instead of losing one submission's merge.
type ProgressRepository interface {
	GetByUserAndBranch(ctx context.Context, userID, branchID uuid.UUID) (*models.Progress, error)
	GetByUserAndBranchForUpdate(ctx context.Context, userID, branchID uuid.UUID) (*models.Progress, error)

	Create(ctx context.Context, progress *models.Progress) error
	Update(ctx context.Context, progress *models.Progress) error

	GetCompletedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Progress, error)
	GetByBranch(ctx context.Context, branchID uuid.UUID) ([]*models.Progress, error)
}
