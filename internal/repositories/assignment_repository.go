package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/models"
)

// AssignmentRepository persists branch grants. Create must surface
// ErrDuplicateKey on a (user_id, branch_id) collision so a concurrent
// check-then-insert race still ends in exactly one assignment.
type AssignmentRepository interface {
	GetByUserAndBranch(ctx context.Context, userID, branchID uuid.UUID) (*models.Assignment, error)

	Create(ctx context.Context, assignment *models.Assignment) error
	DeleteByUserAndBranch(ctx context.Context, userID, branchID uuid.UUID) (bool, error)

	GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.Assignment, error)
	GetByManager(ctx context.Context, managerID uuid.UUID) ([]*models.Assignment, error)
	GetAll(ctx context.Context) ([]*models.Assignment, error)
}
