package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/models"
)

// BranchFilters defines filters for branch queries.
type BranchFilters struct {
	Query     string
	Limit     int
	Offset    int
	SortBy    string // "created_at", "title"
	SortOrder string // "asc", "desc"
}

// BranchRepository manages branches. The progress and assignment services
// consume only the existence and leaf-id facts; content CRUD is for the
// content handlers.
type BranchRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Branch, error)
	GetByIDWithLeaves(ctx context.Context, id uuid.UUID) (*models.Branch, error)

	Create(ctx context.Context, branch *models.Branch) error
	Update(ctx context.Context, branch *models.Branch) error
	Delete(ctx context.Context, id uuid.UUID) error

	List(ctx context.Context, filters BranchFilters) ([]*models.Branch, int64, error)

	// Collaborator facts for the core services
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	GetLeafIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

// LeafRepository manages the content units inside branches.
type LeafRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Leaf, error)
	GetByBranch(ctx context.Context, branchID uuid.UUID) ([]*models.Leaf, error)

	Create(ctx context.Context, leaf *models.Leaf) error
	Update(ctx context.Context, leaf *models.Leaf) error
	Delete(ctx context.Context, id uuid.UUID) error
}
