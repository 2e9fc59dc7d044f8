package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/models"
)

// UserFilters defines filters for user queries.
type UserFilters struct {
	Query  string // Search query for name or email
	Role   *models.UserRole
	Limit  int
	Offset int
}

// UserRepository is the credential store: it owns user records and the
// lookups the identity services need.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// List and search operations
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	// Validation and checks
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	HasRole(ctx context.Context, id uuid.UUID, role models.UserRole) (bool, error)
}
