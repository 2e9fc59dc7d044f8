package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
)

type AssignmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{db: db}
}

func (r *AssignmentPostgreSQL) GetByUserAndBranch(ctx context.Context, userID, branchID uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).
		First(&assignment, "user_id = ? AND branch_id = ?", userID, branchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &assignment, nil
}

func (r *AssignmentPostgreSQL) Create(ctx context.Context, assignment *models.Assignment) error {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		// The unique (user_id, branch_id) index settles concurrent assigns.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (r *AssignmentPostgreSQL) DeleteByUserAndBranch(ctx context.Context, userID, branchID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&models.Assignment{}, "user_id = ? AND branch_id = ?", userID, branchID)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete assignment: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *AssignmentPostgreSQL) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments by user: %w", err)
	}
	return assignments, nil
}

func (r *AssignmentPostgreSQL) GetByManager(ctx context.Context, managerID uuid.UUID) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	if err := r.db.WithContext(ctx).
		Where("assigned_by_manager_id = ?", managerID).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments by manager: %w", err)
	}
	return assignments, nil
}

func (r *AssignmentPostgreSQL) GetAll(ctx context.Context) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}
