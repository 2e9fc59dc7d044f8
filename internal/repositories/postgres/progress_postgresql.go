package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (r *ProgressPostgreSQL) GetByUserAndBranch(ctx context.Context, userID, branchID uuid.UUID) (*models.Progress, error) {
	var progress models.Progress
	if err := r.db.WithContext(ctx).
		First(&progress, "user_id = ? AND branch_id = ?", userID, branchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return &progress, nil
}

// GetByUserAndBranchForUpdate reads the row under FOR UPDATE so concurrent
// merges for the same (user, branch) serialize inside the transaction.
func (r *ProgressPostgreSQL) GetByUserAndBranchForUpdate(ctx context.Context, userID, branchID uuid.UUID) (*models.Progress, error) {
	var progress models.Progress
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&progress, "user_id = ? AND branch_id = ?", userID, branchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock progress: %w", err)
	}
	return &progress, nil
}

func (r *ProgressPostgreSQL) Create(ctx context.Context, progress *models.Progress) error {
	if err := r.db.WithContext(ctx).Create(progress).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create progress: %w", err)
	}
	return nil
}

func (r *ProgressPostgreSQL) Update(ctx context.Context, progress *models.Progress) error {
	if err := r.db.WithContext(ctx).Save(progress).Error; err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	return nil
}

func (r *ProgressPostgreSQL) GetCompletedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Progress, error) {
	var records []*models.Progress
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("completed_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list completed branches: %w", err)
	}
	return records, nil
}

func (r *ProgressPostgreSQL) GetByBranch(ctx context.Context, branchID uuid.UUID) ([]*models.Progress, error) {
	var records []*models.Progress
	if err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress by branch: %w", err)
	}
	return records, nil
}
