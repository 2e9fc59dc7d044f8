package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ribbitreels/learning-service/internal/cache"
	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
)

type BranchPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewBranchPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.BranchRepository {
	return &BranchPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *BranchPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}
	return &branch, nil
}

func (r *BranchPostgreSQL) GetByIDWithLeaves(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	var branch models.Branch
	if err := r.db.WithContext(ctx).
		Preload("Leaves", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get branch with leaves: %w", err)
	}
	return &branch, nil
}

func (r *BranchPostgreSQL) Create(ctx context.Context, branch *models.Branch) error {
	if err := r.db.WithContext(ctx).Create(branch).Error; err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

func (r *BranchPostgreSQL) Update(ctx context.Context, branch *models.Branch) error {
	if err := r.db.WithContext(ctx).Save(branch).Error; err != nil {
		return fmt.Errorf("failed to update branch: %w", err)
	}
	r.cacheManager.InvalidateBranch(ctx, branch.ID.String())
	return nil
}

func (r *BranchPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Branch{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete branch: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	r.cacheManager.InvalidateBranch(ctx, id.String())
	return nil
}

func (r *BranchPostgreSQL) List(ctx context.Context, filters repositories.BranchFilters) ([]*models.Branch, int64, error) {
	var branches []*models.Branch
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Branch{})
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)

	if err := query.Preload("Leaves", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC")
	}).Find(&branches).Error; err != nil {
		return nil, 0, err
	}

	return branches, total, nil
}

func (r *BranchPostgreSQL) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.cacheManager.Exists.CacheOrExecute(ctx, "branch:"+id.String(), &exists, cache.ExistsCacheConfig.TTL, func() (interface{}, error) {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Branch{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return nil, err
		}
		return count > 0, nil
	})
	return exists, err
}

func (r *BranchPostgreSQL) GetLeafIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var leafIDs []uuid.UUID
	err := r.cacheManager.Branch.CacheOrExecute(ctx, "leaves:"+id.String(), &leafIDs, cache.BranchCacheConfig.TTL, func() (interface{}, error) {
		var ids []uuid.UUID
		if err := r.db.WithContext(ctx).
			Model(&models.Leaf{}).
			Where("branch_id = ?", id).
			Pluck("id", &ids).Error; err != nil {
			return nil, fmt.Errorf("failed to get leaf ids: %w", err)
		}
		return ids, nil
	})
	return leafIDs, err
}

type LeafPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewLeafPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.LeafRepository {
	return &LeafPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *LeafPostgreSQL) GetByID(ctx context.Context, id uuid.UUID) (*models.Leaf, error) {
	var leaf models.Leaf
	if err := r.db.WithContext(ctx).First(&leaf, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get leaf: %w", err)
	}
	return &leaf, nil
}

func (r *LeafPostgreSQL) GetByBranch(ctx context.Context, branchID uuid.UUID) ([]*models.Leaf, error) {
	var leaves []*models.Leaf
	if err := r.db.WithContext(ctx).
		Where("branch_id = ?", branchID).
		Order("display_order ASC").
		Find(&leaves).Error; err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	return leaves, nil
}

func (r *LeafPostgreSQL) Create(ctx context.Context, leaf *models.Leaf) error {
	if err := r.db.WithContext(ctx).Create(leaf).Error; err != nil {
		return fmt.Errorf("failed to create leaf: %w", err)
	}
	r.cacheManager.InvalidateBranch(ctx, leaf.BranchID.String())
	return nil
}

func (r *LeafPostgreSQL) Update(ctx context.Context, leaf *models.Leaf) error {
	if err := r.db.WithContext(ctx).Save(leaf).Error; err != nil {
		return fmt.Errorf("failed to update leaf: %w", err)
	}
	r.cacheManager.InvalidateBranch(ctx, leaf.BranchID.String())
	return nil
}

func (r *LeafPostgreSQL) Delete(ctx context.Context, id uuid.UUID) error {
	var leaf models.Leaf
	if err := r.db.WithContext(ctx).First(&leaf, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repositories.ErrNotFound
		}
		return fmt.Errorf("failed to get leaf: %w", err)
	}
	if err := r.db.WithContext(ctx).Delete(&leaf).Error; err != nil {
		return fmt.Errorf("failed to delete leaf: %w", err)
	}
	r.cacheManager.InvalidateBranch(ctx, leaf.BranchID.String())
	return nil
}
