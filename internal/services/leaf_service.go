package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
	"github.com/ribbitreels/learning-service/internal/validator"
)

type leafService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewLeafService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) LeafService {
	return &leafService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *leafService) Create(ctx context.Context, branchID uuid.UUID, req *CreateLeafRequest) (*models.Leaf, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err.Error())
	}

	exists, err := s.repo.Branch().ExistsByID(ctx, branchID)
	if err != nil {
		s.logger.Error("Failed to check branch existence", "branch_id", branchID, "error", err)
		return nil, NewUnexpectedError("failed to create leaf", err)
	}
	if !exists {
		return nil, ErrBranchNotFound
	}

	leaf := &models.Leaf{
		ID:       uuid.New(),
		BranchID: branchID,
		Title:    req.Title,
		VideoURL: req.VideoURL,
	}
	if req.Order != nil {
		leaf.Order = *req.Order
	} else {
		existing, err := s.repo.Leaf().GetByBranch(ctx, branchID)
		if err != nil {
			s.logger.Error("Failed to get branch leaves", "branch_id", branchID, "error", err)
			return nil, NewUnexpectedError("failed to create leaf", err)
		}
		leaf.Order = len(existing)
	}

	if err := s.repo.Leaf().Create(ctx, leaf); err != nil {
		s.logger.Error("Failed to create leaf", "branch_id", branchID, "error", err)
		return nil, NewUnexpectedError("failed to create leaf", err)
	}

	s.logger.Info("Leaf created", "leaf_id", leaf.ID, "branch_id", branchID)
	return leaf, nil
}

func (s *leafService) GetByID(ctx context.Context, id uuid.UUID) (*models.Leaf, error) {
	leaf, err := s.repo.Leaf().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLeafNotFound
		}
		s.logger.Error("Failed to get leaf", "leaf_id", id, "error", err)
		return nil, NewUnexpectedError("failed to get leaf", err)
	}
	return leaf, nil
}

func (s *leafService) Update(ctx context.Context, id uuid.UUID, req *UpdateLeafRequest) (*models.Leaf, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err.Error())
	}

	leaf, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		leaf.Title = *req.Title
	}
	if req.VideoURL != nil {
		leaf.VideoURL = *req.VideoURL
	}
	if req.Order != nil {
		leaf.Order = *req.Order
	}

	if err := s.repo.Leaf().Update(ctx, leaf); err != nil {
		s.logger.Error("Failed to update leaf", "leaf_id", id, "error", err)
		return nil, NewUnexpectedError("failed to update leaf", err)
	}

	s.logger.Info("Leaf updated", "leaf_id", id)
	return leaf, nil
}

func (s *leafService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Leaf().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrLeafNotFound
		}
		s.logger.Error("Failed to delete leaf", "leaf_id", id, "error", err)
		return NewUnexpectedError("failed to delete leaf", err)
	}
	s.logger.Info("Leaf deleted", "leaf_id", id)
	return nil
}
