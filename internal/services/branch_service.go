package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
	"github.com/ribbitreels/learning-service/internal/validator"
)

type branchService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewBranchService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) BranchService {
	return &branchService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *branchService) Create(ctx context.Context, req *CreateBranchRequest) (*models.Branch, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err.Error())
	}

	branch := &models.Branch{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
	}
	for i, leafReq := range req.Leaves {
		order := i
		if leafReq.Order != nil {
			order = *leafReq.Order
		}
		branch.Leaves = append(branch.Leaves, models.Leaf{
			ID:       uuid.New(),
			BranchID: branch.ID,
			Title:    leafReq.Title,
			VideoURL: leafReq.VideoURL,
			Order:    order,
		})
	}

	if err := s.repo.Branch().Create(ctx, branch); err != nil {
		s.logger.Error("Failed to create branch", "error", err)
		return nil, NewUnexpectedError("failed to create branch", err)
	}

	s.logger.Info("Branch created", "branch_id", branch.ID, "leaves", len(branch.Leaves))
	return branch, nil
}

func (s *branchService) GetByID(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	branch, err := s.repo.Branch().GetByIDWithLeaves(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrBranchNotFound
		}
		s.logger.Error("Failed to get branch", "branch_id", id, "error", err)
		return nil, NewUnexpectedError("failed to get branch", err)
	}
	return branch, nil
}

func (s *branchService) Update(ctx context.Context, id uuid.UUID, req *UpdateBranchRequest) (*models.Branch, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err.Error())
	}

	branch, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		branch.Title = *req.Title
	}
	if req.Description != nil {
		branch.Description = *req.Description
	}

	if err := s.repo.Branch().Update(ctx, branch); err != nil {
		s.logger.Error("Failed to update branch", "branch_id", id, "error", err)
		return nil, NewUnexpectedError("failed to update branch", err)
	}

	s.logger.Info("Branch updated", "branch_id", id)
	return branch, nil
}

func (s *branchService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Branch().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrBranchNotFound
		}
		s.logger.Error("Failed to delete branch", "branch_id", id, "error", err)
		return NewUnexpectedError("failed to delete branch", err)
	}
	s.logger.Info("Branch deleted", "branch_id", id)
	return nil
}

func (s *branchService) List(ctx context.Context, filters repositories.BranchFilters) (*BranchListResponse, error) {
	branches, total, err := s.repo.Branch().List(ctx, filters)
	if err != nil {
		s.logger.Error("Failed to list branches", "error", err)
		return nil, NewUnexpectedError("failed to list branches", err)
	}
	return &BranchListResponse{Branches: branches, Total: total}, nil
}
