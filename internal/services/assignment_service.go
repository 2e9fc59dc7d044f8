package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
	"github.com/ribbitreels/learning-service/internal/validator"
)

type assignmentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAssignmentService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) AssignmentService {
	return &assignmentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// AssignBranch records that a manager expects a user to complete a branch.
// The manager's admin role is checked here, independent of any route gate.
func (s *assignmentService) AssignBranch(ctx context.Context, req *AssignBranchRequest) (*AssignmentResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(err.Error())
	}

	if err := s.checkEntitiesExist(ctx, req); err != nil {
		return nil, err
	}

	isAdmin, err := s.repo.User().HasRole(ctx, req.AssignedByManagerID, models.RoleAdmin)
	if err != nil {
		s.logger.Error("Failed to check manager role", "manager_id", req.AssignedByManagerID, "error", err)
		return nil, NewUnexpectedError("failed to assign branch", err)
	}
	if !isAdmin {
		return nil, ErrManagerRoleMissing
	}

	if _, err := s.repo.Assignment().GetByUserAndBranch(ctx, req.UserID, req.BranchID); err == nil {
		return nil, ErrAlreadyAssigned
	} else if !repositories.IsNotFoundError(err) {
		s.logger.Error("Failed to check existing assignment", "error", err)
		return nil, NewUnexpectedError("failed to assign branch", err)
	}

	assignment := &models.Assignment{
		ID:                  uuid.New(),
		UserID:              req.UserID,
		BranchID:            req.BranchID,
		AssignedByManagerID: req.AssignedByManagerID,
	}

	if err := s.repo.Assignment().Create(ctx, assignment); err != nil {
		// The unique (user_id, branch_id) index is the final arbiter when
		// two assigns race past the check above.
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyAssigned
		}
		s.logger.Error("Failed to create assignment", "error", err)
		return nil, NewUnexpectedError("failed to assign branch", err)
	}

	s.logger.Info("Branch assigned",
		"user_id", req.UserID,
		"branch_id", req.BranchID,
		"manager_id", req.AssignedByManagerID)

	return toAssignmentResponse(assignment), nil
}

func (s *assignmentService) checkEntitiesExist(ctx context.Context, req *AssignBranchRequest) error {
	userExists, err := s.repo.User().ExistsByID(ctx, req.UserID)
	if err != nil {
		s.logger.Error("Failed to check user existence", "error", err)
		return NewUnexpectedError("failed to assign branch", err)
	}
	if !userExists {
		return ErrUserNotFound
	}

	branchExists, err := s.repo.Branch().ExistsByID(ctx, req.BranchID)
	if err != nil {
		s.logger.Error("Failed to check branch existence", "error", err)
		return NewUnexpectedError("failed to assign branch", err)
	}
	if !branchExists {
		return ErrBranchNotFound
	}

	managerExists, err := s.repo.User().ExistsByID(ctx, req.AssignedByManagerID)
	if err != nil {
		s.logger.Error("Failed to check manager existence", "error", err)
		return NewUnexpectedError("failed to assign branch", err)
	}
	if !managerExists {
		return ErrUserNotFound
	}

	return nil
}

// UnassignBranch removes an assignment. A second call for the same pair
// returns not-found, so unassign is not idempotent from the caller's view.
func (s *assignmentService) UnassignBranch(ctx context.Context, userID, branchID uuid.UUID) error {
	deleted, err := s.repo.Assignment().DeleteByUserAndBranch(ctx, userID, branchID)
	if err != nil {
		s.logger.Error("Failed to delete assignment", "error", err)
		return NewUnexpectedError("failed to unassign branch", err)
	}
	if !deleted {
		return ErrAssignmentNotFound
	}

	s.logger.Info("Branch unassigned", "user_id", userID, "branch_id", branchID)
	return nil
}

func (s *assignmentService) GetByUser(ctx context.Context, userID uuid.UUID) ([]*AssignmentResponse, error) {
	assignments, err := s.repo.Assignment().GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list assignments by user", "user_id", userID, "error", err)
		return nil, NewUnexpectedError("failed to list assignments", err)
	}
	return toAssignmentResponses(assignments), nil
}

func (s *assignmentService) GetByManager(ctx context.Context, managerID uuid.UUID) ([]*AssignmentResponse, error) {
	assignments, err := s.repo.Assignment().GetByManager(ctx, managerID)
	if err != nil {
		s.logger.Error("Failed to list assignments by manager", "manager_id", managerID, "error", err)
		return nil, NewUnexpectedError("failed to list assignments", err)
	}
	return toAssignmentResponses(assignments), nil
}

func (s *assignmentService) GetAll(ctx context.Context) ([]*AssignmentResponse, error) {
	assignments, err := s.repo.Assignment().GetAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list assignments", "error", err)
		return nil, NewUnexpectedError("failed to list assignments", err)
	}
	return toAssignmentResponses(assignments), nil
}

func toAssignmentResponse(a *models.Assignment) *AssignmentResponse {
	return &AssignmentResponse{
		ID:                  a.ID,
		UserID:              a.UserID,
		BranchID:            a.BranchID,
		AssignedByManagerID: a.AssignedByManagerID,
		CreatedAt:           a.CreatedAt,
	}
}

func toAssignmentResponses(assignments []*models.Assignment) []*AssignmentResponse {
	out := make([]*AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, toAssignmentResponse(a))
	}
	return out
}
