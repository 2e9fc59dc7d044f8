package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
	"github.com/ribbitreels/learning-service/internal/validator"
)

func newTestAssignmentService(repo *mockRepository) AssignmentService {
	return NewAssignmentService(repo, testLogger(), validator.New())
}

// seedAssignmentFixture returns a repo holding a regular user, an admin
// manager and a branch.
func seedAssignmentFixture() (*mockRepository, *models.User, *models.User, *models.Branch) {
	repo := newMockRepository()

	user := &models.User{ID: uuid.New(), Email: "frog@example.com", DisplayName: "Frog", Role: models.RoleUser, AuthProvider: models.ProviderLocal}
	manager := &models.User{ID: uuid.New(), Email: "boss@example.com", DisplayName: "Boss", Role: models.RoleAdmin, AuthProvider: models.ProviderLocal}
	branch := &models.Branch{ID: uuid.New(), Title: "Go Basics"}

	repo.users[user.ID] = user
	repo.users[manager.ID] = manager
	repo.branches[branch.ID] = branch

	return repo, user, manager, branch
}

func TestAssignmentService_AssignBranch(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo, user, manager, branch := seedAssignmentFixture()
		service := newTestAssignmentService(repo)

		resp, err := service.AssignBranch(ctx, &AssignBranchRequest{
			UserID:              user.ID,
			BranchID:            branch.ID,
			AssignedByManagerID: manager.ID,
		})
		if err != nil {
			t.Fatalf("AssignBranch failed: %v", err)
		}
		if resp.UserID != user.ID || resp.BranchID != branch.ID || resp.AssignedByManagerID != manager.ID {
			t.Errorf("Response does not echo the assignment: %+v", resp)
		}
		if len(repo.assignments) != 1 {
			t.Errorf("Expected one stored assignment, got %d", len(repo.assignments))
		}
	})

	t.Run("MissingEntities", func(t *testing.T) {
		repo, user, manager, branch := seedAssignmentFixture()
		service := newTestAssignmentService(repo)

		tests := []struct {
			name string
			req  *AssignBranchRequest
			want *ServiceError
		}{
			{"UnknownUser", &AssignBranchRequest{UserID: uuid.New(), BranchID: branch.ID, AssignedByManagerID: manager.ID}, ErrUserNotFound},
			{"UnknownBranch", &AssignBranchRequest{UserID: user.ID, BranchID: uuid.New(), AssignedByManagerID: manager.ID}, ErrBranchNotFound},
			{"UnknownManager", &AssignBranchRequest{UserID: user.ID, BranchID: branch.ID, AssignedByManagerID: uuid.New()}, ErrUserNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.AssignBranch(ctx, tt.req)
				if !errors.Is(err, tt.want) {
					t.Fatalf("Expected %v, got %v", tt.want, err)
				}
				if len(repo.assignments) != 0 {
					t.Error("No assignment may be created")
				}
			})
		}
	})

	t.Run("NonAdminManagerForbidden", func(t *testing.T) {
		repo, user, _, branch := seedAssignmentFixture()
		peon := &models.User{ID: uuid.New(), Email: "peon@example.com", DisplayName: "Peon", Role: models.RoleUser, AuthProvider: models.ProviderLocal}
		repo.users[peon.ID] = peon
		service := newTestAssignmentService(repo)

		_, err := service.AssignBranch(ctx, &AssignBranchRequest{
			UserID:              user.ID,
			BranchID:            branch.ID,
			AssignedByManagerID: peon.ID,
		})
		if !errors.Is(err, ErrManagerRoleMissing) {
			t.Fatalf("Expected ErrManagerRoleMissing, got %v", err)
		}
		if len(repo.assignments) != 0 {
			t.Error("Forbidden assign must not create a record")
		}
	})

	t.Run("DuplicateConflict", func(t *testing.T) {
		repo, user, manager, branch := seedAssignmentFixture()
		service := newTestAssignmentService(repo)

		req := &AssignBranchRequest{UserID: user.ID, BranchID: branch.ID, AssignedByManagerID: manager.ID}
		if _, err := service.AssignBranch(ctx, req); err != nil {
			t.Fatalf("First assign failed: %v", err)
		}
		_, err := service.AssignBranch(ctx, req)
		if !errors.Is(err, ErrAlreadyAssigned) {
			t.Fatalf("Expected ErrAlreadyAssigned, got %v", err)
		}
	})

	t.Run("InsertRaceMapsToConflict", func(t *testing.T) {
		repo, user, manager, branch := seedAssignmentFixture()
		// Simulate losing the check-then-insert race: the pre-check sees no
		// record but the insert hits the unique index.
		repo.assignmentCreateErr = repositories.ErrDuplicateKey
		service := newTestAssignmentService(repo)

		_, err := service.AssignBranch(ctx, &AssignBranchRequest{
			UserID:              user.ID,
			BranchID:            branch.ID,
			AssignedByManagerID: manager.ID,
		})
		if !errors.Is(err, ErrAlreadyAssigned) {
			t.Fatalf("Expected ErrAlreadyAssigned, got %v", err)
		}
	})
}

func TestAssignmentService_UnassignBranch(t *testing.T) {
	ctx := context.Background()
	repo, user, manager, branch := seedAssignmentFixture()
	service := newTestAssignmentService(repo)

	if _, err := service.AssignBranch(ctx, &AssignBranchRequest{
		UserID:              user.ID,
		BranchID:            branch.ID,
		AssignedByManagerID: manager.ID,
	}); err != nil {
		t.Fatalf("AssignBranch failed: %v", err)
	}

	if err := service.UnassignBranch(ctx, user.ID, branch.ID); err != nil {
		t.Fatalf("UnassignBranch failed: %v", err)
	}

	// The pair is gone now; a second unassign reports not-found.
	err := service.UnassignBranch(ctx, user.ID, branch.ID)
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Fatalf("Expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestAssignmentService_Listings(t *testing.T) {
	ctx := context.Background()
	repo, user, manager, branch := seedAssignmentFixture()
	other := &models.Branch{ID: uuid.New(), Title: "Go Concurrency"}
	repo.branches[other.ID] = other
	service := newTestAssignmentService(repo)

	for _, branchID := range []uuid.UUID{branch.ID, other.ID} {
		if _, err := service.AssignBranch(ctx, &AssignBranchRequest{
			UserID:              user.ID,
			BranchID:            branchID,
			AssignedByManagerID: manager.ID,
		}); err != nil {
			t.Fatalf("AssignBranch failed: %v", err)
		}
	}

	byUser, err := service.GetByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByUser failed: %v", err)
	}
	if len(byUser) != 2 {
		t.Errorf("Expected 2 assignments for user, got %d", len(byUser))
	}

	byManager, err := service.GetByManager(ctx, manager.ID)
	if err != nil {
		t.Fatalf("GetByManager failed: %v", err)
	}
	if len(byManager) != 2 {
		t.Errorf("Expected 2 assignments for manager, got %d", len(byManager))
	}

	all, err := service.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 assignments total, got %d", len(all))
	}
}
