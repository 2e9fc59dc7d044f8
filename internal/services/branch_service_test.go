package services

import (
	"context"
	"testing"

	"github.com/ribbitreels/learning-service/internal/validator"
)

func newTestBranchService(repo *mockRepository) *branchService {
	return &branchService{repo: repo, logger: testLogger(), validator: validator.New()}
}

func TestBranchService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultsLeafOrderToPosition", func(t *testing.T) {
		repo := newMockRepository()
		service := newTestBranchService(repo)

		branch, err := service.Create(ctx, &CreateBranchRequest{
			Title: "Go Basics",
			Leaves: []CreateLeafRequest{
				{Title: "Intro", VideoURL: "https://example.com/intro"},
				{Title: "Types", VideoURL: "https://example.com/types"},
			},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if branch.Leaves[0].Order != 0 || branch.Leaves[1].Order != 1 {
			t.Errorf("Expected orders 0 and 1, got %d and %d", branch.Leaves[0].Order, branch.Leaves[1].Order)
		}
	})

	t.Run("KeepsExplicitZeroOrder", func(t *testing.T) {
		repo := newMockRepository()
		service := newTestBranchService(repo)

		zero, five := 0, 5
		branch, err := service.Create(ctx, &CreateBranchRequest{
			Title: "Go Basics",
			Leaves: []CreateLeafRequest{
				{Title: "Intro", VideoURL: "https://example.com/intro", Order: &five},
				{Title: "Types", VideoURL: "https://example.com/types", Order: &zero},
			},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if branch.Leaves[0].Order != 5 || branch.Leaves[1].Order != 0 {
			t.Errorf("Explicit orders must survive, got %d and %d", branch.Leaves[0].Order, branch.Leaves[1].Order)
		}
	})
}

func TestLeafService_CreateOrderDefaults(t *testing.T) {
	ctx := context.Background()

	repo, _, branch, _, _ := seedProgressFixture()
	service := &leafService{repo: repo, logger: testLogger(), validator: validator.New()}

	t.Run("AppendsAfterExistingLeaves", func(t *testing.T) {
		leaf, err := service.Create(ctx, branch.ID, &CreateLeafRequest{
			Title:    "Generics",
			VideoURL: "https://example.com/generics",
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if leaf.Order != 2 {
			t.Errorf("Expected order 2 after two existing leaves, got %d", leaf.Order)
		}
	})

	t.Run("KeepsExplicitZeroOrder", func(t *testing.T) {
		zero := 0
		leaf, err := service.Create(ctx, branch.ID, &CreateLeafRequest{
			Title:    "Prelude",
			VideoURL: "https://example.com/prelude",
			Order:    &zero,
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if leaf.Order != 0 {
			t.Errorf("Explicit zero order must survive, got %d", leaf.Order)
		}
	})
}
