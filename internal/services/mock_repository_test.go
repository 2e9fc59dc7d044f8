package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
)

// mockRepository is an in-memory Repository used by the service tests.
// Error injection fields let individual tests force storage failures.
type mockRepository struct {
	users       map[uuid.UUID]*models.User
	branches    map[uuid.UUID]*models.Branch
	assignments map[uuid.UUID]*models.Assignment
	progress    map[string]*models.Progress

	userCreateErr       error
	assignmentCreateErr error
	progressCreateErr   error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:       make(map[uuid.UUID]*models.User),
		branches:    make(map[uuid.UUID]*models.Branch),
		assignments: make(map[uuid.UUID]*models.Assignment),
		progress:    make(map[string]*models.Progress),
	}
}

func progressKey(userID, branchID uuid.UUID) string {
	return userID.String() + "|" + branchID.String()
}

func (m *mockRepository) User() repositories.UserRepository             { return &mockUserRepo{m} }
func (m *mockRepository) Branch() repositories.BranchRepository         { return &mockBranchRepo{m} }
func (m *mockRepository) Leaf() repositories.LeafRepository             { return &mockLeafRepo{m} }
func (m *mockRepository) Assignment() repositories.AssignmentRepository { return &mockAssignmentRepo{m} }
func (m *mockRepository) Progress() repositories.ProgressRepository     { return &mockProgressRepo{m} }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== USERS =====

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := r.m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (r *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range r.m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if r.m.userCreateErr != nil {
		return r.m.userCreateErr
	}
	for _, existing := range r.m.users {
		if existing.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	r.m.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	if _, ok := r.m.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.users[user.ID] = user
	return nil
}

func (r *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.m.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.users, id)
	return nil
}

func (r *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	var out []*models.User
	for _, user := range r.m.users {
		if filters.Role != nil && user.Role != *filters.Role {
			continue
		}
		if filters.Query != "" &&
			!strings.Contains(user.Email, filters.Query) &&
			!strings.Contains(user.DisplayName, filters.Query) {
			continue
		}
		out = append(out, user)
	}
	return out, int64(len(out)), nil
}

func (r *mockUserRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.m.users[id]
	return ok, nil
}

func (r *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, user := range r.m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *mockUserRepo) HasRole(ctx context.Context, id uuid.UUID, role models.UserRole) (bool, error) {
	user, ok := r.m.users[id]
	if !ok {
		return false, nil
	}
	return user.Role == role, nil
}

// ===== BRANCHES / LEAVES =====

type mockBranchRepo struct{ m *mockRepository }

func (r *mockBranchRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	branch, ok := r.m.branches[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return branch, nil
}

func (r *mockBranchRepo) GetByIDWithLeaves(ctx context.Context, id uuid.UUID) (*models.Branch, error) {
	return r.GetByID(ctx, id)
}

func (r *mockBranchRepo) Create(ctx context.Context, branch *models.Branch) error {
	r.m.branches[branch.ID] = branch
	return nil
}

func (r *mockBranchRepo) Update(ctx context.Context, branch *models.Branch) error {
	if _, ok := r.m.branches[branch.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.m.branches[branch.ID] = branch
	return nil
}

func (r *mockBranchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.m.branches[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.m.branches, id)
	return nil
}

func (r *mockBranchRepo) List(ctx context.Context, filters repositories.BranchFilters) ([]*models.Branch, int64, error) {
	var out []*models.Branch
	for _, branch := range r.m.branches {
		if filters.Query != "" && !strings.Contains(branch.Title, filters.Query) {
			continue
		}
		out = append(out, branch)
	}
	return out, int64(len(out)), nil
}

func (r *mockBranchRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.m.branches[id]
	return ok, nil
}

func (r *mockBranchRepo) GetLeafIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	branch, ok := r.m.branches[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	ids := make([]uuid.UUID, 0, len(branch.Leaves))
	for _, leaf := range branch.Leaves {
		ids = append(ids, leaf.ID)
	}
	return ids, nil
}

type mockLeafRepo struct{ m *mockRepository }

func (r *mockLeafRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Leaf, error) {
	for _, branch := range r.m.branches {
		for i := range branch.Leaves {
			if branch.Leaves[i].ID == id {
				return &branch.Leaves[i], nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockLeafRepo) GetByBranch(ctx context.Context, branchID uuid.UUID) ([]*models.Leaf, error) {
	branch, ok := r.m.branches[branchID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := make([]*models.Leaf, 0, len(branch.Leaves))
	for i := range branch.Leaves {
		out = append(out, &branch.Leaves[i])
	}
	return out, nil
}

func (r *mockLeafRepo) Create(ctx context.Context, leaf *models.Leaf) error {
	branch, ok := r.m.branches[leaf.BranchID]
	if !ok {
		return repositories.ErrNotFound
	}
	branch.Leaves = append(branch.Leaves, *leaf)
	return nil
}

func (r *mockLeafRepo) Update(ctx context.Context, leaf *models.Leaf) error {
	branch, ok := r.m.branches[leaf.BranchID]
	if !ok {
		return repositories.ErrNotFound
	}
	for i := range branch.Leaves {
		if branch.Leaves[i].ID == leaf.ID {
			branch.Leaves[i] = *leaf
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *mockLeafRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for _, branch := range r.m.branches {
		for i := range branch.Leaves {
			if branch.Leaves[i].ID == id {
				branch.Leaves = append(branch.Leaves[:i], branch.Leaves[i+1:]...)
				return nil
			}
		}
	}
	return repositories.ErrNotFound
}

// ===== ASSIGNMENTS =====

type mockAssignmentRepo struct{ m *mockRepository }

func (r *mockAssignmentRepo) GetByUserAndBranch(ctx context.Context, userID, branchID uuid.UUID) (*models.Assignment, error) {
	for _, a := range r.m.assignments {
		if a.UserID == userID && a.BranchID == branchID {
			return a, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *mockAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	if r.m.assignmentCreateErr != nil {
		return r.m.assignmentCreateErr
	}
	for _, a := range r.m.assignments {
		if a.UserID == assignment.UserID && a.BranchID == assignment.BranchID {
			return repositories.ErrDuplicateKey
		}
	}
	r.m.assignments[assignment.ID] = assignment
	return nil
}

func (r *mockAssignmentRepo) DeleteByUserAndBranch(ctx context.Context, userID, branchID uuid.UUID) (bool, error) {
	for id, a := range r.m.assignments {
		if a.UserID == userID && a.BranchID == branchID {
			delete(r.m.assignments, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *mockAssignmentRepo) GetByUser(ctx context.Context, userID uuid.UUID) ([]*models.Assignment, error) {
	var out []*models.Assignment
	for _, a := range r.m.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *mockAssignmentRepo) GetByManager(ctx context.Context, managerID uuid.UUID) ([]*models.Assignment, error) {
	var out []*models.Assignment
	for _, a := range r.m.assignments {
		if a.AssignedByManagerID == managerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *mockAssignmentRepo) GetAll(ctx context.Context) ([]*models.Assignment, error) {
	var out []*models.Assignment
	for _, a := range r.m.assignments {
		out = append(out, a)
	}
	return out, nil
}

// ===== PROGRESS =====

type mockProgressRepo struct{ m *mockRepository }

func (r *mockProgressRepo) GetByUserAndBranch(ctx context.Context, userID, branchID uuid.UUID) (*models.Progress, error) {
	progress, ok := r.m.progress[progressKey(userID, branchID)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return progress, nil
}

func (r *mockProgressRepo) GetByUserAndBranchForUpdate(ctx context.Context, userID, branchID uuid.UUID) (*models.Progress, error) {
	return r.GetByUserAndBranch(ctx, userID, branchID)
}

func (r *mockProgressRepo) Create(ctx context.Context, progress *models.Progress) error {
	if r.m.progressCreateErr != nil {
		return r.m.progressCreateErr
	}
	key := progressKey(progress.UserID, progress.BranchID)
	if _, ok := r.m.progress[key]; ok {
		return repositories.ErrDuplicateKey
	}
	r.m.progress[key] = progress
	return nil
}

func (r *mockProgressRepo) Update(ctx context.Context, progress *models.Progress) error {
	r.m.progress[progressKey(progress.UserID, progress.BranchID)] = progress
	return nil
}

func (r *mockProgressRepo) GetCompletedByUser(ctx context.Context, userID uuid.UUID) ([]*models.Progress, error) {
	var out []*models.Progress
	for _, p := range r.m.progress {
		if p.UserID == userID && p.CompletedAt != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *mockProgressRepo) GetByBranch(ctx context.Context, branchID uuid.UUID) ([]*models.Progress, error) {
	var out []*models.Progress
	for _, p := range r.m.progress {
		if p.BranchID == branchID {
			out = append(out, p)
		}
	}
	return out, nil
}
