package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ribbitreels/learning-service/internal/models"
	"github.com/ribbitreels/learning-service/internal/repositories"
	"github.com/ribbitreels/learning-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Request payloads live with their validate tags in the validator package.
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type GoogleLoginRequest = validator.GoogleLoginRequest
type UpdateUserRequest = validator.UpdateUserRequest
type AssignBranchRequest = validator.AssignBranchRequest
type UpdateProgressRequest = validator.UpdateProgressRequest
type CreateBranchRequest = validator.CreateBranchRequest
type UpdateBranchRequest = validator.UpdateBranchRequest
type CreateLeafRequest = validator.CreateLeafRequest
type UpdateLeafRequest = validator.UpdateLeafRequest

type RegisterResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type AuthResponse struct {
	Token       string `json:"token"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
}

type AssignmentResponse struct {
	ID                  uuid.UUID `json:"id"`
	UserID              uuid.UUID `json:"userId"`
	BranchID            uuid.UUID `json:"branchId"`
	AssignedByManagerID uuid.UUID `json:"assignedByManagerId"`
	CreatedAt           time.Time `json:"createdAt"`
}

type ProgressResponse struct {
	UserID           uuid.UUID   `json:"userId"`
	BranchID         uuid.UUID   `json:"branchId"`
	CompletedLeafIDs []uuid.UUID `json:"completedLeafIds"`
	Percentage       float64     `json:"percentage"`
	CompletedAt      *time.Time  `json:"completedAt"`
}

type CompletedBranchResponse struct {
	BranchID    uuid.UUID  `json:"branchId"`
	CompletedAt *time.Time `json:"completedAt"`
}

type BranchListResponse struct {
	Branches []*models.Branch `json:"branches"`
	Total    int64            `json:"total"`
}

// ===== SERVICE INTERFACES =====

// IdentityService owns local accounts: registration, credential login and
// user administration.
type IdentityService interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	RegisterAdmin(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)

	// IssueToken signs a token for an already-authenticated user. Used by
	// the federated flow after provisioning.
	IssueToken(user *models.User) (*AuthResponse, error)

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// FederatedIdentityService resolves third-party identity tokens into local
// sessions, provisioning users on first sight.
type FederatedIdentityService interface {
	LoginWithGoogle(ctx context.Context, req *GoogleLoginRequest) (*AuthResponse, error)
}

// AssignmentService manages which branches a user is expected to complete.
type AssignmentService interface {
	AssignBranch(ctx context.Context, req *AssignBranchRequest) (*AssignmentResponse, error)
	UnassignBranch(ctx context.Context, userID, branchID uuid.UUID) error
	GetByUser(ctx context.Context, userID uuid.UUID) ([]*AssignmentResponse, error)
	GetByManager(ctx context.Context, managerID uuid.UUID) ([]*AssignmentResponse, error)
	GetAll(ctx context.Context) ([]*AssignmentResponse, error)
}

// ProgressService tracks per-user, per-branch completion.
type ProgressService interface {
	GetProgress(ctx context.Context, userID, branchID uuid.UUID) (*ProgressResponse, error)
	UpdateProgress(ctx context.Context, userID, branchID uuid.UUID, req *UpdateProgressRequest) (*ProgressResponse, error)
	GetCompletedBranches(ctx context.Context, userID uuid.UUID) ([]*CompletedBranchResponse, error)
}

// BranchService manages learning content branches.
type BranchService interface {
	Create(ctx context.Context, req *CreateBranchRequest) (*models.Branch, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Branch, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateBranchRequest) (*models.Branch, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters repositories.BranchFilters) (*BranchListResponse, error)
}

// LeafService manages the video leaves inside a branch.
type LeafService interface {
	Create(ctx context.Context, branchID uuid.UUID, req *CreateLeafRequest) (*models.Leaf, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Leaf, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateLeafRequest) (*models.Leaf, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReportService exports completion data for administrators.
type ReportService interface {
	ExportBranchCompletion(ctx context.Context, branchID uuid.UUID) ([]byte, error)
}

// ===== SERVICE MANAGER =====

// ServiceManager aggregates all services and owns their lifecycle.
type ServiceManager interface {
	Identity() IdentityService
	Federated() FederatedIdentityService
	Assignment() AssignmentService
	Progress() ProgressService
	Branch() BranchService
	Leaf() LeafService
	Report() ReportService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
