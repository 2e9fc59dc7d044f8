package validator

import "github.com/google/uuid"

// RegisterRequest is the payload for local account registration.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=320"`
	DisplayName     string `json:"displayName" validate:"required,min=1,max=100"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// LoginRequest is the payload for local credential login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest carries the raw Google ID token.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// UpdateUserRequest is the payload for profile administration.
type UpdateUserRequest struct {
	Email       *string `json:"email" validate:"omitempty,email,max=320"`
	DisplayName *string `json:"displayName" validate:"omitempty,min=1,max=100"`
	AvatarURL   *string `json:"avatarUrl" validate:"omitempty,url,max=2048"`
	Role        *string `json:"role" validate:"omitempty,oneof=user admin"`
}

// AssignBranchRequest assigns a branch to a user on behalf of a manager.
type AssignBranchRequest struct {
	UserID              uuid.UUID `json:"userId" validate:"required"`
	BranchID            uuid.UUID `json:"branchId" validate:"required"`
	AssignedByManagerID uuid.UUID `json:"assignedByManagerId" validate:"required"`
}

// UpdateProgressRequest reports newly completed leaves for a branch.
type UpdateProgressRequest struct {
	CompletedLeafIDs []uuid.UUID `json:"completedLeafIds" validate:"required"`
}

// CreateBranchRequest creates a branch, optionally with initial leaves.
type CreateBranchRequest struct {
	Title       string              `json:"title" validate:"required,min=1,max=200"`
	Description string              `json:"description" validate:"max=2000"`
	Leaves      []CreateLeafRequest `json:"leaves" validate:"omitempty,dive"`
}

// UpdateBranchRequest updates branch metadata.
type UpdateBranchRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// CreateLeafRequest adds a leaf to a branch. Order is optional; an omitted
// order falls back to the leaf's position, and an explicit 0 is kept.
type CreateLeafRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	VideoURL string `json:"videoUrl" validate:"required,url,max=2048"`
	Order    *int   `json:"order" validate:"omitempty,min=0"`
}

// UpdateLeafRequest updates leaf metadata.
type UpdateLeafRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	VideoURL *string `json:"videoUrl" validate:"omitempty,url,max=2048"`
	Order    *int    `json:"order" validate:"omitempty,min=0"`
}
