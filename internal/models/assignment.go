package models

import (
	"time"

	"github.com/google/uuid"
)

// Assignment grants a user visibility into a branch. The (UserID, BranchID)
// pair is unique; the composite index is the final arbiter of concurrent
// assign calls.
type Assignment struct {
	ID                  uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_assignments_user_branch"`
	BranchID            uuid.UUID `json:"branch_id" gorm:"type:uuid;not null;uniqueIndex:idx_assignments_user_branch"`
	AssignedByManagerID uuid.UUID `json:"assigned_by_manager_id" gorm:"type:uuid;not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Assignment) TableName() string {
	return "assignments"
}
