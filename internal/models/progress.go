package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Progress is the completion state of one user within one branch.
//
// CompletedLeafIDs only ever grows: updates merge by set union and never
// remove ids, even ids of leaves that were later deleted from the branch.
// Stale ids are filtered out at read time. CompletedAt is a one-way
// transition; once set it is never cleared.
type Progress struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_branch"`
	BranchID uuid.UUID `json:"branch_id" gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_branch"`

	CompletedLeafIDs datatypes.JSONSlice[uuid.UUID] `json:"completed_leaf_ids" gorm:"type:jsonb"`
	CompletedAt      *time.Time                     `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Progress) TableName() string {
	return "learning_progress"
}

// MergeCompleted unions the given leaf ids into the stored set, preserving
// insertion order and dropping duplicates. Returns true when the set grew.
func (p *Progress) MergeCompleted(leafIDs []uuid.UUID) bool {
	seen := make(map[uuid.UUID]struct{}, len(p.CompletedLeafIDs))
	for _, id := range p.CompletedLeafIDs {
		seen[id] = struct{}{}
	}

	grew := false
	for _, id := range leafIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		p.CompletedLeafIDs = append(p.CompletedLeafIDs, id)
		grew = true
	}
	return grew
}

// Covers reports whether every id in the given set is recorded as completed.
func (p *Progress) Covers(leafIDs map[uuid.UUID]struct{}) bool {
	completed := make(map[uuid.UUID]struct{}, len(p.CompletedLeafIDs))
	for _, id := range p.CompletedLeafIDs {
		completed[id] = struct{}{}
	}
	for id := range leafIDs {
		if _, ok := completed[id]; !ok {
			return false
		}
	}
	return true
}
