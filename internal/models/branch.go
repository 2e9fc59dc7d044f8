package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Branch groups ordered leaves into a single learning topic.
type Branch struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title       string    `json:"title" gorm:"not null;size:200"`
	Description string    `json:"description" gorm:"size:2000"`

	Leaves []Leaf `json:"leaves,omitempty" gorm:"foreignKey:BranchID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Branch) TableName() string {
	return "branches"
}

// LeafIDSet returns the ids of the branch's current leaves.
func (b *Branch) LeafIDSet() map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(b.Leaves))
	for _, leaf := range b.Leaves {
		set[leaf.ID] = struct{}{}
	}
	return set
}

// Leaf is a single content unit (one video) within a branch.
type Leaf struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BranchID uuid.UUID `json:"branch_id" gorm:"type:uuid;not null;index"`
	Title    string    `json:"title" gorm:"not null;size:200"`
	VideoURL string    `json:"video_url" gorm:"size:500"`
	Order    int       `json:"order" gorm:"column:display_order;not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Leaf) TableName() string {
	return "leaves"
}
