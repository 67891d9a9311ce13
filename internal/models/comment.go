package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeletedCommentText replaces the body of a soft-deleted comment.
const DeletedCommentText = "This comment has been deleted."

type Comment struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	IdeaID    string    `gorm:"type:uuid;not null;index" json:"ideaId"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ParentID  *string   `gorm:"type:uuid;index" json:"parentId"` // Nullable for top-level comments
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsDeleted bool      `gorm:"default:false;not null" json:"isDeleted"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
