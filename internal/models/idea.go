package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type IdeaStatus string

const (
	IdeaDraft       IdeaStatus = "DRAFT"
	IdeaPending     IdeaStatus = "PENDING"
	IdeaUnderReview IdeaStatus = "UNDER_REVIEW"
	IdeaApproved    IdeaStatus = "APPROVED"
	IdeaRejected    IdeaStatus = "REJECTED"
)

func (s IdeaStatus) Valid() bool {
	switch s {
	case IdeaDraft, IdeaPending, IdeaUnderReview, IdeaApproved, IdeaRejected:
		return true
	}
	return false
}

type Idea struct {
	ID                string         `gorm:"type:uuid;primaryKey" json:"id"`
	Title             string         `gorm:"not null" json:"title"`
	ProblemStatement  string         `gorm:"type:text;not null" json:"problemStatement"`
	ProposedSolution  string         `gorm:"type:text;not null" json:"proposedSolution"`
	Description       string         `gorm:"type:text;not null" json:"description"`
	Images            pq.StringArray `gorm:"type:text[]" json:"images"`
	Status            IdeaStatus     `gorm:"size:20;default:'DRAFT';not null;index" json:"status"`
	IsPaid            bool           `gorm:"default:false;not null" json:"isPaid"`
	Price             *float64       `json:"price"`
	CreatorID         string         `gorm:"type:uuid;not null;index" json:"creatorId"`
	Creator           User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"creator"`
	Categories        []Category     `gorm:"many2many:idea_categories;" json:"categories"`
	RejectionFeedback string         `gorm:"type:text" json:"rejectionFeedback"`
	IsDeleted         bool           `gorm:"default:false;not null" json:"isDeleted"`
	Upvotes           int            `gorm:"default:0;not null" json:"upvotes"`
	Downvotes         int            `gorm:"default:0;not null" json:"downvotes"`
	Score             int            `gorm:"default:0;not null" json:"score"` // 排序用热度
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`

	// 非数据库字段，用于查询时填充
	CommentCount int `gorm:"-" json:"commentCount"`
}

func (i *Idea) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// CategoryIDs returns the ids of the loaded categories.
func (i *Idea) CategoryIDs() []string {
	ids := make([]string, 0, len(i.Categories))
	for _, c := range i.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
