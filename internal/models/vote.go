package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VoteType string

const (
	NoVote   VoteType = ""
	Upvote   VoteType = "UPVOTE"
	Downvote VoteType = "DOWNVOTE"
)

func (t VoteType) Valid() bool {
	return t == Upvote || t == Downvote
}

// Vote is unique per (user, idea); the composite index enforces it in postgres.
type Vote struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_vote_user_idea" json:"userId"`
	IdeaID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_vote_user_idea;index" json:"ideaId"`
	Type      VoteType  `gorm:"size:10;not null" json:"type"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
