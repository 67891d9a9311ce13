package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Blog struct {
	ID             string         `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID       string         `gorm:"type:uuid;not null;index" json:"authorId"`
	Author         User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Title          string         `gorm:"not null" json:"title"`
	Content        string         `gorm:"type:text;not null" json:"content"` // Markdown
	Excerpt        string         `gorm:"size:300" json:"excerpt"`
	CoverImage     string         `json:"coverImage"`
	Category       string         `gorm:"index" json:"category"`
	Tags           pq.StringArray `gorm:"type:text[]" json:"tags"`
	SEODescription string         `gorm:"size:300" json:"seoDescription"`
	SEOKeywords    pq.StringArray `gorm:"type:text[]" json:"seoKeywords"`
	Views          int            `gorm:"default:0;not null" json:"views"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
