package repository

import (
	"context"

	"ideahub/internal/models"
)

func (s *Store) ListComments(ctx context.Context, ideaID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("idea_id = ?", ideaID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, translate(err, "Comment")
}

func (s *Store) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	if err := s.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err, "Comment")
	}
	return &c, nil
}

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	return translate(s.db.WithContext(ctx).Omit("User").Create(c).Error, "Comment")
}

// SoftDeleteComment 软删除：只替换内容，保留回复关系
func (s *Store) SoftDeleteComment(ctx context.Context, id, placeholder string) error {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"content": placeholder, "is_deleted": true})
	return mustAffect(res, "Comment")
}
