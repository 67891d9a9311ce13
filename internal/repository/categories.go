package repository

import (
	"context"

	"ideahub/internal/models"
)

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := s.db.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, translate(err, "Category")
}

func (s *Store) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err, "Category")
	}
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(s.db.WithContext(ctx).Create(c).Error, "Category")
}

func (s *Store) RenameCategory(ctx context.Context, id, name string) error {
	res := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("name", name)
	return mustAffect(res, "Category")
}
