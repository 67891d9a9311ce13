package services

import (
	"context"
	"strings"
	"time"

	"ideahub/internal/models"
	"ideahub/internal/utils"
)

const cacheTTLCategories = 10 * time.Minute

type CategoryInput struct {
	Name string `json:"name" form:"name" validate:"required,min=2,max=50"`
}

type CategoryService struct {
	categories CategoryStore
	cache      *utils.Cache
}

func NewCategoryService(categories CategoryStore, cache *utils.Cache) *CategoryService {
	return &CategoryService{categories: categories, cache: cache}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(utils.CacheKeyCategories).([]models.Category); ok {
			return cached, nil
		}
	}
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(utils.CacheKeyCategories, categories, cacheTTLCategories)
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	return s.categories.GetCategory(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, id *Identity, in CategoryInput) (*models.Category, error) {
	if !Can(id, ManageCategories, "") {
		return nil, utils.NewForbiddenError("admin only")
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	c := &models.Category{Name: in.Name}
	if err := s.categories.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate()
	return c, nil
}

func (s *CategoryService) Rename(ctx context.Context, id *Identity, categoryID string, in CategoryInput) error {
	if !Can(id, ManageCategories, "") {
		return utils.NewForbiddenError("admin only")
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateStruct(in); err != nil {
		return err
	}
	if err := s.categories.RenameCategory(ctx, categoryID, in.Name); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CategoryService) invalidate() {
	if s.cache != nil {
		s.cache.Delete(utils.CacheKeyCategories)
	}
}
