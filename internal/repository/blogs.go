package repository

import (
	"context"

	"gorm.io/gorm"

	"ideahub/internal/models"
	"ideahub/internal/services"
)

func filterBlogs(q *gorm.DB, f services.BlogFilter) *gorm.DB {
	if f.AuthorID != "" {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("(title ILIKE ? OR excerpt ILIKE ? OR ? = ANY(tags))", like, like, f.Search)
	}
	return q
}

func (s *Store) ListBlogs(ctx context.Context, f services.BlogFilter) ([]models.Blog, int64, error) {
	tx := s.db.WithContext(ctx)

	var total int64
	if err := filterBlogs(tx.Model(&models.Blog{}), f).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "Blog")
	}

	offset, limit := paginate(f.Page, f.Limit)
	var blogs []models.Blog
	err := filterBlogs(tx.Model(&models.Blog{}), f).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&blogs).Error
	if err != nil {
		return nil, 0, translate(err, "Blog")
	}
	return blogs, total, nil
}

func (s *Store) GetBlog(ctx context.Context, id string) (*models.Blog, error) {
	var b models.Blog
	if err := s.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&b).Error; err != nil {
		return nil, translate(err, "Blog")
	}
	return &b, nil
}

func (s *Store) CreateBlog(ctx context.Context, b *models.Blog) error {
	return translate(s.db.WithContext(ctx).Omit("Author").Create(b).Error, "Blog")
}

func (s *Store) UpdateBlog(ctx context.Context, b *models.Blog) error {
	res := s.db.WithContext(ctx).Model(b).
		Select("title", "content", "excerpt", "cover_image", "category", "tags", "seo_description", "seo_keywords").
		Updates(b)
	return mustAffect(res, "Blog")
}

func (s *Store) DeleteBlog(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Blog{})
	return mustAffect(res, "Blog")
}

// IncrementBlogViews 增加浏览量
func (s *Store) IncrementBlogViews(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Model(&models.Blog{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
