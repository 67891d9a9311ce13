package repository

import (
	"context"

	"gorm.io/gorm"

	"ideahub/internal/models"
	"ideahub/internal/services"
)

func (s *Store) GetIdea(ctx context.Context, id string) (*models.Idea, error) {
	var idea models.Idea
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Categories").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&idea).Error
	if err != nil {
		return nil, translate(err, "Idea")
	}
	return &idea, nil
}

func (s *Store) filterIdeas(q *gorm.DB, f services.IdeaFilter) *gorm.DB {
	q = q.Where("ideas.is_deleted = ?", false)
	if f.Status != "" {
		q = q.Where("ideas.status = ?", f.Status)
	}
	if f.CreatorID != "" {
		q = q.Where("ideas.creator_id = ?", f.CreatorID)
	}
	if f.IsPaid != nil {
		q = q.Where("ideas.is_paid = ?", *f.IsPaid)
	}
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("(ideas.title ILIKE ? OR ideas.problem_statement ILIKE ? OR ideas.description ILIKE ?)", like, like, like)
	}
	if f.CategoryID != "" {
		sub := s.db.Table("idea_categories").Select("idea_id").Where("category_id = ?", f.CategoryID)
		q = q.Where("ideas.id IN (?)", sub)
	}
	return q
}

func (s *Store) ListIdeas(ctx context.Context, f services.IdeaFilter) ([]models.Idea, int64, error) {
	tx := s.db.WithContext(ctx)

	var total int64
	if err := s.filterIdeas(tx.Model(&models.Idea{}), f).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "Idea")
	}

	offset, limit := paginate(f.Page, f.Limit)
	var ideas []models.Idea
	err := s.filterIdeas(tx.Model(&models.Idea{}), f).
		Preload("Creator").
		Preload("Categories").
		Order("ideas.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ideas).Error
	if err != nil {
		return nil, 0, translate(err, "Idea")
	}
	return ideas, total, nil
}

func (s *Store) TopIdeas(ctx context.Context, limit int) ([]models.Idea, error) {
	var ideas []models.Idea
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("Categories").
		Where("status = ? AND is_deleted = ?", models.IdeaApproved, false).
		Order("score DESC, upvotes DESC, created_at DESC").
		Limit(limit).
		Find(&ideas).Error
	return ideas, translate(err, "Idea")
}

func (s *Store) loadCategories(tx *gorm.DB, ids []string) ([]models.Category, error) {
	var cats []models.Category
	if len(ids) == 0 {
		return cats, nil
	}
	err := tx.Where("id IN ?", ids).Find(&cats).Error
	return cats, err
}

func (s *Store) CreateIdea(ctx context.Context, idea *models.Idea, categoryIDs []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cats, err := s.loadCategories(tx, categoryIDs)
		if err != nil {
			return err
		}
		if err := tx.Omit("Categories", "Creator").Create(idea).Error; err != nil {
			return err
		}
		if err := tx.Model(idea).Association("Categories").Replace(cats); err != nil {
			return err
		}
		idea.Categories = cats
		return nil
	})
	return translate(err, "Idea")
}

func (s *Store) UpdateIdea(ctx context.Context, idea *models.Idea, categoryIDs []string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cats, err := s.loadCategories(tx, categoryIDs)
		if err != nil {
			return err
		}
		err = tx.Model(idea).
			Select("title", "problem_statement", "proposed_solution", "description",
				"images", "status", "is_paid", "price", "rejection_feedback").
			Updates(idea).Error
		if err != nil {
			return err
		}
		if err := tx.Model(idea).Association("Categories").Replace(cats); err != nil {
			return err
		}
		idea.Categories = cats
		return nil
	})
	return translate(err, "Idea")
}

func (s *Store) UpdateIdeaStatus(ctx context.Context, id string, status models.IdeaStatus, feedback string) error {
	res := s.db.WithContext(ctx).Model(&models.Idea{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"status": status, "rejection_feedback": feedback})
	return mustAffect(res, "Idea")
}

func (s *Store) SoftDeleteIdea(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Idea{}).
		Where("id = ?", id).
		UpdateColumn("is_deleted", true)
	return mustAffect(res, "Idea")
}

// CountComments 批量查询评论数量（不含已删除）
func (s *Store) CountComments(ctx context.Context, ideaIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(ideaIDs))
	if len(ideaIDs) == 0 {
		return counts, nil
	}

	type countResult struct {
		IdeaID string
		Count  int
	}
	var results []countResult
	err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Select("idea_id, COUNT(*) as count").
		Where("idea_id IN ? AND is_deleted = ?", ideaIDs, false).
		Group("idea_id").
		Scan(&results).Error
	if err != nil {
		return nil, translate(err, "Comment")
	}
	for _, r := range results {
		counts[r.IdeaID] = r.Count
	}
	return counts, nil
}
