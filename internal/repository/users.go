package repository

import (
	"context"

	"gorm.io/gorm"

	"ideahub/internal/models"
	"ideahub/internal/services"
)

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err, "User")
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error, "User")
}

func filterUsers(q *gorm.DB, f services.UserFilter) *gorm.DB {
	if f.Search != "" {
		like := likePattern(f.Search)
		q = q.Where("(name ILIKE ? OR email ILIKE ?)", like, like)
	}
	return q
}

func (s *Store) ListUsers(ctx context.Context, f services.UserFilter) ([]models.User, int64, error) {
	tx := s.db.WithContext(ctx)

	var total int64
	if err := filterUsers(tx.Model(&models.User{}), f).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "User")
	}

	offset, limit := paginate(f.Page, f.Limit)
	var users []models.User
	err := filterUsers(tx.Model(&models.User{}), f).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, translate(err, "User")
	}
	return users, total, nil
}

func (s *Store) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("role", role)
	return mustAffect(res, "User")
}

func (s *Store) SetUserActive(ctx context.Context, id string, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	return mustAffect(res, "User")
}

func (s *Store) UpdateProfile(ctx context.Context, id, name, image string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "image": image})
	return mustAffect(res, "User")
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	return mustAffect(res, "User")
}
