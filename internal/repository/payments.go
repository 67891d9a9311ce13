package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ideahub/internal/models"
)

func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	return translate(s.db.WithContext(ctx).Omit("Idea").Create(p).Error, "Payment")
}

// GetPaymentByOrder accepts either our order id or the gateway's reference.
func (s *Store) GetPaymentByOrder(ctx context.Context, orderID string) (*models.Payment, error) {
	var p models.Payment
	err := s.db.WithContext(ctx).
		Preload("Idea").
		Where("order_id = ? OR gateway_ref = ?", orderID, orderID).
		First(&p).Error
	if err != nil {
		return nil, translate(err, "Payment")
	}
	return &p, nil
}

func (s *Store) FindPayment(ctx context.Context, userID, ideaID string, status models.PaymentStatus) (*models.Payment, error) {
	var p models.Payment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND idea_id = ? AND status = ?", userID, ideaID, status).
		Order("created_at DESC").
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "Payment")
	}
	return &p, nil
}

func (s *Store) SetGatewayRef(ctx context.Context, id, gatewayRef string) error {
	res := s.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Update("gateway_ref", gatewayRef)
	return mustAffect(res, "Payment")
}

func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus, transactionID string) error {
	updates := map[string]interface{}{"status": status}
	if transactionID != "" {
		updates["transaction_id"] = transactionID
	}
	res := s.db.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Updates(updates)
	return mustAffect(res, "Payment")
}

// ListPayments lists payments newest first; an empty userID lists everyone's.
func (s *Store) ListPayments(ctx context.Context, userID string) ([]models.Payment, error) {
	q := s.db.WithContext(ctx).Preload("Idea")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var payments []models.Payment
	err := q.Order("created_at DESC").Find(&payments).Error
	return payments, translate(err, "Payment")
}
