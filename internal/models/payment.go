package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

type Payment struct {
	ID            string        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string        `gorm:"type:uuid;not null;index:idx_payment_user_idea" json:"userId"`
	IdeaID        string        `gorm:"type:uuid;not null;index:idx_payment_user_idea" json:"ideaId"`
	Idea          Idea          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"idea"`
	OrderID       string        `gorm:"uniqueIndex;not null" json:"orderId"`
	Amount        float64       `gorm:"not null" json:"amount"`
	Currency      string        `gorm:"size:10;not null" json:"currency"`
	Status        PaymentStatus `gorm:"size:20;default:'PENDING';not null" json:"status"`
	GatewayRef    string        `gorm:"index" json:"gatewayRef"` // gateway side order id
	TransactionID string        `json:"transactionId"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.OrderID == "" {
		p.OrderID = uuid.NewString()
	}
	return nil
}
