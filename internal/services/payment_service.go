package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"ideahub/internal/metrics"
	"ideahub/internal/models"
	"ideahub/internal/utils"
)

type CheckoutResult struct {
	URL         string          `json:"url"`
	AlreadyPaid bool            `json:"alreadyPaid"`
	Payment     *models.Payment `json:"payment"`
}

type PaymentService struct {
	payments PaymentStore
	ideas    IdeaStore
	gateway  PaymentGateway
	currency string
}

func NewPaymentService(payments PaymentStore, ideas IdeaStore, gateway PaymentGateway, currency string) *PaymentService {
	return &PaymentService{payments: payments, ideas: ideas, gateway: gateway, currency: currency}
}

// Initiate opens a checkout for a paid idea. Buying an idea twice returns the
// existing purchase instead of charging again.
func (s *PaymentService) Initiate(ctx context.Context, id *Identity, ideaID, clientIP string) (*CheckoutResult, error) {
	if id == nil {
		return nil, utils.NewUnauthenticatedError()
	}
	idea, err := s.ideas.GetIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea.Status != models.IdeaApproved || !idea.IsPaid || idea.Price == nil {
		return nil, utils.NewValidationError("This idea is not for sale")
	}
	if idea.CreatorID == id.UserID {
		return nil, utils.NewValidationError("You cannot buy your own idea")
	}

	paid, err := s.payments.FindPayment(ctx, id.UserID, ideaID, models.PaymentPaid)
	if err != nil {
		return nil, err
	}
	if paid != nil {
		return &CheckoutResult{AlreadyPaid: true, Payment: paid}, nil
	}

	p := &models.Payment{
		UserID:   id.UserID,
		IdeaID:   ideaID,
		Amount:   *idea.Price,
		Currency: s.currency,
		Status:   models.PaymentPending,
	}
	if err := s.payments.CreatePayment(ctx, p); err != nil {
		return nil, utils.NewAppError(utils.ErrWriteFailed, "Failed to create payment", err)
	}

	session, err := s.gateway.CreateCheckout(ctx, CheckoutRequest{
		OrderID:       p.OrderID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		CustomerName:  id.Name,
		CustomerEmail: id.Email,
		ClientIP:      clientIP,
	})
	if err != nil {
		_ = s.settle(ctx, p, models.PaymentFailed, "")
		return nil, err
	}
	if err := s.payments.SetGatewayRef(ctx, p.ID, session.GatewayRef); err != nil {
		return nil, utils.NewAppError(utils.ErrWriteFailed, "Failed to save payment reference", err)
	}
	p.GatewayRef = session.GatewayRef
	metrics.Payments.WithLabelValues(string(models.PaymentPending)).Inc()

	return &CheckoutResult{URL: session.URL, Payment: p}, nil
}

// Verify settles a payment from the order id the gateway redirects back with.
// Settled payments are returned unchanged.
func (s *PaymentService) Verify(ctx context.Context, gatewayOrderID string) (*models.Payment, error) {
	if gatewayOrderID == "" {
		return nil, utils.NewValidationError("Order ID is required")
	}
	v, err := s.gateway.Verify(ctx, gatewayOrderID)
	if err != nil {
		return nil, err
	}

	lookup := v.CustomerOrderID
	if lookup == "" {
		lookup = gatewayOrderID
	}
	p, err := s.payments.GetPaymentByOrder(ctx, lookup)
	if err != nil {
		return nil, err
	}
	if p.Status == models.PaymentPaid {
		return p, nil
	}

	status := models.PaymentFailed
	if v.Valid && v.Amount+0.005 >= p.Amount {
		status = models.PaymentPaid
	}
	if err := s.settle(ctx, p, status, v.TransactionID); err != nil {
		return nil, err
	}
	if status == models.PaymentFailed {
		log.WithFields(log.Fields{"order_id": p.OrderID, "code": v.Code, "message": v.Message}).Warn("payment not completed")
	}
	return p, nil
}

func (s *PaymentService) settle(ctx context.Context, p *models.Payment, status models.PaymentStatus, transactionID string) error {
	if err := s.payments.UpdatePaymentStatus(ctx, p.ID, status, transactionID); err != nil {
		log.WithField("payment_id", p.ID).WithError(err).Error("failed to update payment")
		return utils.NewAppError(utils.ErrWriteFailed, "Failed to update payment", err)
	}
	p.Status = status
	if transactionID != "" {
		p.TransactionID = transactionID
	}
	metrics.Payments.WithLabelValues(string(status)).Inc()
	return nil
}

// HasAccess reports whether the caller may read the full idea.
func (s *PaymentService) HasAccess(ctx context.Context, id *Identity, idea *models.Idea) (bool, error) {
	if !idea.IsPaid || Can(id, ViewPaidIdea, idea.CreatorID) {
		return true, nil
	}
	if id == nil {
		return false, nil
	}
	p, err := s.payments.FindPayment(ctx, id.UserID, idea.ID, models.PaymentPaid)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

func (s *PaymentService) MyPurchases(ctx context.Context, id *Identity) ([]models.Payment, error) {
	if id == nil {
		return nil, utils.NewUnauthenticatedError()
	}
	all, err := s.payments.ListPayments(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	paid := make([]models.Payment, 0, len(all))
	for _, p := range all {
		if p.Status == models.PaymentPaid {
			paid = append(paid, p)
		}
	}
	return paid, nil
}

func (s *PaymentService) ListAll(ctx context.Context, id *Identity) ([]models.Payment, error) {
	if !Can(id, ViewPayments, "") {
		return nil, utils.NewForbiddenError("admin only")
	}
	return s.payments.ListPayments(ctx, "")
}
