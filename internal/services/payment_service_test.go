package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub/internal/models"
	"ideahub/internal/utils"
)

type fakeGateway struct {
	checkoutErr  error
	verification *Verification
	verifyErr    error
	requests     []CheckoutRequest
}

func (g *fakeGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	g.requests = append(g.requests, req)
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	return &CheckoutSession{URL: "https://pay.example.com/checkout/1", GatewayRef: "SP-" + req.OrderID}, nil
}

func (g *fakeGateway) Verify(ctx context.Context, gatewayOrderID string) (*Verification, error) {
	return g.verification, g.verifyErr
}

func paidIdea(id, creator string, price float64) *models.Idea {
	idea := approvedIdea(id, creator)
	idea.IsPaid = true
	idea.Price = &price
	return idea
}

func newPaymentFixture(idea *models.Idea, payments ...*models.Payment) (*PaymentService, *mockPaymentStore, *fakeGateway) {
	store := newMockPaymentStore(payments...)
	ideas := &mockIdeaStore{
		GetIdeaFunc: func(ctx context.Context, id string) (*models.Idea, error) {
			if idea == nil || id != idea.ID {
				return nil, utils.NewNotFoundError("Idea")
			}
			return idea, nil
		},
	}
	gw := &fakeGateway{}
	return NewPaymentService(store, ideas, gw, "BDT"), store, gw
}

func TestPaymentService_Initiate(t *testing.T) {
	svc, store, gw := newPaymentFixture(paidIdea("i1", "creator", 150))
	buyer := &Identity{UserID: "u1", Name: "Ada", Email: "ada@example.com", Role: models.RoleMember}

	res, err := svc.Initiate(context.Background(), buyer, "i1", "203.0.113.9")
	require.NoError(t, err)
	assert.False(t, res.AlreadyPaid)
	assert.Equal(t, "https://pay.example.com/checkout/1", res.URL)
	assert.Equal(t, models.PaymentPending, res.Payment.Status)
	assert.Equal(t, 150.0, res.Payment.Amount)
	assert.Equal(t, "BDT", res.Payment.Currency)

	stored := store.payments[res.Payment.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "SP-"+stored.OrderID, stored.GatewayRef)

	require.Len(t, gw.requests, 1)
	assert.Equal(t, "ada@example.com", gw.requests[0].CustomerEmail)
	assert.Equal(t, "203.0.113.9", gw.requests[0].ClientIP)
}

func TestPaymentService_InitiateRejections(t *testing.T) {
	ctx := context.Background()

	svc, _, _ := newPaymentFixture(paidIdea("i1", "creator", 150))
	_, err := svc.Initiate(ctx, nil, "i1", "")
	assert.True(t, utils.IsErrorCode(err, utils.ErrUnauthenticated))
	_, err = svc.Initiate(ctx, member("creator"), "i1", "")
	assert.True(t, utils.IsErrorCode(err, utils.ErrValidation), "creators cannot buy their own idea")

	svc, _, _ = newPaymentFixture(approvedIdea("i2", "creator"))
	_, err = svc.Initiate(ctx, member("u1"), "i2", "")
	assert.True(t, utils.IsErrorCode(err, utils.ErrValidation), "free ideas are not for sale")
}

func TestPaymentService_InitiateAlreadyPaid(t *testing.T) {
	existing := &models.Payment{ID: "p1", UserID: "u1", IdeaID: "i1", OrderID: "o1", Status: models.PaymentPaid}
	svc, store, gw := newPaymentFixture(paidIdea("i1", "creator", 150), existing)

	res, err := svc.Initiate(context.Background(), member("u1"), "i1", "")
	require.NoError(t, err)
	assert.True(t, res.AlreadyPaid)
	assert.Equal(t, "p1", res.Payment.ID)
	assert.Empty(t, gw.requests)
	assert.Len(t, store.payments, 1)
}

func TestPaymentService_InitiateGatewayFailure(t *testing.T) {
	svc, store, gw := newPaymentFixture(paidIdea("i1", "creator", 150))
	gw.checkoutErr = utils.NewAppError(utils.ErrGateway, "Payment gateway unreachable", nil)

	_, err := svc.Initiate(context.Background(), member("u1"), "i1", "")
	assert.True(t, utils.IsErrorCode(err, utils.ErrGateway))
	require.Len(t, store.payments, 1)
	for _, p := range store.payments {
		assert.Equal(t, models.PaymentFailed, p.Status)
	}
}

func TestPaymentService_Verify(t *testing.T) {
	pending := func() *models.Payment {
		return &models.Payment{ID: "p1", UserID: "u1", IdeaID: "i1", OrderID: "o1", GatewayRef: "SP-o1", Amount: 150, Status: models.PaymentPending}
	}

	tests := []struct {
		name       string
		v          *Verification
		wantStatus models.PaymentStatus
		wantTrx    string
	}{
		{"settled", &Verification{Valid: true, Code: "1000", CustomerOrderID: "o1", TransactionID: "TRX1", Amount: 150}, models.PaymentPaid, "TRX1"},
		{"lookup by gateway ref", &Verification{Valid: true, Code: "1000", TransactionID: "TRX2", Amount: 150}, models.PaymentPaid, "TRX2"},
		{"underpaid", &Verification{Valid: true, Code: "1000", CustomerOrderID: "o1", Amount: 100}, models.PaymentFailed, ""},
		{"declined", &Verification{Valid: false, Code: "1002", CustomerOrderID: "o1"}, models.PaymentFailed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, gw := newPaymentFixture(paidIdea("i1", "creator", 150), pending())
			gw.verification = tt.v

			p, err := svc.Verify(context.Background(), "SP-o1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, p.Status)
			assert.Equal(t, tt.wantStatus, store.payments["p1"].Status)
			assert.Equal(t, tt.wantTrx, store.payments["p1"].TransactionID)
		})
	}
}

func TestPaymentService_VerifySettledIsUnchanged(t *testing.T) {
	paid := &models.Payment{ID: "p1", OrderID: "o1", Amount: 150, Status: models.PaymentPaid, TransactionID: "TRX1"}
	svc, _, gw := newPaymentFixture(nil, paid)
	gw.verification = &Verification{Valid: false, CustomerOrderID: "o1"}

	p, err := svc.Verify(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, p.Status)
	assert.Equal(t, "TRX1", p.TransactionID)

	_, err = svc.Verify(context.Background(), "")
	assert.True(t, utils.IsErrorCode(err, utils.ErrValidation))
}

func TestPaymentService_HasAccess(t *testing.T) {
	idea := paidIdea("i1", "creator", 150)
	purchase := &models.Payment{ID: "p1", UserID: "buyer", IdeaID: "i1", OrderID: "o1", Status: models.PaymentPaid}
	svc, _, _ := newPaymentFixture(idea, purchase)
	ctx := context.Background()

	tests := []struct {
		name string
		id   *Identity
		want bool
	}{
		{"anonymous", nil, false},
		{"stranger", member("stranger"), false},
		{"buyer", member("buyer"), true},
		{"creator", member("creator"), true},
		{"admin", admin("boss"), true},
	}
	for _, tt := range tests {
		ok, err := svc.HasAccess(ctx, tt.id, idea)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, ok, tt.name)
	}

	ok, err := svc.HasAccess(ctx, nil, approvedIdea("free", "creator"))
	require.NoError(t, err)
	assert.True(t, ok, "free ideas are open to everyone")
}

func TestPaymentService_Listings(t *testing.T) {
	svc, _, _ := newPaymentFixture(nil,
		&models.Payment{ID: "p1", UserID: "u1", OrderID: "o1", Status: models.PaymentPaid},
		&models.Payment{ID: "p2", UserID: "u1", OrderID: "o2", Status: models.PaymentFailed},
		&models.Payment{ID: "p3", UserID: "u2", OrderID: "o3", Status: models.PaymentPaid},
	)
	ctx := context.Background()

	mine, err := svc.MyPurchases(ctx, member("u1"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "p1", mine[0].ID)

	_, err = svc.ListAll(ctx, member("u1"))
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))
	all, err := svc.ListAll(ctx, admin("a"))
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
