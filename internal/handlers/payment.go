package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ideahub/internal/middleware"
	"ideahub/internal/models"
	"ideahub/internal/services"
)

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type checkoutRequest struct {
	IdeaID string `json:"ideaId" form:"ideaId"`
}

// Checkout opens a gateway checkout for a paid idea (POST /api/payment).
// The response data is the URL the browser should go to next.
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := bindInput(c, &req); err != nil {
		RespondError(c, err)
		return
	}

	result, err := h.payments.Initiate(c.Request.Context(), middleware.CurrentIdentity(c), req.IdeaID, c.ClientIP())
	if err != nil {
		RespondError(c, err)
		return
	}

	url := result.URL
	message := "Checkout created"
	if result.AlreadyPaid {
		url = "/ideas/" + req.IdeaID
		message = "Already purchased"
	}
	if isHTMX(c) {
		HtmxRedirect(c, url)
		return
	}
	OK(c, http.StatusOK, message, url)
}

// Verify handles the gateway redirect (GET /payment/verify?order_id=...)
func (h *PaymentHandler) Verify(c *gin.Context) {
	payment, err := h.payments.Verify(c.Request.Context(), c.Query("order_id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	if middleware.WantsJSON(c) {
		OK(c, http.StatusOK, "Payment verified", payment)
		return
	}
	Render(c, http.StatusOK, "payment/result.html", gin.H{
		"Payment": payment,
		"Paid":    payment.Status == models.PaymentPaid,
	})
}

// Purchases lists the caller's paid ideas.
func (h *PaymentHandler) Purchases(c *gin.Context) {
	purchases, err := h.payments.MyPurchases(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	if middleware.WantsJSON(c) {
		OK(c, http.StatusOK, "Purchases fetched", purchases)
		return
	}
	Render(c, http.StatusOK, "dashboard/purchases.html", gin.H{"Payments": purchases})
}
