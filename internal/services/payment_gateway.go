package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"ideahub/internal/utils"
)

type CheckoutRequest struct {
	OrderID       string
	Amount        float64
	Currency      string
	CustomerName  string
	CustomerEmail string
	ClientIP      string
}

type CheckoutSession struct {
	URL        string
	GatewayRef string // gateway side order id, echoed back as order_id on return
}

type Verification struct {
	Valid           bool
	Code            string
	Message         string
	CustomerOrderID string
	TransactionID   string
	Amount          float64
}

type PaymentGateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	Verify(ctx context.Context, gatewayOrderID string) (*Verification, error)
}

// gatewaySuccessCode marks a settled transaction in verification responses.
const gatewaySuccessCode = "1000"

// HTTPGateway talks to a token-authenticated hosted checkout. Each call first
// obtains a short lived token, then creates or verifies the order.
type HTTPGateway struct {
	baseURL   string
	username  string
	password  string
	prefix    string
	returnURL string
	cancelURL string
	client    *http.Client
}

func NewHTTPGateway(baseURL, username, password, siteURL string) *HTTPGateway {
	site := strings.TrimSuffix(siteURL, "/")
	return &HTTPGateway{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		username:  username,
		password:  password,
		prefix:    "IH",
		returnURL: site + "/payment/verify",
		cancelURL: site + "/payment/verify",
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type gatewayToken struct {
	token   string
	storeID string
}

func (g *HTTPGateway) authenticate(ctx context.Context) (*gatewayToken, error) {
	body, err := g.post(ctx, "/api/get_token", "", map[string]string{
		"username": g.username,
		"password": g.password,
	})
	if err != nil {
		return nil, err
	}
	res := gjson.ParseBytes(body)
	token := res.Get("token").String()
	if token == "" {
		return nil, utils.NewAppError(utils.ErrGateway, "Payment gateway rejected credentials: "+res.Get("message").String(), nil)
	}
	return &gatewayToken{token: token, storeID: res.Get("store_id").String()}, nil
}

func (g *HTTPGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	tok, err := g.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	body, err := g.post(ctx, "/api/secret-pay", tok.token, map[string]interface{}{
		"prefix":           g.prefix,
		"token":            tok.token,
		"store_id":         tok.storeID,
		"return_url":       g.returnURL,
		"cancel_url":       g.cancelURL,
		"amount":           req.Amount,
		"order_id":         req.OrderID,
		"currency":         req.Currency,
		"customer_name":    req.CustomerName,
		"customer_email":   req.CustomerEmail,
		"customer_phone":   "N/A",
		"customer_address": "N/A",
		"customer_city":    "N/A",
		"client_ip":        req.ClientIP,
	})
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(body)
	checkoutURL := res.Get("checkout_url").String()
	if checkoutURL == "" {
		msg := res.Get("message").String()
		if msg == "" {
			msg = res.Get("sp_message").String()
		}
		return nil, utils.NewAppError(utils.ErrGateway, "Payment gateway did not return a checkout URL: "+msg, nil)
	}
	return &CheckoutSession{URL: checkoutURL, GatewayRef: res.Get("sp_order_id").String()}, nil
}

func (g *HTTPGateway) Verify(ctx context.Context, gatewayOrderID string) (*Verification, error) {
	tok, err := g.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	body, err := g.post(ctx, "/api/verification", tok.token, map[string]string{"order_id": gatewayOrderID})
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(body)
	// The endpoint answers with a one element array; tolerate a bare object.
	if res.IsArray() {
		res = res.Get("0")
	}
	if !res.Exists() {
		return nil, utils.NewAppError(utils.ErrGateway, "Empty verification response", nil)
	}

	code := res.Get("sp_code").String()
	return &Verification{
		Valid:           code == gatewaySuccessCode,
		Code:            code,
		Message:         res.Get("sp_message").String(),
		CustomerOrderID: res.Get("customer_order_id").String(),
		TransactionID:   res.Get("bank_trx_id").String(),
		Amount:          res.Get("amount").Float(),
	}, nil
}

func (g *HTTPGateway) post(ctx context.Context, path, token string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode gateway request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrGateway, "Payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrGateway, "Failed to read gateway response", err)
	}
	if resp.StatusCode >= 300 {
		return nil, utils.NewAppError(utils.ErrGateway, fmt.Sprintf("Payment gateway returned status %d", resp.StatusCode), nil)
	}
	if !gjson.ValidBytes(body) {
		return nil, utils.NewAppError(utils.ErrGateway, "Payment gateway returned invalid JSON", nil)
	}
	return body, nil
}
