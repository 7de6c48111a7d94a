// Package gateway talks to the card/UPI payment provider.
package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"rekraft-backend/internal/config"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("payment gateway is not configured")

// OrderRequest is a payment order to open with the provider.
type OrderRequest struct {
	AmountPaise int64
	Currency    string
	Receipt     string
}

// Client opens provider-side orders and checks payment signatures.
type Client interface {
	CreateOrder(ctx context.Context, req OrderRequest) (string, error)
	VerifySignature(gatewayOrderID, paymentID, signature string) bool
	KeyID() string
}

type razorpayClient struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
	logger    *zap.Logger
}

func NewRazorpayClient(cfg config.PaymentConfig, logger *zap.Logger) Client {
	var c *razorpay.Client
	if cfg.KeyID != "" && cfg.KeySecret != "" {
		c = razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	}
	return &razorpayClient{client: c, keyID: cfg.KeyID, keySecret: cfg.KeySecret, logger: logger}
}

func (r *razorpayClient) KeyID() string {
	return r.keyID
}

func (r *razorpayClient) CreateOrder(ctx context.Context, req OrderRequest) (string, error) {
	if r.client == nil {
		return "", ErrNotConfigured
	}

	data := map[string]interface{}{
		"amount":   req.AmountPaise,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := r.client.Order.Create(data, nil)
		done <- result{body: body, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("failed to create gateway order: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			r.logger.Error("Gateway order creation failed",
				zap.String("receipt", req.Receipt),
				zap.Error(res.err),
			)
			return "", fmt.Errorf("failed to create gateway order: %w", res.err)
		}
		id, ok := res.body["id"].(string)
		if !ok || id == "" {
			return "", fmt.Errorf("gateway order response has no id")
		}
		return id, nil
	}
}

// VerifySignature checks the provider's HMAC-SHA256 over "orderId|paymentId".
func (r *razorpayClient) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	if r.keySecret == "" {
		return false
	}
	expected := Sign(r.keySecret, gatewayOrderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign returns the hex signature the provider sends for a captured payment.
func Sign(secret, gatewayOrderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
