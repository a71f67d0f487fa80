// Package payments talks to the Razorpay orders API and verifies checkout signatures.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/learnhub/backend/internal/models"
)

// ErrSignatureMismatch is returned when a checkout signature does not match the order and payment
var ErrSignatureMismatch = errors.New("razorpay signature verification failed")

// Config holds the Razorpay credentials and endpoint
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

type gatewayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// RazorpayClient is a payment gateway backed by the Razorpay REST API
type RazorpayClient struct {
	client    *resty.Client
	keySecret string
}

// NewRazorpayClient creates a new Razorpay client
func NewRazorpayClient(cfg Config) *RazorpayClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &RazorpayClient{
		client:    client,
		keySecret: cfg.KeySecret,
	}
}

// CreateOrder opens a new order with the gateway
func (c *RazorpayClient) CreateOrder(ctx context.Context, req models.OrderRequest) (*models.GatewayOrder, error) {
	var order models.GatewayOrder
	var failure gatewayError

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&order).
		SetError(&failure).
		Post("/orders")
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay order: %w", err)
	}

	if resp.IsError() {
		if failure.Error.Description != "" {
			return nil, errors.New(failure.Error.Description)
		}
		return nil, fmt.Errorf("razorpay returned status %d", resp.StatusCode())
	}

	if order.ID == "" {
		return nil, fmt.Errorf("razorpay returned an order without id")
	}

	return &order, nil
}

// VerifyPaymentSignature checks the checkout signature against the order and payment IDs
func (c *RazorpayClient) VerifyPaymentSignature(ctx context.Context, params models.PaymentVerification) error {
	if params.OrderID == "" || params.PaymentID == "" || params.Signature == "" {
		return ErrSignatureMismatch
	}

	expected := Sign(c.keySecret, params.OrderID, params.PaymentID)
	if !hmac.Equal([]byte(expected), []byte(params.Signature)) {
		return ErrSignatureMismatch
	}
	return nil
}

// Sign computes the hex HMAC-SHA256 of "orderID|paymentID" the way the checkout does
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
