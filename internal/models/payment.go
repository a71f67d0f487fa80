package models

// CurrencyINR is the only currency orders are created in
const CurrencyINR = "INR"

// OrderRequest is sent to the payment gateway to open an order
type OrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// GatewayOrder is the order handle issued by the payment gateway
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentVerification carries the values the checkout returns after a payment
type PaymentVerification struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// PaymentOrderStatus is the lifecycle state of a recorded order
type PaymentOrderStatus string

const (
	PaymentOrderCreated PaymentOrderStatus = "created"
	PaymentOrderPaid    PaymentOrderStatus = "paid"
)

// PaymentOrder records which user and course a gateway order was issued for
type PaymentOrder struct {
	ID        int                `json:"id"`
	OrderID   string             `json:"order_id"`
	UserID    int                `json:"user"`
	CourseID  int                `json:"course"`
	Amount    int64              `json:"amount"`
	Currency  string             `json:"currency"`
	Receipt   string             `json:"receipt"`
	Status    PaymentOrderStatus `json:"status"`
	PaymentID string             `json:"payment_id,omitempty"`
}
