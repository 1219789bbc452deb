package payment

import (
	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/apperr"
)

const (
	eventPaymentCaptured = "payment.captured"
	eventOrderPaid       = "order.paid"
	eventPaymentFailed   = "payment.failed"
)

var (
	ErrAlreadyPro       = apperr.Wrap(apperr.ErrConflict, "user is already a pro member")
	ErrInvalidSignature = apperr.Wrap(apperr.ErrValidation, "invalid payment signature")
	ErrPaymentNotFound  = apperr.Wrap(apperr.ErrNotFound, "payment not found")
	ErrPaymentFailed    = apperr.Wrap(apperr.ErrConflict, "payment already marked as failed")
	ErrPaymentMismatch  = apperr.Wrap(apperr.ErrConflict, "order already paid with a different payment")
)

type CheckoutResult struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type VerifyDTO struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type VerifyResult struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
		Order struct {
			Entity struct {
				ID string `json:"id"`
			} `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}
