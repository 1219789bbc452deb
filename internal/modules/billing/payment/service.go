// Package payment turns a completed gateway payment into a pro upgrade.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	appcfg "github.com/coderhuBypassion/BriefBank/internal/config"
	"github.com/coderhuBypassion/BriefBank/internal/models"
	"github.com/coderhuBypassion/BriefBank/internal/modules/auth/account"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/apperr"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/logger"
	"github.com/coderhuBypassion/BriefBank/internal/pkg/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db       *gorm.DB
	users    *account.Service
	gateway  Gateway
	metrics  *metrics.Metrics
	log      *zap.Logger
	amount   int64
	currency string
	now      func() time.Time
}

func NewService(db *gorm.DB, users *account.Service, gateway Gateway, cfg appcfg.PaymentConfig, m *metrics.Metrics, log *zap.Logger) *Service {
	amount, currency := cfg.Amount, strings.TrimSpace(cfg.Currency)
	if amount <= 0 {
		amount = appcfg.DefaultPaymentAmount
	}
	if currency == "" {
		currency = appcfg.DefaultPaymentCurrency
	}
	return &Service{
		db:       db,
		users:    users,
		gateway:  gateway,
		metrics:  m,
		log:      logger.OrNop(log),
		amount:   amount,
		currency: currency,
		now:      time.Now,
	}
}

// Checkout opens a gateway order for the pro upgrade.
func (s *Service) Checkout(ctx context.Context, id account.Identity) (*CheckoutResult, error) {
	u, err := s.users.Provision(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsPro {
		return nil, ErrAlreadyPro
	}

	order, err := s.gateway.CreateOrder(ctx, OrderRequest{
		Amount:   s.amount,
		Currency: s.currency,
		Receipt:  receipt(u.ID, s.now()),
		Notes:    map[string]string{"userId": u.ID, "clerkId": u.ClerkID},
	})
	if err != nil {
		s.log.Error("create payment order failed", zap.String("user", u.ClerkID), zap.Error(err))
		return nil, apperr.WithCause(apperr.ErrUpstream, "payment gateway unavailable", err)
	}

	p := models.Payment{
		UserID:   u.ID,
		OrderID:  order.ID,
		Amount:   s.amount,
		Currency: s.currency,
		Status:   models.PaymentStatusCreated,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, err
	}
	s.metrics.PaymentStatus(models.PaymentStatusCreated)

	return &CheckoutResult{
		OrderID:  order.ID,
		Amount:   s.amount,
		Currency: s.currency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// Verify checks the checkout callback and upgrades the caller.
func (s *Service) Verify(ctx context.Context, id account.Identity, dto *VerifyDTO) (*VerifyResult, error) {
	orderID := strings.TrimSpace(dto.OrderID)
	paymentID := strings.TrimSpace(dto.PaymentID)
	signature := strings.TrimSpace(dto.Signature)
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "missing payment verification fields")
	}

	u, err := s.users.Provision(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		s.log.Warn("invalid payment signature", zap.String("user", u.ClerkID), zap.String("order", orderID))
		return nil, ErrInvalidSignature
	}

	p, err := s.findByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.UserID != u.ID {
		return nil, ErrPaymentNotFound
	}

	upgraded, err := s.complete(ctx, p, paymentID, true)
	if err != nil {
		return nil, err
	}
	return &VerifyResult{Success: true, User: upgraded}, nil
}

// HandleWebhook applies a signed gateway event. Unknown events and orders
// are acknowledged and ignored.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.gateway.VerifyWebhook(body, signature) {
		return ErrInvalidSignature
	}
	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return apperr.Wrap(apperr.ErrValidation, "malformed webhook payload")
	}

	orderID := ev.Payload.Payment.Entity.OrderID
	if orderID == "" {
		orderID = ev.Payload.Order.Entity.ID
	}
	paymentID := ev.Payload.Payment.Entity.ID
	log := s.log.With(zap.String("event", ev.Event), zap.String("order", orderID))

	switch ev.Event {
	case eventPaymentCaptured, eventOrderPaid, eventPaymentFailed:
	default:
		log.Debug("ignoring payment webhook")
		return nil
	}
	p, err := s.findByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if p == nil {
		log.Warn("webhook for unknown order")
		return nil
	}

	if ev.Event == eventPaymentFailed {
		return s.fail(ctx, p)
	}
	_, err = s.complete(ctx, p, paymentID, false)
	if errors.Is(err, ErrPaymentFailed) {
		log.Warn("paid webhook for a failed payment")
		return nil
	}
	return err
}

func (s *Service) findByOrder(ctx context.Context, orderID string) (*models.Payment, error) {
	var p models.Payment
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// complete moves the payment to paid and upgrades its owner in one
// transaction. Repeats for an already paid order succeed without changes;
// strict requires the repeat to carry the same payment id.
func (s *Service) complete(ctx context.Context, p *models.Payment, paymentID string, strict bool) (*models.User, error) {
	var u models.User
	transitioned := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", p.ID, models.PaymentStatusCreated).
			Updates(map[string]interface{}{"status": models.PaymentStatusPaid, "payment_id": paymentID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.Payment
			if err := tx.First(&current, "id = ?", p.ID).Error; err != nil {
				return err
			}
			switch {
			case current.Status == models.PaymentStatusFailed:
				return ErrPaymentFailed
			case strict && paymentID != "" && current.PaymentID != paymentID:
				return ErrPaymentMismatch
			}
		} else {
			transitioned = true
		}

		if err := tx.Model(&models.User{}).Where("id = ?", p.UserID).Update("is_pro", true).Error; err != nil {
			return err
		}
		return tx.First(&u, "id = ?", p.UserID).Error
	})
	if err != nil {
		return nil, err
	}
	if transitioned {
		s.metrics.PaymentStatus(models.PaymentStatusPaid)
		s.log.Info("user upgraded to pro", zap.String("user", u.ClerkID), zap.String("order", p.OrderID))
	}
	return &u, nil
}

func (s *Service) fail(ctx context.Context, p *models.Payment) error {
	res := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND status = ?", p.ID, models.PaymentStatusCreated).
		Update("status", models.PaymentStatusFailed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		s.metrics.PaymentStatus(models.PaymentStatusFailed)
	}
	return nil
}

const receiptUserChars = 8

// receipt stays under the gateway's 40 character limit; the full user id
// travels in the order notes.
func receipt(userID string, at time.Time) string {
	short := strings.ReplaceAll(userID, "-", "")
	if len(short) > receiptUserChars {
		short = short[:receiptUserChars]
	}
	return fmt.Sprintf("order_%s_%d", short, at.UnixMilli())
}
