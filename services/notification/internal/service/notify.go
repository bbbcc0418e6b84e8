package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
	"github.com/Skotchmaster/fashion_shop/pkg/pagination"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/mailer"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/repo"
)

var ErrValidation = errors.New("validation")

const paymentRefunded = "refunded"

type NotificationService struct {
	Repo   *repo.GormRepo
	Mailer mailer.Mailer
}

type userPayload struct {
	UserID   uuid.UUID `json:"userID"`
	Email    string    `json:"email"`
	UserName string    `json:"userName"`
}

type orderItem struct {
	Title    string `json:"title"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type orderPayload struct {
	OrderID        uuid.UUID   `json:"orderID"`
	OrderNumber    string      `json:"orderNumber"`
	UserID         uuid.UUID   `json:"userID"`
	Email          string      `json:"email"`
	Status         string      `json:"status"`
	PreviousStatus string      `json:"previousStatus"`
	Total          int64       `json:"total"`
	Reason         string      `json:"reason"`
	WasConfirmed   bool        `json:"wasConfirmed"`
	PaymentStatus  string      `json:"paymentStatus"`
	Items          []orderItem `json:"items"`
	Refunded       bool        `json:"-"`
}

type delivery struct {
	userID   uuid.UUID
	email    string
	kind     string
	subject  string
	dedupKey string
	data     any
}

func (s *NotificationService) HandleUserEvent(ctx context.Context, ev events.Event) (err error) {
	if ev.Type() != "user_registered" {
		return nil
	}
	defer func() {
		metrics.EventsConsumed.WithLabelValues(events.TopicUsers, ev.Type(), metrics.Outcome(err)).Inc()
	}()

	var p userPayload
	if err := ev.Decode(&p); err != nil {
		return fmt.Errorf("decode %s: %w", ev.Type(), err)
	}

	return s.deliver(ctx, delivery{
		userID:   p.UserID,
		email:    p.Email,
		kind:     models.KindWelcome,
		subject:  subject(models.KindWelcome, ""),
		dedupKey: models.KindWelcome + ":" + p.UserID.String(),
		data:     p,
	})
}

// orderKind maps an order event to the mail it triggers. Status changes to
// confirmed or cancelled are mailed through their own events.
func orderKind(eventType string, p orderPayload) (string, bool) {
	switch eventType {
	case "order_confirmed":
		return models.KindOrderConfirmed, true
	case "order_cancelled":
		return models.KindOrderCancelled, true
	case "return_requested":
		return models.KindReturnRequested, true
	case "order_status_changed":
		if p.Status == "confirmed" || p.Status == "cancelled" {
			return "", false
		}
		return models.KindOrderStatus, true
	}
	return "", false
}

func (s *NotificationService) HandleOrderEvent(ctx context.Context, ev events.Event) (err error) {
	var p orderPayload
	if err := ev.Decode(&p); err != nil {
		return fmt.Errorf("decode %s: %w", ev.Type(), err)
	}
	kind, ok := orderKind(ev.Type(), p)
	if !ok {
		return nil
	}
	defer func() {
		metrics.EventsConsumed.WithLabelValues(events.TopicOrders, ev.Type(), metrics.Outcome(err)).Inc()
	}()

	p.Refunded = kind == models.KindOrderCancelled && p.PaymentStatus == paymentRefunded

	key := kind + ":" + p.OrderID.String()
	if kind == models.KindOrderStatus {
		key += ":" + p.Status
	}

	return s.deliver(ctx, delivery{
		userID:   p.UserID,
		email:    p.Email,
		kind:     kind,
		subject:  subject(kind, p.OrderNumber),
		dedupKey: key,
		data:     p,
	})
}

// deliver renders and sends one mail and records the attempt.
func (s *NotificationService) deliver(ctx context.Context, d delivery) error {
	l := logging.FromContext(ctx).With("svc", "notification.deliver", "kind", d.kind)

	if strings.TrimSpace(d.email) == "" {
		l.Warn("notification_skipped", "reason", "no recipient", "key", d.dedupKey)
		return nil
	}

	sent, err := s.Repo.AlreadySent(ctx, d.dedupKey)
	if err != nil {
		return err
	}
	if sent {
		l.Info("notification_skipped", "reason", "already sent", "key", d.dedupKey)
		return nil
	}

	n := &models.Notification{
		Email:    d.email,
		Kind:     d.kind,
		Subject:  d.subject,
		Status:   models.StatusSent,
		DedupKey: d.dedupKey,
	}
	if d.userID != uuid.Nil {
		id := d.userID
		n.UserID = &id
	}

	html, sendErr := render(d.kind, d.data)
	if sendErr == nil {
		sendErr = s.Mailer.Send(ctx, mailer.Message{To: d.email, Subject: d.subject, HTML: html})
	}
	if sendErr != nil {
		n.Status = models.StatusFailed
		n.Error = sendErr.Error()
	}
	metrics.EmailsSent.WithLabelValues(d.kind, n.Status).Inc()

	if err := s.Repo.CreateNotification(ctx, n); err != nil {
		l.Error("notification_record_error", "error", err)
		return err
	}
	if sendErr != nil {
		l.Error("notification_failed", "to", d.email, "error", sendErr)
		return sendErr
	}
	l.Info("notification_sent", "to", d.email)
	return nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, status string, page, size int) (pagination.Page[models.Notification], error) {
	if status != "" && status != models.StatusSent && status != models.StatusFailed {
		return pagination.Page[models.Notification]{}, fmt.Errorf("status must be sent or failed: %w", ErrValidation)
	}
	page, size = pagination.Normalize(page, size)
	offset, limit := pagination.Calculate(page, size)

	total, items, err := s.Repo.ListNotifications(ctx, status, offset, limit)
	if err != nil {
		return pagination.Page[models.Notification]{}, err
	}
	if items == nil {
		items = []models.Notification{}
	}
	return pagination.Page[models.Notification]{Data: items, Meta: pagination.NewMeta(page, size, total)}, nil
}
