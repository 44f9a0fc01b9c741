// Package services содержит бизнес-логику биллинга: создание сессии
// оплаты подписки, обработку webhook-событий провайдера и
// административное управление доступом.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eazeeinvoice/eazee-invoice/internal/paymentprovider"
)

// Цена подписки на месяц, единый тариф.
const (
	planPrice    = "25.00"
	planCurrency = "EUR"
)

// BillingRepository определяет методы хранилища для подписок пользователей.
type BillingRepository interface {
	// MarkSubscriber отмечает пользователя подписчиком с концом оплаченного периода.
	MarkSubscriber(ctx context.Context, userUID string, periodEnd time.Time) error
	// MarkSubscriptionCancelled отмечает подписку отменённой.
	MarkSubscriptionCancelled(ctx context.Context, userUID string) error
	// GrantSubscription выдает подписку административно, без биллинга.
	GrantSubscription(ctx context.Context, userUID string) error
	// SetSuspended ставит или снимает блокировку аккаунта.
	SetSuspended(ctx context.Context, userUID string, suspended bool) error
}

// CheckoutClient описывает создание сессии оплаты у провайдера.
type CheckoutClient interface {
	// CreateCheckout создает сессию оплаты и возвращает ссылку подтверждения.
	CreateCheckout(reqParams paymentprovider.CreateCheckoutRequest) (*paymentprovider.CreateCheckoutResponse, error)
}

// BillingService реализует бизнес-логику биллинга.
type BillingService struct {
	repo      BillingRepository
	client    CheckoutClient
	returnURL string
	log       *slog.Logger
}

// NewBillingService создает новый экземпляр BillingService.
func NewBillingService(repo BillingRepository, client CheckoutClient, returnURL string, log *slog.Logger) *BillingService {
	return &BillingService{
		repo:      repo,
		client:    client,
		returnURL: returnURL,
		log:       log,
	}
}

// CreateCheckout создает сессию оплаты подписки для пользователя и
// возвращает ссылку на страницу оплаты провайдера. UID пользователя
// уезжает в metadata и возвращается в webhook-событии.
func (s *BillingService) CreateCheckout(_ context.Context, userUID string) (string, error) {
	resp, err := s.client.CreateCheckout(paymentprovider.CreateCheckoutRequest{
		Amount: paymentprovider.Amount{
			Value:    planPrice,
			Currency: planCurrency,
		},
		ReturnURL: s.returnURL,
		Metadata:  map[string]string{"user_uid": userUID},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create checkout: %w", err)
	}
	s.log.Info("created checkout session",
		slog.String("user_uid", userUID),
		slog.String("checkout_id", resp.ID))
	return resp.ConfirmationURL, nil
}

// ProcessWebhookEvent обновляет статус подписки пользователя по событию
// провайдера. Неизвестные события игнорируются без ошибки, провайдер
// не должен получать ретраи на то, что приложение не обрабатывает.
func (s *BillingService) ProcessWebhookEvent(ctx context.Context, payload paymentprovider.WebhookPayload) error {
	userUID := payload.Object.Metadata["user_uid"]
	if userUID == "" {
		return fmt.Errorf("webhook event %q without user_uid metadata", payload.Event)
	}

	switch payload.Event {
	case paymentprovider.EventPaymentSucceeded:
		if err := s.repo.MarkSubscriber(ctx, userUID, payload.Object.CurrentPeriodEnd); err != nil {
			return err
		}
		s.log.Info("subscription activated",
			slog.String("user_uid", userUID),
			slog.Time("period_end", payload.Object.CurrentPeriodEnd))
	case paymentprovider.EventSubscriptionCancelled:
		if err := s.repo.MarkSubscriptionCancelled(ctx, userUID); err != nil {
			return err
		}
		s.log.Info("subscription cancelled", slog.String("user_uid", userUID))
	default:
		s.log.Warn("ignoring unknown webhook event", slog.String("event", payload.Event))
	}
	return nil
}

// Grant выдает пользователю подписку административно.
func (s *BillingService) Grant(ctx context.Context, userUID string) error {
	if err := s.repo.GrantSubscription(ctx, userUID); err != nil {
		return err
	}
	s.log.Info("subscription granted by admin", slog.String("user_uid", userUID))
	return nil
}

// Suspend ставит или снимает блокировку аккаунта.
func (s *BillingService) Suspend(ctx context.Context, userUID string, suspended bool) error {
	if err := s.repo.SetSuspended(ctx, userUID, suspended); err != nil {
		return err
	}
	s.log.Info("account suspension changed",
		slog.String("user_uid", userUID),
		slog.Bool("suspended", suspended))
	return nil
}
