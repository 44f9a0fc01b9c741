package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eazeeinvoice/eazee-invoice/internal/paymentprovider"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) MarkSubscriber(ctx context.Context, userUID string, periodEnd time.Time) error {
	return m.Called(ctx, userUID, periodEnd).Error(0)
}
func (m *RepoMock) MarkSubscriptionCancelled(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}
func (m *RepoMock) GrantSubscription(ctx context.Context, userUID string) error {
	return m.Called(ctx, userUID).Error(0)
}
func (m *RepoMock) SetSuspended(ctx context.Context, userUID string, suspended bool) error {
	return m.Called(ctx, userUID, suspended).Error(0)
}

type ClientMock struct{ mock.Mock }

func (m *ClientMock) CreateCheckout(reqParams paymentprovider.CreateCheckoutRequest) (*paymentprovider.CreateCheckoutResponse, error) {
	args := m.Called(reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.CreateCheckoutResponse), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const userUID = "f1e2d3c4-b5a6-4789-8abc-def012345678"

func TestBillingService_CreateCheckout(t *testing.T) {
	t.Run("returns confirmation url with user uid in metadata", func(t *testing.T) {
		client := new(ClientMock)
		client.On("CreateCheckout", mock.MatchedBy(func(req paymentprovider.CreateCheckoutRequest) bool {
			return req.Metadata["user_uid"] == userUID && req.Amount.Value == "25.00"
		})).Return(&paymentprovider.CreateCheckoutResponse{
			ID:              "chk_123",
			ConfirmationURL: "https://pay.example.com/chk_123",
		}, nil).Once()

		svc := NewBillingService(new(RepoMock), client, "https://app.example.com/billing/done", newNoopLogger())
		url, err := svc.CreateCheckout(context.Background(), userUID)
		assert.NoError(t, err)
		assert.Equal(t, "https://pay.example.com/chk_123", url)
		client.AssertExpectations(t)
	})

	t.Run("provider error", func(t *testing.T) {
		client := new(ClientMock)
		client.On("CreateCheckout", mock.Anything).Return(nil, errors.New("provider down")).Once()

		svc := NewBillingService(new(RepoMock), client, "", newNoopLogger())
		_, err := svc.CreateCheckout(context.Background(), userUID)
		assert.Error(t, err)
	})
}

func TestBillingService_ProcessWebhookEvent(t *testing.T) {
	periodEnd := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)

	newPayload := func(event string) paymentprovider.WebhookPayload {
		var payload paymentprovider.WebhookPayload
		payload.Event = event
		payload.Object.CurrentPeriodEnd = periodEnd
		payload.Object.Metadata = map[string]string{"user_uid": userUID}
		return payload
	}

	t.Run("payment succeeded marks subscriber", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("MarkSubscriber", mock.Anything, userUID, periodEnd).Return(nil).Once()

		svc := NewBillingService(repo, new(ClientMock), "", newNoopLogger())
		err := svc.ProcessWebhookEvent(context.Background(), newPayload(paymentprovider.EventPaymentSucceeded))
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("cancellation marks subscription cancelled", func(t *testing.T) {
		repo := new(RepoMock)
		repo.On("MarkSubscriptionCancelled", mock.Anything, userUID).Return(nil).Once()

		svc := NewBillingService(repo, new(ClientMock), "", newNoopLogger())
		err := svc.ProcessWebhookEvent(context.Background(), newPayload(paymentprovider.EventSubscriptionCancelled))
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown event is ignored", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewBillingService(repo, new(ClientMock), "", newNoopLogger())
		err := svc.ProcessWebhookEvent(context.Background(), newPayload("refund.created"))
		assert.NoError(t, err)
		repo.AssertNotCalled(t, "MarkSubscriber")
		repo.AssertNotCalled(t, "MarkSubscriptionCancelled")
	})

	t.Run("missing user uid", func(t *testing.T) {
		payload := newPayload(paymentprovider.EventPaymentSucceeded)
		payload.Object.Metadata = nil
		svc := NewBillingService(new(RepoMock), new(ClientMock), "", newNoopLogger())
		err := svc.ProcessWebhookEvent(context.Background(), payload)
		assert.Error(t, err)
	})
}
