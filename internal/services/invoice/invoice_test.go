package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eazeeinvoice/eazee-invoice/internal/document"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateInvoice(ctx context.Context, invoice models.Invoice) (int, error) {
	args := m.Called(ctx, invoice)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadInvoice(ctx context.Context, id int, username string) (*models.Invoice, error) {
	args := m.Called(ctx, id, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}
func (m *RepoMock) UpdateInvoice(ctx context.Context, invoice models.Invoice, id int, username string) (int, error) {
	args := m.Called(ctx, invoice, id, username)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) UpdateInvoiceStatus(ctx context.Context, id int, username string, status document.InvoiceStatus) (int, error) {
	args := m.Called(ctx, id, username, status)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListInvoices(ctx context.Context, username string, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, username, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Invoice), args.Error(1)
}
func (m *RepoMock) SoftDeleteInvoice(ctx context.Context, id int, username string) (int, error) {
	args := m.Called(ctx, id, username)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadCustomer(ctx context.Context, id, username string) (*models.Customer, error) {
	args := m.Called(ctx, id, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(exchange, routingkey string, message any) error {
	return m.Called(exchange, routingkey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validRequest() models.DummyInvoice {
	return models.DummyInvoice{
		CustomerID: "8b7d3f1a-2c64-4f0e-9d15-6a1b2c3d4e5f",
		Number:     "INV-001",
		Date:       "10-03-2026",
		DueDate:    "24-03-2026",
		Items: []models.DummyLineItem{
			{Description: "Consulting", Quantity: "2", UnitPrice: "10", TaxRatePercent: "20"},
		},
	}
}

func TestInvoiceService_Create(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(req *models.DummyInvoice)
		setupMocks func(r *RepoMock)
		wantID     int
		wantErr    bool
	}{
		{
			name: "success create computes totals and draft status",
			setupMocks: func(r *RepoMock) {
				r.On("CreateInvoice", mock.Anything, mock.MatchedBy(func(inv models.Invoice) bool {
					return inv.Status == document.InvoiceDraft &&
						inv.Subtotal.Equal(decimal.NewFromInt(20)) &&
						inv.TaxAmount.Equal(decimal.NewFromInt(4)) &&
						inv.Total.Equal(decimal.NewFromInt(24))
				})).Return(42, nil).Once()
			},
			wantID: 42,
		},
		{
			name:       "invalid date",
			mutate:     func(req *models.DummyInvoice) { req.Date = "2026-03-10" },
			setupMocks: func(r *RepoMock) {},
			wantErr:    true,
		},
		{
			name: "invalid quantity",
			mutate: func(req *models.DummyInvoice) {
				req.Items[0].Quantity = "two"
			},
			setupMocks: func(r *RepoMock) {},
			wantErr:    true,
		},
		{
			name: "repository error",
			setupMocks: func(r *RepoMock) {
				r.On("CreateInvoice", mock.Anything, mock.Anything).
					Return(0, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			pub := new(PublisherMock)
			tt.setupMocks(repo)
			svc := NewInvoiceService(repo, pub, newNoopLogger())

			req := validRequest()
			if tt.mutate != nil {
				tt.mutate(&req)
			}

			id, err := svc.Create(context.Background(), "alice", req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestInvoiceService_Send(t *testing.T) {
	draft := &models.Invoice{
		ID:         7,
		Username:   "alice",
		CustomerID: "8b7d3f1a-2c64-4f0e-9d15-6a1b2c3d4e5f",
		Number:     "INV-007",
		DueDate:    time.Date(2026, 3, 24, 0, 0, 0, 0, time.UTC),
		Status:     document.InvoiceDraft,
		Total:      decimal.NewFromInt(24),
	}
	customer := &models.Customer{
		ID:    draft.CustomerID,
		Name:  "Acme Ltd",
		Email: "billing@acme.example",
	}

	t.Run("success send publishes email job", func(t *testing.T) {
		repo := new(RepoMock)
		pub := new(PublisherMock)
		repo.On("ReadInvoice", mock.Anything, 7, "alice").Return(draft, nil).Once()
		repo.On("ReadCustomer", mock.Anything, draft.CustomerID, "alice").Return(customer, nil).Once()
		repo.On("UpdateInvoiceStatus", mock.Anything, 7, "alice", document.InvoiceUnpaid).
			Return(1, nil).Once()
		pub.On("Publish", mock.Anything, mock.Anything, mock.MatchedBy(func(msg any) bool {
			job, ok := msg.(models.DocumentEmailJob)
			return ok && job.DocumentType == "invoice" &&
				job.CustomerEmail == "billing@acme.example" &&
				job.Total == "24.00"
		})).Return(nil).Once()

		svc := NewInvoiceService(repo, pub, newNoopLogger())
		err := svc.Send(context.Background(), 7, "alice")
		require.NoError(t, err)
		repo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("already paid invoice cannot be sent", func(t *testing.T) {
		paid := *draft
		paid.Status = document.InvoicePaid
		repo := new(RepoMock)
		pub := new(PublisherMock)
		repo.On("ReadInvoice", mock.Anything, 7, "alice").Return(&paid, nil).Once()

		svc := NewInvoiceService(repo, pub, newNoopLogger())
		err := svc.Send(context.Background(), 7, "alice")
		assert.Error(t, err)
		repo.AssertNotCalled(t, "UpdateInvoiceStatus")
		pub.AssertNotCalled(t, "Publish")
	})
}

func TestInvoiceService_MarkPaid(t *testing.T) {
	tests := []struct {
		name    string
		status  document.InvoiceStatus
		wantErr bool
	}{
		{name: "unpaid becomes paid", status: document.InvoiceUnpaid},
		{name: "overdue becomes paid", status: document.InvoiceOverdue},
		{name: "draft cannot be paid", status: document.InvoiceDraft, wantErr: true},
		{name: "paid is terminal", status: document.InvoicePaid, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &models.Invoice{ID: 3, Username: "alice", Status: tt.status}
			repo := new(RepoMock)
			repo.On("ReadInvoice", mock.Anything, 3, "alice").Return(inv, nil).Once()
			if !tt.wantErr {
				repo.On("UpdateInvoiceStatus", mock.Anything, 3, "alice", document.InvoicePaid).
					Return(1, nil).Once()
			}

			svc := NewInvoiceService(repo, new(PublisherMock), newNoopLogger())
			err := svc.MarkPaid(context.Background(), 3, "alice")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}
