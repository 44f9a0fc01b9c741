// Package services содержит бизнес-логику для управления счетами:
// CRUD с пересчётом итогов, переходы статусов и отправку клиенту.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eazeeinvoice/eazee-invoice/internal/document"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
	"github.com/eazeeinvoice/eazee-invoice/internal/rabbitmq"
)

// dateLayout формат дат в JSON-запросах.
const dateLayout = "02-01-2006"

// InvoiceRepository определяет методы для работы со счетами в хранилище.
type InvoiceRepository interface {
	// CreateInvoice добавляет новый счёт и возвращает его ID.
	CreateInvoice(ctx context.Context, invoice models.Invoice) (int, error)
	// ReadInvoice возвращает счёт по ID в пределах записей владельца.
	ReadInvoice(ctx context.Context, id int, username string) (*models.Invoice, error)
	// UpdateInvoice обновляет данные счёта, не трогая статус.
	UpdateInvoice(ctx context.Context, invoice models.Invoice, id int, username string) (int, error)
	// UpdateInvoiceStatus переводит счёт в новый статус.
	UpdateInvoiceStatus(ctx context.Context, id int, username string, status document.InvoiceStatus) (int, error)
	// ListInvoices возвращает список счетов пользователя с пагинацией.
	ListInvoices(ctx context.Context, username string, limit, offset int) ([]*models.Invoice, error)
	// SoftDeleteInvoice переносит счёт в корзину.
	SoftDeleteInvoice(ctx context.Context, id int, username string) (int, error)
	// ReadCustomer возвращает клиента для сборки письма при отправке.
	ReadCustomer(ctx context.Context, id, username string) (*models.Customer, error)
}

// Publisher описывает публикацию заданий в очередь.
type Publisher interface {
	// Publish публикует сообщение в exchange с ключом маршрутизации.
	Publish(exchange, routingkey string, message any) error
}

// InvoiceService реализует бизнес-логику работы со счетами.
type InvoiceService struct {
	repo      InvoiceRepository
	publisher Publisher
	log       *slog.Logger
}

// NewInvoiceService создает новый экземпляр InvoiceService.
func NewInvoiceService(repo InvoiceRepository, publisher Publisher, log *slog.Logger) *InvoiceService {
	return &InvoiceService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// ParseLineItems конвертирует строки Dummy-запроса во внутренние строки
// документа, парся числовые строки в decimal.
func ParseLineItems(items []models.DummyLineItem) ([]document.LineItem, error) {
	result := make([]document.LineItem, 0, len(items))
	for i, item := range items {
		quantity, err := decimal.NewFromString(item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("item %d: invalid quantity: %w", i, err)
		}
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("item %d: invalid unit price: %w", i, err)
		}
		taxRate, err := decimal.NewFromString(item.TaxRatePercent)
		if err != nil {
			return nil, fmt.Errorf("item %d: invalid tax rate: %w", i, err)
		}
		result = append(result, document.LineItem{
			Description:    item.Description,
			Quantity:       quantity,
			UnitPrice:      unitPrice,
			TaxRatePercent: taxRate,
		})
	}
	return result, nil
}

// parseInvoice конвертирует Dummy-запрос во внутреннюю модель и
// пересчитывает агрегаты по строкам. Хранимые агрегаты — только кэш
// этого расчёта.
func parseInvoice(username string, req models.DummyInvoice) (models.Invoice, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("invalid date: %w", err)
	}
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("invalid due date: %w", err)
	}
	items, err := ParseLineItems(req.Items)
	if err != nil {
		return models.Invoice{}, err
	}
	totals := document.ComputeDocumentTotals(items)
	return models.Invoice{
		Username:   username,
		CustomerID: req.CustomerID,
		Number:     req.Number,
		Date:       date,
		DueDate:    dueDate,
		Items:      items,
		Subtotal:   totals.Subtotal,
		TaxAmount:  totals.TaxAmount,
		Total:      totals.Total,
	}, nil
}

// Create создает новый счёт в статусе черновика и возвращает его ID.
func (s *InvoiceService) Create(ctx context.Context, username string, req models.DummyInvoice) (int, error) {
	invoice, err := parseInvoice(username, req)
	if err != nil {
		return 0, err
	}
	invoice.Status = document.InvoiceDraft
	id, err := s.repo.CreateInvoice(ctx, invoice)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new invoice", slog.Int("id", id))
	return id, nil
}

// Read возвращает счёт по ID.
func (s *InvoiceService) Read(ctx context.Context, id int, username string) (*models.Invoice, error) {
	return s.repo.ReadInvoice(ctx, id, username)
}

// Update обновляет счёт с пересчётом агрегатов. Статус не меняется.
func (s *InvoiceService) Update(ctx context.Context, req models.DummyInvoice, id int, username string) (int, error) {
	invoice, err := parseInvoice(username, req)
	if err != nil {
		return 0, err
	}
	return s.repo.UpdateInvoice(ctx, invoice, id, username)
}

// List возвращает список счетов пользователя с пагинацией.
func (s *InvoiceService) List(ctx context.Context, username string, limit, offset int) ([]*models.Invoice, error) {
	return s.repo.ListInvoices(ctx, username, limit, offset)
}

// Remove переносит счёт в корзину.
func (s *InvoiceService) Remove(ctx context.Context, id int, username string) (int, error) {
	return s.repo.SoftDeleteInvoice(ctx, id, username)
}

// Send переводит черновик в неоплаченный счёт и ставит в очередь
// задание на отправку письма клиенту.
func (s *InvoiceService) Send(ctx context.Context, id int, username string) error {
	invoice, err := s.repo.ReadInvoice(ctx, id, username)
	if err != nil {
		return err
	}
	if !document.CanTransitionInvoice(invoice.Status, document.InvoiceUnpaid) {
		return fmt.Errorf("invoice %d cannot be sent from status %q", id, invoice.Status)
	}
	customer, err := s.repo.ReadCustomer(ctx, invoice.CustomerID, username)
	if err != nil {
		return err
	}
	if _, err := s.repo.UpdateInvoiceStatus(ctx, id, username, document.InvoiceUnpaid); err != nil {
		return err
	}

	job := models.DocumentEmailJob{
		Username:      username,
		DocumentType:  "invoice",
		DocumentID:    id,
		Number:        invoice.Number,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		Total:         invoice.Total.StringFixed(2),
		DueDate:       invoice.DueDate.Format(dateLayout),
	}
	if err := s.publisher.Publish(rabbitmq.Exchange, rabbitmq.RoutingDocumentEmail, job); err != nil {
		// Статус уже переведён, письмо уйдёт при повторной отправке.
		s.log.Error("failed to enqueue invoice email", slog.Int("id", id), slog.Any("err", err))
		return err
	}
	s.log.Info("invoice sent", slog.Int("id", id), slog.String("customer", customer.Email))
	return nil
}

// MarkPaid отмечает счёт оплаченным. Допустимо из неоплаченного и
// просроченного статусов.
func (s *InvoiceService) MarkPaid(ctx context.Context, id int, username string) error {
	invoice, err := s.repo.ReadInvoice(ctx, id, username)
	if err != nil {
		return err
	}
	if !document.CanTransitionInvoice(invoice.Status, document.InvoicePaid) {
		return fmt.Errorf("invoice %d cannot be marked paid from status %q", id, invoice.Status)
	}
	if _, err := s.repo.UpdateInvoiceStatus(ctx, id, username, document.InvoicePaid); err != nil {
		return err
	}
	s.log.Info("invoice marked paid", slog.Int("id", id))
	return nil
}
