// Package services содержит бизнес-логику для управления коммерческими
// предложениями: CRUD, отправку клиенту и фиксацию решения.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eazeeinvoice/eazee-invoice/internal/document"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
	"github.com/eazeeinvoice/eazee-invoice/internal/rabbitmq"
	invoicesvc "github.com/eazeeinvoice/eazee-invoice/internal/services/invoice"
)

// dateLayout формат дат в JSON-запросах.
const dateLayout = "02-01-2006"

// QuoteRepository определяет методы для работы с предложениями в хранилище.
type QuoteRepository interface {
	// CreateQuote добавляет новое предложение и возвращает его ID.
	CreateQuote(ctx context.Context, quote models.Quote) (int, error)
	// ReadQuote возвращает предложение по ID в пределах записей владельца.
	ReadQuote(ctx context.Context, id int, username string) (*models.Quote, error)
	// UpdateQuote обновляет данные предложения, не трогая статус.
	UpdateQuote(ctx context.Context, quote models.Quote, id int, username string) (int, error)
	// UpdateQuoteStatus переводит предложение в новый статус.
	UpdateQuoteStatus(ctx context.Context, id int, username string, status document.QuoteStatus) (int, error)
	// ListQuotes возвращает список предложений пользователя с пагинацией.
	ListQuotes(ctx context.Context, username string, limit, offset int) ([]*models.Quote, error)
	// SoftDeleteQuote переносит предложение в корзину.
	SoftDeleteQuote(ctx context.Context, id int, username string) (int, error)
	// ReadCustomer возвращает клиента для сборки письма при отправке.
	ReadCustomer(ctx context.Context, id, username string) (*models.Customer, error)
}

// Publisher описывает публикацию заданий в очередь.
type Publisher interface {
	// Publish публикует сообщение в exchange с ключом маршрутизации.
	Publish(exchange, routingkey string, message any) error
}

// QuoteService реализует бизнес-логику работы с предложениями.
type QuoteService struct {
	repo      QuoteRepository
	publisher Publisher
	log       *slog.Logger
}

// NewQuoteService создает новый экземпляр QuoteService.
func NewQuoteService(repo QuoteRepository, publisher Publisher, log *slog.Logger) *QuoteService {
	return &QuoteService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// parseQuote конвертирует Dummy-запрос во внутреннюю модель и
// пересчитывает агрегаты по строкам.
func parseQuote(username string, req models.DummyQuote) (models.Quote, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return models.Quote{}, fmt.Errorf("invalid date: %w", err)
	}
	validUntil, err := time.Parse(dateLayout, req.ValidUntil)
	if err != nil {
		return models.Quote{}, fmt.Errorf("invalid valid until date: %w", err)
	}
	items, err := invoicesvc.ParseLineItems(req.Items)
	if err != nil {
		return models.Quote{}, err
	}
	totals := document.ComputeDocumentTotals(items)
	return models.Quote{
		Username:   username,
		CustomerID: req.CustomerID,
		Number:     req.Number,
		Date:       date,
		ValidUntil: validUntil,
		Items:      items,
		Subtotal:   totals.Subtotal,
		TaxAmount:  totals.TaxAmount,
		Total:      totals.Total,
	}, nil
}

// Create создает новое предложение в статусе черновика и возвращает его ID.
func (s *QuoteService) Create(ctx context.Context, username string, req models.DummyQuote) (int, error) {
	quote, err := parseQuote(username, req)
	if err != nil {
		return 0, err
	}
	quote.Status = document.QuoteDraft
	id, err := s.repo.CreateQuote(ctx, quote)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new quote", slog.Int("id", id))
	return id, nil
}

// Read возвращает предложение по ID.
func (s *QuoteService) Read(ctx context.Context, id int, username string) (*models.Quote, error) {
	return s.repo.ReadQuote(ctx, id, username)
}

// Update обновляет предложение с пересчётом агрегатов. Статус не меняется.
func (s *QuoteService) Update(ctx context.Context, req models.DummyQuote, id int, username string) (int, error) {
	quote, err := parseQuote(username, req)
	if err != nil {
		return 0, err
	}
	return s.repo.UpdateQuote(ctx, quote, id, username)
}

// List возвращает список предложений пользователя с пагинацией.
func (s *QuoteService) List(ctx context.Context, username string, limit, offset int) ([]*models.Quote, error) {
	return s.repo.ListQuotes(ctx, username, limit, offset)
}

// Remove переносит предложение в корзину.
func (s *QuoteService) Remove(ctx context.Context, id int, username string) (int, error) {
	return s.repo.SoftDeleteQuote(ctx, id, username)
}

// Send отправляет черновик клиенту и ставит в очередь задание на письмо.
func (s *QuoteService) Send(ctx context.Context, id int, username string) error {
	quote, err := s.repo.ReadQuote(ctx, id, username)
	if err != nil {
		return err
	}
	if !document.CanTransitionQuote(quote.Status, document.QuoteSent) {
		return fmt.Errorf("quote %d cannot be sent from status %q", id, quote.Status)
	}
	customer, err := s.repo.ReadCustomer(ctx, quote.CustomerID, username)
	if err != nil {
		return err
	}
	if _, err := s.repo.UpdateQuoteStatus(ctx, id, username, document.QuoteSent); err != nil {
		return err
	}

	job := models.DocumentEmailJob{
		Username:      username,
		DocumentType:  "quote",
		DocumentID:    id,
		Number:        quote.Number,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		Total:         quote.Total.StringFixed(2),
		DueDate:       quote.ValidUntil.Format(dateLayout),
	}
	if err := s.publisher.Publish(rabbitmq.Exchange, rabbitmq.RoutingDocumentEmail, job); err != nil {
		s.log.Error("failed to enqueue quote email", slog.Int("id", id), slog.Any("err", err))
		return err
	}
	s.log.Info("quote sent", slog.Int("id", id), slog.String("customer", customer.Email))
	return nil
}

// Decide фиксирует решение клиента по отправленному предложению.
func (s *QuoteService) Decide(ctx context.Context, id int, username string, req models.DummyQuoteDecision) error {
	quote, err := s.repo.ReadQuote(ctx, id, username)
	if err != nil {
		return err
	}
	var target document.QuoteStatus
	switch req.Decision {
	case "accepted":
		target = document.QuoteAccepted
	case "rejected":
		target = document.QuoteRejected
	default:
		return fmt.Errorf("unknown decision %q", req.Decision)
	}
	if !document.CanTransitionQuote(quote.Status, target) {
		return fmt.Errorf("quote %d cannot go from %q to %q", id, quote.Status, target)
	}
	if _, err := s.repo.UpdateQuoteStatus(ctx, id, username, target); err != nil {
		return err
	}
	s.log.Info("quote decided", slog.Int("id", id), slog.String("decision", req.Decision))
	return nil
}
