// Package services содержит бизнес-логику формирования выписок по
// задолженности клиента.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eazeeinvoice/eazee-invoice/internal/document"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// dateLayout формат дат в JSON-запросах.
const dateLayout = "02-01-2006"

// StatementRepository определяет методы хранилища для выписок.
type StatementRepository interface {
	// ListInvoicesForStatement возвращает кандидатов в выписку:
	// неоплаченные и просроченные счета клиента за период.
	ListInvoicesForStatement(ctx context.Context, username, customerID string, periodStart, periodEnd time.Time) ([]*models.Invoice, error)
	// CreateStatement сохраняет сформированную выписку и возвращает её ID.
	CreateStatement(ctx context.Context, statement models.Statement) (int, error)
	// ListStatements возвращает выписки пользователя с пагинацией.
	ListStatements(ctx context.Context, username string, limit, offset int) ([]*models.Statement, error)
}

// StatementService реализует формирование и выдачу выписок.
type StatementService struct {
	repo StatementRepository
	log  *slog.Logger
}

// NewStatementService создает новый экземпляр StatementService.
func NewStatementService(repo StatementRepository, log *slog.Logger) *StatementService {
	return &StatementService{
		repo: repo,
		log:  log,
	}
}

// Generate формирует выписку за период: отбирает неоплаченные счета
// клиента, считает сводку и сохраняет снимок. Итоговый отбор и порядок
// определяются чистым расчётом, SQL-запрос лишь сужает кандидатов.
func (s *StatementService) Generate(ctx context.Context, username string, req models.DummyStatement, now time.Time) (*models.Statement, error) {
	periodStart, err := time.Parse(dateLayout, req.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("invalid period start: %w", err)
	}
	periodEnd, err := time.Parse(dateLayout, req.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid period end: %w", err)
	}
	if periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("period end %s is before period start %s", req.PeriodEnd, req.PeriodStart)
	}

	invoices, err := s.repo.ListInvoicesForStatement(ctx, username, req.CustomerID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	views := make([]document.StatementInvoice, 0, len(invoices))
	for _, inv := range invoices {
		views = append(views, inv.StatementView())
	}
	selected := document.SelectUnpaidInvoicesForStatement(views, req.CustomerID, periodStart, periodEnd)
	summary := document.SummarizeStatement(selected)

	ids := make([]int, 0, len(selected))
	for _, inv := range selected {
		ids = append(ids, inv.ID)
	}
	statement := models.Statement{
		Username:         username,
		CustomerID:       req.CustomerID,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		InvoiceIDs:       ids,
		TotalOutstanding: summary.TotalOutstanding,
		InvoiceCount:     summary.Count,
		CreatedAt:        now,
	}
	id, err := s.repo.CreateStatement(ctx, statement)
	if err != nil {
		return nil, err
	}
	statement.ID = id
	s.log.Info("generated statement",
		slog.Int("id", id),
		slog.String("customer", req.CustomerID),
		slog.Int("invoices", summary.Count))
	return &statement, nil
}

// List возвращает выписки пользователя с пагинацией.
func (s *StatementService) List(ctx context.Context, username string, limit, offset int) ([]*models.Statement, error) {
	return s.repo.ListStatements(ctx, username, limit, offset)
}
