package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eazeeinvoice/eazee-invoice/internal/document"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// CreateQuote вставляет новое предложение и возвращает его ID.
func (s *Storage) CreateQuote(ctx context.Context, quote models.Quote) (int, error) {
	const op = "storage.CreateQuote"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	items, err := json.Marshal(quote.Items)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO quotes (username, customer_id, number, date, valid_until, status,
			      items, subtotal, tax_amount, total)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		quote.Username, quote.CustomerID, quote.Number, quote.Date, quote.ValidUntil,
		quote.Status, items, quote.Subtotal, quote.TaxAmount, quote.Total).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

const quoteColumns = `id, username, customer_id, number, date, valid_until, status,
			      items, subtotal, tax_amount, total, is_deleted`

func scanQuote(scan func(...any) error) (*models.Quote, error) {
	var q models.Quote
	var items []byte
	if err := scan(&q.ID, &q.Username, &q.CustomerID, &q.Number, &q.Date,
		&q.ValidUntil, &q.Status, &items, &q.Subtotal, &q.TaxAmount,
		&q.Total, &q.IsDeleted); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &q.Items); err != nil {
		return nil, err
	}
	return &q, nil
}

// ReadQuote возвращает предложение по ID в пределах записей владельца.
func (s *Storage) ReadQuote(ctx context.Context, id int, username string) (*models.Quote, error) {
	const op = "storage.ReadQuote"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + quoteColumns + `
			  FROM quotes
			  WHERE id = $1 AND username = $2 AND is_deleted = FALSE`
	row := s.DB.QueryRowContext(ctx, query, id, username)
	q, err := scanQuote(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return q, nil
}

// UpdateQuote обновляет данные предложения и возвращает количество изменённых строк.
func (s *Storage) UpdateQuote(ctx context.Context, quote models.Quote, id int, username string) (int, error) {
	const op = "storage.UpdateQuote"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	items, err := json.Marshal(quote.Items)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE quotes
			  SET customer_id = $1, number = $2, date = $3, valid_until = $4,
			      items = $5, subtotal = $6, tax_amount = $7, total = $8
			  WHERE id = $9 AND username = $10 AND is_deleted = FALSE`
	result, err := s.DB.ExecContext(ctx, query,
		quote.CustomerID, quote.Number, quote.Date, quote.ValidUntil,
		items, quote.Subtotal, quote.TaxAmount, quote.Total, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateQuoteStatus переводит предложение в новый статус.
func (s *Storage) UpdateQuoteStatus(ctx context.Context, id int, username string, status document.QuoteStatus) (int, error) {
	const op = "storage.UpdateQuoteStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE quotes SET status = $1
			  WHERE id = $2 AND username = $3 AND is_deleted = FALSE`
	result, err := s.DB.ExecContext(ctx, query, status, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListQuotes возвращает список предложений пользователя с пагинацией.
func (s *Storage) ListQuotes(ctx context.Context, username string, limit, offset int) ([]*models.Quote, error) {
	const op = "storage.ListQuotes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + quoteColumns + `
			  FROM quotes
			  WHERE username = $1 AND is_deleted = FALSE
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var quotes []*models.Quote
	for rows.Next() {
		q, err := scanQuote(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return quotes, nil
}

// SoftDeleteQuote помечает предложение удалённым и кладёт снимок записи
// в корзину одной транзакцией.
func (s *Storage) SoftDeleteQuote(ctx context.Context, id int, username string) (int, error) {
	const op = "storage.SoftDeleteQuote"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	quote, err := s.ReadQuote(ctx, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	snapshot, err := json.Marshal(quote)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE quotes SET is_deleted = TRUE WHERE id = $1 AND username = $2`, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO recycle_bin (username, entity_type, entity_id, data) VALUES ($1, $2, $3, $4)`,
		username, models.EntityQuote, fmt.Sprint(id), snapshot)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindSentPastValidUntil возвращает отправленные предложения с истёкшим
// сроком действия по всем пользователям. Используется фоновым воркером.
func (s *Storage) FindSentPastValidUntil(ctx context.Context, now time.Time) ([]*models.Quote, error) {
	const op = "storage.FindSentPastValidUntil"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + quoteColumns + `
			  FROM quotes
			  WHERE status = $1 AND valid_until < $2 AND is_deleted = FALSE
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, document.QuoteSent, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var quotes []*models.Quote
	for rows.Next() {
		q, err := scanQuote(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return quotes, nil
}
