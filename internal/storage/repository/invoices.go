package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/eazeeinvoice/eazee-invoice/internal/document"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// psql строитель запросов с нумерованными плейсхолдерами PostgreSQL.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// CreateInvoice вставляет новый счёт и возвращает его ID.
func (s *Storage) CreateInvoice(ctx context.Context, invoice models.Invoice) (int, error) {
	const op = "storage.CreateInvoice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	items, err := json.Marshal(invoice.Items)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO invoices (username, customer_id, number, date, due_date, status,
			      items, subtotal, tax_amount, total)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		invoice.Username, invoice.CustomerID, invoice.Number, invoice.Date, invoice.DueDate,
		invoice.Status, items, invoice.Subtotal, invoice.TaxAmount, invoice.Total).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

const invoiceColumns = `id, username, customer_id, number, date, due_date, status,
			      items, subtotal, tax_amount, total, is_deleted`

func scanInvoice(scan func(...any) error) (*models.Invoice, error) {
	var inv models.Invoice
	var items []byte
	if err := scan(&inv.ID, &inv.Username, &inv.CustomerID, &inv.Number, &inv.Date,
		&inv.DueDate, &inv.Status, &items, &inv.Subtotal, &inv.TaxAmount,
		&inv.Total, &inv.IsDeleted); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ReadInvoice возвращает счёт по ID в пределах записей владельца.
func (s *Storage) ReadInvoice(ctx context.Context, id int, username string) (*models.Invoice, error) {
	const op = "storage.ReadInvoice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + invoiceColumns + `
			  FROM invoices
			  WHERE id = $1 AND username = $2 AND is_deleted = FALSE`
	row := s.DB.QueryRowContext(ctx, query, id, username)
	inv, err := scanInvoice(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return inv, nil
}

// UpdateInvoice обновляет данные счёта и возвращает количество изменённых строк.
// Статус этим методом не меняется, для переходов есть UpdateInvoiceStatus.
func (s *Storage) UpdateInvoice(ctx context.Context, invoice models.Invoice, id int, username string) (int, error) {
	const op = "storage.UpdateInvoice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	items, err := json.Marshal(invoice.Items)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE invoices
			  SET customer_id = $1, number = $2, date = $3, due_date = $4,
			      items = $5, subtotal = $6, tax_amount = $7, total = $8
			  WHERE id = $9 AND username = $10 AND is_deleted = FALSE`
	result, err := s.DB.ExecContext(ctx, query,
		invoice.CustomerID, invoice.Number, invoice.Date, invoice.DueDate,
		items, invoice.Subtotal, invoice.TaxAmount, invoice.Total, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateInvoiceStatus переводит счёт в новый статус.
func (s *Storage) UpdateInvoiceStatus(ctx context.Context, id int, username string, status document.InvoiceStatus) (int, error) {
	const op = "storage.UpdateInvoiceStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE invoices SET status = $1
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

// ListInvoices возвращает список счетов пользователя с пагинацией.
func (s *Storage) ListInvoices(ctx context.Context, username string, limit, offset int) ([]*models.Invoice, error) {
	const op = "storage.ListInvoices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + invoiceColumns + `
			  FROM invoices
			  WHERE username = $1 AND is_deleted = FALSE
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return invoices, nil
}

// ListInvoicesForStatement возвращает счета клиента для формирования
// выписки. Запрос собирается динамически: фильтр по статусам и периоду
// подвижный, граница конца периода включающая до конца дня.
func (s *Storage) ListInvoicesForStatement(ctx context.Context, username, customerID string, periodStart, periodEnd time.Time) ([]*models.Invoice, error) {
	const op = "storage.ListInvoicesForStatement"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args, err := psql.Select("id", "username", "customer_id", "number", "date",
		"due_date", "status", "items", "subtotal", "tax_amount", "total", "is_deleted").
		From("invoices").
		Where(sq.Eq{"username": username, "customer_id": customerID, "is_deleted": false}).
		Where(sq.Eq{"status": []document.InvoiceStatus{document.InvoiceUnpaid, document.InvoiceOverdue}}).
		Where(sq.GtOrEq{"date": periodStart}).
		Where(sq.Lt{"date": periodEnd.Truncate(24*time.Hour).AddDate(0, 0, 1)}).
		OrderBy("date", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return invoices, nil
}

// FindUnpaidPastDue находит неоплаченные счета с прошедшим сроком оплаты.
func (s *Storage) FindUnpaidPastDue(ctx context.Context, now time.Time) ([]*models.Invoice, error) {
	const op = "storage.FindUnpaidPastDue"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + invoiceColumns + `
			  FROM invoices
			  WHERE status = $1 AND due_date < $2 AND is_deleted = FALSE
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, document.InvoiceUnpaid, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return invoices, nil
}

// SoftDeleteInvoice помечает счёт удалённым и кладёт снимок записи
// в корзину одной транзакцией.
func (s *Storage) SoftDeleteInvoice(ctx context.Context, id int, username string) (int, error) {
	const op = "storage.SoftDeleteInvoice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	invoice, err := s.ReadInvoice(ctx, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	snapshot, err := json.Marshal(invoice)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE invoices SET is_deleted = TRUE WHERE id = $1 AND username = $2`, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO recycle_bin (username, entity_type, entity_id, data) VALUES ($1, $2, $3, $4)`,
		username, models.EntityInvoice, fmt.Sprint(id), snapshot)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
