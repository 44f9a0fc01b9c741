package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// ListBinEntries возвращает записи корзины пользователя, свежие сверху.
func (s *Storage) ListBinEntries(ctx context.Context, username string, limit, offset int) ([]*models.RecycleBinEntry, error) {
	const op = "storage.ListBinEntries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, entity_type, entity_id, data, deleted_at
			  FROM recycle_bin
			  WHERE username = $1
			  ORDER BY deleted_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*models.RecycleBinEntry
	for rows.Next() {
		var e models.RecycleBinEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.EntityType, &e.EntityID,
			&e.Data, &e.DeletedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

// ReadBinEntry возвращает запись корзины по ID в пределах записей владельца.
func (s *Storage) ReadBinEntry(ctx context.Context, id int, username string) (*models.RecycleBinEntry, error) {
	const op = "storage.ReadBinEntry"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, entity_type, entity_id, data, deleted_at
			  FROM recycle_bin
			  WHERE id = $1 AND username = $2`
	var e models.RecycleBinEntry
	row := s.DB.QueryRowContext(ctx, query, id, username)
	if err := row.Scan(&e.ID, &e.Username, &e.EntityType, &e.EntityID,
		&e.Data, &e.DeletedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &e, nil
}

// RestoreEntity снимает флаг удаления с исходной записи корзины.
// Вызывается до RemoveBinEntry: если удаление записи корзины после
// этого не удастся, получится дубликат, а не потеря данных.
func (s *Storage) RestoreEntity(ctx context.Context, entry *models.RecycleBinEntry) error {
	const op = "storage.RestoreEntity"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	table, ok := map[models.EntityType]string{
		models.EntityCustomer: "customers",
		models.EntityProduct:  "products",
		models.EntityInvoice:  "invoices",
		models.EntityQuote:    "quotes",
	}[entry.EntityType]
	if !ok {
		return fmt.Errorf("%s: unknown entity type %q", op, entry.EntityType)
	}

	query := fmt.Sprintf(`UPDATE %s SET is_deleted = FALSE WHERE id::TEXT = $1 AND username = $2`, table)
	result, err := s.DB.ExecContext(ctx, query, entry.EntityID, entry.Username)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		// Исходной строки нет, запись пересоздаётся из снимка.
		if err := s.reinsertFromSnapshot(ctx, table, entry); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// reinsertFromSnapshot пересоздаёт исходную запись из снимка корзины.
func (s *Storage) reinsertFromSnapshot(ctx context.Context, table string, entry *models.RecycleBinEntry) error {
	switch entry.EntityType {
	case models.EntityCustomer:
		var c models.Customer
		if err := json.Unmarshal(entry.Data, &c); err != nil {
			return err
		}
		_, err := s.DB.ExecContext(ctx,
			`INSERT INTO customers (id, username, name, email, phone, address, is_deleted)
			 VALUES ($1, $2, $3, $4, $5, $6, FALSE)`,
			c.ID, c.Username, c.Name, c.Email, c.Phone, c.Address)
		return err
	case models.EntityProduct:
		var p models.Product
		if err := json.Unmarshal(entry.Data, &p); err != nil {
			return err
		}
		_, err := s.DB.ExecContext(ctx,
			`INSERT INTO products (id, username, name, description, unit_price, tax_rate_percent, is_deleted)
			 VALUES ($1, $2, $3, $4, $5, $6, FALSE)`,
			p.ID, p.Username, p.Name, p.Description, p.UnitPrice, p.TaxRatePercent)
		return err
	case models.EntityInvoice:
		var inv models.Invoice
		if err := json.Unmarshal(entry.Data, &inv); err != nil {
			return err
		}
		items, err := json.Marshal(inv.Items)
		if err != nil {
			return err
		}
		_, err = s.DB.ExecContext(ctx,
			`INSERT INTO invoices (id, username, customer_id, number, date, due_date, status,
			     items, subtotal, tax_amount, total, is_deleted)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE)`,
			inv.ID, inv.Username, inv.CustomerID, inv.Number, inv.Date, inv.DueDate,
			inv.Status, items, inv.Subtotal, inv.TaxAmount, inv.Total)
		return err
	case models.EntityQuote:
		var q models.Quote
		if err := json.Unmarshal(entry.Data, &q); err != nil {
			return err
		}
		items, err := json.Marshal(q.Items)
		if err != nil {
			return err
		}
		_, err = s.DB.ExecContext(ctx,
			`INSERT INTO quotes (id, username, customer_id, number, date, valid_until, status,
			     items, subtotal, tax_amount, total, is_deleted)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE)`,
			q.ID, q.Username, q.CustomerID, q.Number, q.Date, q.ValidUntil,
			q.Status, items, q.Subtotal, q.TaxAmount, q.Total)
		return err
	default:
		return fmt.Errorf("unknown entity type %q in table %s", entry.EntityType, table)
	}
}

// RemoveBinEntry удаляет запись корзины и возвращает количество удалённых строк.
func (s *Storage) RemoveBinEntry(ctx context.Context, id int, username string) (int, error) {
	const op = "storage.RemoveBinEntry"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM recycle_bin WHERE id = $1 AND username = $2`
	result, err := s.DB.ExecContext(ctx, query, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// PurgeExpiredEntries окончательно удаляет записи корзины старше cutoff
// вместе с исходными мягко удалёнными строками. Возвращает количество
// очищенных записей корзины.
func (s *Storage) PurgeExpiredEntries(ctx context.Context, cutoff time.Time) (int, error) {
	const op = "storage.PurgeExpiredEntries"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	// Условие is_deleted защищает восстановленные строки: если после
	// восстановления запись корзины не успела удалиться, живая строка
	// не должна попасть под очистку.
	for _, q := range []string{
		`DELETE FROM customers c USING recycle_bin b
		 WHERE b.entity_type = 'customer' AND b.entity_id = c.id::TEXT
		   AND b.deleted_at < $1 AND c.is_deleted = TRUE`,
		`DELETE FROM products p USING recycle_bin b
		 WHERE b.entity_type = 'product' AND b.entity_id = p.id::TEXT
		   AND b.deleted_at < $1 AND p.is_deleted = TRUE`,
		`DELETE FROM invoices i USING recycle_bin b
		 WHERE b.entity_type = 'invoice' AND b.entity_id = i.id::TEXT
		   AND b.deleted_at < $1 AND i.is_deleted = TRUE`,
		`DELETE FROM quotes q USING recycle_bin b
		 WHERE b.entity_type = 'quote' AND b.entity_id = q.id::TEXT
		   AND b.deleted_at < $1 AND q.is_deleted = TRUE`,
	} {
		if _, err := tx.ExecContext(ctx, q, cutoff); err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM recycle_bin WHERE deleted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
