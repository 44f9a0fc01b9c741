package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// CreateCustomer вставляет нового клиента и возвращает его ID.
func (s *Storage) CreateCustomer(ctx context.Context, customer models.Customer) (string, error) {
	const op = "storage.CreateCustomer"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO customers (username, name, email, phone, address)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		customer.Username, customer.Name, customer.Email, customer.Phone, customer.Address).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadCustomer возвращает клиента по ID в пределах записей владельца.
func (s *Storage) ReadCustomer(ctx context.Context, id, username string) (*models.Customer, error) {
	const op = "storage.ReadCustomer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, name, email, phone, address, is_deleted
			  FROM customers
			  WHERE id = $1 AND username = $2 AND is_deleted = FALSE`
	row := s.DB.QueryRowContext(ctx, query, id, username)

	var result models.Customer
	if err := row.Scan(&result.ID, &result.Username, &result.Name, &result.Email,
		&result.Phone, &result.Address, &result.IsDeleted); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateCustomer обновляет данные клиента и возвращает количество изменённых строк.
func (s *Storage) UpdateCustomer(ctx context.Context, customer models.Customer, id, username string) (int, error) {
	const op = "storage.UpdateCustomer"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE customers
			  SET name = $1, email = $2, phone = $3, address = $4
			  WHERE id = $5 AND username = $6 AND is_deleted = FALSE`
	result, err := s.DB.ExecContext(ctx, query,
		customer.Name, customer.Email, customer.Phone, customer.Address, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListCustomers возвращает список клиентов пользователя с пагинацией.
func (s *Storage) ListCustomers(ctx context.Context, username string, limit, offset int) ([]*models.Customer, error) {
	const op = "storage.ListCustomers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, name, email, phone, address, is_deleted
			  FROM customers
			  WHERE username = $1 AND is_deleted = FALSE
			  ORDER BY name
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var customers []*models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Username, &c.Name, &c.Email,
			&c.Phone, &c.Address, &c.IsDeleted); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		customers = append(customers, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return customers, nil
}

// SoftDeleteCustomer помечает клиента удалённым и кладёт снимок записи
// в корзину одной транзакцией. Возвращает количество затронутых строк.
func (s *Storage) SoftDeleteCustomer(ctx context.Context, id, username string) (int, error) {
	const op = "storage.SoftDeleteCustomer"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	customer, err := s.ReadCustomer(ctx, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	snapshot, err := json.Marshal(customer)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE customers SET is_deleted = TRUE WHERE id = $1 AND username = $2`, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO recycle_bin (username, entity_type, entity_id, data) VALUES ($1, $2, $3, $4)`,
		username, models.EntityCustomer, id, snapshot)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
