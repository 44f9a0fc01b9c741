package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// CreateProduct вставляет новый товар и возвращает его ID.
func (s *Storage) CreateProduct(ctx context.Context, product models.Product) (string, error) {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO products (username, name, description, unit_price, tax_rate_percent)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID string
	err := s.DB.QueryRowContext(ctx, query,
		product.Username, product.Name, product.Description,
		product.UnitPrice, product.TaxRatePercent).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadProduct возвращает товар по ID в пределах записей владельца.
func (s *Storage) ReadProduct(ctx context.Context, id, username string) (*models.Product, error) {
	const op = "storage.ReadProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, name, description, unit_price, tax_rate_percent, is_deleted
			  FROM products
			  WHERE id = $1 AND username = $2 AND is_deleted = FALSE`
	row := s.DB.QueryRowContext(ctx, query, id, username)

	var result models.Product
	if err := row.Scan(&result.ID, &result.Username, &result.Name, &result.Description,
		&result.UnitPrice, &result.TaxRatePercent, &result.IsDeleted); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateProduct обновляет данные товара и возвращает количество изменённых строк.
func (s *Storage) UpdateProduct(ctx context.Context, product models.Product, id, username string) (int, error) {
	const op = "storage.UpdateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products
			  SET name = $1, description = $2, unit_price = $3, tax_rate_percent = $4
			  WHERE id = $5 AND username = $6 AND is_deleted = FALSE`
	result, err := s.DB.ExecContext(ctx, query,
		product.Name, product.Description, product.UnitPrice, product.TaxRatePercent, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListProducts возвращает список товаров пользователя с пагинацией.
func (s *Storage) ListProducts(ctx context.Context, username string, limit, offset int) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, name, description, unit_price, tax_rate_percent, is_deleted
			  FROM products
			  WHERE username = $1 AND is_deleted = FALSE
			  ORDER BY name
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Username, &p.Name, &p.Description,
			&p.UnitPrice, &p.TaxRatePercent, &p.IsDeleted); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// SoftDeleteProduct помечает товар удалённым и кладёт снимок записи
// в корзину одной транзакцией.
func (s *Storage) SoftDeleteProduct(ctx context.Context, id, username string) (int, error) {
	const op = "storage.SoftDeleteProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	product, err := s.ReadProduct(ctx, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	snapshot, err := json.Marshal(product)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE products SET is_deleted = TRUE WHERE id = $1 AND username = $2`, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO recycle_bin (username, entity_type, entity_id, data) VALUES ($1, $2, $3, $4)`,
		username, models.EntityProduct, id, snapshot)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
