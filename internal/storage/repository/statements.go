package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// CreateStatement сохраняет сформированную выписку и возвращает её ID.
func (s *Storage) CreateStatement(ctx context.Context, statement models.Statement) (int, error) {
	const op = "storage.CreateStatement"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	ids, err := json.Marshal(statement.InvoiceIDs)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO statements (username, customer_id, period_start, period_end,
			      invoice_ids, total_outstanding, invoice_count, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		statement.Username, statement.CustomerID, statement.PeriodStart, statement.PeriodEnd,
		ids, statement.TotalOutstanding, statement.InvoiceCount, statement.CreatedAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListStatements возвращает список выписок пользователя с пагинацией.
func (s *Storage) ListStatements(ctx context.Context, username string, limit, offset int) ([]*models.Statement, error) {
	const op = "storage.ListStatements"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, customer_id, period_start, period_end,
			      invoice_ids, total_outstanding, invoice_count, created_at
			  FROM statements
			  WHERE username = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var statements []*models.Statement
	for rows.Next() {
		var st models.Statement
		var ids []byte
		if err := rows.Scan(&st.ID, &st.Username, &st.CustomerID, &st.PeriodStart,
			&st.PeriodEnd, &ids, &st.TotalOutstanding, &st.InvoiceCount, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(ids, &st.InvoiceIDs); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		statements = append(statements, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return statements, nil
}
