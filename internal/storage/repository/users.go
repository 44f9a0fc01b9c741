package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (email, username, password_hash, role, trial_start_date,
			      subscription_status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role, user.TrialStartDate,
		user.SubscriptionStatus).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

const userColumns = `uid, email, username, password_hash, role, is_suspended,
			      trial_start_date, is_subscriber, is_admin_granted_subscription,
			      subscription_status, subscription_current_period_end`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var trialStart, periodEnd sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.IsSuspended, &trialStart, &u.IsSubscriber, &u.IsAdminGrantedSubscription,
		&u.SubscriptionStatus, &periodEnd); err != nil {
		return nil, err
	}
	if trialStart.Valid {
		u.TrialStartDate = &trialStart.Time
	}
	if periodEnd.Valid {
		u.SubscriptionCurrentPeriodEnd = &periodEnd.Time
	}
	return u, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// MarkSubscriber отмечает оплаченную подписку пользователя до конца periodEnd.
func (s *Storage) MarkSubscriber(ctx context.Context, userUID string, periodEnd time.Time) error {
	const op = "storage.MarkSubscriber"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_subscriber = TRUE, subscription_status = 'active',
			      subscription_current_period_end = $2
			  WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID, periodEnd); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// MarkSubscriptionCancelled отмечает отмену подписки пользователя.
func (s *Storage) MarkSubscriptionCancelled(ctx context.Context, userUID string) error {
	const op = "storage.MarkSubscriptionCancelled"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET subscription_status = 'cancelled' WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GrantSubscription выдаёт пользователю бессрочную подписку от администратора.
func (s *Storage) GrantSubscription(ctx context.Context, userUID string) error {
	const op = "storage.GrantSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_subscriber = TRUE, is_admin_granted_subscription = TRUE,
			      subscription_status = 'active'
			  WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetSuspended включает или снимает блокировку аккаунта.
func (s *Storage) SetSuspended(ctx context.Context, userUID string, suspended bool) error {
	const op = "storage.SetSuspended"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET is_suspended = $2 WHERE uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID, suspended); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindTrialsExpiringToday находит пользователей без подписки, у которых
// пробный период заканчивается сегодня.
func (s *Storage) FindTrialsExpiringToday(ctx context.Context) ([]*models.User, error) {
	const op = "storage.FindTrialsExpiringToday"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE is_subscriber = FALSE
			    AND is_suspended = FALSE
			    AND trial_start_date IS NOT NULL
			    AND (trial_start_date + INTERVAL '7 days')::DATE = CURRENT_DATE`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		var trialStart, periodEnd sql.NullTime
		if err := rows.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
			&u.IsSuspended, &trialStart, &u.IsSubscriber, &u.IsAdminGrantedSubscription,
			&u.SubscriptionStatus, &periodEnd); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if trialStart.Valid {
			u.TrialStartDate = &trialStart.Time
		}
		if periodEnd.Valid {
			u.SubscriptionCurrentPeriodEnd = &periodEnd.Time
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}
