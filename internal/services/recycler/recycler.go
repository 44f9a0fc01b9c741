// Package services содержит фоновые циклы обслуживания данных: очистку
// корзины по сроку хранения, перевод просроченных документов и
// напоминания об окончании пробного периода.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/eazeeinvoice/eazee-invoice/internal/document"
	"github.com/eazeeinvoice/eazee-invoice/internal/lib/sl"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
	"github.com/eazeeinvoice/eazee-invoice/internal/rabbitmq"
	"github.com/eazeeinvoice/eazee-invoice/internal/recyclebin"
)

// RecyclerRepository определяет методы хранилища для фоновых циклов.
type RecyclerRepository interface {
	// PurgeExpiredEntries окончательно удаляет записи корзины старше cutoff.
	PurgeExpiredEntries(ctx context.Context, cutoff time.Time) (int, error)
	// FindUnpaidPastDue возвращает неоплаченные счета с прошедшим сроком оплаты.
	FindUnpaidPastDue(ctx context.Context, now time.Time) ([]*models.Invoice, error)
	// UpdateInvoiceStatus переводит счёт в новый статус.
	UpdateInvoiceStatus(ctx context.Context, id int, username string, status document.InvoiceStatus) (int, error)
	// FindSentPastValidUntil возвращает предложения с истёкшим сроком действия.
	FindSentPastValidUntil(ctx context.Context, now time.Time) ([]*models.Quote, error)
	// UpdateQuoteStatus переводит предложение в новый статус.
	UpdateQuoteStatus(ctx context.Context, id int, username string, status document.QuoteStatus) (int, error)
	// FindTrialsExpiringToday возвращает пользователей, чей пробный период кончается сегодня.
	FindTrialsExpiringToday(ctx context.Context) ([]*models.User, error)
}

// RecyclerService выполняет периодическое обслуживание данных.
type RecyclerService struct {
	repo RecyclerRepository
	log  *slog.Logger
}

// NewRecyclerService создает новый экземпляр RecyclerService.
func NewRecyclerService(repo RecyclerRepository, log *slog.Logger) *RecyclerService {
	return &RecyclerService{
		repo: repo,
		log:  log,
	}
}

// RunMaintenance запускает цикл очистки корзины и перевода просроченных
// документов. Блокирует вызывающую горутину.
func (s *RecyclerService) RunMaintenance(ctx context.Context, interval time.Duration) {
	s.runMaintenance(ctx, time.Now().UTC())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s.runMaintenance(ctx, time.Now().UTC())
	}
}

func (s *RecyclerService) runMaintenance(ctx context.Context, now time.Time) {
	s.log.Info("starting maintenance run")

	cutoff := now.Add(-recyclebin.Retention)
	purged, err := s.repo.PurgeExpiredEntries(ctx, cutoff)
	if err != nil {
		s.log.Error("failed to purge recycle bin", sl.Err(err))
	} else if purged > 0 {
		s.log.Info("purged expired recycle bin entries", "count", purged)
	}

	s.flipOverdueInvoices(ctx, now)
	s.expireQuotes(ctx, now)
}

func (s *RecyclerService) flipOverdueInvoices(ctx context.Context, now time.Time) {
	invoices, err := s.repo.FindUnpaidPastDue(ctx, now)
	if err != nil {
		s.log.Error("failed to find past due invoices", sl.Err(err))
		return
	}
	for _, inv := range invoices {
		if _, err := s.repo.UpdateInvoiceStatus(ctx, inv.ID, inv.Username, document.InvoiceOverdue); err != nil {
			s.log.Error("failed to mark invoice overdue", "id", inv.ID, sl.Err(err))
			continue
		}
		s.log.Info("invoice marked overdue", "id", inv.ID)
	}
}

func (s *RecyclerService) expireQuotes(ctx context.Context, now time.Time) {
	quotes, err := s.repo.FindSentPastValidUntil(ctx, now)
	if err != nil {
		s.log.Error("failed to find expired quotes", sl.Err(err))
		return
	}
	for _, q := range quotes {
		if _, err := s.repo.UpdateQuoteStatus(ctx, q.ID, q.Username, document.QuoteExpired); err != nil {
			s.log.Error("failed to mark quote expired", "id", q.ID, sl.Err(err))
			continue
		}
		s.log.Info("quote marked expired", "id", q.ID)
	}
}

// RunTrialReminders запускает цикл рассылки напоминаний об окончании
// пробного периода. Блокирует вызывающую горутину.
func (s *RecyclerService) RunTrialReminders(ctx context.Context, channel *amqp.Channel) {
	s.runTrialReminders(ctx, channel)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		s.runTrialReminders(ctx, channel)
	}
}

func (s *RecyclerService) runTrialReminders(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find expiring trial periods")
	users, err := s.repo.FindTrialsExpiringToday(ctx)
	if err != nil {
		s.log.Error("failed to find expiring trials", sl.Err(err))
		return
	}
	if len(users) == 0 {
		s.log.Info("no expiring trials found")
		return
	}
	s.log.Info("found expiring trials", "count", len(users))
	for _, user := range users {
		reminder := models.TrialReminder{
			Email:    user.Email,
			Username: user.Username,
		}
		if err := rabbitmq.PublishMessage(channel, rabbitmq.Exchange, rabbitmq.RoutingTrialReminder, reminder); err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}
